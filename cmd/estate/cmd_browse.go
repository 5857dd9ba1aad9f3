package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/listing"
	"github.com/rajivgeraev/estatepro/internal/models"
)

var (
	browseCity   string
	browseSort   string
	browsePage   int
	browseSearch string
)

// browseCmd lists published properties
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List published properties",
	Long: `List published properties, newest first unless a price sort is given.

--city matches the city exactly. --search narrows the fetched page by title
or city substring without another request.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

// citiesCmd lists cities with published properties
var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List cities that have published properties",
	Args:  cobra.NoArgs,
	RunE:  runCities,
}

// showCmd prints one property
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show property details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	browseCmd.Flags().StringVar(&browseCity, "city", "", "Exact city to filter by")
	browseCmd.Flags().StringVar(&browseSort, "sort", "", "Sort order: price_asc or price_desc")
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "Page number, starting at 1")
	browseCmd.Flags().StringVar(&browseSearch, "search", "", "Filter the page by title or city")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	sort, err := models.ParseSort(browseSort)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	key := listing.PublicKey{City: browseCity, Sort: sort, Page: browsePage}
	page, err := application.Listings.Query(ctx, key)
	if err != nil {
		if errors.Is(err, listing.ErrInvalidPage) {
			return err
		}
		return fmt.Errorf("%s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	printProperties(out, listing.FilterLocal(page.Items, browseSearch), application.Favorites.IsFavorite)
	if page.HasMore {
		fmt.Fprintf(out, "\nPage %d. More results: --page %d\n", browsePage, browsePage+1)
	} else {
		fmt.Fprintf(out, "\nPage %d (last).\n", browsePage)
	}
	return nil
}

func runCities(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	cities, err := listing.ListDistinctCities(ctx, application.API)
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	for _, city := range cities {
		fmt.Fprintln(cmd.OutOrStdout(), city)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := application.API.GetProperty(ctx, id)
	if errors.Is(err, api.ErrNotFound) {
		return fmt.Errorf("property %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to load property details: %s", api.Message(err))
	}
	printProperty(cmd.OutOrStdout(), p, application.Favorites.IsFavorite(p.ID), application.Media)
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
