package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/listing"
	"github.com/rajivgeraev/estatepro/internal/models"
)

var (
	mineStatus string
	mineSort   string
	minePage   int
)

// mineCmd lists the signed-in agent's properties
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List your properties (agents and admins)",
	Args:  cobra.NoArgs,
	RunE:  runMine,
}

var mineCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a property (saved as draft unless --publish)",
	Args:  cobra.ExactArgs(1),
	RunE:  runMineCreate,
}

var minePublishCmd = &cobra.Command{
	Use:   "publish <id>",
	Short: "Publish a draft property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusPublished)
	},
}

var mineUnpublishCmd = &cobra.Command{
	Use:   "unpublish <id>",
	Short: "Move a property back to draft",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusDraft)
	},
}

var mineDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a property",
	Args:  cobra.ExactArgs(1),
	RunE:  runMineDelete,
}

func init() {
	mineCmd.Flags().StringVar(&mineStatus, "status", "", "Filter by status: draft or published")
	mineCmd.Flags().StringVar(&mineSort, "sort", "", "Sort: price (highest first) or empty for newest")
	mineCmd.Flags().IntVar(&minePage, "page", 1, "Page number, starting at 1")

	mineCreateCmd.Flags().Float64("price", 0, "Price in dollars")
	mineCreateCmd.Flags().Float64("surface", 0, "Surface in m² (required)")
	mineCreateCmd.Flags().String("city", "", "City (required)")
	mineCreateCmd.Flags().String("type", string(models.PropertyHouse), "Type: house, apartment, condo, land or commercial")
	mineCreateCmd.Flags().String("address", "", "Street address")
	mineCreateCmd.Flags().String("description", "", "Description")
	mineCreateCmd.Flags().Int("bedrooms", 0, "Number of bedrooms")
	mineCreateCmd.Flags().Int("bathrooms", 0, "Number of bathrooms")
	mineCreateCmd.Flags().Bool("publish", false, "Publish immediately")
	_ = mineCreateCmd.MarkFlagRequired("surface")
	_ = mineCreateCmd.MarkFlagRequired("city")

	mineCmd.AddCommand(mineCreateCmd)
	mineCmd.AddCommand(minePublishCmd)
	mineCmd.AddCommand(mineUnpublishCmd)
	mineCmd.AddCommand(mineDeleteCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := application.RequireAuth(); err != nil {
		return err
	}

	status := models.PropertyStatus(mineStatus)
	if status != "" && status != models.StatusDraft && status != models.StatusPublished {
		return fmt.Errorf("unknown status %q", mineStatus)
	}
	if mineSort != "" && mineSort != "price" {
		return fmt.Errorf("unknown sort %q (expected price)", mineSort)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	page, err := application.Mine.Query(ctx, listing.MineKey{
		Status:      status,
		SortByPrice: mineSort == "price",
		Page:        minePage,
	})
	if err != nil {
		if errors.Is(err, listing.ErrInvalidPage) {
			return err
		}
		return fmt.Errorf("%s", api.Message(err))
	}

	out := cmd.OutOrStdout()
	printProperties(out, page.Items, nil)
	if page.HasMore {
		fmt.Fprintf(out, "\nPage %d. More results: --page %d\n", minePage, minePage+1)
	}
	return nil
}

func setStatus(cmd *cobra.Command, arg string, status models.PropertyStatus) error {
	if err := application.RequireAuth(); err != nil {
		return err
	}
	id, err := parseID(arg)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := application.API.UpdateProperty(ctx, id, models.PropertyUpdate{Status: &status})
	if err != nil {
		return fmt.Errorf("failed to update property: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Property %d is now %s.\n", p.ID, p.Status)
	return nil
}

func runMineDelete(cmd *cobra.Command, args []string) error {
	if err := application.RequireAuth(); err != nil {
		return err
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := application.API.DeleteProperty(ctx, id); err != nil {
		return fmt.Errorf("failed to delete property: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Property %d deleted.\n", id)
	return nil
}

func runMineCreate(cmd *cobra.Command, args []string) error {
	if err := application.RequireAuth(); err != nil {
		return err
	}

	in, err := propertyFromFlags(cmd, args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	p, err := application.API.CreateProperty(ctx, in)
	if err != nil {
		return fmt.Errorf("failed to create property: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Property %d created (%s).\n", p.ID, p.Status)
	return nil
}

// propertyFromFlags собирает новый объект из флагов команды create
func propertyFromFlags(cmd *cobra.Command, title string) (models.PropertyCreate, error) {
	flags := cmd.Flags()
	price, _ := flags.GetFloat64("price")
	surface, _ := flags.GetFloat64("surface")
	city, _ := flags.GetString("city")
	kind, _ := flags.GetString("type")
	publish, _ := flags.GetBool("publish")

	in := models.PropertyCreate{
		Title:        title,
		Price:        price,
		Surface:      surface,
		City:         city,
		PropertyType: models.PropertyType(kind),
		Status:       models.StatusDraft,
	}
	if !in.PropertyType.Valid() {
		return in, fmt.Errorf("unknown property type %q", kind)
	}
	if publish {
		in.Status = models.StatusPublished
	}
	if flags.Changed("address") {
		v, _ := flags.GetString("address")
		in.Address = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		in.Description = &v
	}
	if flags.Changed("bedrooms") {
		v, _ := flags.GetInt("bedrooms")
		in.Bedrooms = &v
	}
	if flags.Changed("bathrooms") {
		v, _ := flags.GetInt("bathrooms")
		in.Bathrooms = &v
	}
	return in, nil
}
