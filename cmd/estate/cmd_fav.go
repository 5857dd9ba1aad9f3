package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// favCmd is the parent command for favorites
var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorites",
	Long: `Manage favorite properties. Favorites are stored locally, separately for
each signed-in user and for guests.

Available subcommands:
  add    - Add a property to favorites
  remove - Remove a property from favorites
  toggle - Add or remove a property
  list   - Show favorite properties`,
}

var favAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add a property to favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := application.Favorites.Add(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added %d to favorites.\n", id)
		return nil
	},
}

var favRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a property from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := application.Favorites.Remove(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from favorites.\n", id)
		return nil
	},
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add or remove a property",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		added, err := application.Favorites.Toggle(id)
		if err != nil {
			return err
		}
		if added {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d to favorites.\n", id)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d from favorites.\n", id)
		}
		return nil
	},
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show favorite properties",
	Args:  cobra.NoArgs,
	RunE:  runFavList,
}

func init() {
	favCmd.AddCommand(favAddCmd)
	favCmd.AddCommand(favRemoveCmd)
	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)
}

func runFavList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	out := cmd.OutOrStdout()
	if application.Favorites.Count() == 0 {
		fmt.Fprintln(out, "No favorites yet.")
		return nil
	}

	// Удалённые и снятые с публикации объекты пропускаются
	props := application.Favorites.Properties(ctx, application.API)
	printProperties(out, props, nil)
	if missing := application.Favorites.Count() - len(props); missing > 0 {
		fmt.Fprintf(out, "\n%d favorite(s) are no longer available.\n", missing)
	}
	return nil
}
