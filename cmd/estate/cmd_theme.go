package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/preferences"
)

// themeCmd shows or changes the color theme
var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the color theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	themes := application.Themes
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		fmt.Fprintln(out, themes.Get())
		return nil
	}

	if args[0] == "toggle" {
		next, err := themes.Toggle()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, next)
		return nil
	}

	theme, err := preferences.ParseTheme(args[0])
	if err != nil {
		return err
	}
	if err := themes.Set(theme); err != nil {
		return err
	}
	fmt.Fprintln(out, theme)
	return nil
}
