package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/session"
)

var loginPassword string

// loginCmd signs in an agent or admin
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Sign in as an agent or admin",
	Long: `Sign in with email and password. The password is taken from --password
or the ESTATE_PASSWORD environment variable.

After five failed attempts within a minute the API refuses further attempts
for that email until the window passes.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

// logoutCmd forgets the stored session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application.Session.Logout()
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}

// whoamiCmd prints the current identity
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (or set ESTATE_PASSWORD env)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		password = os.Getenv("ESTATE_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("password is required: pass --password or set ESTATE_PASSWORD")
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	sess, err := application.Session.Login(ctx, session.Credential{Email: args[0], Password: password})
	if err != nil {
		return fmt.Errorf("%s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s).\n", sess.User.Name, sess.User.Role)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	sess := application.Session.Current()
	out := cmd.OutOrStdout()
	if !sess.IsAuthenticated() {
		fmt.Fprintln(out, "Browsing as guest.")
		return nil
	}
	fmt.Fprintf(out, "%s <%s>\nRole: %s\n", sess.User.Name, sess.User.Email, sess.User.Role)
	if sess.User.Phone != nil {
		fmt.Fprintf(out, "Phone: %s\n", *sess.User.Phone)
	}
	return nil
}
