package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rajivgeraev/estatepro/internal/api"
	"github.com/rajivgeraev/estatepro/internal/models"
)

// profileCmd is the parent command for profile management
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update name, email, phone or password",
	Args:  cobra.NoArgs,
	RunE:  runProfileUpdate,
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "New display name")
	profileUpdateCmd.Flags().String("email", "", "New email")
	profileUpdateCmd.Flags().String("phone", "", "New phone")
	profileUpdateCmd.Flags().String("password", "", "New password")

	profileCmd.AddCommand(profileUpdateCmd)
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	if err := application.RequireAuth(); err != nil {
		return err
	}

	in, err := userUpdateFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	if _, err := application.API.UpdateMe(ctx, in); err != nil {
		return fmt.Errorf("failed to update profile: %s", api.Message(err))
	}
	sess, err := application.Session.RefreshProfile(ctx)
	if err != nil {
		return fmt.Errorf("profile updated, but reloading it failed: %s", api.Message(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated: %s <%s>\n", sess.User.Name, sess.User.Email)
	return nil
}

// userUpdateFromFlags собирает частичное обновление из флагов --name, --email, --phone, --password
func userUpdateFromFlags(cmd *cobra.Command) (models.UserUpdate, error) {
	var in models.UserUpdate
	set := 0
	for name, dst := range map[string]**string{
		"name":     &in.Name,
		"email":    &in.Email,
		"phone":    &in.Phone,
		"password": &in.Password,
	} {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			*dst = &v
			set++
		}
	}
	if set == 0 {
		return in, fmt.Errorf("nothing to update: pass at least one of --name, --email, --phone, --password")
	}
	return in, nil
}
