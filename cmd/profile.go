/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/overlay"
	"github.com/sideline-app/client/internal/services"
	"github.com/spf13/cobra"
)

var (
	profilePatch services.ProfilePatch
	verifyChoice string
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or edit your profile",
	RunE:  showProfile,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile and verification status",
	RunE:  showProfile,
}

func showProfile(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		profile, err := a.Profiles.Load(cmd.Context())
		if err != nil {
			return err
		}
		return printProfile(cmd.OutOrStdout(), profile)
	})
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your name and phone number",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			profile, err := a.Profiles.Load(cmd.Context())
			if err != nil {
				return err
			}
			patch := services.ProfilePatch{
				FirstName: profile.FirstName,
				LastName:  profile.LastName,
				Phone:     profile.Phone,
			}
			if cmd.Flags().Changed("first-name") {
				patch.FirstName = profilePatch.FirstName
			}
			if cmd.Flags().Changed("last-name") {
				patch.LastName = profilePatch.LastName
			}
			if cmd.Flags().Changed("phone") {
				patch.Phone = profilePatch.Phone
			}

			saved, err := a.Profiles.Save(cmd.Context(), profile, patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully!")
			return printProfile(cmd.OutOrStdout(), saved)
		})
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm that you sent the account verification email",
	Long: `Confirm that you sent the account verification email.

	sideline verify --sent yes
	sideline verify --sent no
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			out := cmd.OutOrStdout()
			a.Overlays.OpenVerify(func() {
				fmt.Fprintln(out, "Thanks! Your account will be verified shortly.")
			})
			if err := a.Overlays.SubmitVerification(cmd.Context(), overlay.Choice(verifyChoice)); err != nil {
				a.Overlays.CloseVerify()
				return err
			}
			if overlay.Choice(verifyChoice) == overlay.ChoiceNo {
				fmt.Fprintln(out, "Noted. Send the verification email and run this again.")
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd, verifyCmd)
	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profilePatch.FirstName, "first-name", "", "first name")
	profileUpdateCmd.Flags().StringVar(&profilePatch.LastName, "last-name", "", "last name")
	profileUpdateCmd.Flags().StringVar(&profilePatch.Phone, "phone", "", "phone number")

	verifyCmd.Flags().StringVar(&verifyChoice, "sent", "", `whether you sent the email ("yes" or "no")`)
}
