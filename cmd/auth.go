/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/types"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string

	signupForm types.SignupRequest

	resetEmail    string
	resetOTP      string
	resetPassword string
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if loginPassword == "" {
			password, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			loginPassword = password
		}
		return withApp(cmd, func(a *app.App) error {
			sess, err := a.Auth.Login(cmd.Context(), types.Credentials{Email: loginEmail, Password: loginPassword})
			if err != nil {
				return err
			}
			a.Overlays.ShowLoginSuccess()
			fmt.Fprintf(cmd.OutOrStdout(), "Login successful! Welcome, %s.\n", displayName(sess.User, sess.Email))
			a.Overlays.DismissLoginSuccess()
			return nil
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if signupForm.Password == "" {
			password, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ")
			if err != nil {
				return err
			}
			signupForm.Password = password
		}
		return withApp(cmd, func(a *app.App) error {
			sess, loggedIn, err := a.Auth.Signup(cmd.Context(), signupForm)
			if err != nil {
				return err
			}
			if loggedIn {
				fmt.Fprintf(cmd.OutOrStdout(), "Account created. Logged in as %s.\n", sess.Email)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account created. Please log in.")
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			if err := a.Shell.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and available pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			out := cmd.OutOrStdout()
			if user, ok := a.Shell.User(); ok {
				fmt.Fprintf(out, "Logged in as %s\n", displayName(user, user.Email))
			} else {
				fmt.Fprintln(out, "Not logged in.")
			}
			tw := newTable(out)
			for _, item := range a.Shell.Menu() {
				fmt.Fprintf(tw, "  %s\t%s\n", item.Label, item.Route)
			}
			return tw.Flush()
		})
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Reset a forgotten password",
}

var passwordSendOTPCmd = &cobra.Command{
	Use:   "send-otp",
	Short: "Email a one-time password",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			if err := a.Passwords.SendOTP(cmd.Context(), resetEmail); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OTP sent to %s.\n", resetEmail)
			return nil
		})
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Set a new password using the emailed one-time password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if resetOTP == "" {
			return errors.New("--otp is required")
		}
		return withApp(cmd, func(a *app.App) error {
			if err := a.Passwords.ResetPassword(cmd.Context(), resetEmail, resetOTP, resetPassword); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password reset successful. Please log in.")
			return nil
		})
	},
}

func displayName(user types.User, fallback string) string {
	if name := user.FullName(); name != "" {
		return name
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd, passwordCmd)
	passwordCmd.AddCommand(passwordSendOTPCmd, passwordResetCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when empty)")
	_ = loginCmd.MarkFlagRequired("email")

	signupCmd.Flags().StringVar(&signupForm.FirstName, "first-name", "", "first name")
	signupCmd.Flags().StringVar(&signupForm.LastName, "last-name", "", "last name")
	signupCmd.Flags().StringVar(&signupForm.Email, "email", "", "email address")
	signupCmd.Flags().StringVar(&signupForm.Phone, "phone", "", "phone number")
	signupCmd.Flags().StringVar(&signupForm.Password, "password", "", "password (prompted when empty)")

	passwordCmd.PersistentFlags().StringVar(&resetEmail, "email", "", "account email")
	passwordResetCmd.Flags().StringVar(&resetOTP, "otp", "", "one-time password from the email")
	passwordResetCmd.Flags().StringVar(&resetPassword, "new-password", "", "new password")
}
