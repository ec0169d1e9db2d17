/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/overlay"
	"github.com/spf13/cobra"
)

const siteNotice = `Sideline is in early access. Postings are not vetted yet:
never pay to apply, and report anything suspicious.`

// noticeCmd represents the notice command
var noticeCmd = &cobra.Command{
	Use:   "notice",
	Short: "Show the site notice until it is dismissed",
	RunE:  showNotice,
}

var noticeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the site notice unless it was dismissed",
	RunE:  showNotice,
}

func showNotice(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		if err := a.Overlays.Init(cmd.Context()); err != nil {
			return err
		}
		if a.Overlays.Snapshot().Blocking != overlay.SiteNotice {
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), siteNotice)
		fmt.Fprintln(cmd.OutOrStdout(), "\nRun `sideline notice dismiss` to hide this notice.")
		return nil
	})
}

var noticeDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the site notice for good",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			return a.Overlays.DismissSiteNotice(cmd.Context())
		})
	},
}

func init() {
	rootCmd.AddCommand(noticeCmd)
	noticeCmd.AddCommand(noticeShowCmd, noticeDismissCmd)
}
