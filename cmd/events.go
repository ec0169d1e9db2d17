/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/mq"
	"github.com/sideline-app/client/internal/shell"
	"github.com/spf13/cobra"
)

// eventsCmd represents the events command
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect client activity events",
}

var eventsTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Print activity events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withView(cmd, func(a *app.App, v *shell.View) error {
			if a.Events == nil {
				return errors.New("no message queue configured (set MQ_BACKEND)")
			}
			tw := newTable(cmd.OutOrStdout())
			err := a.Events.Tail(v.Context(), func(ev mq.Event) error {
				var err error
				// Deliveries racing the interrupt are dropped.
				v.Apply(func() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ev.OccurredAt.Format("15:04:05"), ev.Kind, ev.Namespace, ev.Data)
					err = tw.Flush()
				})
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsTailCmd)
}
