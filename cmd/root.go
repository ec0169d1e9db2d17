/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sideline-app/client/config"
	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/services"
	"github.com/sideline-app/client/internal/shell"
	"github.com/spf13/cobra"
)

var (
	apiURL    string
	statePath string
	verbose   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sideline",
	Short: "Command line client for the Sideline job marketplace",
	Long: `Browse jobs, apply, and manage your postings on the Sideline
job marketplace. Usage:

	sideline login --email you@example.com
	sideline jobs search "cebu city"
	sideline apply 42 --cover-letter "Hi!"
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(config.LoadConfig().LogLevel)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", userMessage(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "marketplace API base URL (overrides SIDELINE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", "", "state database path (overrides STATE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// loadConfig reads the environment and applies the global flags.
func loadConfig() config.Config {
	cfg := config.LoadConfig()
	if apiURL != "" {
		cfg.APIBaseURL = strings.TrimRight(apiURL, "/")
	}
	if statePath != "" {
		cfg.State.Path = statePath
	}
	return cfg
}

// newApp builds the client for one command run. The caller closes it.
func newApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), loadConfig())
}

// withApp runs fn against a freshly built client.
func withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	return withView(cmd, func(a *app.App, _ *shell.View) error {
		return fn(a)
	})
}

// withView runs fn inside a screen scope. cmd.Context() is the view's
// context while fn runs, so requests still in flight are cancelled when
// the command returns.
func withView(cmd *cobra.Command, fn func(a *app.App, v *shell.View) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close client", "error", err)
		}
	}()

	parent := cmd.Context()
	view := a.OpenView(parent)
	defer view.Close()
	cmd.SetContext(view.Context())
	defer cmd.SetContext(parent)
	return fn(a, view)
}

// userMessage returns the text shown for err. Service errors already
// carry a user-facing message.
func userMessage(err error) string {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return err.Error()
}
