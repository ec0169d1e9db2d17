/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/services"
	"github.com/sideline-app/client/types"
	"github.com/spf13/cobra"
)

var (
	applyOpts   services.ApplyOptions
	applySkills string
	applyResume string

	applicationsUser int64
)

// applyCmd represents the apply command
var applyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply for a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "job id")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			job, err := a.Jobs.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			opts := applyOpts
			opts.Skills = types.ParseSkills(applySkills)
			if applyResume != "" {
				f, err := os.Open(applyResume)
				if err != nil {
					return fmt.Errorf("open resume: %w", err)
				}
				defer f.Close()
				info, err := f.Stat()
				if err != nil {
					return fmt.Errorf("stat resume: %w", err)
				}
				opts.Resume = &services.Resume{Name: filepath.Base(applyResume), Body: f, Size: info.Size()}
			}

			result, err := a.Applications.Apply(cmd.Context(), job, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application submitted for %q.\n", result.Job.Title)
			return nil
		})
	},
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "List the jobs you applied to",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			apps, err := a.Applications.ListApplications(cmd.Context(), applicationsUser)
			if err != nil {
				return err
			}
			return printApplications(cmd.OutOrStdout(), apps)
		})
	},
}

var applicantsCmd = &cobra.Command{
	Use:   "applicants",
	Short: "Review applicants to your jobs",
}

var applicantsListCmd = &cobra.Command{
	Use:   "list <job-id>",
	Short: "List the applicants of a job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "job id")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			a.Overlays.OpenApplicants(id)
			defer a.Overlays.CloseApplicants()
			list, err := a.Applications.ListApplicants(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printApplicants(cmd.OutOrStdout(), list.Applicants())
		})
	},
}

var applicantsStatusCmd = &cobra.Command{
	Use:   "status <application-id> <pending|reviewed|accepted|rejected>",
	Short: "Change an applicant's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "application id")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			status, err := a.Applications.UpdateStatus(cmd.Context(), nil, id, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Application %d is now %s.\n", id, status)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(applyCmd, applicationsCmd, applicantsCmd)
	applicantsCmd.AddCommand(applicantsListCmd, applicantsStatusCmd)

	applyCmd.Flags().StringVar(&applyOpts.CoverLetter, "cover-letter", "", "cover letter text")
	applyCmd.Flags().StringVar(&applyOpts.Experience, "experience", "", "relevant experience")
	applyCmd.Flags().StringVar(&applyOpts.Location, "location", "", "your location")
	applyCmd.Flags().StringVar(&applySkills, "skills", "", "comma separated skills")
	applyCmd.Flags().StringVar(&applyResume, "resume", "", "resume file (.pdf, .doc or .docx)")

	applicationsCmd.Flags().Int64Var(&applicationsUser, "user", 0, "user id (defaults to you)")
}
