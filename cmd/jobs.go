/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sideline-app/client/internal/app"
	"github.com/sideline-app/client/internal/services"
	"github.com/sideline-app/client/internal/shell"
	"github.com/sideline-app/client/types"
	"github.com/spf13/cobra"
)

var (
	browseFilter services.JobFilter

	postDraft     types.JobDraft
	postSkills    string
	postQuestions []string
	postMinBudget float64
	postMaxBudget float64

	deleteConfirmed bool
)

// jobsCmd represents the jobs command
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse, post and manage jobs",
}

var jobsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search jobs by keyword",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		return withApp(cmd, func(a *app.App) error {
			a.Shell.SetSearch(query)
			if a.Shell.SubmitSearch() {
				if entry, ok := a.History.Current(); ok {
					if match, ok := shell.Resolve(entry.Route); ok {
						query = match.Query.Get("search")
					}
				}
			}
			return printJobs(cmd.OutOrStdout(), a.Jobs.Search(cmd.Context(), query))
		})
	},
}

var jobsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"browse"},
	Short:   "List jobs, optionally filtered by location and category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			jobs, err := a.Jobs.Browse(cmd.Context(), browseFilter)
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), jobs)
		})
	},
}

var jobsShowCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show one job",
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
			return printJob(cmd.OutOrStdout(), job)
		})
	},
}

var jobsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "List the jobs you posted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app.App) error {
			list, err := a.Jobs.ListMine(cmd.Context())
			if err != nil {
				return err
			}
			return printJobs(cmd.OutOrStdout(), list.Jobs())
		})
	},
}

var jobsPostCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a new job",
	RunE: func(cmd *cobra.Command, args []string) error {
		draft := postDraft
		draft.Skills = types.ParseSkills(postSkills)
		draft.ScreeningQuestions = postQuestions
		if cmd.Flags().Changed("min-budget") {
			draft.MinBudget = &postMinBudget
		}
		if cmd.Flags().Changed("max-budget") {
			draft.MaxBudget = &postMaxBudget
		}
		return withApp(cmd, func(a *app.App) error {
			job, err := a.Jobs.Post(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job posted successfully! (id %d)\n", job.ID)
			return nil
		})
	},
}

var jobsDeleteCmd = &cobra.Command{
	Use:   "delete <job-id>",
	Short: "Delete one of your jobs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "job id")
		if err != nil {
			return err
		}
		return withApp(cmd, func(a *app.App) error {
			a.Overlays.RequestDelete(id)
			if !deleteConfirmed {
				answer, err := prompt(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete job %d? [y/N] ", id))
				if err != nil || !strings.EqualFold(strings.TrimSpace(answer), "y") {
					a.Overlays.CancelDelete()
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}
			err := a.Overlays.ConfirmDelete(cmd.Context(), func(ctx context.Context, jobID int64) error {
				return a.Jobs.Delete(ctx, nil, jobID)
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Job deleted successfully!")
			a.Overlays.DismissDeletedAlert()
			return nil
		})
	},
}

func parseID(raw, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", what, raw)
	}
	return id, nil
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsSearchCmd, jobsListCmd, jobsShowCmd, jobsMineCmd, jobsPostCmd, jobsDeleteCmd)

	jobsListCmd.Flags().StringVar(&browseFilter.Location, "location", "", "only jobs in this location")
	jobsListCmd.Flags().StringVar(&browseFilter.Category, "category", "", `only jobs in this category ("All" for every category)`)

	f := jobsPostCmd.Flags()
	f.StringVar(&postDraft.Title, "title", "", "job title")
	f.StringVar(&postDraft.Description, "description", "", "job description")
	f.StringVar(&postDraft.Category, "category", "", "job category")
	f.StringVar(&postSkills, "skills", "", "comma separated skills")
	f.StringVar(&postDraft.JobType, "type", "", "work arrangement (remote, onsite, hybrid)")
	f.StringVar(&postDraft.Location, "location", "", "job location")
	f.StringVar(&postDraft.Duration, "duration", "", "expected duration")
	f.StringVar(&postDraft.StartDate, "start-date", "", "start date")
	f.StringVar(&postDraft.PaymentType, "payment-type", "", "payment type (hourly, fixed)")
	f.Float64Var(&postMinBudget, "min-budget", 0, "minimum budget")
	f.Float64Var(&postMaxBudget, "max-budget", 0, "maximum budget")
	f.StringVar(&postDraft.Currency, "currency", "PHP", "budget currency")
	f.StringVar(&postDraft.ContactEmail, "contact-email", "", "contact email (defaults to your account email)")
	f.StringVar(&postDraft.Deadline, "deadline", "", "application deadline")
	f.StringArrayVar(&postQuestions, "question", nil, "screening question (repeatable)")
	f.BoolVar(&postDraft.TermsAccepted, "accept-terms", false, "accept the Terms of Service")

	jobsDeleteCmd.Flags().BoolVarP(&deleteConfirmed, "yes", "y", false, "skip the confirmation prompt")
}
