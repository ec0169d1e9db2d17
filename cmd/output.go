package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sideline-app/client/internal/services"
	"github.com/sideline-app/client/types"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func ago(t types.Timestamp) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t.Time)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func printJobs(w io.Writer, jobs []types.JobPosting) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No jobs found.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tPAY\tPOSTED")
	for _, job := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			job.ID,
			job.Title,
			orDash(job.Company),
			orDash(job.Location),
			orDash(job.JobType),
			services.FormatSalary(job),
			ago(job.CreatedAt),
		)
	}
	return tw.Flush()
}

func printJob(w io.Writer, job types.JobPosting) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Title:\t%s\n", job.Title)
	fmt.Fprintf(tw, "Company:\t%s\n", orDash(job.Company))
	fmt.Fprintf(tw, "Location:\t%s\n", orDash(job.Location))
	fmt.Fprintf(tw, "Type:\t%s\n", orDash(job.JobType))
	fmt.Fprintf(tw, "Category:\t%s\n", orDash(job.Category))
	fmt.Fprintf(tw, "Pay:\t%s\n", services.FormatSalary(job))
	fmt.Fprintf(tw, "Skills:\t%s\n", orDash(strings.Join(job.Skills, ", ")))
	fmt.Fprintf(tw, "Contact:\t%s\n", orDash(job.ContactEmail))
	fmt.Fprintf(tw, "Deadline:\t%s\n", orDash(job.Deadline))
	fmt.Fprintf(tw, "Posted:\t%s\n", ago(job.CreatedAt))
	if err := tw.Flush(); err != nil {
		return err
	}
	if job.Description != "" {
		_, err := fmt.Fprintf(w, "\n%s\n", job.Description)
		return err
	}
	return nil
}

func printApplications(w io.Writer, apps []types.Application) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "You have not applied to any jobs yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tJOB\tTITLE\tCOMPANY\tSTATUS\tAPPLIED")
	for _, app := range apps {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			app.ApplicationID,
			app.JobID,
			orDash(app.Title),
			orDash(app.Company),
			app.Status,
			ago(app.AppliedAt),
		)
	}
	return tw.Flush()
}

func printApplicants(w io.Writer, apps []types.Application) error {
	if len(apps) == 0 {
		_, err := fmt.Fprintln(w, "No applicants yet.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tSTATUS\tAPPLIED\tRESUME")
	for _, app := range apps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			app.ApplicationID,
			app.ApplicantName(),
			orDash(app.Email),
			orDash(app.Phone),
			app.Status,
			ago(app.AppliedAt),
			orDash(app.ResumeURL),
		)
	}
	return tw.Flush()
}

func printProfile(w io.Writer, profile types.UserProfile) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Name:\t%s\n", orDash(profile.FullName()))
	fmt.Fprintf(tw, "Email:\t%s\n", profile.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(profile.Phone))
	fmt.Fprintf(tw, "Role:\t%s\n", orDash(profile.Role))
	verified := "no"
	if profile.IsVerified {
		verified = "yes"
	}
	fmt.Fprintf(tw, "Verified:\t%s\n", verified)
	return tw.Flush()
}

// prompt reads one line from r after printing label to w.
func prompt(r io.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
