package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job postings",
	Long:  `Create job postings and rank resumes against their requirements.`,
}

var jobCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a job posting",
	Long: `Creates a job and extracts its requirements from the description.

Requirements are the comma, semicolon, newline or "and" separated phrases of
the description, plus well-known technology keywords it mentions.`,
	Args: cobra.NoArgs,
	RunE: runJobCreate,
}

var jobGetCmd = &cobra.Command{
	Use:   "get [job-id]",
	Short: "Show a job posting",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobGet,
}

var jobMatchCmd = &cobra.Command{
	Use:   "match [job-id]",
	Short: "Rank resumes against a job",
	Long: `Scores every resume by the fraction of job requirements it contains and
shows up to three evidence excerpts per resume. Resumes matching nothing
are left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobMatch,
}

var (
	jobTitle          string
	jobDescription    string
	jobIdempotencyKey string
	jobJSON           bool
	jobTopN           int
	jobRole           string
)

func init() {
	jobCreateCmd.Flags().StringVar(&jobTitle, "title", "", "job title")
	jobCreateCmd.Flags().StringVar(&jobDescription, "description", "", "job description")
	jobCreateCmd.Flags().StringVar(&jobIdempotencyKey, "idempotency-key", "", "retry token")
	_ = jobCreateCmd.MarkFlagRequired("title")
	_ = jobCreateCmd.MarkFlagRequired("description")

	jobMatchCmd.Flags().IntVarP(&jobTopN, "top", "n", 0, "maximum number of resumes, 1 to 100 (default from config)")
	jobMatchCmd.Flags().StringVar(&jobRole, "role", "user", "caller role: user, recruiter or admin")

	jobCmd.PersistentFlags().BoolVar(&jobJSON, "json", false, "output as JSON")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobGetCmd)
	jobCmd.AddCommand(jobMatchCmd)
	rootCmd.AddCommand(jobCmd)
}

func runJobCreate(cmd *cobra.Command, _ []string) error {
	if jobService == nil {
		return errNotConfigured("job")
	}

	job, err := jobService.Create(commandContext(cmd), driving.CreateJobRequest{
		Title:          jobTitle,
		Description:    jobDescription,
		IdempotencyKey: jobIdempotencyKey,
	})
	if errors.Is(err, domain.ErrConflictingKey) {
		return fmt.Errorf("idempotency key %q was already used for a different job", jobIdempotencyKey)
	}
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	if jobJSON {
		return printJSON(cmd, job)
	}
	cmd.Printf("Job created: %s\n", job.ID)
	outputJob(cmd, job)
	return nil
}

func runJobGet(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errNotConfigured("job")
	}

	job, err := jobService.Get(commandContext(cmd), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("job %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if jobJSON {
		return printJSON(cmd, job)
	}
	cmd.Printf("Job: %s\n", job.ID)
	outputJob(cmd, job)
	return nil
}

func outputJob(cmd *cobra.Command, job *domain.Job) {
	cmd.Println()
	cmd.Printf("  Title:    %s\n", job.Title)
	cmd.Printf("  Created:  %s\n", job.CreatedAt.Format("2006-01-02 15:04:05"))
	if len(job.Requirements) == 0 {
		cmd.Println("  Requirements: (none extracted)")
		return
	}
	cmd.Println("  Requirements:")
	for _, r := range job.Requirements {
		cmd.Printf("    - %s\n", r)
	}
}

func runJobMatch(cmd *cobra.Command, args []string) error {
	if jobService == nil {
		return errNotConfigured("job")
	}

	role, err := domain.ParseRole(jobRole)
	if err != nil {
		return err
	}

	resp, err := jobService.Match(commandContext(cmd), driving.MatchRequest{JobID: args[0], TopN: jobTopN, Role: role})
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("job %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to match job: %w", err)
	}

	if jobJSON {
		return printJSON(cmd, resp)
	}

	if len(resp.Matches) == 0 {
		cmd.Println("No resumes match this job.")
		return nil
	}

	cmd.Printf("Matches for job %s (%s)\n\n", resp.JobID, strings.Join(resp.Requirements, ", "))
	for i, m := range resp.Matches {
		cmd.Printf("  [%d] %s %s\n", i+1, styles.Title.Render(m.Filename), styles.Score.Render(fmt.Sprintf("(%.0f%%)", m.Score*100)))
		cmd.Printf("      %s\n", styles.Muted.Render("ID: "+m.DocumentID))
		for _, ev := range m.Evidence {
			cmd.Println(styles.Quote.Render(fmt.Sprintf("p.%d l.%d [%s]: %s", ev.Page, ev.LineNumber, ev.MatchedKeyword, oneLine(ev.Text, 160))))
		}
		if len(m.MissingRequirements) > 0 {
			cmd.Printf("      %s\n", styles.Warning.Render("Missing: "+strings.Join(m.MissingRequirements, ", ")))
		}
		cmd.Println()
	}
	return nil
}
