package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Browse ingested resumes",
	Long:  `List, view, or print ingested resumes.`,
}

var resumeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List resumes, newest first",
	Args:  cobra.NoArgs,
	RunE:  runResumeList,
}

var resumeGetCmd = &cobra.Command{
	Use:   "get [resume-id]",
	Short: "Show resume details",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeGet,
}

var resumeContentCmd = &cobra.Command{
	Use:   "content [resume-id]",
	Short: "Print resume text",
	Args:  cobra.ExactArgs(1),
	RunE:  runResumeContent,
}

var (
	resumeQuery      string
	resumeOwner      string
	resumeVisibility string
	resumeLimit      int
	resumeOffset     int
	resumeRole       string
	resumeJSON       bool
)

func init() {
	resumeListCmd.Flags().StringVarP(&resumeQuery, "query", "q", "", "filter by name, filename or text")
	resumeListCmd.Flags().StringVar(&resumeOwner, "owner", "", "only resumes uploaded by this owner")
	resumeListCmd.Flags().StringVar(&resumeVisibility, "visibility", "", "only public or private resumes")
	resumeListCmd.Flags().IntVarP(&resumeLimit, "limit", "n", 20, "page size, at most 100")
	resumeListCmd.Flags().IntVar(&resumeOffset, "offset", 0, "number of resumes to skip")

	resumeCmd.PersistentFlags().StringVar(&resumeRole, "role", "user", "caller role: user, recruiter or admin")
	resumeCmd.PersistentFlags().BoolVar(&resumeJSON, "json", false, "output as JSON")

	resumeCmd.AddCommand(resumeListCmd)
	resumeCmd.AddCommand(resumeGetCmd)
	resumeCmd.AddCommand(resumeContentCmd)
	rootCmd.AddCommand(resumeCmd)
}

func runResumeList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("resume")
	}

	role, err := domain.ParseRole(resumeRole)
	if err != nil {
		return err
	}

	list, err := documentService.List(commandContext(cmd), driving.ListOptions{
		Query:      resumeQuery,
		OwnerID:    resumeOwner,
		Visibility: domain.Visibility(strings.ToLower(strings.TrimSpace(resumeVisibility))),
		Limit:      resumeLimit,
		Offset:     resumeOffset,
		Role:       role,
	})
	if err != nil {
		return fmt.Errorf("failed to list resumes: %w", err)
	}

	if resumeJSON {
		return printJSON(cmd, list)
	}

	if len(list.Items) == 0 {
		cmd.Println("No resumes found.")
		return nil
	}

	for _, item := range list.Items {
		title := item.Name
		if title == "" {
			title = item.Filename
		}
		cmd.Printf("  %s  %s\n", item.ID, styles.Title.Render(title))
		cmd.Printf("    %s\n", styles.Muted.Render(item.Filename+", uploaded "+item.UploadedAt.Format("2006-01-02 15:04:05")))
		if item.Snippet != "" {
			cmd.Printf("    %s\n", oneLine(item.Snippet, 100))
		}
		cmd.Println()
	}

	cmd.Printf("Showing %d resumes", len(list.Items))
	if list.NextOffset != nil {
		cmd.Printf(" (more with --offset %d)", *list.NextOffset)
	}
	cmd.Println()
	return nil
}

func runResumeGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("resume")
	}

	role, err := domain.ParseRole(resumeRole)
	if err != nil {
		return err
	}

	details, err := documentService.Get(commandContext(cmd), args[0], role)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("resume %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get resume: %w", err)
	}

	if resumeJSON {
		return printJSON(cmd, details)
	}

	cmd.Printf("Resume: %s\n\n", details.ID)
	cmd.Printf("  File:     %s\n", details.Filename)
	cmd.Printf("  Status:   %s\n", details.Status)
	cmd.Printf("  Uploaded: %s\n", details.UploadedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Pages:    %d\n", details.Metadata.TotalPages)
	cmd.Printf("  Chunks:   %d\n", details.ChunkCount)
	if details.Metadata.Name != "" {
		cmd.Printf("  Name:     %s\n", details.Metadata.Name)
	}
	if details.Metadata.Email != "" {
		cmd.Printf("  Email:    %s\n", details.Metadata.Email)
	}
	if details.Metadata.Phone != "" {
		cmd.Printf("  Phone:    %s\n", details.Metadata.Phone)
	}
	return nil
}

func runResumeContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("resume")
	}

	content, err := documentService.GetContent(commandContext(cmd), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("resume %s not found", args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to get resume content: %w", err)
	}

	cmd.Println(content)
	return nil
}
