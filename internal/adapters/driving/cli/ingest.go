package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

var (
	ingestOwner          string
	ingestVisibility     string
	ingestIdempotencyKey string
	ingestJSON           bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>...",
	Short: "Ingest resume files",
	Long: `Parses, chunks and embeds resume files so they can be searched and matched.

Supported formats: .pdf (requires pdftotext), .docx, .txt, .md, .html, and .zip archives
containing one of those. Re-ingesting identical bytes returns the existing
resume without parsing it again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOwner, "owner", "", "uploader ID")
	ingestCmd.Flags().StringVar(&ingestVisibility, "visibility", string(domain.VisibilityPublic), "public or private")
	ingestCmd.Flags().StringVar(&ingestIdempotencyKey, "idempotency-key", "", "retry token (single file only)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

// ingestRow is the JSON form of one ingested file.
type ingestRow struct {
	File         string `json:"file"`
	ResumeID     string `json:"resume_id,omitempty"`
	Status       string `json:"status,omitempty"`
	Chunks       int    `json:"chunks"`
	Deduplicated bool   `json:"deduplicated"`
	Error        string `json:"error,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errNotConfigured("ingest")
	}
	if ingestIdempotencyKey != "" && len(args) > 1 {
		return fmt.Errorf("%w: --idempotency-key applies to a single file", domain.ErrInvalidInput)
	}

	rows := make([]ingestRow, 0, len(args))
	failed := 0

	for _, path := range args {
		row := ingestRow{File: path}
		res, err := ingestFile(cmd, path)
		if err != nil {
			failed++
			row.Error = err.Error()
		} else {
			row.ResumeID = res.Document.ID
			row.Status = string(res.Document.Status)
			row.Chunks = res.ChunkCount
			row.Deduplicated = res.Deduplicated
		}
		rows = append(rows, row)

		if ingestJSON {
			continue
		}
		switch {
		case err != nil:
			cmd.Printf("%s %s: %v\n", styles.Warning.Render("✗"), path, err)
		case res.Deduplicated:
			cmd.Printf("%s %s already ingested as %s (%d chunks)\n",
				styles.Muted.Render("="), path, res.Document.ID, res.ChunkCount)
		default:
			cmd.Printf("%s %s ingested as %s (%d chunks)\n",
				styles.Success.Render("✓"), path, res.Document.ID, res.ChunkCount)
		}
	}

	if ingestJSON {
		if err := printJSON(cmd, rows); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func ingestFile(cmd *cobra.Command, path string) (*driving.IngestResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return ingestService.Ingest(commandContext(cmd), driving.IngestRequest{
		Filename:       filepath.Base(path),
		Content:        content,
		OwnerID:        ingestOwner,
		Visibility:     domain.Visibility(ingestVisibility),
		IdempotencyKey: ingestIdempotencyKey,
	})
}
