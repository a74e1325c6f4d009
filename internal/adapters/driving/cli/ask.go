package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

var (
	askK    int
	askRole string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Find the resumes that best answer a query",
	Long: `Embeds the query, searches resume chunks by similarity and ranks resumes
by their best chunk. Ties are broken by upload time, oldest first.

Answers are cached per (query, k). Personal data in snippets is redacted
unless --role is recruiter.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askK, "k", "k", 0, "number of resumes to return, 1 to 100 (default from config)")
	askCmd.Flags().StringVar(&askRole, "role", "user", "caller role: user, recruiter or admin")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errNotConfigured("ask")
	}

	role, err := domain.ParseRole(askRole)
	if err != nil {
		return err
	}

	resp, err := askService.Ask(commandContext(cmd), driving.AskRequest{Query: args[0], K: askK, Role: role})
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return printJSON(cmd, resp)
	}
	outputAnswers(cmd, resp)
	return nil
}

func outputAnswers(cmd *cobra.Command, resp *domain.AskResponse) {
	if len(resp.Answers) == 0 {
		cmd.Println("No matching resumes found.")
		return
	}

	header := fmt.Sprintf("Results for %q", resp.Query)
	if resp.Cached {
		header += " " + styles.Muted.Render("(cached)")
	}
	cmd.Println(header)
	cmd.Println()

	for i, a := range resp.Answers {
		cmd.Printf("  [%d] %s %s\n", i+1, styles.Title.Render(a.Filename), styles.Score.Render(fmt.Sprintf("(%.4f)", a.Score)))
		cmd.Printf("      %s\n", styles.Muted.Render("ID: "+a.DocumentID))
		for _, s := range a.Snippets {
			cmd.Println(styles.Quote.Render(fmt.Sprintf("p.%d: %s", s.Page, oneLine(s.Text, 160))))
		}
		cmd.Println()
	}
}
