package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// oneLine collapses whitespace so multi-line text fits a listing row.
func oneLine(text string, maxRunes int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if maxRunes > 0 && len(r) > maxRunes {
		return string(r[:maxRunes]) + "..."
	}
	return text
}
