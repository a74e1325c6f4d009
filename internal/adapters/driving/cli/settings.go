package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change chunking, embedding, cache, matching and storage settings.

Settings live in config.toml under ~/.resumerag (or RESUMERAG_CONFIG_DIR).
Changes to chunking or embedding only affect resumes ingested afterwards.`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	Args:        cobra.NoArgs,
	RunE:        runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:         "get [key]",
	Short:       "Print one setting",
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	Args:        cobra.ExactArgs(1),
	RunE:        runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Long: `Change one setting. Durations use Go syntax, for example 30m or 24h.

Example:
  resumerag settings set ask.cache_ttl 30m`,
	Annotations: map[string]string{annotationBootstrap: bootstrapConfig},
	Args:        cobra.ExactArgs(2),
	RunE:        runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	values, err := settingsService.List()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	for _, v := range values {
		value := v.Value
		if value == "" {
			value = "(not set)"
		}
		line := fmt.Sprintf("  %-22s %s", v.Key, value)
		if v.IsDefault {
			line += " " + styles.Muted.Render("(default)")
		}
		cmd.Println(line)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(fmt.Sprintf("Warning: %v", err)))
		cmd.Println("Run 'resumerag settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	values, err := settingsService.List()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	for _, v := range values {
		if v.Key == args[0] {
			cmd.Println(v.Value)
			return nil
		}
	}
	return fmt.Errorf("unknown setting %q", args[0])
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured("settings")
	}

	if err := settingsService.SetValue(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Println(styles.Success.Render(fmt.Sprintf("Set %s = %s", args[0], args[1])))

	if err := settingsService.Validate(); err != nil {
		cmd.Println(styles.Warning.Render(fmt.Sprintf("Warning: %v", err)))
	}
	return nil
}
