package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached answers",
}

var cachePurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove expired cache and idempotency entries",
	Long: `Deletes expired query cache entries and expired idempotency keys.

Expired entries are already ignored on read; purging only reclaims space.`,
	Args: cobra.NoArgs,
	RunE: runCachePurge,
}

func init() {
	cacheCmd.AddCommand(cachePurgeCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCachePurge(cmd *cobra.Command, _ []string) error {
	if maintenanceService == nil {
		return errNotConfigured("maintenance")
	}

	cached, keys, err := maintenanceService.PurgeExpired(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to purge: %w", err)
	}

	cmd.Printf("Removed %d cache entries and %d idempotency keys.\n", cached, keys)
	return nil
}
