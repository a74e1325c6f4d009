// Package cli provides the resumerag command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
	"github.com/custodia-labs/resumerag/internal/logger"
)

// version is set at build time.
var version = "dev"

// Environment variables read after .env is loaded. Flags take precedence.
const (
	EnvDSN       = "RESUMERAG_DSN"
	EnvDataDir   = "RESUMERAG_DATA_DIR"
	EnvConfigDir = "RESUMERAG_CONFIG_DIR"
)

// Services bundles the driving ports the commands call.
type Services struct {
	Ingest      driving.IngestService
	Ask         driving.AskService
	Jobs        driving.JobService
	Documents   driving.DocumentService
	Settings    driving.SettingsService
	Maintenance driving.MaintenanceService

	// Close releases the storage backend. Optional.
	Close func() error
}

// Options carries the global flags to the bootstrap function.
type Options struct {
	DSN       string
	DataDir   string
	ConfigDir string

	// ConfigOnly asks for the settings service alone; storage is not opened.
	ConfigOnly bool
}

// BootstrapFunc builds the services for one command invocation.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	ingestService      driving.IngestService
	askService         driving.AskService
	jobService         driving.JobService
	documentService    driving.DocumentService
	settingsService    driving.SettingsService
	maintenanceService driving.MaintenanceService

	bootstrap     BootstrapFunc
	closeServices func() error
)

// Global flags.
var (
	verbose bool
	logJSON bool
	dsn     string
	dataDir string
)

// Command annotations understood by the root pre-run hook.
const (
	annotationBootstrap = "bootstrap"
	bootstrapNone       = "none"
	bootstrapConfig     = "config"
)

var rootCmd = &cobra.Command{
	Use:   "resumerag",
	Short: "Resume search and job matching",
	Long: `resumerag ingests resumes (PDF, DOCX, TXT, ZIP), answers natural language
queries with the best matching resumes, and ranks resumes against job postings.

Data is stored in SQLite under ~/.resumerag/data by default, or in Postgres
with pgvector when --dsn (or RESUMERAG_DSN) is a postgres:// URL. The DSN
memory:// keeps everything in process, which suits a throwaway MCP server.`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON")
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres:// URL or memory:// (default: SQLite in the data directory)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "SQLite data directory (default: ~/.resumerag/data)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that builds services before a command runs.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly, bypassing bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	askService = s.Ask
	jobService = s.Jobs
	documentService = s.Documents
	settingsService = s.Settings
	maintenanceService = s.Maintenance
	closeServices = s.Close
}

// Execute runs the root command with ctx and releases the services it opened.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if cerr := shutdown(); err == nil {
		err = cerr
	}
	return err
}

func persistentPreRun(cmd *cobra.Command, _ []string) error {
	// A missing .env file is fine.
	_ = godotenv.Load()

	logger.SetVerbose(verbose)
	logger.SetJSON(logJSON)

	mode := cmd.Annotations[annotationBootstrap]
	if bootstrap == nil || mode == bootstrapNone {
		return nil
	}

	opts := Options{
		DSN:        firstNonEmpty(dsn, os.Getenv(EnvDSN)),
		DataDir:    firstNonEmpty(dataDir, os.Getenv(EnvDataDir)),
		ConfigDir:  os.Getenv(EnvConfigDir),
		ConfigOnly: mode == bootstrapConfig,
	}
	logger.Debug("Bootstrap: dsn set=%t, data dir %q, config only=%t", opts.DSN != "", opts.DataDir, opts.ConfigOnly)

	services, err := bootstrap(commandContext(cmd), opts)
	if err != nil {
		return fmt.Errorf("failed to initialise: %w", err)
	}
	SetServices(services)
	return nil
}

// shutdown releases the services installed by the last bootstrap.
func shutdown() error {
	if closeServices == nil {
		return nil
	}
	err := closeServices()
	closeServices = nil
	return err
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// errNotConfigured reports a missing service for a command.
func errNotConfigured(name string) error {
	return errors.New(name + " service not configured")
}
