package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/domain"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "resumerag", rootCmd.Use)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ingest", "ask", "job", "resume", "settings", "cache", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "log-json", "dsn", "data-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestPersistentPreRun_BootstrapsWithFlagOptions(t *testing.T) {
	setupTestServices(t)
	t.Setenv(EnvDSN, "postgres://env/db")

	ask := &mockAskService{response: &domain.AskResponse{Query: "python"}}
	var got Options
	bootstrap = func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Ask: ask}, nil
	}

	out, err := executeCommand(t, "--dsn", "postgres://flag/db", "ask", "python")
	require.NoError(t, err)
	assert.Contains(t, out, "No matching resumes found.")
	assert.Equal(t, "postgres://flag/db", got.DSN)
	assert.False(t, got.ConfigOnly)
}

func TestPersistentPreRun_EnvFallback(t *testing.T) {
	setupTestServices(t)
	t.Setenv(EnvDSN, "postgres://env/db")
	t.Setenv(EnvDataDir, "/tmp/data")

	var got Options
	bootstrap = func(_ context.Context, opts Options) (*Services, error) {
		got = opts
		return &Services{Settings: &mockSettingsService{}}, nil
	}

	_, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/db", got.DSN)
	assert.Equal(t, "/tmp/data", got.DataDir)
	assert.True(t, got.ConfigOnly)
}

func TestPersistentPreRun_VersionSkipsBootstrap(t *testing.T) {
	setupTestServices(t)
	called := false
	bootstrap = func(_ context.Context, _ Options) (*Services, error) {
		called = true
		return nil, errors.New("should not run")
	}

	_, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestPersistentPreRun_BootstrapError(t *testing.T) {
	setupTestServices(t)
	bootstrap = func(_ context.Context, _ Options) (*Services, error) {
		return nil, errors.New("bad dsn")
	}

	_, err := executeCommand(t, "resume", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to initialise")
	assert.Contains(t, err.Error(), "bad dsn")
}

func TestExecute_ClosesServices(t *testing.T) {
	setupTestServices(t)
	closed := false
	bootstrap = func(_ context.Context, _ Options) (*Services, error) {
		return &Services{
			Maintenance: &mockMaintenanceService{},
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"cache", "purge"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, Execute(context.Background()))
	assert.True(t, closed)
}

func TestExecute_ReportsCloseError(t *testing.T) {
	setupTestServices(t)
	bootstrap = func(_ context.Context, _ Options) (*Services, error) {
		return &Services{
			Maintenance: &mockMaintenanceService{},
			Close:       func() error { return errors.New("close failed") },
		}, nil
	}

	resetFlags(rootCmd)
	rootCmd.SetArgs([]string{"cache", "purge"})
	defer rootCmd.SetArgs(nil)

	err := Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "a b c", oneLine("a\n  b\tc", 0))
	assert.Equal(t, "abc...", oneLine("abcdef", 3))
	assert.Equal(t, "Zoë...", oneLine("Zoë Müller", 3))
}
