package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/resumerag/internal/core/domain"
	"github.com/custodia-labs/resumerag/internal/core/ports/driving"
)

func TestSettingsCmd_ConfigOnlyAnnotation(t *testing.T) {
	for _, c := range append(settingsCmd.Commands(), settingsCmd) {
		assert.Equal(t, bootstrapConfig, c.Annotations[annotationBootstrap], c.Name())
	}
}

func TestSettingsShowCmd_Lists(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.values = []driving.SettingValue{
		{Key: "ask.default_k", Value: "5", IsDefault: true},
		{Key: "storage.dsn", Value: ""},
	}

	out, err := executeCommand(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "ask.default_k")
	assert.Contains(t, out, "(default)")
	assert.Contains(t, out, "(not set)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsShowCmd_ValidationWarning(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.validateErr = errors.New("overlap must be smaller than chunk size")

	out, err := executeCommand(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning: overlap must be smaller than chunk size")
}

func TestSettingsGetCmd(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.values = []driving.SettingValue{{Key: "ask.fanout", Value: "5"}}

	out, err := executeCommand(t, "settings", "get", "ask.fanout")
	require.NoError(t, err)
	assert.Equal(t, "5\n", out)

	_, err = executeCommand(t, "settings", "get", "ask.nope")
	require.Error(t, err)
}

func TestSettingsSetCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := executeCommand(t, "settings", "set", "ask.cache_ttl", "30m")
	require.NoError(t, err)
	assert.Equal(t, "30m", ts.settings.set["ask.cache_ttl"])
	assert.Contains(t, out, "Set ask.cache_ttl = 30m")
}

func TestSettingsSetCmd_Invalid(t *testing.T) {
	ts := setupTestServices(t)
	ts.settings.setErr = domain.ErrInvalidInput

	_, err := executeCommand(t, "settings", "set", "ask.cache_ttl", "soon")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
