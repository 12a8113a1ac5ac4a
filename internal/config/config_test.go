package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "propwash.toml")
	content := `
[server]
port = 9000

[analysis]
static_threshold = 0.05
highlight_score_threshold = 8

[crawler]
enabled = true
root = "/mnt/footage"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.Analysis.StaticThreshold)
	assert.Equal(t, 8, cfg.Analysis.HighlightScoreThreshold)
	assert.True(t, cfg.Crawler.Enabled)
	assert.Equal(t, "/mnt/footage", cfg.Crawler.Root)

	// Untouched keys keep defaults.
	assert.Equal(t, 2.0, cfg.Analysis.FrameSampleInterval)
	assert.Equal(t, "llava:13b", cfg.Vision.Model)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "propwash.toml")
	content := `
[analysis]
highlight_score_threshold = 42
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
