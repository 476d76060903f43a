package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks defaults and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Validate(nil), errConfigIsNotSet)

	// Empty config gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, Default(), cfg)

	// Negative retention.
	retained := -1
	cfg = &Config{RetainedItems: &retained}
	require.ErrorIs(t, Validate(cfg), errNegativeRetention)

	// Bad base URL.
	cfg = &Config{BaseURL: "not a url"}
	require.Error(t, Validate(cfg))

	// Bad repository.
	cfg = &Config{Repository: "Peninsula"}
	require.ErrorIs(t, Validate(cfg), errInvalidRepository)

	// Zero retention is allowed.
	retained = 0
	cfg = &Config{RetainedItems: &retained}
	require.NoError(t, Validate(cfg))
	require.Equal(t, 0, cfg.Retention())
}

// TestDefault verifies defaults reproduce the project's release layout.
func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.Equal(t, "appcast.xml", cfg.FeedPath)
	require.Equal(t, 4, cfg.Retention())
	require.Equal(t,
		"https://github.com/Celve/Peninsula/releases/download/v1.0.0/Peninsula.zip",
		cfg.ItemSettings().DownloadURL("v1.0.0"))
	require.Equal(t, "application/octet-stream", cfg.ContentType)
	require.Equal(t, "14.0", cfg.MinimumSystemVersion)
}

// TestLoad_MissingExplicitFile ensures an explicitly named file must exist.
func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

// TestLoad_PartialFile checks that unset fields fall back to defaults.
func TestLoad_PartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("asset_name: Tool.zip\nretained_items: 2\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Tool.zip", cfg.AssetName)
	require.Equal(t, 2, cfg.Retention())
	require.Equal(t, "Celve/Peninsula", cfg.Repository)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	retained := 7
	settings := &Config{
		FeedPath:      "docs/appcast.xml",
		Repository:    "acme/tool",
		AssetName:     "Tool.zip",
		RetainedItems: &retained,
	}

	require.NoError(t, Save(path, settings))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.ErrorIs(t, Save(path, nil), errConfigIsNotSet)
}
