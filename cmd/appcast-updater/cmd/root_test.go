package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/celve/appcast-updater/internal/config"
	"github.com/celve/appcast-updater/internal/repository/feed"
	"github.com/celve/appcast-updater/internal/service/publisher"
)

const testFeed = `<?xml version="1.0" encoding="utf-8"?>
<rss xmlns:sparkle="http://www.andymatuschak.org/xml-namespaces/sparkle" version="2.0">
    <channel>
        <title>Peninsula</title>
    </channel>
</rss>
`

// execute runs a fresh root command with args.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	root := newRootCommand()
	root.SetArgs(args)

	return root.ExecuteContext(context.Background())
}

// prepare creates a feed and an empty settings file in a temporary directory.
func prepare(t *testing.T) (feedPath, configPath string) {
	t.Helper()

	dir := t.TempDir()
	feedPath = filepath.Join(dir, "appcast.xml")
	configPath = filepath.Join(dir, "settings.yaml")

	require.NoError(t, os.WriteFile(feedPath, []byte(testFeed), 0o600))
	require.NoError(t, os.WriteFile(configPath, []byte("{}\n"), 0o600))

	return feedPath, configPath
}

// TestRoot_ReadsEnvironment publishes using the release environment variables.
func TestRoot_ReadsEnvironment(t *testing.T) {
	feedPath, configPath := prepare(t)

	t.Setenv(config.EnvReleaseTag, "v0.0.11.post0")
	t.Setenv(config.EnvReleaseDate, "2025-06-01T14:53:15+08:00")

	require.NoError(t, execute(t, "--feed", feedPath, "--config", configPath))

	data, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "<sparkle:version>0.0.11.post0</sparkle:version>")
	require.Contains(t, string(data), "<pubDate>Sun, 01 Jun 2025 14:53:15 +0800</pubDate>")
}

// TestRoot_FlagsOverrideEnvironment checks that flags win over the environment.
func TestRoot_FlagsOverrideEnvironment(t *testing.T) {
	feedPath, configPath := prepare(t)

	t.Setenv(config.EnvReleaseTag, "v9.9.9")
	t.Setenv(config.EnvReleaseDate, "")

	require.NoError(t, execute(t,
		"--feed", feedPath,
		"--config", configPath,
		"--tag", "v1.2.3",
		"--date", "2025-06-01T00:00:00Z",
		"--log-level", "debug"))

	data, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "<sparkle:version>1.2.3</sparkle:version>")
	require.NotContains(t, string(data), "9.9.9")
}

// TestRoot_MissingTag leaves the feed untouched when no tag is given.
func TestRoot_MissingTag(t *testing.T) {
	feedPath, configPath := prepare(t)

	t.Setenv(config.EnvReleaseTag, "")

	err := execute(t, "--feed", feedPath, "--config", configPath)
	require.ErrorIs(t, err, publisher.ErrReleaseTagRequired)

	data, err := os.ReadFile(feedPath)
	require.NoError(t, err)
	require.Equal(t, testFeed, string(data))
}

// TestRoot_MissingChannel reports feeds without a channel.
func TestRoot_MissingChannel(t *testing.T) {
	feedPath, configPath := prepare(t)
	require.NoError(t, os.WriteFile(feedPath, []byte("<rss/>"), 0o600))

	err := execute(t, "--feed", feedPath, "--config", configPath, "--tag", "v1.0.0")
	require.ErrorIs(t, err, feed.ErrNoChannel)
}

// TestRoot_UnknownLogLevel rejects invalid levels before doing any work.
func TestRoot_UnknownLogLevel(t *testing.T) {
	t.Parallel()

	require.Error(t, execute(t, "--log-level", "loud", "--tag", "v1.0.0"))
}

// TestConfigInit writes default settings and refuses to overwrite them.
func TestConfigInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "settings.yaml")

	require.NoError(t, execute(t, "config", "init", path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)

	require.ErrorIs(t, execute(t, "config", "init", path), errConfigExists)
	require.NoError(t, execute(t, "config", "init", "--force", path))
}
