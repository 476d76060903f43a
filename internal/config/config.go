package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/celve/appcast-updater/internal/domain/appcast"
	"github.com/celve/appcast-updater/internal/repository/feed"
)

// Config holds the settings shared by the appcast-updater commands.
type Config struct {
	// FeedPath is the appcast file rewritten on every release.
	FeedPath string `yaml:"feed_path"`
	// BaseURL is the host serving release assets.
	BaseURL string `yaml:"base_url"`
	// Repository is the owner/name whose releases hold the assets.
	Repository string `yaml:"repository"`
	// AssetName is the archive attached to each release.
	AssetName string `yaml:"asset_name"`
	// ContentType is advertised in the item enclosure.
	ContentType string `yaml:"content_type"`
	// MinimumSystemVersion is the lowest OS version the app supports.
	MinimumSystemVersion string `yaml:"minimum_system_version"`
	// RetainedItems is how many previous items are kept after the new one.
	RetainedItems *int `yaml:"retained_items,omitempty"`
}

const (
	// DefaultConfigFilename is the default filename for updater settings.
	DefaultConfigFilename = "appcast-updater.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o644

	// EnvReleaseTag names the variable carrying the release tag, e.g. "v1.2.3".
	EnvReleaseTag = "RELEASE_TAG"
	// EnvReleaseDate names the variable carrying the ISO-8601 release timestamp.
	EnvReleaseDate = "RELEASE_DATE"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNegativeRetention is returned when retained_items is below zero.
	errNegativeRetention = errors.New("retained items must not be negative")
	// errInvalidRepository is returned for repositories not in owner/name form.
	errInvalidRepository = errors.New("repository must be in owner/name form")
)

// Default returns the settings used when no configuration file exists.
func Default() *Config {
	settings := appcast.DefaultSettings()
	retained := appcast.DefaultRetainedItems

	return &Config{
		FeedPath:             feed.DefaultFeedFilename,
		BaseURL:              settings.BaseURL,
		Repository:           settings.Repository,
		AssetName:            settings.AssetName,
		ContentType:          settings.ContentType,
		MinimumSystemVersion: settings.MinimumSystemVersion,
		RetainedItems:        &retained,
	}
}

// Load reads configuration from the provided path and validates it.
// A missing file at the default path yields Default settings.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Config to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills unset fields with defaults and checks the remaining values.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	defaults := Default()

	setDefault(&cfg.FeedPath, defaults.FeedPath)
	setDefault(&cfg.BaseURL, defaults.BaseURL)
	setDefault(&cfg.Repository, defaults.Repository)
	setDefault(&cfg.AssetName, defaults.AssetName)
	setDefault(&cfg.ContentType, defaults.ContentType)
	setDefault(&cfg.MinimumSystemVersion, defaults.MinimumSystemVersion)

	if cfg.RetainedItems == nil {
		cfg.RetainedItems = defaults.RetainedItems
	}

	if *cfg.RetainedItems < 0 {
		return errNegativeRetention
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	if owner, name, ok := strings.Cut(strings.Trim(cfg.Repository, "/"), "/"); !ok || owner == "" || name == "" {
		return fmt.Errorf("%w: %q", errInvalidRepository, cfg.Repository)
	}

	return nil
}

// ItemSettings returns the parts of Config that shape a new feed item.
func (c *Config) ItemSettings() appcast.Settings {
	return appcast.Settings{
		BaseURL:              c.BaseURL,
		Repository:           c.Repository,
		AssetName:            c.AssetName,
		ContentType:          c.ContentType,
		MinimumSystemVersion: c.MinimumSystemVersion,
	}
}

// Retention returns how many previous items survive an update.
func (c *Config) Retention() int {
	if c.RetainedItems == nil {
		return appcast.DefaultRetainedItems
	}

	return *c.RetainedItems
}

func setDefault(field *string, value string) {
	if strings.TrimSpace(*field) == "" {
		*field = value
	}
}
