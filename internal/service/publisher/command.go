package publisher

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/celve/appcast-updater/internal/config"
	"github.com/celve/appcast-updater/internal/domain/appcast"
	"github.com/celve/appcast-updater/internal/logger"
	"github.com/celve/appcast-updater/internal/repository/feed"
)

// Options contains inputs for the publisher entry point.
type Options struct {
	// ConfigPath is an optional path to the settings YAML file.
	ConfigPath string
	// FeedPath overrides the feed location from the settings.
	FeedPath string
	// ReleaseTag is the tag of the published release, e.g. "v1.2.3".
	ReleaseTag string
	// ReleaseDate is the optional ISO-8601 publish timestamp.
	ReleaseDate string
	// Now supplies the publish time when ReleaseDate is empty. Defaults to time.Now.
	Now func() time.Time
}

// ErrReleaseTagRequired is returned when no release tag was provided.
var ErrReleaseTagRequired = errors.New(config.EnvReleaseTag + " not set")

// Result describes a published release.
type Result struct {
	// Release holds the versions derived from the tag.
	Release appcast.Release
	// Item is the entry added to the feed.
	Item appcast.Item
	// FeedPath is the rewritten feed file.
	FeedPath string
}

// Run publishes the release described by opts into the feed file.
// The feed file is left untouched on every error.
func Run(ctx context.Context, opts *Options) (*Result, error) {
	ctx = logger.WithName(ctx, "appcast-updater")

	if opts == nil || opts.ReleaseTag == "" {
		return nil, ErrReleaseTagRequired
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	feedPath := cfg.FeedPath
	if opts.FeedPath != "" {
		feedPath = opts.FeedPath
	}

	release := appcast.ParseTag(opts.ReleaseTag)
	if !release.IsSemantic() {
		logger.WarnKV(ctx, "Release tag is not a semantic version, using best-effort split",
			"tag", release.Tag, "short_version", release.ShortVersion)
	}

	pubDate, err := appcast.FormatPubDate(opts.ReleaseDate, opts.Now)
	if err != nil {
		return nil, fmt.Errorf("format publish date: %w", err)
	}

	item := appcast.NewItem(release, pubDate, cfg.ItemSettings())

	logger.DebugKV(ctx, "Prepared feed item",
		"version", item.Version,
		"pub_date", item.PubDate,
		"url", item.Enclosure.URL)

	repo := feed.NewFileRepository(feedPath)

	if err = publish(ctx, repo, item, cfg.Retention()); err != nil {
		return nil, err
	}

	logger.Infof(ctx, "Successfully updated %s for version %s", repo.Path(), release.FullVersion)

	return &Result{
		Release:  release,
		Item:     item,
		FeedPath: repo.Path(),
	}, nil
}

// publish loads the feed, inserts item and saves the feed back.
func publish(ctx context.Context, repo feed.Repository, item appcast.Item, retain int) error {
	doc, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load feed: %w", err)
	}

	versions, err := doc.Versions()
	if err != nil {
		return err
	}

	if slices.Contains(versions, item.Version) {
		logger.WarnKV(ctx, "Feed already lists this version, adding it again", "version", item.Version)
	}

	count, err := doc.Len()
	if err != nil {
		return err
	}

	if dropped := count - retain; dropped > 0 {
		logger.InfoKV(ctx, "Dropping old feed items", "count", dropped, "retained", retain)
	}

	if err = doc.Publish(item, retain); err != nil {
		return err
	}

	if err = repo.Save(ctx, doc); err != nil {
		return fmt.Errorf("save feed: %w", err)
	}

	return nil
}
