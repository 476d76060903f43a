package appcast

import (
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is where release assets are hosted.
	DefaultBaseURL = "https://github.com"
	// DefaultRepository is the owner/name of the project publishing releases.
	DefaultRepository = "Celve/Peninsula"
	// DefaultAssetName is the archive attached to every release.
	DefaultAssetName = "Peninsula.zip"
	// DefaultContentType is advertised in the enclosure of each item.
	DefaultContentType = "application/octet-stream"
	// DefaultMinimumSystemVersion is the lowest OS version the release supports.
	DefaultMinimumSystemVersion = "14.0"
	// DefaultRetainedItems is how many previous items survive an update.
	DefaultRetainedItems = 4
)

// Enclosure points at the downloadable archive of a release.
type Enclosure struct {
	// URL is the download location of the archive.
	URL string
	// Type is the advertised content type.
	Type string
}

// Item is one published version in the feed.
type Item struct {
	// Title is the display title, equal to the short version.
	Title string
	// PubDate is the publish date in PubDateLayout.
	PubDate string
	// Version is the full version string.
	Version string
	// ShortVersionString duplicates Title for the update client.
	ShortVersionString string
	// MinimumSystemVersion is the lowest supported OS version.
	MinimumSystemVersion string
	// Enclosure describes the download.
	Enclosure Enclosure
}

// Settings controls the fixed parts of a new item.
type Settings struct {
	BaseURL              string
	Repository           string
	AssetName            string
	ContentType          string
	MinimumSystemVersion string
}

// DefaultSettings returns the settings used by the project's release workflow.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:              DefaultBaseURL,
		Repository:           DefaultRepository,
		AssetName:            DefaultAssetName,
		ContentType:          DefaultContentType,
		MinimumSystemVersion: DefaultMinimumSystemVersion,
	}
}

// DownloadURL builds the release asset URL for the tag:
// <base>/<repository>/releases/download/<tag>/<asset>.
func (s Settings) DownloadURL(tag string) string {
	return strings.TrimRight(s.BaseURL, "/") +
		"/" + strings.Trim(s.Repository, "/") +
		"/releases/download/" + url.PathEscape(tag) +
		"/" + url.PathEscape(s.AssetName)
}

// NewItem assembles the feed item for a release published at pubDate.
func NewItem(release Release, pubDate string, settings Settings) Item {
	return Item{
		Title:                release.ShortVersion,
		PubDate:              pubDate,
		Version:              release.FullVersion,
		ShortVersionString:   release.ShortVersion,
		MinimumSystemVersion: settings.MinimumSystemVersion,
		Enclosure: Enclosure{
			URL:  settings.DownloadURL(release.Tag),
			Type: settings.ContentType,
		},
	}
}

// Retain returns at most limit leading elements of items, preserving order.
func Retain[T any](items []T, limit int) []T {
	if limit <= 0 {
		return nil
	}

	if len(items) <= limit {
		return items
	}

	return items[:limit]
}
