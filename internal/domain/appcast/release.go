package appcast

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Release describes the version strings derived from a release tag.
type Release struct {
	// Tag is the raw release tag, e.g. "v0.0.11.post0".
	Tag string
	// ShortVersion is the major.minor part used as display title.
	ShortVersion string
	// FullVersion is the tag without its leading "v".
	FullVersion string
}

// ParseTag splits a release tag into short and full versions.
// Any string is accepted: a tag with fewer than two dot-separated
// segments yields ShortVersion equal to FullVersion.
func ParseTag(tag string) Release {
	full := strings.TrimLeft(tag, "v")

	short := full
	if parts := strings.Split(full, "."); len(parts) >= 2 {
		short = parts[0] + "." + parts[1]
	}

	return Release{
		Tag:          tag,
		ShortVersion: short,
		FullVersion:  full,
	}
}

// IsSemantic reports whether the full version is a valid semantic version.
func (r Release) IsSemantic() bool {
	return semver.IsValid("v" + r.FullVersion)
}
