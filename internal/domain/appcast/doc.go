// Package appcast contains the release model behind a Sparkle update feed.
//
// It derives short and full version strings from a release tag, renders
// RFC-822 style publish dates, builds download URLs and assembles the feed
// item describing one published version. Everything here is pure: file and
// XML handling live in the feed repository.
package appcast
