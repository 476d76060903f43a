// Package publisher adds a release to the appcast feed.
//
// It derives version strings and the publish date from the release inputs,
// builds the new feed item and rewrites the feed so that the new item leads
// a bounded history of previous releases.
package publisher
