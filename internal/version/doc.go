// Package version exposes build metadata of the updater binary.
//
// Version, Commit and BuildTime are injected via Go ldflags.
package version
