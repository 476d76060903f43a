// Package feed loads, edits and persists the appcast XML document.
//
// The document is handled as a generic element tree so that channel metadata,
// comments and item fields this tool does not know about survive a rewrite.
// Publishing a release rebuilds the channel's child list from the metadata
// prefix, the new item and a bounded slice of the previous items.
package feed
