// Package ingestion turns tabular part sources into a persisted catalog.
//
// A Pipeline run discovers and loads CSV sources concurrently, merges their
// records in source order, optionally enriches them from the built-in
// standard part library, canonicalizes category and kind, optionally refreshes
// prices, builds the catalog and saves it as a snapshot. When every source
// digest matches the stored snapshot the build is skipped and the stored
// catalog is returned instead.
package ingestion
