// Package cli implements the command-line interface for fringe-scraper.
//
// The cli package provides the Cobra-based root command. It resolves configuration,
// sets up the run logger, opens the store, and drives the pipeline: list show IDs,
// scrape detail pages, fetch showtimes, then replace the stored dataset. Each run ends
// with a summary in text or JSON and optionally a sorted listing of the scraped shows.
package cli
