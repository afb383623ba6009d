// Package show provides the entity model for Fringe festival listings.
//
// A Show carries the upstream ticketing site's own numeric ID and references one
// Venue and one ContentRating. Venues and content ratings are parsed once per show
// page and then deduplicated by their natural keys (venue number, rating code) with
// Reconcile, so every Show points at one canonical instance before persistence.
package show
