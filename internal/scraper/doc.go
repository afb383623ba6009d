// Package scraper provides HTTP fetching and HTML/JSON extraction for the Fringe
// ticketing site.
//
// The listing page yields the set of show IDs; each show's detail page yields the show,
// its venue and its content rating; the admin-ajax showtime feed yields performances.
// Detail pages and showtime feeds are fetched on a bounded worker pool where one failing
// show never affects the others. Field extractors are pure functions over strings or
// goquery selections and fall back to placeholder values instead of failing.
package scraper
