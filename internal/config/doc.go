// Package config resolves the scraper's runtime settings.
//
// Settings come from three layers, highest precedence first: command-line flags,
// process environment variables, and an optional .env file. The database connection
// string is the only required setting. Its scheme selects the storage dialect
// (postgres, mysql or sqlite) and postgres DSNs are validated before any page is fetched.
package config
