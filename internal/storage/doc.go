// Package storage persists scraped festival data with gorm.
//
// A Store wraps one gorm connection opened for the dialect named by the configured
// connection string (postgres in production, mysql, or sqlite for local runs and tests).
// Replace swaps the whole dataset in two transactions: reference data first so the
// database assigns venue and content rating IDs, then shows and their performances
// bound to those IDs. Deletes and inserts always follow foreign-key order.
package storage
