// Package ledger records push runs in a local SQLite database: which source
// file was pushed, the page created for each individual, and every per-record
// failure or warning.
//
// The page table doubles as the lookup that lets later runs update pages
// instead of creating them, and lets relation fields point at pages created
// earlier.
package ledger
