// Package history provides SQLite-based storage for ucma runs.
//
// Every non-dry run is recorded with the plugins it resolved and the outcome
// of each ref, so earlier batches can be listed with "ucma history".
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary stays
// statically linked. The database lives in a single file, ucma.db, under the
// XDG data directory unless configured otherwise.
package history
