// Package history provides SQLite-based storage of planner runs.
//
// Every successful run records its input path, the SHA3-256 digest of the
// input bytes, its totals, its links per family and a compact list of its
// classified targets. The compare command reads these rows to show what
// changed between two exports; the planner itself never reads its own JSON
// plan back.
//
// The store uses modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles and the database is a single file in the XDG data directory.
package history
