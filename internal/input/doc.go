// Package input turns a raw backlink export into header and row fields.
//
// Decode detects the byte-order mark and normalizes UTF-8, UTF-16LE and
// UTF-16BE buffers into one Go string. Parse splits the decoded text into a
// header row and data rows, sniffing comma or tab from the first line and
// honoring double-quoted fields.
//
// Both functions are best-effort and never fail: exports produced by
// third-party SEO tools are frequently malformed, and a half-readable row is
// more useful downstream than an aborted run.
package input
