// Package main provides the entry point for the restoreplan CLI.
//
// restoreplan reads a backlink export, keeps the links that point at pages
// returning HTTP 404, classifies each broken page by its path pattern and
// writes a JSON restore plan.
//
// Usage:
//
//	restoreplan [report]
//	restoreplan classify <url>...
//	restoreplan compare [report]
//
// See --help for all available options.
package main

// main is the entry point for restoreplan.
func main() {
	Execute()
}
