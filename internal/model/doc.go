// Package model defines the core data structures of the restore planner.
//
// This package contains the following main types:
//   - LinkTarget: A broken destination URL with its referring-link count
//   - ClassifiedEntry: A destination with its structural family and restoration action
//   - RestoreReport: The terminal artifact summarizing a whole run
//
// Family and Action are closed enumerations. Every switch over them in this
// repository lists all members, so adding a new tag fails loudly in review and
// in the exhaustiveness tests instead of silently falling through.
//
// The models are designed to be serializable to JSON for the plan file and
// for the run history database.
package model
