// Package pipeline runs the planner stages in sequence.
//
// A run reads the backlink export, decodes it, parses it into a table,
// aggregates 404 rows per destination, classifies every destination and
// builds the restore report. Each stage is a Step that receives the shared
// Run and fills in its part; the Pipeline executes the steps strictly in
// order, logs each one and stops at the first error. There is no partial
// success: a failed step aborts the run before anything is written.
package pipeline
