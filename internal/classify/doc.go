// Package classify maps a broken destination URL to its structural family
// and recommended restoration action.
//
// The matching algorithm lives here; the data it matches against (the
// readiness hub root, the known framework identifiers and the legacy
// directory redirect table) is supplied by the caller as Rules, normally
// loaded by the config package. Classification is total and deterministic:
// every input yields exactly one result, and FamilyOther/ActionManualReview
// is the designed outcome when no pattern matches.
package classify
