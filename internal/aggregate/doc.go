// Package aggregate filters parsed export rows down to broken (404)
// destinations and folds repeated destinations into one link count.
package aggregate
