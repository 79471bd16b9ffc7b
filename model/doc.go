// Package model holds the business-facing marketplace entities.
//
// [Asset] is an immutable value record produced by conversion from a wire
// payload. [Collection] is an ordered sequence of assets whose filter and
// sort operations always return a new Collection and leave the receiver
// untouched, so a Collection may be shared freely between goroutines.
package model
