// Package wire parses marketplace payloads into response models and converts
// them to domain values.
//
// Parsing is tolerant: every field is read through a defaulting lookup, so a
// missing or oddly typed optional field yields its zero value rather than an
// error. Only an empty payload or one that is not a JSON object is rejected
// with [errs.ErrParse]. Conversion to the domain is pure and deterministic.
package wire
