// Package services defines shared utilities consumed by the publish pipeline
// and the remote API integration.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, GEDCOM cross-references, stage names,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent run-history outcomes (rejected vs failed).
//
// Use these helpers when wiring new pipeline steps so error handling and
// observability stay uniform.
package services
