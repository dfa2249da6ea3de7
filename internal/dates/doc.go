// Package dates converts the date shapes found in GEDCOM records into a single
// canonical (year, month, day) value.
//
// Sources arrive either as structured dates carrying a three-letter month
// abbreviation, as free-text phrases such as "1850 March 2", or wrapped in
// approximation and range qualifiers. Normalize resolves month names through
// fixed lookup tables and reports anything it cannot place on the calendar as
// Unknown rather than as an error. Only an unrecognized month name fails,
// because that indicates data the caller must fix instead of a date that is
// merely absent.
package dates
