// Package person turns GEDCOM individuals into validated person records and
// renders those records as Notion page payloads.
//
// Building is pure: the same individual always yields an equal record and no
// I/O happens. A validation error aborts only the record being built.
package person
