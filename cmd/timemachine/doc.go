// Command timemachine reads a GEDCOM family tree and publishes one Notion
// page per person.
//
// Typical use:
//
//	timemachine config init
//	timemachine inspect family.ged
//	timemachine push family.ged --dry-run
//	timemachine push family.ged
//	timemachine history
package main
