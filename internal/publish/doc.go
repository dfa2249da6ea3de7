// Package publish turns a GEDCOM file into Notion pages.
//
// A run parses the file, builds one person record per individual, resolves
// the target database, and pushes records with bounded concurrency. Every
// outcome is written to the run ledger so later runs can update pages and
// link relations to them.
package publish
