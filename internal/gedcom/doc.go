// Package gedcom reads GEDCOM 5.5 files into a tree of tagged lines and
// exposes individuals and families through typed accessors.
//
// Input may be UTF-8 (with or without BOM), UTF-16 with BOM, or ANSI
// (Windows-1252) as declared by HEAD/CHAR. All text values are returned in
// Unicode NFC form with CONT/CONC continuations folded in.
package gedcom
