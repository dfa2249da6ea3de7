// Package preflight provides readiness checks for the paths, source file,
// and Notion access a push depends on.
//
// The CLI "timemachine status" command prints every result. Push runs the
// filesystem checks before taking the lock so a missing state directory is
// reported before any page is written.
package preflight
