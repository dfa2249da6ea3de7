// Package schema declares the person fields timemachine writes to Notion,
// the kind of value each one carries, and the rules a value must satisfy
// before it may become a page property.
//
// Construction (New) and validation (Validate) are separate steps;
// BuildProperty runs both and reports absent input instead of emitting a
// placeholder property.
package schema
