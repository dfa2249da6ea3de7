package person

import (
	"fmt"
	"net/url"
	"strings"

	"timemachine/internal/dates"
	"timemachine/internal/logging"
	"timemachine/internal/schema"
)

// Individual is the read-only view of a source record the builder needs.
// AltNames holds formatted, non-empty names. Relation accessors return
// cross-references of other individuals.
type Individual interface {
	XRef() string
	FullName() string
	AltNames() []string
	Sex() string
	Date(path string) dates.Source
	Text(path string) string
	Values(path string) []string
	Parents() []string
	Spouses() []string
	Children() []string
	Siblings() []string
	MarriageDate() dates.Source
}

// Resolver maps source cross-references to page ids created earlier.
type Resolver interface {
	PageID(xref string) (string, bool)
}

// Failure records why one individual could not become a record.
type Failure struct {
	Index     int
	GedcomRef string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.GedcomRef, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Builder extracts person records from individuals.
type Builder struct {
	schema   *schema.Schema
	resolver Resolver
}

// NewBuilder returns a builder over s. resolver may be nil, in which case
// relation fields are never populated.
func NewBuilder(s *schema.Schema, resolver Resolver) *Builder {
	if s == nil {
		s = schema.Default()
	}
	return &Builder{schema: s, resolver: resolver}
}

// Schema returns the schema records are validated against.
func (b *Builder) Schema() *schema.Schema {
	return b.schema
}

// Build maps one individual. The first validation error aborts the record.
func (b *Builder) Build(ind Individual) (Record, error) {
	ref := ind.XRef()
	rec := NewRecord(ref)
	attrs := []logging.Attr{logging.GedcomRef(ref)}

	set := func(field schema.Field, raw any) error {
		prop, ok, err := b.schema.BuildProperty(field, raw, attrs...)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		return rec.Set(b.schema, prop)
	}

	birth, err := dates.Normalize(ind.Date("BIRT/DATE"))
	if err != nil {
		return Record{}, fmt.Errorf("%s birth: %w", schema.BirthDeath, err)
	}
	death, err := dates.Normalize(ind.Date("DEAT/DATE"))
	if err != nil {
		return Record{}, fmt.Errorf("%s death: %w", schema.BirthDeath, err)
	}
	marriage, err := dates.Normalize(ind.MarriageDate())
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", schema.Marriage, err)
	}

	deathPlace := ind.Text("DEAT/PLAC")
	if deathPlace == "" {
		deathPlace = ind.Text("BURI/PLAC")
	}

	steps := []struct {
		field schema.Field
		raw   any
	}{
		{schema.FullBirthName, ind.FullName()},
		{schema.NickName, ind.Text("NAME/NICK")},
		{schema.AltNames, strings.Join(ind.AltNames(), "; ")},
		{schema.Title, ind.Text("TITL")},
		{schema.BirthDeath, schema.DateValue{Birth: birth, Death: death}},
		{schema.PlaceOfBirth, ind.Text("BIRT/PLAC")},
		{schema.PlaceOfDeathBurial, deathPlace},
		{schema.Gender, ind.Sex()},
		{schema.Notes, ind.Text("NOTE")},
		{schema.Marriage, marriage},
		{schema.Images, webURLs(ind.Values("OBJE/FILE"))},
	}
	if birth.Known() || death.Known() {
		steps = append(steps, struct {
			field schema.Field
			raw   any
		}{schema.DatesApprox, birth.Approximate || death.Approximate})
	}
	for _, step := range steps {
		if err := set(step.field, step.raw); err != nil {
			return Record{}, err
		}
	}

	if b.resolver != nil {
		if spouses := b.resolve(ind.Spouses()); len(spouses) > 0 {
			if err := set(schema.Spouse, spouses[0]); err != nil {
				return Record{}, err
			}
		}
		relations := []struct {
			field schema.Field
			xrefs []string
		}{
			{schema.Parents, ind.Parents()},
			{schema.Children, ind.Children()},
			{schema.Siblings, ind.Siblings()},
		}
		for _, rel := range relations {
			if err := set(rel.field, b.resolve(rel.xrefs)); err != nil {
				return Record{}, err
			}
		}
	}

	return rec, nil
}

// BuildAll maps every individual in order. Records that fail are reported
// in failures and left out of records.
func (b *Builder) BuildAll(individuals []Individual) ([]Record, []Failure) {
	records := make([]Record, 0, len(individuals))
	var failures []Failure
	for i, ind := range individuals {
		rec, err := b.Build(ind)
		if err != nil {
			failures = append(failures, Failure{Index: i, GedcomRef: ind.XRef(), Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, failures
}

func (b *Builder) resolve(xrefs []string) []string {
	ids := make([]string, 0, len(xrefs))
	for _, xref := range xrefs {
		if id, ok := b.resolver.PageID(xref); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// webURLs keeps the entries that are absolute http(s) URLs. Local media
// paths cannot be attached to a page.
func webURLs(values []string) []string {
	var out []string
	for _, v := range values {
		u, err := url.Parse(v)
		if err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			out = append(out, v)
		}
	}
	return out
}
