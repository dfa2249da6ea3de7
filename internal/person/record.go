package person

import (
	"fmt"
	"reflect"
	"slices"

	"timemachine/internal/schema"
	"timemachine/internal/services"
)

// Record is one person ready to be sent to Notion. Properties holds at most
// one entry per field.
type Record struct {
	PageID     string
	GedcomRef  string
	Properties map[schema.Field]schema.Property
}

// NewRecord returns an empty record for the given source reference.
func NewRecord(gedcomRef string) Record {
	return Record{GedcomRef: gedcomRef, Properties: map[schema.Field]schema.Property{}}
}

// Set stores prop, replacing any previous value for the same field. Fields
// outside s are rejected.
func (r *Record) Set(s *schema.Schema, prop schema.Property) error {
	spec, ok := s.Lookup(prop.Field)
	if !ok {
		return &schema.ValidationError{Field: prop.Field, Reason: "unknown field"}
	}
	if prop.Value == nil || prop.Value.Kind() != spec.Kind {
		return &schema.ValidationError{Field: prop.Field, Value: fmt.Sprintf("%T", prop.Value), Reason: "not a " + spec.Kind.String() + " value"}
	}
	if r.Properties == nil {
		r.Properties = map[schema.Field]schema.Property{}
	}
	r.Properties[prop.Field] = prop
	return nil
}

// Get returns the value stored for field.
func (r Record) Get(field schema.Field) (schema.Value, bool) {
	prop, ok := r.Properties[field]
	if !ok {
		return nil, false
	}
	return prop.Value, true
}

// Fields lists the populated fields in name order.
func (r Record) Fields() []schema.Field {
	fields := make([]schema.Field, 0, len(r.Properties))
	for field := range r.Properties {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// WithPageID returns a copy carrying the remote page identifier.
func (r Record) WithPageID(id string) (Record, error) {
	if !schema.ValidGUID(id) {
		return Record{}, services.Wrap(services.ErrValidation, "person", "attach page id",
			fmt.Sprintf("%q is not a page identifier", id), nil)
	}
	out := r
	out.PageID = id
	out.Properties = make(map[schema.Field]schema.Property, len(r.Properties))
	for field, prop := range r.Properties {
		out.Properties[field] = prop
	}
	return out, nil
}

// Equal reports value equality.
func (r Record) Equal(other Record) bool {
	if r.PageID != other.PageID || r.GedcomRef != other.GedcomRef {
		return false
	}
	if len(r.Properties) != len(other.Properties) {
		return false
	}
	for field, prop := range r.Properties {
		o, ok := other.Properties[field]
		if !ok || !reflect.DeepEqual(prop, o) {
			return false
		}
	}
	return true
}
