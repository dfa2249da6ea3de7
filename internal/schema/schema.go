package schema

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"timemachine/internal/logging"
	"timemachine/internal/services"
)

// Schema maps fields to their kind and remote id.
type Schema struct {
	specs  map[Field]Spec
	order  []Field
	logger *slog.Logger
}

// Default returns the fixed database layout.
func Default() *Schema {
	s := &Schema{
		specs:  make(map[Field]Spec, len(defaultSpecs)),
		order:  make([]Field, 0, len(defaultSpecs)),
		logger: logging.NewNop(),
	}
	for _, spec := range defaultSpecs {
		s.specs[spec.Field] = spec
		s.order = append(s.order, spec.Field)
	}
	return s
}

func (s *Schema) clone() *Schema {
	out := &Schema{
		specs:  make(map[Field]Spec, len(s.specs)),
		order:  append([]Field(nil), s.order...),
		logger: s.logger,
	}
	for field, spec := range s.specs {
		out.specs[field] = spec
	}
	return out
}

// WithRemoteIDs returns a copy whose remote ids are replaced for the named
// fields. Names are matched case-insensitively; unknown names are rejected.
func (s *Schema) WithRemoteIDs(ids map[string]string) (*Schema, error) {
	out := s.clone()
	if len(ids) == 0 {
		return out, nil
	}
	var unknown []string
	for name, id := range ids {
		field, ok := out.lookupName(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		spec := out.specs[field]
		spec.RemoteID = id
		out.specs[field] = spec
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, services.Wrap(services.ErrConfiguration, "schema", "property ids",
			fmt.Sprintf("unknown field(s) %s", strings.Join(unknown, ", ")), nil)
	}
	return out, nil
}

// WithLogger returns a copy that reports notices through logger.
func (s *Schema) WithLogger(logger *slog.Logger) *Schema {
	out := s.clone()
	out.logger = logging.NewComponentLogger(logger, "schema")
	return out
}

func (s *Schema) lookupName(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, field := range s.order {
		if strings.EqualFold(string(field), name) {
			return field, true
		}
	}
	return "", false
}

// Lookup returns the spec for field.
func (s *Schema) Lookup(field Field) (Spec, bool) {
	spec, ok := s.specs[field]
	return spec, ok
}

// ParseField resolves a field name, ignoring case.
func (s *Schema) ParseField(name string) (Field, error) {
	field, ok := s.lookupName(name)
	if !ok {
		return "", &ValidationError{Field: Field(name), Value: name, Reason: "unknown field"}
	}
	return field, nil
}

// Fields lists every field in display order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.order...)
}

// Specs lists every spec in display order.
func (s *Schema) Specs() []Spec {
	out := make([]Spec, 0, len(s.order))
	for _, field := range s.order {
		out = append(out, s.specs[field])
	}
	return out
}
