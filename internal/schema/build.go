package schema

import (
	"fmt"
	"slices"
	"strings"

	"timemachine/internal/dates"
	"timemachine/internal/logging"
)

// New converts raw input into the value variant the field declares. It does
// not apply validation rules.
//
// Accepted raw input per kind:
//   - rich text, title, reference: string
//   - reference list, tags, files: []string
//   - boolean: bool
//   - date: DateValue or dates.Date (a lone birth/event date)
//   - gender: string sex code
//
// A value of the field's own variant is passed through.
func (s *Schema) New(field Field, raw any) (Value, error) {
	spec, ok := s.specs[field]
	if !ok {
		return nil, &ValidationError{Field: field, Value: fmt.Sprint(raw), Reason: "unknown field"}
	}
	if v, ok := raw.(Value); ok {
		if v.Kind() != spec.Kind {
			return nil, wrongType(field, spec.Kind, raw)
		}
		return v, nil
	}

	switch spec.Kind {
	case KindRichText, KindTitle, KindReference:
		text, ok := raw.(string)
		if !ok {
			return nil, wrongType(field, spec.Kind, raw)
		}
		switch spec.Kind {
		case KindTitle:
			return TitleValue{Text: text}, nil
		case KindReference:
			return ReferenceValue{ID: strings.TrimSpace(text)}, nil
		default:
			return RichTextValue{Text: text}, nil
		}
	case KindReferenceList, KindTags, KindFiles:
		items, ok := raw.([]string)
		if !ok {
			return nil, wrongType(field, spec.Kind, raw)
		}
		items = compact(items)
		switch spec.Kind {
		case KindReferenceList:
			return ReferenceListValue{IDs: items}, nil
		case KindTags:
			return TagsValue{Names: items}, nil
		default:
			return FilesValue{URLs: items}, nil
		}
	case KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, wrongType(field, spec.Kind, raw)
		}
		return BooleanValue(b), nil
	case KindDate:
		if d, ok := raw.(dates.Date); ok {
			return DateValue{Birth: d}, nil
		}
		return nil, wrongType(field, spec.Kind, raw)
	case KindGender:
		code, ok := raw.(string)
		if !ok {
			return nil, wrongType(field, spec.Kind, raw)
		}
		g, err := CanonicalGender(code)
		if err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, &ValidationError{Field: field, Value: fmt.Sprint(raw), Reason: "unsupported kind " + spec.Kind.String()}
	}
}

// Validate applies the field's rules to v and returns the value to send.
// Over-long text is truncated and reported as a notice rather than an error.
func (s *Schema) Validate(field Field, v Value) (Value, []Notice, error) {
	spec, ok := s.specs[field]
	if !ok {
		return nil, nil, &ValidationError{Field: field, Reason: "unknown field"}
	}
	if v == nil || v.Kind() != spec.Kind {
		return nil, nil, wrongType(field, spec.Kind, v)
	}

	switch val := v.(type) {
	case RichTextValue:
		text, notices := truncateText(field, val.Text)
		return RichTextValue{Text: text}, notices, nil
	case TitleValue:
		text, notices := truncateText(field, val.Text)
		return TitleValue{Text: text}, notices, nil
	case ReferenceValue:
		if err := validateGUIDs(field, []string{val.ID}); err != nil {
			return nil, nil, err
		}
		return val, nil, nil
	case ReferenceListValue:
		if err := validateGUIDs(field, val.IDs); err != nil {
			return nil, nil, err
		}
		return val, nil, nil
	case BooleanValue:
		return val, nil, nil
	case TagsValue:
		names := make([]string, 0, len(val.Names))
		for _, name := range val.Names {
			if strings.Contains(name, ",") {
				return nil, nil, &ValidationError{Field: field, Value: name, Reason: "tag names cannot contain commas"}
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		return TagsValue{Names: names}, nil, nil
	case DateValue:
		return val, nil, nil
	case GenderValue:
		if val != Male && val != Female {
			return nil, nil, &ValidationError{Field: field, Value: string(val), Reason: "expected Male or Female"}
		}
		return val, nil, nil
	case FilesValue:
		for _, u := range val.URLs {
			if err := validateURL(field, u); err != nil {
				return nil, nil, err
			}
		}
		return val, nil, nil
	default:
		return nil, nil, wrongType(field, spec.Kind, v)
	}
}

// BuildProperty constructs and validates one property. ok is false when raw
// is absent or empty, in which case no property should be emitted. Truncation
// notices are logged at WARN with attrs appended.
func (s *Schema) BuildProperty(field Field, raw any, attrs ...logging.Attr) (Property, bool, error) {
	if isEmpty(raw) {
		return Property{}, false, nil
	}
	value, err := s.New(field, raw)
	if err != nil {
		return Property{}, false, err
	}
	if isEmpty(value) {
		return Property{}, false, nil
	}
	value, notices, err := s.Validate(field, value)
	if err != nil {
		return Property{}, false, err
	}
	for _, notice := range notices {
		fields := append([]logging.Attr{
			logging.PropertyField(string(notice.Field)),
			logging.Int("original_length", notice.OriginalLength),
			logging.Int("limit", notice.Limit),
			logging.String(logging.FieldImpact, "text beyond the limit is not sent to Notion"),
			logging.String(logging.FieldErrorHint, "shorten the source text in the GEDCOM file"),
		}, attrs...)
		logging.WarnWithContext(s.logger, notice.Message, "text_truncated", fields...)
	}
	return Property{Field: field, RemoteID: s.specs[field].RemoteID, Value: value}, true, nil
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(compact(v)) == 0
	case dates.Date:
		return !v.Known()
	case RichTextValue:
		return strings.TrimSpace(v.Text) == ""
	case TitleValue:
		return strings.TrimSpace(v.Text) == ""
	case ReferenceValue:
		return v.ID == ""
	case ReferenceListValue:
		return len(v.IDs) == 0
	case TagsValue:
		return len(v.Names) == 0
	case FilesValue:
		return len(v.URLs) == 0
	case DateValue:
		return !v.Birth.Known() && !v.Death.Known()
	default:
		return false
	}
}

func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func wrongType(field Field, kind Kind, raw any) error {
	return &ValidationError{Field: field, Value: fmt.Sprintf("%T", raw), Reason: "not a " + kind.String() + " value"}
}
