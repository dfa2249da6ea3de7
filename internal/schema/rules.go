package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"

	"timemachine/internal/services"
)

// MaxTextLength is the longest text content Notion accepts in one rich text
// object, counted in characters.
const MaxTextLength = 2000

var guidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidationError reports a value a field cannot accept.
type ValidationError struct {
	Field  Field
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: invalid value %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error { return services.ErrValidation }

// Notice reports a value that was adjusted rather than rejected.
type Notice struct {
	Field          Field
	Message        string
	OriginalLength int
	Limit          int
}

// ValidGUID reports whether id is a dashed 8-4-4-4-12 hex identifier.
func ValidGUID(id string) bool {
	return guidPattern.MatchString(id)
}

// CanonicalGender maps the sex codes "M" and "F" to a GenderValue. Any other
// spelling, including lower case and full words, is rejected.
func CanonicalGender(code string) (GenderValue, error) {
	switch code {
	case "M":
		return Male, nil
	case "F":
		return Female, nil
	default:
		return "", &ValidationError{Field: Gender, Value: code, Reason: "expected M or F"}
	}
}

func truncateText(field Field, text string) (string, []Notice) {
	n := utf8.RuneCountInString(text)
	if n <= MaxTextLength {
		return text, nil
	}
	runes := []rune(text)
	return string(runes[:MaxTextLength]), []Notice{{
		Field:          field,
		Message:        "text truncated",
		OriginalLength: n,
		Limit:          MaxTextLength,
	}}
}

func validateGUIDs(field Field, ids []string) error {
	for _, id := range ids {
		if !ValidGUID(id) {
			return &ValidationError{Field: field, Value: id, Reason: "not a page identifier"}
		}
	}
	return nil
}

func validateURL(field Field, raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &ValidationError{Field: field, Value: raw, Reason: "expected absolute http(s) URL"}
	}
	return nil
}
