package dates

import (
	"fmt"
	"strconv"
	"strings"

	"timemachine/internal/services"
)

// ValidationError reports a date whose month name is outside the lookup table.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("date %q: %s", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return services.ErrValidation
}

var approximateQualifiers = map[string]struct{}{
	"abt": {}, "about": {}, "circa": {}, "c": {}, "ca": {},
	"est": {}, "cal": {}, "bef": {}, "aft": {},
}

// Normalize converts a source date into a canonical Date. Absent or
// unparseable input yields Unknown without error; an out-of-table month name
// is a ValidationError.
func Normalize(src Source) (Date, error) {
	switch v := src.(type) {
	case nil:
		return Unknown, nil
	case Date:
		return v, nil
	case *Date:
		if v == nil {
			return Unknown, nil
		}
		return *v, nil
	case Simple:
		return normalizeSimple(v)
	case Phrase:
		return normalizePhrase(v)
	case Qualified:
		d, err := Normalize(v.Date)
		if err != nil || !d.Known() {
			return d, err
		}
		d.Approximate = true
		return d, nil
	case Range:
		return Unknown, nil
	default:
		return Unknown, nil
	}
}

func normalizeSimple(s Simple) (Date, error) {
	if strings.TrimSpace(s.Month) == "" {
		return Unknown, nil
	}
	month, ok := MonthFromAbbrev(s.Month)
	if !ok {
		return Unknown, &ValidationError{Input: s.Month, Reason: "unrecognized month abbreviation"}
	}
	if s.Day == 0 || s.Year == 0 {
		return Unknown, nil
	}
	d, _ := New(s.Year, month, s.Day)
	return d, nil
}

func normalizePhrase(p Phrase) (Date, error) {
	tokens := strings.Fields(p.Text)
	approximate := false
	for len(tokens) > 0 {
		qualifier := strings.ToLower(strings.TrimSuffix(tokens[0], "."))
		if _, ok := approximateQualifiers[qualifier]; !ok {
			break
		}
		approximate = true
		tokens = tokens[1:]
	}
	if len(tokens) != 3 {
		return Unknown, nil
	}
	year, err := strconv.Atoi(tokens[0])
	if err != nil {
		return Unknown, nil
	}
	day, err := strconv.Atoi(strings.TrimSuffix(tokens[2], ","))
	if err != nil {
		return Unknown, nil
	}
	month, ok := MonthFromName(strings.TrimSuffix(tokens[1], ","))
	if !ok {
		return Unknown, &ValidationError{Input: p.Text, Reason: fmt.Sprintf("unrecognized month name %q", tokens[1])}
	}
	d, ok := New(year, month, day)
	if !ok {
		return Unknown, nil
	}
	d.Approximate = approximate
	return d, nil
}
