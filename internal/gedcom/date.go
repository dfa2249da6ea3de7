package gedcom

import (
	"strconv"
	"strings"

	"timemachine/internal/dates"
)

var dateQualifiers = map[string]bool{"ABT": true, "CAL": true, "EST": true, "BEF": true, "AFT": true}

// ParseDate converts a DATE value into a dates.Source. Empty input yields
// nil. Values that do not follow the GEDCOM date grammar are returned as a
// Phrase holding the raw text.
func ParseDate(value string) dates.Source {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if strings.HasPrefix(value, "(") && strings.HasSuffix(value, ")") {
		return dates.Phrase{Text: strings.TrimSpace(value[1 : len(value)-1])}
	}

	fields := strings.Fields(value)
	head := strings.ToUpper(fields[0])
	switch {
	case head == "INT":
		if open := strings.Index(value, "("); open >= 0 && strings.HasSuffix(value, ")") {
			return dates.Phrase{Text: strings.TrimSpace(value[open+1 : len(value)-1])}
		}
		return parseOrPhrase(strings.Join(fields[1:], " "), value)
	case dateQualifiers[head]:
		inner := ParseDate(strings.Join(fields[1:], " "))
		if inner == nil {
			return dates.Phrase{Text: value}
		}
		return dates.Qualified{Qualifier: head, Date: inner}
	case head == "BET":
		from, to, ok := splitKeyword(fields[1:], "AND")
		if !ok {
			return dates.Phrase{Text: value}
		}
		return dates.Range{From: ParseDate(from), To: ParseDate(to)}
	case head == "FROM":
		from, to, _ := splitKeyword(fields[1:], "TO")
		return dates.Range{From: ParseDate(from), To: ParseDate(to)}
	case head == "TO":
		return dates.Range{To: ParseDate(strings.Join(fields[1:], " "))}
	}
	return parseOrPhrase(value, value)
}

func parseOrPhrase(text, raw string) dates.Source {
	if simple, ok := parseSimple(text); ok {
		return simple
	}
	return dates.Phrase{Text: raw}
}

// parseSimple accepts "[@#DGREGORIAN@] [[day] MON] year[/yy]".
func parseSimple(text string) (dates.Simple, bool) {
	fields := strings.Fields(text)
	if len(fields) > 0 && strings.EqualFold(fields[0], "@#DGREGORIAN@") {
		fields = fields[1:]
	}
	if len(fields) == 0 || len(fields) > 3 {
		return dates.Simple{}, false
	}
	year, ok := parseYear(fields[len(fields)-1])
	if !ok {
		return dates.Simple{}, false
	}
	out := dates.Simple{Year: year}
	if len(fields) >= 2 {
		month := strings.ToUpper(fields[len(fields)-2])
		if len(month) != 3 || !isAlpha(month) {
			return dates.Simple{}, false
		}
		out.Month = month
	}
	if len(fields) == 3 {
		day, err := strconv.Atoi(fields[0])
		if err != nil || day < 1 || day > 31 {
			return dates.Simple{}, false
		}
		out.Day = day
	}
	return out, true
}

func parseYear(token string) (int, bool) {
	if base, _, ok := strings.Cut(token, "/"); ok {
		token = base
	}
	year, err := strconv.Atoi(token)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func splitKeyword(fields []string, keyword string) (string, string, bool) {
	for i, f := range fields {
		if strings.EqualFold(f, keyword) {
			return strings.Join(fields[:i], " "), strings.Join(fields[i+1:], " "), true
		}
	}
	return strings.Join(fields, " "), "", false
}
