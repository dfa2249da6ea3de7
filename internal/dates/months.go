package dates

import "strings"

var monthAbbrevs = map[string]int{
	"JAN": 1,
	"FEB": 2,
	"MAR": 3,
	"APR": 4,
	"MAY": 5,
	"JUN": 6,
	"JUL": 7,
	"AUG": 8,
	"SEP": 9,
	"OCT": 10,
	"NOV": 11,
	"DEC": 12,
}

var monthNames = map[string]int{
	"january":   1,
	"february":  2,
	"march":     3,
	"april":     4,
	"may":       5,
	"june":      6,
	"july":      7,
	"august":    8,
	"september": 9,
	"october":   10,
	"november":  11,
	"december":  12,
}

// MonthFromAbbrev resolves a three-letter GEDCOM month abbreviation.
func MonthFromAbbrev(abbrev string) (int, bool) {
	month, ok := monthAbbrevs[strings.ToUpper(strings.TrimSpace(abbrev))]
	return month, ok
}

// MonthFromName resolves a full English month name.
func MonthFromName(name string) (int, bool) {
	month, ok := monthNames[strings.ToLower(strings.TrimSpace(name))]
	return month, ok
}
