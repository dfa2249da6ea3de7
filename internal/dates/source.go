package dates

// Source is any date representation Normalize understands.
type Source interface {
	isSource()
}

// Simple is a structured date with a GEDCOM month abbreviation (JAN…DEC).
// Zero Month or Day means the component was absent.
type Simple struct {
	Year  int
	Month string
	Day   int
}

// Phrase is free text, expected in the form "<year> <MonthName> <day>".
type Phrase struct {
	Text string
}

// Qualified wraps a date marked as approximate or bounded (ABT, CAL, EST,
// BEF, AFT).
type Qualified struct {
	Qualifier string
	Date      Source
}

// Range is a span between two dates (BET … AND …, FROM … TO …).
type Range struct {
	From Source
	To   Source
}

func (Simple) isSource()    {}
func (Phrase) isSource()    {}
func (Qualified) isSource() {}
func (Range) isSource()     {}
