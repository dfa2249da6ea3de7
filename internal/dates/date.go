package dates

import (
	"fmt"
	"time"
)

// Date is a normalized calendar date. The zero value is Unknown.
//
// Only New and Normalize produce known dates. A composite literal such as
// Date{Year: 1850, Month: 3, Day: 2} stays Unknown because the known flag
// is unexported, and Normalize returns it unchanged.
type Date struct {
	Year        int
	Month       int
	Day         int
	Approximate bool
	known       bool
}

// Unknown is the explicit absence of a date.
var Unknown = Date{}

// New returns a known date after checking the components form a real
// calendar day.
func New(year, month, day int) (Date, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Unknown, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Unknown, false
	}
	return Date{Year: year, Month: month, Day: day, known: true}, true
}

// Known reports whether the date carries calendar components.
func (d Date) Known() bool {
	return d.known
}

// Triple returns the (year, month, day) components.
func (d Date) Triple() (int, int, int) {
	return d.Year, d.Month, d.Day
}

// ISO renders the date as YYYY-MM-DD. Unknown dates render as an empty string.
func (d Date) ISO() string {
	if !d.known {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) String() string {
	if !d.known {
		return "unknown"
	}
	if d.Approximate {
		return "~" + d.ISO()
	}
	return d.ISO()
}

func (Date) isSource() {}
