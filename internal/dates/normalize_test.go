package dates_test

import (
	"errors"
	"testing"

	"timemachine/internal/dates"
	"timemachine/internal/services"
)

func mustDate(t *testing.T, y, m, d int) dates.Date {
	t.Helper()
	date, ok := dates.New(y, m, d)
	if !ok {
		t.Fatalf("invalid test date %d-%d-%d", y, m, d)
	}
	return date
}

func TestNormalizePhraseResolvesMonthName(t *testing.T) {
	got, err := dates.Normalize(dates.Phrase{Text: "1850 March 2"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if y, m, d := got.Triple(); y != 1850 || m != 3 || d != 2 {
		t.Fatalf("unexpected triple: %d %d %d", y, m, d)
	}
	if got.Approximate {
		t.Fatal("plain phrase should not be approximate")
	}
}

func TestNormalizeSimpleResolvesAbbreviation(t *testing.T) {
	got, err := dates.Normalize(dates.Simple{Year: 1850, Month: "MAR", Day: 2})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if got != mustDate(t, 1850, 3, 2) {
		t.Fatalf("unexpected date: %v", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	sources := []dates.Source{
		dates.Phrase{Text: "1850 March 2"},
		dates.Simple{Year: 1901, Month: "DEC", Day: 31},
		dates.Phrase{Text: "Abt. 1850 March 2"},
		nil,
	}
	for _, src := range sources {
		first, err := dates.Normalize(src)
		if err != nil {
			t.Fatalf("Normalize(%v): %v", src, err)
		}
		second, err := dates.Normalize(first)
		if err != nil {
			t.Fatalf("Normalize(%v) second pass: %v", first, err)
		}
		if first != second {
			t.Fatalf("expected idempotence: %v != %v", first, second)
		}
	}
}

func TestNormalizeUnknownInputs(t *testing.T) {
	cases := []struct {
		name string
		src  dates.Source
	}{
		{"nil", nil},
		{"empty phrase", dates.Phrase{Text: ""}},
		{"free text", dates.Phrase{Text: "sometime in spring"}},
		{"non numeric year", dates.Phrase{Text: "eighteen March 2"}},
		{"impossible day", dates.Phrase{Text: "1850 February 30"}},
		{"year only", dates.Simple{Year: 1850}},
		{"month and year", dates.Simple{Year: 1850, Month: "MAR"}},
		{"range", dates.Range{From: dates.Simple{Year: 1850, Month: "JAN", Day: 1}, To: dates.Simple{Year: 1860, Month: "JAN", Day: 1}}},
		{"nil pointer", (*dates.Date)(nil)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := dates.Normalize(tc.src)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got.Known() {
				t.Fatalf("expected unknown, got %v", got)
			}
		})
	}
}

func TestNormalizeRejectsUnknownMonth(t *testing.T) {
	cases := []dates.Source{
		dates.Phrase{Text: "1850 Marchember 2"},
		dates.Simple{Year: 1850, Month: "MRZ", Day: 2},
		dates.Simple{Year: 1850, Month: "XYZ"},
	}
	for _, src := range cases {
		_, err := dates.Normalize(src)
		if err == nil {
			t.Fatalf("expected validation error for %v", src)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("expected ErrValidation, got %v", err)
		}
		var vErr *dates.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
	}
}

func TestNormalizeApproximateForms(t *testing.T) {
	phrase, err := dates.Normalize(dates.Phrase{Text: "Abt. 1850 March 2"})
	if err != nil {
		t.Fatalf("Normalize phrase: %v", err)
	}
	if !phrase.Approximate || phrase.ISO() != "1850-03-02" {
		t.Fatalf("unexpected approximate phrase result: %+v", phrase)
	}

	qualified, err := dates.Normalize(dates.Qualified{Qualifier: "ABT", Date: dates.Simple{Year: 1850, Month: "mar", Day: 2}})
	if err != nil {
		t.Fatalf("Normalize qualified: %v", err)
	}
	if !qualified.Approximate || qualified.ISO() != "1850-03-02" {
		t.Fatalf("unexpected qualified result: %+v", qualified)
	}
}

func TestDateRendering(t *testing.T) {
	d := mustDate(t, 912, 7, 4)
	if d.ISO() != "0912-07-04" {
		t.Fatalf("unexpected ISO: %q", d.ISO())
	}
	if dates.Unknown.ISO() != "" || dates.Unknown.String() != "unknown" {
		t.Fatalf("unexpected unknown rendering: %q %q", dates.Unknown.ISO(), dates.Unknown.String())
	}
}

func TestDateLiteralIsUnknown(t *testing.T) {
	literal := dates.Date{Year: 1850, Month: 3, Day: 2}
	if literal.Known() {
		t.Fatal("expected a literal date to be unknown")
	}
	got, err := dates.Normalize(literal)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Known() {
		t.Fatalf("expected literal to stay unknown, got %v", got)
	}
	built, ok := dates.New(1850, 3, 2)
	if !ok || !built.Known() {
		t.Fatalf("expected New to build a known date, got %v", built)
	}
}

func TestMonthTables(t *testing.T) {
	for name, want := range map[string]int{"January": 1, "june": 6, "DECEMBER": 12} {
		if got, ok := dates.MonthFromName(name); !ok || got != want {
			t.Fatalf("MonthFromName(%q) = %d, %v", name, got, ok)
		}
	}
	if _, ok := dates.MonthFromAbbrev("SEPT"); ok {
		t.Fatal("expected four-letter abbreviation to be rejected")
	}
}
