package gedcom

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"timemachine/internal/dates"
	"timemachine/internal/services"
)

func TestOpenFixture(t *testing.T) {
	doc, err := Open("testdata/family.ged")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if doc.Header.Version != "5.5.1" || doc.Header.Source != "timemachine-tests" {
		t.Fatalf("unexpected header %+v", doc.Header)
	}
	inds := doc.Individuals()
	if len(inds) != 5 {
		t.Fatalf("expected 5 individuals, got %d", len(inds))
	}
	reg := inds[0]
	if reg.XRef() != "@I1@" || reg.FullName() != "Reginald Bumbags" {
		t.Fatalf("unexpected first individual %q %q", reg.XRef(), reg.FullName())
	}
	if reg.Name().Nickname != "Reggie" || reg.Text("NAME/NICK") != "Reggie" {
		t.Fatalf("unexpected nickname %+v", reg.Name())
	}
	if alt := reg.AltNames(); len(alt) != 1 || alt[0] != "Reg Bumbags" {
		t.Fatalf("unexpected alt names %v", alt)
	}
	if reg.Sex() != "M" {
		t.Fatalf("unexpected sex %q", reg.Sex())
	}
	if got := reg.Date("BIRT/DATE"); got != (dates.Phrase{Text: "1850 March 2"}) {
		t.Fatalf("unexpected birth date %#v", got)
	}
	if reg.Date("DEAT/DATE") != nil {
		t.Fatal("expected nil death date")
	}
	if got := reg.Text("NOTE"); got != "Collected buttons and stamps.\nNever married twice." {
		t.Fatalf("unexpected note %q", got)
	}
	if got := reg.Text("BURI/PLAC"); got != "Harrogate, England" {
		t.Fatalf("unexpected burial place %q", got)
	}

	if got := reg.Spouses(); len(got) != 1 || got[0] != "@I2@" {
		t.Fatalf("unexpected spouses %v", got)
	}
	if got := reg.Children(); len(got) != 1 || got[0] != "@I3@" {
		t.Fatalf("unexpected children %v", got)
	}
	if got := reg.Parents(); len(got) != 1 || got[0] != "@I4@" {
		t.Fatalf("unexpected parents %v", got)
	}
	if got := reg.Siblings(); len(got) != 1 || got[0] != "@I5@" {
		t.Fatalf("unexpected siblings %v", got)
	}
	if got := reg.MarriageDate(); got != (dates.Simple{Year: 1875, Month: "JUN", Day: 1}) {
		t.Fatalf("unexpected marriage %#v", got)
	}

	albert, ok := doc.Individual("@I3@")
	if !ok || albert.FullName() != "Albert Bumbags Jr." {
		t.Fatalf("unexpected albert %v", albert)
	}
	if _, ok := albert.Date("BIRT/DATE").(dates.Range); !ok {
		t.Fatalf("expected range, got %#v", albert.Date("BIRT/DATE"))
	}
	if fam, ok := doc.Family("@F1@"); !ok || fam.Husband() != "@I1@" || fam.Wife() != "@I2@" {
		t.Fatal("unexpected family F1")
	}
}

func TestParseHandlesBOMAndCRLF(t *testing.T) {
	input := "\xEF\xBB\xBF0 HEAD\r\n1 CHAR UTF-8\r\n0 @I1@ INDI\r\n1 NAME Zoë /Brontë/\r\n0 TRLR\r\n"
	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Individuals()[0].FullName(); got != "Zoë Brontë" {
		t.Fatalf("unexpected name %q", got)
	}
	if doc.Header.Charset != "UTF-8" {
		t.Fatalf("unexpected charset %q", doc.Header.Charset)
	}
}

func TestParseDecodesANSI(t *testing.T) {
	text := "0 HEAD\n1 CHAR ANSI\n0 @I1@ INDI\n1 NAME José /Muñoz/\n0 TRLR\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc, err := Parse(strings.NewReader(encoded))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Individuals()[0].FullName(); got != "José Muñoz" {
		t.Fatalf("unexpected name %q", got)
	}
}

func TestParseNormalizesToNFC(t *testing.T) {
	decomposed := "0 @I1@ INDI\n1 NAME Jose\u0301 /Smith/\n"
	doc, err := Parse(strings.NewReader(decomposed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := doc.Individuals()[0].FullName(); got != "Jos\u00e9 Smith" {
		t.Fatalf("expected composed form, got %q", got)
	}
}

func TestParseRejectsMalformedLines(t *testing.T) {
	tests := map[string]string{
		"bad level":   "0 HEAD\nX NAME foo\n",
		"level skip":  "0 @I1@ INDI\n2 DATE 1900\n",
		"orphan":      "1 NAME foo\n",
		"missing tag": "0 @I1@\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Fatalf("expected line number in %v", err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want dates.Source
	}{
		{"", nil},
		{"2 MAR 1850", dates.Simple{Year: 1850, Month: "MAR", Day: 2}},
		{"MAR 1850", dates.Simple{Year: 1850, Month: "MAR"}},
		{"1850", dates.Simple{Year: 1850}},
		{"@#DGREGORIAN@ 3 FEB 1700/01", dates.Simple{Year: 1700, Month: "FEB", Day: 3}},
		{"1850 March 2", dates.Phrase{Text: "1850 March 2"}},
		{"(sometime in spring)", dates.Phrase{Text: "sometime in spring"}},
		{"INT 2 MAR 1850 (the second of March)", dates.Phrase{Text: "the second of March"}},
		{"ABT 1850", dates.Qualified{Qualifier: "ABT", Date: dates.Simple{Year: 1850}}},
		{"bef 2 MAR 1850", dates.Qualified{Qualifier: "BEF", Date: dates.Simple{Year: 1850, Month: "MAR", Day: 2}}},
		{"BET 1850 AND 1860", dates.Range{From: dates.Simple{Year: 1850}, To: dates.Simple{Year: 1860}}},
		{"FROM 1850 TO 1860", dates.Range{From: dates.Simple{Year: 1850}, To: dates.Simple{Year: 1860}}},
	}
	for _, tt := range tests {
		if got := ParseDate(tt.in); got != tt.want {
			t.Fatalf("ParseDate(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParsedPartialDateWithBadMonthFailsNormalization(t *testing.T) {
	src := ParseDate("XYZ 1850")
	if src != (dates.Simple{Year: 1850, Month: "XYZ"}) {
		t.Fatalf("unexpected source %#v", src)
	}
	if _, err := dates.Normalize(src); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in   string
		want Name
	}{
		{"John /Smith/", Name{Given: "John", Surname: "Smith"}},
		{"John  Paul /Smith/ Jr.", Name{Given: "John Paul", Surname: "Smith", Suffix: "Jr."}},
		{"/Smith/", Name{Surname: "Smith"}},
		{"Madonna", Name{Given: "Madonna"}},
	}
	for _, tt := range tests {
		if got := ParseName(tt.in); got != tt.want {
			t.Fatalf("ParseName(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("testdata/missing.ged"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
