package testsupport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteGedcom writes lines as a GEDCOM file under dir and returns its path.
// The header and trailer are added when missing.
func WriteGedcom(t testing.TB, dir, name string, lines ...string) string {
	t.Helper()

	if len(lines) == 0 || !strings.HasPrefix(lines[0], "0 HEAD") {
		lines = append([]string{"0 HEAD", "1 CHAR UTF-8"}, lines...)
	}
	if lines[len(lines)-1] != "0 TRLR" {
		lines = append(lines, "0 TRLR")
	}
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// FamilyGedcom returns a small two-generation tree: a couple (@I1@, @I2@)
// and their child (@I3@).
func FamilyGedcom() []string {
	return []string{
		"0 @I1@ INDI",
		"1 NAME Reginald /Walker/",
		"1 SEX M",
		"1 BIRT",
		"2 DATE 12 MAR 1901",
		"2 PLAC Leeds, England",
		"1 DEAT",
		"2 DATE ABT 1970",
		"1 FAMS @F1@",
		"0 @I2@ INDI",
		"1 NAME Edith /Brown/",
		"1 SEX F",
		"1 BIRT",
		"2 DATE 1905",
		"1 FAMS @F1@",
		"0 @I3@ INDI",
		"1 NAME Arthur /Walker/",
		"1 SEX M",
		"1 FAMC @F1@",
		"0 @F1@ FAM",
		"1 HUSB @I1@",
		"1 WIFE @I2@",
		"1 CHIL @I3@",
		"1 MARR",
		"2 DATE 4 JUN 1928",
	}
}
