package gedcom

import (
	"slices"
	"strings"

	"timemachine/internal/dates"
)

// Name is a parsed personal name.
type Name struct {
	Given    string
	Surname  string
	Suffix   string
	Nickname string
}

// Format renders "Given Surname Suffix" with empty parts dropped.
func (n Name) Format() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{n.Given, n.Surname, n.Suffix} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// ParseName splits a NAME value such as "John /Smith/ Jr." into parts.
func ParseName(value string) Name {
	value = strings.TrimSpace(value)
	first := strings.Index(value, "/")
	if first < 0 {
		return Name{Given: collapse(value)}
	}
	last := strings.Index(value[first+1:], "/")
	if last < 0 {
		return Name{Given: collapse(value[:first]), Surname: collapse(value[first+1:])}
	}
	last += first + 1
	return Name{
		Given:   collapse(value[:first]),
		Surname: collapse(value[first+1 : last]),
		Suffix:  collapse(value[last+1:]),
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Individual is an INDI record.
type Individual struct {
	node *Node
	doc  *Document
}

// XRef returns the record's cross-reference, e.g. "@I1@".
func (i *Individual) XRef() string { return i.node.XRef }

// Node exposes the underlying record.
func (i *Individual) Node() *Node { return i.node }

// Name returns the primary name with GIVN/SURN/NSFX/NICK overrides applied.
func (i *Individual) Name() Name {
	n := i.node.First("NAME")
	if n == nil {
		return Name{}
	}
	return nameFromNode(n)
}

func nameFromNode(n *Node) Name {
	name := ParseName(n.Value)
	if v := n.First("GIVN"); v != nil && strings.TrimSpace(v.Value) != "" {
		name.Given = collapse(v.Value)
	}
	if v := n.First("SURN"); v != nil && strings.TrimSpace(v.Value) != "" {
		name.Surname = collapse(v.Value)
	}
	if v := n.First("NSFX"); v != nil && strings.TrimSpace(v.Value) != "" {
		name.Suffix = collapse(v.Value)
	}
	if v := n.First("NICK"); v != nil {
		name.Nickname = collapse(v.Value)
	}
	return name
}

func (i *Individual) FullName() string { return i.Name().Format() }

// Names returns every NAME, formatted, in file order.
func (i *Individual) Names() []string {
	var out []string
	for _, n := range i.node.All("NAME") {
		if f := nameFromNode(n).Format(); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// AltNames returns the names after the primary one.
func (i *Individual) AltNames() []string {
	names := i.Names()
	if len(names) < 2 {
		return nil
	}
	return names[1:]
}

// Sex returns the raw SEX value.
func (i *Individual) Sex() string { return strings.TrimSpace(i.Value("SEX")) }

// Value returns the raw value at path, or "".
func (i *Individual) Value(path string) string {
	if n := i.node.Find(path); n != nil {
		return n.Value
	}
	return ""
}

// Values returns every non-empty value reachable through path.
func (i *Individual) Values(path string) []string {
	var out []string
	for _, n := range i.node.FindAll(path) {
		if v := strings.TrimSpace(n.Value); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Text returns the trimmed value at path, resolving NOTE pointers.
func (i *Individual) Text(path string) string {
	return i.doc.resolveText(i.Value(path))
}

// Date returns the parsed date at path, or nil when absent.
func (i *Individual) Date(path string) dates.Source {
	return ParseDate(i.Value(path))
}

func (i *Individual) families(tag string) []*Family {
	var out []*Family
	for _, n := range i.node.All(tag) {
		if fam, ok := i.doc.Family(n.Value); ok {
			out = append(out, fam)
		}
	}
	return out
}

// Parents returns the partners of every family the individual is a child in.
func (i *Individual) Parents() []string {
	var out []string
	for _, fam := range i.families("FAMC") {
		out = appendUnique(out, fam.Partners()...)
	}
	return out
}

// Spouses returns the other partner of every family the individual founded.
func (i *Individual) Spouses() []string {
	var out []string
	for _, fam := range i.families("FAMS") {
		for _, p := range fam.Partners() {
			if p != i.XRef() {
				out = appendUnique(out, p)
			}
		}
	}
	return out
}

func (i *Individual) Children() []string {
	var out []string
	for _, fam := range i.families("FAMS") {
		out = appendUnique(out, fam.Children()...)
	}
	return out
}

// Siblings returns the other children of the individual's parent families.
func (i *Individual) Siblings() []string {
	var out []string
	for _, fam := range i.families("FAMC") {
		for _, c := range fam.Children() {
			if c != i.XRef() {
				out = appendUnique(out, c)
			}
		}
	}
	return out
}

// MarriageDate returns the marriage date of the first family the individual
// founded.
func (i *Individual) MarriageDate() dates.Source {
	for _, fam := range i.families("FAMS") {
		if v := fam.MarriageDate(); v != "" {
			return ParseDate(v)
		}
	}
	return nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}
