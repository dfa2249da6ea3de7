package gedcom

import "strings"

// Header carries file level metadata.
type Header struct {
	Charset string
	Source  string
	Version string
}

// Document is a parsed GEDCOM file.
type Document struct {
	Path        string
	Header      Header
	records     []*Node
	byXRef      map[string]*Node
	individuals []*Individual
	families    []*Family
	familyIndex map[string]*Family
}

func newDocument() *Document {
	return &Document{
		byXRef:      map[string]*Node{},
		familyIndex: map[string]*Family{},
	}
}

func (d *Document) addRecord(node *Node) {
	d.records = append(d.records, node)
	if node.XRef != "" {
		d.byXRef[node.XRef] = node
	}
}

func (d *Document) finish() {
	for _, rec := range d.records {
		switch rec.Tag {
		case "HEAD":
			if src := rec.First("SOUR"); src != nil {
				d.Header.Source = src.Value
			}
			if ver := rec.Find("GEDC/VERS"); ver != nil {
				d.Header.Version = ver.Value
			}
		case "INDI":
			d.individuals = append(d.individuals, &Individual{node: rec, doc: d})
		case "FAM":
			fam := &Family{node: rec, doc: d}
			d.families = append(d.families, fam)
			if rec.XRef != "" {
				d.familyIndex[rec.XRef] = fam
			}
		}
	}
}

// Records returns every level 0 record in file order.
func (d *Document) Records() []*Node {
	return d.records
}

// Record looks up a level 0 record by cross-reference.
func (d *Document) Record(xref string) (*Node, bool) {
	n, ok := d.byXRef[xref]
	return n, ok
}

// Individuals returns INDI records in file order.
func (d *Document) Individuals() []*Individual {
	return d.individuals
}

// Individual looks up an INDI record by cross-reference.
func (d *Document) Individual(xref string) (*Individual, bool) {
	for _, ind := range d.individuals {
		if ind.node.XRef == xref {
			return ind, true
		}
	}
	return nil, false
}

// Families returns FAM records in file order.
func (d *Document) Families() []*Family {
	return d.families
}

// Family looks up a FAM record by cross-reference.
func (d *Document) Family(xref string) (*Family, bool) {
	f, ok := d.familyIndex[xref]
	return f, ok
}

// resolveText follows a pointer to a NOTE record when value is one.
func (d *Document) resolveText(value string) string {
	if IsPointer(value) {
		if rec, ok := d.byXRef[value]; ok {
			return strings.TrimSpace(rec.Value)
		}
		return ""
	}
	return strings.TrimSpace(value)
}

// Family is a FAM record.
type Family struct {
	node *Node
	doc  *Document
}

func (f *Family) XRef() string { return f.node.XRef }

func (f *Family) Husband() string { return pointerValue(f.node.First("HUSB")) }

func (f *Family) Wife() string { return pointerValue(f.node.First("WIFE")) }

// Children returns child cross-references in file order.
func (f *Family) Children() []string {
	var out []string
	for _, c := range f.node.All("CHIL") {
		if v := pointerValue(c); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Partners returns the husband and wife cross-references that are present.
func (f *Family) Partners() []string {
	var out []string
	for _, v := range []string{f.Husband(), f.Wife()} {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (f *Family) MarriageDate() string {
	if n := f.node.Find("MARR/DATE"); n != nil {
		return n.Value
	}
	return ""
}

func pointerValue(n *Node) string {
	if n == nil || !IsPointer(n.Value) {
		return ""
	}
	return n.Value
}
