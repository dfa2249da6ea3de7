package schema

import "fmt"

// Field names one person property.
type Field string

const (
	FullBirthName      Field = "FullBirthName"
	BriefBiography     Field = "BriefBiography"
	NotableFigure      Field = "NotableFigure"
	Notes              Field = "Notes"
	DatesApprox        Field = "DatesApprox"
	Branch             Field = "Branch"
	Spouse             Field = "Spouse"
	Images             Field = "Images"
	Parents            Field = "Parents"
	Siblings           Field = "Siblings"
	Library            Field = "Library"
	Children           Field = "Children"
	PlaceOfDeathBurial Field = "PlaceOfDeathBurial"
	Tags               Field = "Tags"
	AssociatedWith     Field = "AssociatedWith"
	DisplayName        Field = "DisplayName"
	NickName           Field = "NickName"
	PlaceOfBirth       Field = "PlaceOfBirth"
	Gender             Field = "Gender"
	BirthDeath         Field = "BirthDeath"
	Marriage           Field = "Marriage"
	Title              Field = "Title"
	AltNames           Field = "AltNames"
)

// Kind is the value shape a field accepts.
type Kind int

const (
	KindRichText Kind = iota + 1
	KindTitle
	KindReference
	KindReferenceList
	KindBoolean
	KindTags
	KindDate
	KindGender
	KindFiles
)

func (k Kind) String() string {
	switch k {
	case KindRichText:
		return "rich_text"
	case KindTitle:
		return "title"
	case KindReference:
		return "reference"
	case KindReferenceList:
		return "reference_list"
	case KindBoolean:
		return "boolean"
	case KindTags:
		return "tags"
	case KindDate:
		return "date"
	case KindGender:
		return "gender"
	case KindFiles:
		return "files"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec binds a field to its kind and remote property identifier.
type Spec struct {
	Field    Field
	Kind     Kind
	RemoteID string
}

// defaultSpecs is the database layout in display order. Remote ids are the
// URL-encoded property ids Notion assigned when the database was created.
var defaultSpecs = []Spec{
	{FullBirthName, KindTitle, "title"},
	{DisplayName, KindRichText, "gvML"},
	{NickName, KindRichText, "i%5D%7B%3F"},
	{AltNames, KindRichText, "~%5E%3E%3C"},
	{Title, KindRichText, "%7DBDt"},
	{Gender, KindGender, "Gender"},
	{BirthDeath, KindDate, "rCAI"},
	{DatesApprox, KindBoolean, "NNeY"},
	{PlaceOfBirth, KindRichText, "prt%3E"},
	{PlaceOfDeathBurial, KindRichText, "%60Cn%7D"},
	{Marriage, KindDate, "%7BRvC"},
	{Spouse, KindReference, "P%5Bp%3E"},
	{Parents, KindReferenceList, "UVq%5D"},
	{Siblings, KindReferenceList, "_iE%3F"},
	{Children, KindReferenceList, "%5Dpsl"},
	{Branch, KindReference, "OEb%7C"},
	{AssociatedWith, KindReferenceList, "aoDr"},
	{Library, KindReferenceList, "%5B%5DpC"},
	{Tags, KindTags, "%60y_o"},
	{NotableFigure, KindBoolean, "IQKR"},
	{BriefBiography, KindRichText, "%3E%5Dx%3A"},
	{Notes, KindRichText, "JFzR"},
	{Images, KindFiles, "Pj%5CT"},
}
