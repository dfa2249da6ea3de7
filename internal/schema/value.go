package schema

import "timemachine/internal/dates"

// Value is one typed property value. The set of implementations is closed.
type Value interface {
	Kind() Kind
	isValue()
}

type RichTextValue struct{ Text string }

type TitleValue struct{ Text string }

// ReferenceValue points at one page by id.
type ReferenceValue struct{ ID string }

// ReferenceListValue points at pages by id, in order.
type ReferenceListValue struct{ IDs []string }

type BooleanValue bool

// TagsValue holds multi-select option names, duplicates removed.
type TagsValue struct{ Names []string }

// DateValue is a life span or single event date. Either endpoint may be
// dates.Unknown.
type DateValue struct {
	Birth dates.Date
	Death dates.Date
}

// GenderValue is Male or Female.
type GenderValue string

const (
	Male   GenderValue = "Male"
	Female GenderValue = "Female"
)

// FilesValue lists externally hosted file URLs.
type FilesValue struct{ URLs []string }

func (RichTextValue) Kind() Kind      { return KindRichText }
func (TitleValue) Kind() Kind         { return KindTitle }
func (ReferenceValue) Kind() Kind     { return KindReference }
func (ReferenceListValue) Kind() Kind { return KindReferenceList }
func (BooleanValue) Kind() Kind       { return KindBoolean }
func (TagsValue) Kind() Kind          { return KindTags }
func (DateValue) Kind() Kind          { return KindDate }
func (GenderValue) Kind() Kind        { return KindGender }
func (FilesValue) Kind() Kind         { return KindFiles }

func (RichTextValue) isValue()      {}
func (TitleValue) isValue()         {}
func (ReferenceValue) isValue()     {}
func (ReferenceListValue) isValue() {}
func (BooleanValue) isValue()       {}
func (TagsValue) isValue()          {}
func (DateValue) isValue()          {}
func (GenderValue) isValue()        {}
func (FilesValue) isValue()         {}

// Property is a validated value bound to its field and remote id.
type Property struct {
	Field    Field
	RemoteID string
	Value    Value
}
