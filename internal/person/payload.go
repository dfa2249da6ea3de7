package person

import (
	"net/url"
	"path"

	"timemachine/internal/notion"
	"timemachine/internal/schema"
)

// Payload renders the record as a page creation request under databaseID.
func (r Record) Payload(databaseID string) notion.PageRequest {
	req := r.UpdatePayload()
	req.Parent = &notion.Parent{DatabaseID: databaseID}
	return req
}

// UpdatePayload renders the record's properties without a parent.
func (r Record) UpdatePayload() notion.PageRequest {
	props := make(map[string]notion.PropertyValue, len(r.Properties))
	for _, prop := range r.Properties {
		props[prop.RemoteID] = PropertyValue(prop.Value)
	}
	return notion.PageRequest{Properties: props}
}

// PropertyValue converts a schema value to its Notion representation.
func PropertyValue(v schema.Value) notion.PropertyValue {
	switch val := v.(type) {
	case schema.TitleValue:
		return notion.PropertyValue{Title: notion.PlainRichText(val.Text)}
	case schema.RichTextValue:
		return notion.PropertyValue{RichText: notion.PlainRichText(val.Text)}
	case schema.ReferenceValue:
		return notion.PropertyValue{Relation: []notion.PageRef{{ID: val.ID}}}
	case schema.ReferenceListValue:
		refs := make([]notion.PageRef, 0, len(val.IDs))
		for _, id := range val.IDs {
			refs = append(refs, notion.PageRef{ID: id})
		}
		return notion.PropertyValue{Relation: refs}
	case schema.BooleanValue:
		b := bool(val)
		return notion.PropertyValue{Checkbox: &b}
	case schema.TagsValue:
		opts := make([]notion.SelectOption, 0, len(val.Names))
		for _, name := range val.Names {
			opts = append(opts, notion.SelectOption{Name: name})
		}
		return notion.PropertyValue{MultiSelect: opts}
	case schema.DateValue:
		return notion.PropertyValue{Date: dateRange(val)}
	case schema.GenderValue:
		return notion.PropertyValue{Select: &notion.SelectOption{Name: string(val)}}
	case schema.FilesValue:
		files := make([]notion.File, 0, len(val.URLs))
		for _, u := range val.URLs {
			files = append(files, notion.File{Name: fileName(u), Type: "external", External: &notion.ExternalFile{URL: u}})
		}
		return notion.PropertyValue{Files: files}
	default:
		return notion.PropertyValue{}
	}
}

func dateRange(v schema.DateValue) *notion.DateRange {
	switch {
	case v.Birth.Known() && v.Death.Known():
		return &notion.DateRange{Start: v.Birth.ISO(), End: v.Death.ISO()}
	case v.Birth.Known():
		return &notion.DateRange{Start: v.Birth.ISO()}
	case v.Death.Known():
		return &notion.DateRange{Start: v.Death.ISO()}
	default:
		return nil
	}
}

func fileName(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if base := path.Base(parsed.Path); base != "" && base != "/" && base != "." {
		return base
	}
	return raw
}
