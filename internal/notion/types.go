package notion

import (
	"strings"
	"time"
)

// TextContent is the text payload of a rich text object.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is one rich text object.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// PlainRichText wraps content as a single text object.
func PlainRichText(content string) []RichText {
	return []RichText{{Text: &TextContent{Content: content}}}
}

// PlainText concatenates the plain text of a rich text array.
func PlainText(parts []RichText) string {
	var b strings.Builder
	for _, part := range parts {
		switch {
		case part.PlainText != "":
			b.WriteString(part.PlainText)
		case part.Text != nil:
			b.WriteString(part.Text.Content)
		}
	}
	return b.String()
}

type PageRef struct {
	ID string `json:"id"`
}

type SelectOption struct {
	Name string `json:"name"`
}

// DateRange is a Notion date property value. End is optional.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

type ExternalFile struct {
	URL string `json:"url"`
}

type File struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	External *ExternalFile `json:"external,omitempty"`
}

// PropertyValue is a page property. Exactly one of the typed members is set
// on requests; responses also carry ID and Type.
type PropertyValue struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type,omitempty"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Relation    []PageRef      `json:"relation,omitempty"`
	Checkbox    *bool          `json:"checkbox,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Date        *DateRange     `json:"date,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	Files       []File         `json:"files,omitempty"`
}

// Parent locates a page.
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
}

// PageRequest is the body of page create and update calls. Parent is
// omitted on updates.
type PageRequest struct {
	Parent     *Parent                  `json:"parent,omitempty"`
	Properties map[string]PropertyValue `json:"properties"`
}

// Page is a page object as returned by the API.
type Page struct {
	Object         string                   `json:"object"`
	ID             string                   `json:"id"`
	CreatedTime    time.Time                `json:"created_time"`
	LastEditedTime time.Time                `json:"last_edited_time"`
	Archived       bool                     `json:"archived"`
	URL            string                   `json:"url"`
	Parent         Parent                   `json:"parent"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// DatabaseProperty describes one column of a database.
type DatabaseProperty struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Database is a database object as returned by the API.
type Database struct {
	Object         string                      `json:"object"`
	ID             string                      `json:"id"`
	CreatedTime    time.Time                   `json:"created_time"`
	LastEditedTime time.Time                   `json:"last_edited_time"`
	URL            string                      `json:"url"`
	Title          []RichText                  `json:"title"`
	Properties     map[string]DatabaseProperty `json:"properties"`
}

// Name returns the database title as plain text.
func (d Database) Name() string {
	return PlainText(d.Title)
}

type SearchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

type SearchRequest struct {
	Query       string        `json:"query,omitempty"`
	Filter      *SearchFilter `json:"filter,omitempty"`
	StartCursor string        `json:"start_cursor,omitempty"`
	PageSize    int           `json:"page_size,omitempty"`
}

type SearchResponse struct {
	Object     string     `json:"object"`
	Results    []Database `json:"results"`
	NextCursor string     `json:"next_cursor"`
	HasMore    bool       `json:"has_more"`
}

type Sort struct {
	Property  string `json:"property,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Direction string `json:"direction"`
}

// QueryRequest filters and sorts a database query. Filter is passed through
// verbatim.
type QueryRequest struct {
	Filter      map[string]any `json:"filter,omitempty"`
	Sorts       []Sort         `json:"sorts,omitempty"`
	StartCursor string         `json:"start_cursor,omitempty"`
	PageSize    int            `json:"page_size,omitempty"`
}

type QueryResponse struct {
	Object     string `json:"object"`
	Results    []Page `json:"results"`
	NextCursor string `json:"next_cursor"`
	HasMore    bool   `json:"has_more"`
}
