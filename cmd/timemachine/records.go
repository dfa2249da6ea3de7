package main

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"timemachine/internal/ledger"
	"timemachine/internal/person"
	"timemachine/internal/publish"
	"timemachine/internal/schema"
)

// writeJSON prints v as indented JSON. Names, notes and URLs are written
// verbatim, so "&" and "<" are not escaped.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// buildRecords parses and builds the source without contacting Notion.
// Relations resolve against pages the ledger knows for the configured
// database.
func (c *commandContext) buildRecords(ctx context.Context, args []string) ([]person.Record, []publish.Failure, error) {
	path, err := c.sourcePath(args)
	if err != nil {
		return nil, nil, err
	}
	s, err := c.schema()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}

	var resolver person.Resolver
	if cfg.Notion.DatabaseID != "" {
		err := c.withLedger(func(store *ledger.Store) error {
			r, err := store.Resolver(ctx, cfg.Notion.DatabaseID)
			if err != nil {
				return err
			}
			resolver = r
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
	}
	return publish.New(nil, nil, s.WithLogger(logger), logger).Build(path, resolver)
}

type inspectRow struct {
	GedcomRef  string               `json:"gedcom_ref"`
	PageID     string               `json:"page_id,omitempty"`
	Properties map[schema.Field]any `json:"properties"`
}

type inspectFailure struct {
	GedcomRef string `json:"gedcom_ref"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
}

func inspectRows(records []person.Record) []inspectRow {
	rows := make([]inspectRow, 0, len(records))
	for _, rec := range records {
		props := make(map[schema.Field]any, len(rec.Properties))
		for field, prop := range rec.Properties {
			props[field] = person.PropertyValue(prop.Value)
		}
		rows = append(rows, inspectRow{GedcomRef: rec.GedcomRef, PageID: rec.PageID, Properties: props})
	}
	return rows
}

func inspectFailures(failures []publish.Failure) []inspectFailure {
	out := make([]inspectFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, inspectFailure{GedcomRef: f.GedcomRef, Stage: string(f.Stage), Error: f.Err.Error()})
	}
	return out
}

// displayValue renders a value for a table cell.
func displayValue(v schema.Value) string {
	switch value := v.(type) {
	case schema.RichTextValue:
		return value.Text
	case schema.TitleValue:
		return value.Text
	case schema.ReferenceValue:
		return value.ID
	case schema.ReferenceListValue:
		return strings.Join(value.IDs, ", ")
	case schema.BooleanValue:
		return yesNo(bool(value))
	case schema.TagsValue:
		return strings.Join(value.Names, ", ")
	case schema.DateValue:
		return displayDateRange(value)
	case schema.GenderValue:
		return string(value)
	case schema.FilesValue:
		return strconv.Itoa(len(value.URLs)) + " file(s)"
	default:
		return ""
	}
}

func displayDateRange(v schema.DateValue) string {
	birth, death := "", ""
	if v.Birth.Known() {
		birth = v.Birth.String()
	}
	if v.Death.Known() {
		death = v.Death.String()
	}
	if death == "" {
		return birth
	}
	return birth + " to " + death
}

func recordCell(rec person.Record, field schema.Field) string {
	v, ok := rec.Get(field)
	if !ok {
		return ""
	}
	return displayValue(v)
}
