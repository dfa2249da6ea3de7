package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"timemachine/internal/notion"
)

func newDatabasesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "databases [query]",
		Short: "List databases shared with the integration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.notionClient()
			if err != nil {
				return err
			}
			query := ""
			if len(args) > 0 {
				query = args[0]
			}
			databases, err := client.SearchAll(cmd.Context(), query)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, databases)
			}
			out := cmd.OutOrStdout()
			if len(databases) == 0 {
				fmt.Fprintln(out, "No databases are shared with the integration")
				return nil
			}
			rows := make([][]string, 0, len(databases))
			for _, db := range databases {
				rows = append(rows, []string{db.ID, db.Name(), strconv.Itoa(len(db.Properties))})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Properties"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newDatabaseCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "database",
		Short: "Inspect one Notion database",
	}
	cmd.AddCommand(newDatabaseShowCommand(ctx))
	cmd.AddCommand(newDatabaseQueryCommand(ctx))
	return cmd
}

func newDatabaseShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a database and its property ids",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.databaseArg(args)
			if err != nil {
				return err
			}
			client, err := ctx.notionClient()
			if err != nil {
				return err
			}
			db, err := client.GetDatabase(cmd.Context(), id)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, db)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", db.Name(), db.ID)
			props := make([]notion.DatabaseProperty, 0, len(db.Properties))
			for name, prop := range db.Properties {
				if prop.Name == "" {
					prop.Name = name
				}
				props = append(props, prop)
			}
			sort.Slice(props, func(i, j int) bool { return props[i].Name < props[j].Name })
			rows := make([][]string, 0, len(props))
			for _, prop := range props {
				rows = append(rows, []string{prop.Name, prop.ID, prop.Type})
			}
			fmt.Fprintln(out, renderTable([]string{"Property", "ID", "Type"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newDatabaseQueryCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "query [id]",
		Short: "List pages in a database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.databaseArg(args)
			if err != nil {
				return err
			}
			client, err := ctx.notionClient()
			if err != nil {
				return err
			}
			pages, err := client.QueryAll(cmd.Context(), id, notion.QueryRequest{}, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, pages)
			}
			rows := make([][]string, 0, len(pages))
			for _, page := range pages {
				rows = append(rows, []string{page.ID, pageTitle(page), page.LastEditedTime.Local().Format("2006-01-02 15:04")})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Page", "Title", "Edited"}, rows, nil))
			fmt.Fprintf(out, "%d page(s)\n", len(pages))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum pages to list (0 for all)")
	return cmd
}

func (c *commandContext) databaseArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if cfg.Notion.DatabaseID == "" {
		return "", fmt.Errorf("no database id given; pass one or set notion.database_id")
	}
	return cfg.Notion.DatabaseID, nil
}

func pageTitle(page notion.Page) string {
	for _, prop := range page.Properties {
		if prop.Type == "title" {
			return notion.PlainText(prop.Title)
		}
	}
	return ""
}
