package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"timemachine/internal/schema"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Parse a GEDCOM file and show the records that would be published",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, failures, err := ctx.buildRecords(cmd.Context(), args)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd, map[string]any{
					"records":  inspectRows(records),
					"failures": inspectFailures(failures),
				}); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.GedcomRef,
						recordCell(rec, schema.FullBirthName),
						recordCell(rec, schema.BirthDeath),
						recordCell(rec, schema.PlaceOfBirth),
						recordCell(rec, schema.Gender),
						strconv.Itoa(len(rec.Properties)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Ref", "Name", "Born / Died", "Birthplace", "Gender", "Fields"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				fmt.Fprintf(out, "%d record(s) built, %d failed\n", len(records), len(failures))
				if len(failures) > 0 {
					for _, line := range renderSectionHeader("Validation failures", colorize) {
						fmt.Fprintln(out, line)
					}
					failureRows := make([][]string, 0, len(failures))
					for _, f := range failures {
						failureRows = append(failureRows, []string{f.GedcomRef, colorText(statusError, f.Err.Error(), colorize)})
					}
					fmt.Fprintln(out, renderTable([]string{"Ref", "Error"}, failureRows, nil))
				}
			}

			if strict && len(failures) > 0 {
				return fmt.Errorf("%d record(s) failed validation", len(failures))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any record fails validation")
	return cmd
}
