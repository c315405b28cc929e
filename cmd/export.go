package main

import (
	"fmt"

	"studentdir/internal/model"
	"studentdir/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

const exportDone = "Student data has been sorted and printed as json file"

func newExportCmd(rt *session) *cobra.Command {
	var roster, input string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Sort a roster and write it to a file",
		Long: `Sorts a roster (the built-in export roster unless --roster or --input says otherwise)
by one field and writes it to a file, students.json by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := exportInput(rt, roster, input)
			if err != nil {
				return err
			}

			exportService := service.NewExportService(rt.logger)
			err = exportService.WriteFile(rt.cfg.Export.Path, students, service.ExportOptions{
				SortBy: rt.cfg.Export.SortBy,
				Order:  rt.cfg.Export.Order,
				Format: rt.cfg.Export.Format,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), exportDone)
			return nil
		},
	}

	cmd.Flags().StringVar(&roster, "roster", model.RosterExport, "built-in roster to export")
	cmd.Flags().StringVar(&input, "input", "", "CSV file to export instead of a built-in roster")
	cmd.Flags().String("out", "students.json", "output file")
	cmd.Flags().String("sort-by", "age", "sort field: age, name, roll_no or id")
	cmd.Flags().String("order", "asc", "sort order: asc or desc")
	cmd.Flags().String("format", "json", "output format: json, yaml or toml")
	return cmd
}

func exportInput(rt *session, roster, input string) ([]model.Student, error) {
	if input != "" {
		result, err := service.NewRosterLoader(rt.logger).LoadFile(input, model.RosterExport)
		if err != nil {
			return nil, err
		}
		if n := len(multierr.Errors(result.Skipped)); n > 0 {
			rt.logger.Sugar().Warnf("%d rows of %s were skipped", n, input)
		}
		return result.Students, nil
	}

	students, ok := model.Roster(roster)
	if !ok {
		return nil, fmt.Errorf("unknown roster %q, want one of %v", roster, model.RosterNames())
	}
	return students, nil
}
