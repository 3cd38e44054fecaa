package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sheetops/internal/edit/model"
	editSvc "sheetops/internal/edit/service"
	"sheetops/internal/fileio"
	"sheetops/internal/table"
)

func newEditCommand(a *app) *cobra.Command {
	var (
		in, out   string
		commands  []string
		headerRow int
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "edit --in FILE --command TEXT [--command TEXT ...]",
		Short: "Apply edit commands to a spreadsheet",
		Example: `  sheetops edit --in people.xlsx --command "remove empty rows" \
      --command "rename column City to Town" --out people_clean.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := readFile(in, headerRow)
			if err != nil {
				return err
			}

			res, results := editSvc.RunAll(ds, commands)
			failed := 0
			for _, r := range results {
				if r.Outcome.Status == model.StatusFailed {
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s: %s\n", r.Outcome.Status, r.Command, r.Outcome.Message)
				a.logger.Debug().
					Str("command", r.Command).
					Str("operation", string(r.Operation.Kind())).
					Str("status", string(r.Outcome.Status)).
					Msg(r.Outcome.Message)
			}

			if err := writeFile(out, res, "Sheet1"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows, %d columns)\n", out, res.Len(), res.Width())

			if strict && failed > 0 {
				return fmt.Errorf("%d of %d commands failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "input spreadsheet (.xlsx, .xls or .csv)")
	cmd.Flags().StringArrayVar(&commands, "command", nil, "edit command; repeat to apply several in order")
	cmd.Flags().StringVar(&out, "out", "modified_file.xlsx", "output file (.xlsx or .csv)")
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based row holding the column names")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any command fails")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("command")
	return cmd
}

func readFile(path string, headerRow int) (*table.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fileio.Read(f, path, headerRow)
}

func writeFile(path string, ds *table.Dataset, sheet string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return fileio.Write(f, path, ds, sheet)
}
