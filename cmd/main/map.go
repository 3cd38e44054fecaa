package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetops/internal/mapping/model"
	mapSvc "sheetops/internal/mapping/service"
)

func newMapCommand(a *app) *cobra.Command {
	var (
		portal, catalogue, out string
		method                 string
		threshold              int
		ignoreCase, trimSpaces bool
	)
	cmd := &cobra.Command{
		Use:   "map --portal FILE --catalogue FILE",
		Short: "Map portal rows onto a catalogue by ASIN, New EAN and VENDOR 8 DIGIT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ParseMethod(method)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.DefaultThreshold
			}
			if threshold < model.MinThreshold || threshold > model.MaxThreshold {
				return fmt.Errorf("threshold must be between %d and %d, got %d", model.MinThreshold, model.MaxThreshold, threshold)
			}

			p, err := readFile(portal, 1)
			if err != nil {
				return err
			}
			c, err := readFile(catalogue, 1)
			if err != nil {
				return err
			}

			res, sum, err := mapSvc.Run(p, c, model.Options{
				Method:     m,
				Threshold:  float64(threshold),
				Workers:    a.cfg.MatchWorkers,
				IgnoreCase: ignoreCase,
				TrimSpaces: trimSpaces,
			})
			if err != nil {
				return err
			}
			a.logger.Debug().Interface("summary", sum).Msg("map done")

			if err := writeFile(out, res, "Mapped_Data"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: matched %d of %d rows, wrote %s\n", sum.Method, sum.Matched, sum.Rows, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&portal, "portal", "", "portal file (.xlsx, .xls or .csv)")
	cmd.Flags().StringVar(&catalogue, "catalogue", "", "catalogue file (.xlsx, .xls or .csv)")
	cmd.Flags().StringVar(&method, "method", string(model.MethodRuleBased), "rule_based or fuzzy")
	cmd.Flags().IntVar(&threshold, "threshold", model.DefaultThreshold, "fuzzy acceptance threshold (50-100)")
	cmd.Flags().BoolVar(&ignoreCase, "ignore-case", false, "compare keys case-insensitively (fuzzy only)")
	cmd.Flags().BoolVar(&trimSpaces, "trim-spaces", false, "collapse whitespace in keys before scoring (fuzzy only)")
	cmd.Flags().StringVar(&out, "out", "mapped_data.xlsx", "output file (.xlsx or .csv)")
	_ = cmd.MarkFlagRequired("portal")
	_ = cmd.MarkFlagRequired("catalogue")
	return cmd
}
