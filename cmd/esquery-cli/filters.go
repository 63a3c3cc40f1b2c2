package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFiltersCmd(root *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "List the filters a config file registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _, registry, err := root.setup(cmd.Context())
			if err != nil {
				return err
			}

			defs := registry.List()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), defs, false)
			}
			if len(defs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No filters registered.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "HANDLE\tTYPE\tFIELD\tSORT BY SCORE")
			for _, d := range defs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", d.SearchHandle, d.ESFilterType, d.FieldHandle, d.SortByScore)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}
