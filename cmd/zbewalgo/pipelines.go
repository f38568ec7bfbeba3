package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newPipelinesCmd(a *app) *cobra.Command {
	var table bool

	cmd := &cobra.Command{
		Use:   "pipelines",
		Short: "print the effective pipeline registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !table {
				_, err := fmt.Fprint(out, a.eng.DescribePipelines())
				return err
			}

			tbl := tablewriter.NewWriter(out)
			tbl.SetHeader([]string{"Index", "Pipeline", "Ids"})
			for i, p := range a.eng.Pipelines() {
				ids := make([]string, p.Len())
				for j := range ids {
					ids[j] = fmt.Sprintf("%d", p.ID(j))
				}
				tbl.Append([]string{fmt.Sprintf("%d", i), p.String(), strings.Join(ids, ",")})
			}
			tbl.Render()

			return nil
		},
	}
	cmd.Flags().BoolVar(&table, "table", false, "print a table with algorithm ids")

	return cmd
}
