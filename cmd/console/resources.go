package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rflorenc/catalog-console/internal/models"
)

func newResourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List resources and the operations each supports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RESOURCE\tPATH\tID FIELD\tOPERATIONS")
			for _, rt := range models.ResourceTypes() {
				ops := make([]string, len(rt.Operations))
				for i, op := range rt.Operations {
					ops[i] = string(op)
				}
				path := rt.Collection
				if path == "" {
					path = "/products/{product_id}/{suppliers|categories}/{id}"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rt.Kind, path, orDash(rt.IDField), strings.Join(ops, ", "))
			}
			return tw.Flush()
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
