package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved puzzles, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		uc, closeStore, err := newService(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer closeStore()

		metas, err := uc.List(cmd.Context())
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPOLICY\tCREATED")
		for _, m := range metas {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", m.ID, m.Policy, m.CreatedAt.Local().Format(time.DateTime))
		}
		return tw.Flush()
	},
}
