package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loan records in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := flags.openStore(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			loans, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(loans) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No loan records.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tNAME\tPRODUCT\tSTATUS")
			for _, l := range loans {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.CreatedAt.Format(time.RFC3339), l.Name, l.Product, l.Status)
			}
			return w.Flush()
		},
	}
}
