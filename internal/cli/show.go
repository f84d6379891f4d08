package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newShowCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one loan record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid loan id %q", args[0])
			}

			s, closeFn, err := flags.openStore(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeFn()

			loan, err := s.Get(cmd.Context(), id)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(loan)
		},
	}
}
