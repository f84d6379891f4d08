package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GregMSThompson/energyhub-backend/internal/models"
)

func newCheckCmd(flags *storeFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify every stored loan record",
		Long: `Load the configured store and verify that ids are unique and that every
record carries its required fields. Exits non-zero when a problem is found.`,
		Args: cobra.NoArgs,
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

			problems := checkLoans(loans)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d loan records\n", len(loans))
			for _, p := range problems {
				fmt.Fprintln(out, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}

func checkLoans(loans []*models.LoanApplication) []string {
	var problems []string
	seen := make(map[int64]int, len(loans))

	for i, l := range loans {
		if first, ok := seen[l.ID]; ok {
			problems = append(problems, fmt.Sprintf("record %d: id %d duplicates record %d", i, l.ID, first))
		} else {
			seen[l.ID] = i
		}

		var missing []string
		for _, f := range []struct {
			name  string
			blank bool
		}{
			{"name", strings.TrimSpace(l.Name) == ""},
			{"email", strings.TrimSpace(l.Email) == ""},
			{"product", strings.TrimSpace(l.Product) == ""},
			{"amount", l.Amount == nil},
			{"term", l.Term == nil},
		} {
			if f.blank {
				missing = append(missing, f.name)
			}
		}
		if len(missing) > 0 {
			problems = append(problems, fmt.Sprintf("record %d (id %d): missing %s", i, l.ID, strings.Join(missing, ", ")))
		}
	}
	return problems
}
