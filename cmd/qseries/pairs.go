package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/njchilds90/qseries"
	"github.com/spf13/cobra"
)

func newPairsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pairs",
		Short: "Inspect the Bailey pair database",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List Bailey pairs and their tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range qseries.NewBaileyDatabase().Pairs() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", p.Name, strings.Join(p.Tags, ","))
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the Bailey pair catalogue as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return qseries.WriteCatalogue(cmd.OutOrStdout(), qseries.NewBaileyDatabase())
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check <file>",
		Short: "Load a YAML catalogue and verify its pairs at a = 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			return checkCatalogue(cmd.OutOrStdout(), f)
		},
	})
	return cmd
}

// checkCatalogue verifies each pair of a YAML catalogue through n = 4, or
// through the last tabulated index for a tabulated pair. A tabulated pair
// with no (α, β) entries has nothing to verify and is reported as such.
func checkCatalogue(w io.Writer, r io.Reader) error {
	reg := qseries.NewSymbolRegistry()
	q := reg.Intern("q")
	db, err := qseries.ReadCatalogue(r, q)
	if err != nil {
		return err
	}
	for _, p := range db.Pairs() {
		a, maxN := qseries.QPower(0), int64(4)
		if t, ok := p.Family.(qseries.TabulatedFamily); ok {
			a = t.A
			n := len(t.Alphas)
			if len(t.Betas) < n {
				n = len(t.Betas)
			}
			if int64(n)-1 < maxN {
				maxN = int64(n) - 1
			}
		}
		if maxN < 0 {
			fmt.Fprintf(w, "%-20s not checkable: no tabulated terms\n", p.Name)
			continue
		}
		ok, err := qseries.VerifyBaileyPair(p, a, maxN, q, 20)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name, err)
		}
		fmt.Fprintf(w, "%-20s %t\n", p.Name, ok)
	}
	return nil
}
