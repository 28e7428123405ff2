package qseries_test

import (
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/require"
)

// terms flattens a series into exponent → coefficient string.
func terms(s *qseries.Series) map[int64]string {
	out := map[int64]string{}
	for _, t := range s.Terms() {
		out[t.Exp] = t.Coeff.String()
	}
	return out
}

// ints builds the expected map for coefficients listed from q^0 upward,
// skipping zeros.
func ints(coeffs ...int64) map[int64]string {
	out := map[int64]string{}
	for i, c := range coeffs {
		if c != 0 {
			out[int64(i)] = qseries.N(c).String()
		}
	}
	return out
}

func newQ() (*qseries.SymbolRegistry, qseries.SymbolID) {
	reg := qseries.NewSymbolRegistry()
	return reg, reg.Intern("q")
}

// must unwraps a (series, error) result, failing the test on error:
//
//	th3 := must(t)(qseries.Theta3(q, 20))
func must(t *testing.T) func(*qseries.Series, error) *qseries.Series {
	t.Helper()
	return func(s *qseries.Series, err error) *qseries.Series {
		t.Helper()
		require.NoError(t, err)
		return s
	}
}
