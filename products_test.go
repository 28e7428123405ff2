package qseries_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// q-Pochhammer tests
// ============================================================

func TestAqprod_Finite(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Aqprod(qseries.QPower(1), qseries.Finite(3), q, 20))
	if diff := cmp.Diff(ints(1, -1, -1, 0, 1, 1, -1), terms(got)); diff != "" {
		t.Errorf("(q;q)_3 mismatch (-want +got):\n%s", diff)
	}
}

func TestAqprod_ZeroOrderIsOne(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Aqprod(qseries.QMono(qseries.N(7), 3), qseries.Finite(0), q, 10))
	assert.True(t, got.Equal(qseries.One(q, 10)))
}

func TestAqprod_NegativeOrder(t *testing.T) {
	_, q := newQ()
	// (q^2;q)_{-1} = 1/(q;q)_1
	got := must(t)(qseries.Aqprod(qseries.QPower(2), qseries.Finite(-1), q, 5))
	if diff := cmp.Diff(ints(1, 1, 1, 1, 1), terms(got)); diff != "" {
		t.Errorf("1/(1-q) mismatch (-want +got):\n%s", diff)
	}
}

func TestAqprod_InfiniteEqualsEtaq(t *testing.T) {
	_, q := newQ()
	a := must(t)(qseries.Aqprod(qseries.QPower(1), qseries.Infinite, q, 40))
	e := must(t)(qseries.Etaq(1, 1, q, 40))
	assert.True(t, a.Equal(e))
}

func TestAqprod_InfiniteNeedsTruncation(t *testing.T) {
	_, q := newQ()
	_, err := qseries.Aqprod(qseries.QPower(1), qseries.Infinite, q, qseries.Exact)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestEtaq_Pentagonal(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Etaq(1, 1, q, 16))
	want := map[int64]string{0: "1", 1: "-1", 2: "-1", 5: "1", 7: "1", 12: "-1", 15: "-1"}
	if diff := cmp.Diff(want, terms(got)); diff != "" {
		t.Errorf("Euler pentagonal mismatch (-want +got):\n%s", diff)
	}
}

func TestEtaq_BadStep(t *testing.T) {
	_, q := newQ()
	_, err := qseries.Etaq(1, 0, q, 10)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestQBin(t *testing.T) {
	_, q := newQ()
	got := qseries.QBin(4, 2, q)
	assert.True(t, got.IsExact())
	if diff := cmp.Diff(ints(1, 1, 2, 1, 1), terms(got)); diff != "" {
		t.Errorf("[4 choose 2] mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, qseries.QBin(3, 5, q).IsZero())
}

// ============================================================
// Named product tests
// ============================================================

func TestTripleprod_NegOneTriangular(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Tripleprod(qseries.QConst(qseries.N(-1)), q, 20))
	want := map[int64]string{0: "2", 1: "2", 3: "2", 6: "2", 10: "2", 15: "2"}
	if diff := cmp.Diff(want, terms(got)); diff != "" {
		t.Errorf("tripleprod(-1) mismatch (-want +got):\n%s", diff)
	}
}

func TestTripleprod_FunctionalEquation(t *testing.T) {
	_, q := newQ()
	// J(zq) = -z^{-1} J(z) at z = 2
	shifted := must(t)(qseries.Tripleprod(qseries.QMono(qseries.N(2), 1), q, 15))
	base := must(t)(qseries.Tripleprod(qseries.QConst(qseries.N(2)), q, 15))
	want := qseries.ScalarMul(qseries.F(-1, 2), base)
	if !shifted.AgreesWith(want) {
		t.Errorf("want %s, got %s", want, shifted)
	}
}

func TestQuinprod_Two(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Quinprod(qseries.QConst(qseries.N(2)), q, 2))
	if diff := cmp.Diff(map[int64]string{0: "1/2", 1: "-31/8"}, terms(got)); diff != "" {
		t.Errorf("quinprod(2) mismatch (-want +got):\n%s", diff)
	}
}

func TestWinquist_VanishesAtOne(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Winquist(qseries.QPower(0), qseries.QConst(qseries.N(3)), q, 10))
	assert.True(t, got.IsZero())

	_, err := qseries.Winquist(qseries.QConst(qseries.N(0)), qseries.QPower(1), q, 10)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestJacprod_BadModulus(t *testing.T) {
	_, q := newQ()
	_, err := qseries.Jacprod(1, 0, q, 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

// ============================================================
// Theta function tests
// ============================================================

func TestTheta3_MatchesTripleProductSum(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Theta3(q, 30))
	// Σ_{n∈ℤ} q^{n²}: n and -n meet at every positive square.
	sum := map[int64]*qseries.Num{0: qseries.N(1)}
	for n := int64(1); n*n < 30; n++ {
		sum[n*n] = qseries.N(2)
	}
	want := qseries.FromCoeffs(q, sum, 30)
	if diff := cmp.Diff(terms(want), terms(got)); diff != "" {
		t.Errorf("theta3 mismatch (-want +got):\n%s", diff)
	}
}

func TestTheta4_Coefficients(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Theta4(q, 30))
	want := map[int64]string{0: "1", 1: "-2", 4: "2", 9: "-2", 16: "2", 25: "-2"}
	if diff := cmp.Diff(want, terms(got)); diff != "" {
		t.Errorf("theta4 mismatch (-want +got):\n%s", diff)
	}
}

func TestTheta2_QuarterPowers(t *testing.T) {
	_, q := newQ()
	got := must(t)(qseries.Theta2(q, 40))
	assert.Equal(t, int64(40), got.TruncationOrder())
	want := map[int64]string{1: "2", 9: "2", 25: "2"}
	if diff := cmp.Diff(want, terms(got)); diff != "" {
		t.Errorf("theta2 mismatch (-want +got):\n%s", diff)
	}
}

func TestTheta3_SquareCountsSumsOfTwoSquares(t *testing.T) {
	_, q := newQ()
	th := must(t)(qseries.Theta3(q, 11))
	got := must(t)(qseries.Pow(th, 2))
	if diff := cmp.Diff(ints(1, 4, 4, 0, 4, 8, 0, 0, 4, 4, 8), terms(got)); diff != "" {
		t.Errorf("r2 mismatch (-want +got):\n%s", diff)
	}
}
