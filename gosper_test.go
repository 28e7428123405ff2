package qseries_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Hypergeometric term tests
// ============================================================

func TestHypergeometricTerm_Term(t *testing.T) {
	// 1φ0(a; -; q, z) at a = 0 is Σ z^k/(q;q)_k.
	h := qseries.HypergeometricTerm{Upper: []qseries.QMonomial{qseries.QConst(qseries.N(0))}, Z: qseries.QPower(0)}
	q := qseries.F(1, 2)
	tk, err := h.Term(2, q)
	require.NoError(t, err)
	// 1/((1 - 1/2)(1 - 1/4)) = 8/3
	assert.True(t, tk.Equal(qseries.F(8, 3)), tk.String())

	_, err = h.Term(2, qseries.N(1))
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
	_, err = h.Term(-1, q)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestHypergeometricTerm_RatioMatchesTerms(t *testing.T) {
	h := qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{qseries.QConst(qseries.N(3))},
		Lower: []qseries.QMonomial{qseries.QConst(qseries.N(5)), qseries.QMono(qseries.N(2), 1)},
		Z:     qseries.QConst(qseries.F(1, 7)),
	}
	q := qseries.F(2, 3)
	r, err := h.Ratio(q)
	require.NoError(t, err)
	qk := qseries.N(1)
	for k := int64(0); k < 5; k++ {
		tk, err := h.Term(k, q)
		require.NoError(t, err)
		tk1, err := h.Term(k+1, q)
		require.NoError(t, err)
		rv, err := r.Eval(qk)
		require.NoError(t, err)
		got := qseries.NewNum(new(big.Rat).Mul(rv.Rat(), tk.Rat()))
		if !got.Equal(tk1) {
			t.Errorf("k=%d: want t_{k+1} = %s, got %s", k, tk1, got)
		}
		qk = qseries.NewNum(new(big.Rat).Mul(qk.Rat(), q.Rat()))
	}
}

// ============================================================
// q-dispersion and normal form tests
// ============================================================

func TestQDispersion(t *testing.T) {
	q := qseries.F(1, 2)
	a := qseries.PolyFromInts(-4, 1).Mul(qseries.PolyFromInts(3, 1)) // (x-4)(x+3)
	b := qseries.PolyFromInts(-1, 1).Mul(qseries.PolyFromInts(-7, 1)) // (x-1)(x-7)
	got, err := qseries.QDispersion(a, b, q)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got)
}

// checkNormalForm asserts a/b = (σ/τ)·c(qx)/c(x) with gcd(σ(x), τ(q^j x))
// trivial for small positive j.
func checkNormalForm(t *testing.T, a, b *qseries.Poly, q *qseries.Num) qseries.NormalForm {
	t.Helper()
	nf, err := qseries.GosperNormalForm(a, b, q)
	require.NoError(t, err)
	want, err := qseries.NewRatFunc(a, b)
	require.NoError(t, err)
	got, err := qseries.NewRatFunc(nf.Sigma.Mul(nf.C.QShift(q, 1)), nf.Tau.Mul(nf.C))
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "q = %s: want %s, got %s", q, want, got)
	for j := int64(1); j <= 6; j++ {
		g := qseries.PolyGCD(nf.Sigma, nf.Tau.QShift(q, j))
		assert.Equal(t, 0, g.Degree(), "q = %s: gcd at shift %d", q, j)
	}
	return nf
}

func TestGosperNormalForm_Reconstructs(t *testing.T) {
	cases := []struct {
		name string
		a, b *qseries.Poly
		q    *qseries.Num
		degC int
	}{
		{"half", qseries.PolyFromInts(-12, -1, 1), qseries.PolyFromInts(7, -8, 1), qseries.F(1, 2), 2},
		// Shifts 4 and 2 are removed in turn.
		{"two shifts", qseries.PolyFromInts(-4, 1).Mul(qseries.PolyFromInts(-16, 1)), qseries.PolyFromInts(1, -2, 1), qseries.F(1, 2), 6},
		{"three", qseries.PolyFromInts(-1, 1), qseries.PolyFromInts(-9, 1).Mul(qseries.PolyFromInts(5, 1)), qseries.N(3), 2},
		{"negative", qseries.PolyFromInts(-1, 1), qseries.PolyFromInts(-4, 1), qseries.N(-2), 2},
		{"coprime", qseries.PolyFromInts(-1, 1), qseries.PolyFromInts(-3, 1), qseries.N(2), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nf := checkNormalForm(t, tc.a, tc.b, tc.q)
			assert.Equal(t, tc.degC, nf.C.Degree())
		})
	}
}

func TestQDispersion_Multiple(t *testing.T) {
	a := qseries.PolyFromInts(-4, 1).Mul(qseries.PolyFromInts(-16, 1))
	b := qseries.PolyFromInts(1, -2, 1) // (x-1)^2
	got, err := qseries.QDispersion(a, b, qseries.F(1, 2))
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4}, got)
}

func TestQDispersion_BaseNearOne(t *testing.T) {
	q := qseries.F(1000001, 1000000)
	a := qseries.PolyFromInts(-1, 1)
	b := qseries.PolyFromInts(-2, 1)
	_, err := qseries.QDispersion(a, b, q)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput), "got %v", err)
	_, err = qseries.GosperNormalForm(a, b, q)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput), "got %v", err)
	_, err = qseries.QGosper(vandermonde(qseries.QConst(qseries.N(2)), qseries.QMono(qseries.N(5), 1)), q)
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput), "got %v", err)
}

// ============================================================
// q-Gosper tests
// ============================================================

// vandermonde is Σ (a;q)_k (b;q)_k q^k / ((q;q)_k (abq;q)_k), whose partial
// sums are (aq;q)_n (bq;q)_n / ((q;q)_n (abq;q)_n).
func vandermonde(a, b qseries.QMonomial) qseries.HypergeometricTerm {
	return qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{a, b},
		Lower: []qseries.QMonomial{a.Mul(b).Mul(qseries.QPower(1))},
		Z:     qseries.QPower(1),
	}
}

func TestQGosper_SummableTelescopes(t *testing.T) {
	h := vandermonde(qseries.QConst(qseries.N(2)), qseries.QMono(qseries.N(5), 1))
	for _, q := range []*qseries.Num{qseries.F(1, 3), qseries.F(2, 5)} {
		res, err := qseries.QGosper(h, q)
		require.NoError(t, err)
		require.True(t, res.Summable, "q = %s", q)

		s := make([]*qseries.Num, 7)
		for k := int64(0); k < 7; k++ {
			tk, err := h.Term(k, q)
			require.NoError(t, err)
			s[k], err = res.Antidifference(k, tk)
			require.NoError(t, err)
		}
		assert.True(t, s[0].IsZero(), "S_0 = %s", s[0])
		for k := int64(0); k < 6; k++ {
			tk, _ := h.Term(k, q)
			diff := qseries.NewNum(new(big.Rat).Sub(s[k+1].Rat(), s[k].Rat()))
			if !diff.Equal(tk) {
				t.Errorf("q=%s k=%d: want S_{k+1}-S_k = %s, got %s", q, k, tk, diff)
			}
		}
	}
}

func TestQGosper_NotSummable(t *testing.T) {
	h := qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{qseries.QConst(qseries.N(2)), qseries.QConst(qseries.N(3))},
		Lower: []qseries.QMonomial{qseries.QConst(qseries.N(7))},
		Z:     qseries.QConst(qseries.N(5)),
	}
	res, err := qseries.QGosper(h, qseries.F(1, 3))
	require.NoError(t, err)
	assert.False(t, res.Summable)
	assert.Nil(t, res.Certificate)
	_, err = res.Antidifference(0, qseries.N(1))
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestSolveKeyEquation(t *testing.T) {
	// σ f(qx) - τ f(x) = τ c with σ = 1, τ = 1, c = x and q = 2:
	// f(2x) - f(x) = x has f = x.
	q := qseries.N(2)
	one := qseries.PolyFromInts(1)
	f, ok, err := qseries.SolveKeyEquation(one, one, qseries.PolyFromInts(0, 1), q)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.Equal(qseries.PolyFromInts(0, 1)), f.String())

	// f(2x) - f(x) = 1 has no polynomial solution.
	_, ok, err = qseries.SolveKeyEquation(one, one, one, q)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSolveKeyEquation_HugeLeadingRatio(t *testing.T) {
	// σ = 1 + x, τ = q^d x, c = x^{d-1} is solved by f = x^d only, a degree
	// found by matching lc(τ)/lc(σ) = q^d. With q = 2^64 that ratio is far
	// outside the float64 range.
	q := qseries.NewNumInt(new(big.Int).Lsh(big.NewInt(1), 64))
	sigma := qseries.PolyFromInts(1, 1)
	for _, d := range []int{3, 17, 20} {
		coeffs := make([]*qseries.Num, d+1)
		for i := range coeffs {
			coeffs[i] = qseries.N(0)
		}
		coeffs[d-1] = qseries.N(1)
		c := qseries.NewPoly(coeffs...)

		tc := make([]*qseries.Num, 2)
		tc[0] = qseries.N(0)
		tc[1] = qseries.NewNumInt(new(big.Int).Lsh(big.NewInt(1), uint(64*d)))
		tau := qseries.NewPoly(tc...)

		f, ok, err := qseries.SolveKeyEquation(sigma, tau, c, q)
		require.NoError(t, err)
		require.True(t, ok, "d = %d", d)
		coeffs[d-1], coeffs[d] = qseries.N(0), qseries.N(1)
		want := qseries.NewPoly(coeffs...)
		assert.True(t, f.Equal(want), "d = %d: want %s, got %s", d, want, f)
	}
}
