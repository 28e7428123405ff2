package qseries_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// infQuotient is ∏ (num_i;q)_∞ / ∏ (den_j;q)_∞ known below trunc.
func infQuotient(t *testing.T, q qseries.SymbolID, trunc int64, num, den []qseries.QMonomial) *qseries.Series {
	t.Helper()
	out := qseries.One(q, trunc)
	for _, a := range num {
		out = must(t)(qseries.Mul(out, must(t)(qseries.Aqprod(a, qseries.Infinite, q, trunc))))
	}
	for _, b := range den {
		inv := must(t)(qseries.Invert(must(t)(qseries.Aqprod(b, qseries.Infinite, q, trunc))))
		out = must(t)(qseries.Mul(out, inv))
	}
	return out
}

func mono(p, d, m int64) qseries.QMonomial { return qseries.QMono(qseries.F(p, d), m) }

// ============================================================
// EvalPhi tests
// ============================================================

func TestEvalPhi_ProductIdentities(t *testing.T) {
	_, q := newQ()
	const trunc = 30
	cases := map[string]struct {
		h        qseries.HypergeometricTerm
		num, den []qseries.QMonomial
	}{
		// 0φ0(;;q,q) = (q;q)_∞
		"euler": {
			h:   qseries.HypergeometricTerm{Z: qseries.QPower(1)},
			num: []qseries.QMonomial{qseries.QPower(1)},
		},
		// 1φ0(a;;q,z) = (az;q)_∞/(z;q)_∞ with a = 3, z = q
		"q-binomial": {
			h:   qseries.HypergeometricTerm{Upper: []qseries.QMonomial{mono(3, 1, 0)}, Z: qseries.QPower(1)},
			num: []qseries.QMonomial{mono(3, 1, 1)},
			den: []qseries.QMonomial{qseries.QPower(1)},
		},
		// a = 2q^{-1}, z = q^2: every first factor is a Laurent polynomial
		"laurent parameter": {
			h:   qseries.HypergeometricTerm{Upper: []qseries.QMonomial{mono(2, 1, -1)}, Z: qseries.QPower(2)},
			num: []qseries.QMonomial{mono(2, 1, 1)},
			den: []qseries.QMonomial{qseries.QPower(2)},
		},
	}
	for name, c := range cases {
		got, err := qseries.EvalPhi(c.h, q, trunc)
		require.NoError(t, err, name)
		assert.Equal(t, int64(trunc), got.TruncationOrder(), name)
		want := infQuotient(t, q, trunc, c.num, c.den)
		if !got.AgreesWith(want) {
			t.Errorf("%s: want %s, got %s", name, want, got)
		}
	}
}

func TestEvalPhi_Terminating(t *testing.T) {
	_, q := newQ()
	// q-Chu-Vandermonde: 2φ1(q^-3, q^2; q^5; q, q) = q^6 (q^3;q)_3 / (q^5;q)_3
	h := qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{qseries.QPower(-3), qseries.QPower(2)},
		Lower: []qseries.QMonomial{qseries.QPower(5)},
		Z:     qseries.QPower(1),
	}
	got := must(t)(qseries.EvalPhi(h, q, 30))

	num := must(t)(qseries.Aqprod(qseries.QPower(3), qseries.Finite(3), q, 30))
	den := must(t)(qseries.Aqprod(qseries.QPower(5), qseries.Finite(3), q, 30))
	want := qseries.Shift(must(t)(qseries.Mul(num, must(t)(qseries.Invert(den)))), 6)
	if !got.AgreesWith(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

func TestEvalPhi_Errors(t *testing.T) {
	_, q := newQ()
	cases := map[string]struct {
		h    qseries.HypergeometricTerm
		want error
	}{
		"no q-adic decay": {
			h:    qseries.HypergeometricTerm{Upper: []qseries.QMonomial{mono(3, 1, 0)}, Z: qseries.QPower(0)},
			want: qseries.ErrMalformedInput,
		},
		"vanishing lower parameter": {
			h: qseries.HypergeometricTerm{
				Upper: []qseries.QMonomial{qseries.QPower(-3), qseries.QPower(2)},
				Lower: []qseries.QMonomial{qseries.QPower(-1)},
				Z:     qseries.QPower(1),
			},
			want: qseries.ErrZeroFactor,
		},
	}
	for name, c := range cases {
		_, err := qseries.EvalPhi(c.h, q, 20)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: want %v, got %v", name, c.want, err)
		}
	}
	_, err := qseries.EvalPhi(qseries.HypergeometricTerm{Z: qseries.QPower(1)}, q, 0)
	assert.ErrorIs(t, err, qseries.ErrMalformedInput)
}

// ============================================================
// EvalPsi tests
// ============================================================

func TestEvalPsi_Ramanujan(t *testing.T) {
	_, q := newQ()
	const trunc = 30
	// 1ψ1(a; b; q, z) = (q, b/a, az, q/(az); q)_∞ / (b, q/a, z, b/(az); q)_∞
	// with a = 2, b = q^3, z = q; the n < 0 half contributes here.
	h := qseries.BilateralTerm{
		Upper: []qseries.QMonomial{mono(2, 1, 0)},
		Lower: []qseries.QMonomial{qseries.QPower(3)},
		Z:     qseries.QPower(1),
	}
	got := must(t)(qseries.EvalPsi(h, q, trunc))
	want := infQuotient(t, q, trunc,
		[]qseries.QMonomial{qseries.QPower(1), mono(1, 2, 3), mono(2, 1, 1), mono(1, 2, 0)},
		[]qseries.QMonomial{qseries.QPower(3), mono(1, 2, 1), qseries.QPower(1), mono(1, 2, 2)},
	)
	if !got.AgreesWith(want) {
		t.Errorf("want %s, got %s", want, got)
	}
	if c := got.Coeff(0); !c.Equal(qseries.F(1, 2)) {
		t.Errorf("constant term: want 1/2, got %s", c)
	}
}

func TestEvalPsi_LowerQReducesToPhi(t *testing.T) {
	_, q := newQ()
	psi := must(t)(qseries.EvalPsi(qseries.BilateralTerm{
		Upper: []qseries.QMonomial{mono(3, 1, 0)},
		Lower: []qseries.QMonomial{qseries.QPower(1)},
		Z:     qseries.QPower(1),
	}, q, 25))
	phi := must(t)(qseries.EvalPhi(qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{mono(3, 1, 0)},
		Z:     qseries.QPower(1),
	}, q, 25))
	assert.True(t, psi.Equal(phi), "want %s, got %s", phi, psi)
}

func TestEvalPsi_ZeroArgument(t *testing.T) {
	_, q := newQ()
	_, err := qseries.EvalPsi(qseries.BilateralTerm{Z: qseries.QConst(qseries.N(0))}, q, 10)
	assert.ErrorIs(t, err, qseries.ErrMalformedInput)
}

// ============================================================
// VerifyTransformation tests
// ============================================================

func TestVerifyTransformation_Heine(t *testing.T) {
	reg, q := newQ()
	const trunc = 30
	// 2φ1(a, b; c; q, z) = (b, az; q)_∞/(c, z; q)_∞ · 2φ1(c/b, z; az; q, b)
	// with a = 2q, b = q, c = q^3, z = q.
	lhs := qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{mono(2, 1, 1), qseries.QPower(1)},
		Lower: []qseries.QMonomial{qseries.QPower(3)},
		Z:     qseries.QPower(1),
	}
	rhs := qseries.HypergeometricTerm{
		Upper: []qseries.QMonomial{qseries.QPower(2), qseries.QPower(1)},
		Lower: []qseries.QMonomial{mono(2, 1, 2)},
		Z:     qseries.QPower(1),
	}
	pre := infQuotient(t, q, trunc,
		[]qseries.QMonomial{qseries.QPower(1), mono(2, 1, 2)},
		[]qseries.QMonomial{qseries.QPower(3), qseries.QPower(1)},
	)
	ok, err := qseries.VerifyTransformation(lhs, pre, rhs, q, trunc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = qseries.VerifyTransformation(lhs, qseries.ScalarMul(qseries.N(2), pre), rhs, q, trunc)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = qseries.VerifyTransformation(lhs, qseries.One(reg.Intern("x"), trunc), rhs, q, trunc)
	assert.ErrorIs(t, err, qseries.ErrVariableMismatch)
}
