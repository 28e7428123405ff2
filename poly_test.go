package qseries_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Poly tests
// ============================================================

func TestPoly_String(t *testing.T) {
	p := qseries.PolyFromInts(1, -2, 1)
	if p.String() != "x^2 - 2*x + 1" {
		t.Errorf("want x^2 - 2*x + 1, got %s", p.String())
	}
	if got := qseries.PolyFromInts(0, 0).String(); got != "0" {
		t.Errorf("want 0, got %s", got)
	}
	assert.Equal(t, -1, qseries.PolyFromInts().Degree())
}

func TestPoly_DivRem(t *testing.T) {
	p := qseries.PolyFromInts(-1, 0, 0, 1) // x³ - 1
	d := qseries.PolyFromInts(-1, 1)       // x - 1
	quo, rem, err := p.DivRem(d)
	require.NoError(t, err)
	assert.True(t, quo.Equal(qseries.PolyFromInts(1, 1, 1)), quo.String())
	assert.True(t, rem.IsZero())

	_, _, err = p.DivRem(qseries.PolyFromInts())
	assert.True(t, errors.Is(err, qseries.ErrNotInvertible))

	_, err = p.ExactDiv(qseries.PolyFromInts(1, 1))
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestPolyGCD_Monic(t *testing.T) {
	a := qseries.PolyFromInts(-1, 0, 1).Scale(qseries.N(3)) // 3(x-1)(x+1)
	b := qseries.PolyFromInts(2, -3, 1)                     // (x-1)(x-2)
	g := qseries.PolyGCD(a, b)
	assert.True(t, g.Equal(qseries.PolyFromInts(-1, 1)), g.String())
}

func TestPoly_QShiftAndEval(t *testing.T) {
	p := qseries.PolyFromInts(1, 1, 1)
	shifted := p.QShift(qseries.N(2), 1) // 1 + 2x + 4x²
	assert.True(t, shifted.Equal(qseries.PolyFromInts(1, 2, 4)))
	assert.True(t, shifted.Eval(qseries.N(3)).Equal(qseries.N(43)))
	back := shifted.QShift(qseries.N(2), -1)
	assert.True(t, back.Equal(p))
}

// ============================================================
// RatFunc tests
// ============================================================

func TestRatFunc_Reduces(t *testing.T) {
	r, err := qseries.NewRatFunc(qseries.PolyFromInts(-1, 0, 1), qseries.PolyFromInts(-2, 2))
	require.NoError(t, err)
	if r.String() != "1/2*x + 1/2" {
		t.Errorf("want 1/2*x + 1/2, got %s", r.String())
	}
	_, err = qseries.NewRatFunc(qseries.PolyFromInts(1), qseries.PolyFromInts())
	assert.True(t, errors.Is(err, qseries.ErrNotInvertible))
}

func TestRatFunc_Arithmetic(t *testing.T) {
	x, err := qseries.NewRatFunc(qseries.PolyFromInts(0, 1), qseries.PolyFromInts(1))
	require.NoError(t, err)
	inv, err := qseries.NewRatFunc(qseries.PolyFromInts(1), qseries.PolyFromInts(0, 1))
	require.NoError(t, err)
	sum := x.Add(inv) // (x² + 1)/x
	v, err := sum.Eval(qseries.N(2))
	require.NoError(t, err)
	assert.True(t, v.Equal(qseries.F(5, 2)))
	assert.True(t, sum.Sub(inv).Equal(x))
	assert.True(t, x.Mul(inv).Equal(mustRat(t, 1)))

	_, err = sum.Eval(qseries.N(0))
	assert.True(t, errors.Is(err, qseries.ErrNotInvertible))
	_, err = sum.Div(mustRat(t, 0))
	assert.True(t, errors.Is(err, qseries.ErrNotInvertible))
}

func mustRat(t *testing.T, c int64) *qseries.RatFunc {
	t.Helper()
	r, err := qseries.NewRatFunc(qseries.PolyFromInts(c), qseries.PolyFromInts(1))
	require.NoError(t, err)
	return r
}

// ============================================================
// Linear algebra tests
// ============================================================

func row(vals ...int64) []*qseries.Num {
	out := make([]*qseries.Num, len(vals))
	for i, v := range vals {
		out[i] = qseries.N(v)
	}
	return out
}

func TestSolveLinearSystem(t *testing.T) {
	x, err := qseries.SolveLinearSystem([][]*qseries.Num{row(1, 1), row(1, -1)}, row(3, 1))
	require.NoError(t, err)
	assert.True(t, x[0].Equal(qseries.N(2)))
	assert.True(t, x[1].Equal(qseries.N(1)))

	_, err = qseries.SolveLinearSystem([][]*qseries.Num{row(1, 1), row(2, 2)}, row(1, 3))
	assert.True(t, errors.Is(err, qseries.ErrInconsistent))

	_, err = qseries.SolveLinearSystem([][]*qseries.Num{row(1, 1)}, row(1, 3))
	assert.True(t, errors.Is(err, qseries.ErrMalformedInput))
}

func TestNullSpace(t *testing.T) {
	a := [][]*qseries.Num{row(1, 2, 3)}
	basis := qseries.NullSpace(a)
	require.Len(t, basis, 2)
	for _, v := range basis {
		sum := qseries.N(0).Rat()
		for j, c := range v {
			sum.Add(sum, qseries.N(0).Rat().Mul(a[0][j].Rat(), c.Rat()))
		}
		assert.Equal(t, 0, sum.Sign())
	}
	assert.Empty(t, qseries.NullSpace([][]*qseries.Num{row(1, 0), row(0, 1)}))
}
