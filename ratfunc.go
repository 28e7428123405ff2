package qseries

import "math/big"

// ============================================================
// RatFunc — rational functions over ℚ
// ============================================================

// RatFunc is num/den in lowest terms with a monic denominator.
type RatFunc struct {
	Num *Poly
	Den *Poly
}

// NewRatFunc reduces num/den by their GCD and makes the denominator monic.
func NewRatFunc(num, den *Poly) (*RatFunc, error) {
	if den.IsZero() {
		return nil, degenerate("NewRatFunc", ErrNotInvertible, "zero denominator")
	}
	if num.IsZero() {
		return &RatFunc{Num: &Poly{}, Den: PolyFromInts(1)}, nil
	}
	g := PolyGCD(num, den)
	n, _ := num.ExactDiv(g)
	d, _ := den.ExactDiv(g)
	lc := new(big.Rat).Inv(d.c[len(d.c)-1])
	return &RatFunc{Num: n.scale(lc), Den: d.scale(lc)}, nil
}

// mustRatFunc builds num/den where den is known to be nonzero.
func mustRatFunc(num, den *Poly) *RatFunc {
	r, err := NewRatFunc(num, den)
	if err != nil {
		panic("qseries: internal: " + err.Error())
	}
	return r
}

func (r *RatFunc) IsZero() bool { return r.Num.IsZero() }

func (r *RatFunc) Add(o *RatFunc) *RatFunc {
	return mustRatFunc(r.Num.Mul(o.Den).Add(o.Num.Mul(r.Den)), r.Den.Mul(o.Den))
}

func (r *RatFunc) Sub(o *RatFunc) *RatFunc {
	return mustRatFunc(r.Num.Mul(o.Den).Sub(o.Num.Mul(r.Den)), r.Den.Mul(o.Den))
}

func (r *RatFunc) Mul(o *RatFunc) *RatFunc {
	return mustRatFunc(r.Num.Mul(o.Num), r.Den.Mul(o.Den))
}

// Div fails when o is the zero function.
func (r *RatFunc) Div(o *RatFunc) (*RatFunc, error) {
	if o.IsZero() {
		return nil, degenerate("RatFunc.Div", ErrNotInvertible, "division by zero")
	}
	return mustRatFunc(r.Num.Mul(o.Den), r.Den.Mul(o.Num)), nil
}

// QShift returns r(q^j·x).
func (r *RatFunc) QShift(q *Num, j int64) *RatFunc {
	return mustRatFunc(r.Num.QShift(q, j), r.Den.QShift(q, j))
}

// Eval evaluates r at x and fails at a pole.
func (r *RatFunc) Eval(x *Num) (*Num, error) {
	d := r.Den.Eval(x)
	if d.IsZero() {
		return nil, degenerate("RatFunc.Eval", ErrNotInvertible, "pole at x = %s", x)
	}
	return numDiv(r.Num.Eval(x), d), nil
}

func (r *RatFunc) Equal(o *RatFunc) bool {
	return r.Num.Equal(o.Num) && r.Den.Equal(o.Den)
}

func (r *RatFunc) String() string {
	if r.Den.Degree() == 0 {
		return r.Num.String()
	}
	return "(" + r.Num.String() + ")/(" + r.Den.String() + ")"
}
