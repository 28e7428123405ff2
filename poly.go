package qseries

import (
	"math/big"
	"strings"
)

// ============================================================
// Poly — dense univariate polynomials over ℚ
// ============================================================

// Poly is an immutable polynomial Σ c_i x^i with exact rational
// coefficients. The coefficient slice never ends in a zero; the zero
// polynomial has no coefficients and degree -1.
type Poly struct{ c []*big.Rat }

func trimPoly(c []*big.Rat) *Poly {
	n := len(c)
	for n > 0 && c[n-1].Sign() == 0 {
		n--
	}
	return &Poly{c: c[:n]}
}

// NewPoly builds a polynomial from coefficients in ascending degree order.
func NewPoly(coeffs ...*Num) *Poly {
	c := make([]*big.Rat, len(coeffs))
	for i, x := range coeffs {
		c[i] = x.Rat()
	}
	return trimPoly(c)
}

// PolyFromInts builds a polynomial from integer coefficients in ascending
// degree order.
func PolyFromInts(coeffs ...int64) *Poly {
	c := make([]*big.Rat, len(coeffs))
	for i, x := range coeffs {
		c[i] = big.NewRat(x, 1)
	}
	return trimPoly(c)
}

// polyMonomial is c·x^d.
func polyMonomial(c *big.Rat, d int) *Poly {
	out := make([]*big.Rat, d+1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	out[d].Set(c)
	return trimPoly(out)
}

func (p *Poly) Degree() int  { return len(p.c) - 1 }
func (p *Poly) IsZero() bool { return len(p.c) == 0 }

// Coeff returns the coefficient of x^i, zero outside the stored range.
func (p *Poly) Coeff(i int) *Num {
	if i < 0 || i >= len(p.c) {
		return N(0)
	}
	return NewNum(p.c[i])
}

// LeadingCoeff returns the coefficient of the highest power, zero for the
// zero polynomial.
func (p *Poly) LeadingCoeff() *Num {
	if p.IsZero() {
		return N(0)
	}
	return NewNum(p.c[len(p.c)-1])
}

func (p *Poly) rat(i int) *big.Rat {
	if i < 0 || i >= len(p.c) {
		return new(big.Rat)
	}
	return p.c[i]
}

func (p *Poly) Add(o *Poly) *Poly {
	n := len(p.c)
	if len(o.c) > n {
		n = len(o.c)
	}
	out := make([]*big.Rat, n)
	for i := range out {
		out[i] = new(big.Rat).Add(p.rat(i), o.rat(i))
	}
	return trimPoly(out)
}

func (p *Poly) Sub(o *Poly) *Poly { return p.Add(o.Neg()) }

func (p *Poly) Neg() *Poly {
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = new(big.Rat).Neg(c)
	}
	return trimPoly(out)
}

func (p *Poly) Mul(o *Poly) *Poly {
	if p.IsZero() || o.IsZero() {
		return &Poly{}
	}
	out := make([]*big.Rat, len(p.c)+len(o.c)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	tmp := new(big.Rat)
	for i, a := range p.c {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range o.c {
			out[i+j].Add(out[i+j], tmp.Mul(a, b))
		}
	}
	return trimPoly(out)
}

// Scale multiplies every coefficient by c.
func (p *Poly) Scale(c *Num) *Poly { return p.scale(c.val) }

func (p *Poly) scale(r *big.Rat) *Poly {
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = new(big.Rat).Mul(c, r)
	}
	return trimPoly(out)
}

// DivRem returns q and r with p = q·d + r and deg r < deg d.
func (p *Poly) DivRem(d *Poly) (*Poly, *Poly, error) {
	if d.IsZero() {
		return nil, nil, degenerate("DivRem", ErrNotInvertible, "division by the zero polynomial")
	}
	rem := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		rem[i] = new(big.Rat).Set(c)
	}
	dd := d.Degree()
	if len(p.c)-1 < dd {
		return &Poly{}, trimPoly(rem), nil
	}
	quo := make([]*big.Rat, len(p.c)-dd)
	for i := range quo {
		quo[i] = new(big.Rat)
	}
	lcInv := new(big.Rat).Inv(d.c[dd])
	tmp := new(big.Rat)
	for k := len(p.c) - 1; k >= dd; k-- {
		if rem[k].Sign() == 0 {
			continue
		}
		f := new(big.Rat).Mul(rem[k], lcInv)
		quo[k-dd] = f
		for j := 0; j <= dd; j++ {
			rem[k-dd+j].Sub(rem[k-dd+j], tmp.Mul(f, d.c[j]))
		}
	}
	return trimPoly(quo), trimPoly(rem[:dd]), nil
}

// ExactDiv divides p by d and fails unless the remainder is zero.
func (p *Poly) ExactDiv(d *Poly) (*Poly, error) {
	q, r, err := p.DivRem(d)
	if err != nil {
		return nil, err
	}
	if !r.IsZero() {
		return nil, malformed("ExactDiv", "%s does not divide %s", d, p)
	}
	return q, nil
}

// Monic scales p to leading coefficient 1. The zero polynomial stays zero.
func (p *Poly) Monic() *Poly {
	if p.IsZero() {
		return p
	}
	return p.scale(new(big.Rat).Inv(p.c[len(p.c)-1]))
}

// PolyGCD is the monic greatest common divisor; gcd(0, 0) = 0.
func PolyGCD(a, b *Poly) *Poly {
	for !b.IsZero() {
		_, r, _ := a.DivRem(b)
		a, b = b, r
	}
	return a.Monic()
}

// Eval evaluates p at x by Horner's rule.
func (p *Poly) Eval(x *Num) *Num {
	acc := new(big.Rat)
	for i := len(p.c) - 1; i >= 0; i-- {
		acc.Mul(acc, x.val)
		acc.Add(acc, p.c[i])
	}
	return &Num{val: acc}
}

// QShift returns p(q^j·x). q must be nonzero when j < 0.
func (p *Poly) QShift(q *Num, j int64) *Poly {
	step := numPow(q, j).val
	pow := big.NewRat(1, 1)
	out := make([]*big.Rat, len(p.c))
	for i, c := range p.c {
		out[i] = new(big.Rat).Mul(c, pow)
		pow.Mul(pow, step)
	}
	return trimPoly(out)
}

func (p *Poly) Equal(o *Poly) bool {
	if len(p.c) != len(o.c) {
		return false
	}
	for i := range p.c {
		if p.c[i].Cmp(o.c[i]) != 0 {
			return false
		}
	}
	return true
}

// String renders p in x, highest power first.
func (p *Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var sb strings.Builder
	first := true
	for i := len(p.c) - 1; i >= 0; i-- {
		c := p.c[i]
		if c.Sign() == 0 {
			continue
		}
		abs := new(big.Rat).Abs(c)
		switch {
		case first && c.Sign() < 0:
			sb.WriteString("-")
		case !first && c.Sign() < 0:
			sb.WriteString(" - ")
		case !first:
			sb.WriteString(" + ")
		}
		first = false
		if i == 0 || abs.Cmp(ratOne) != 0 {
			sb.WriteString(ratString(abs))
			if i > 0 {
				sb.WriteString("*")
			}
		}
		if i > 0 {
			sb.WriteString(powString("x", int64(i)))
		}
	}
	return sb.String()
}
