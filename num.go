package qseries

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Num — exact rational number
// ============================================================

// Num is an immutable exact rational. The zero value is not usable; build
// values with N, F, NewNum or ParseNum.
type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("qseries: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NewNum copies r into a Num.
func NewNum(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// NewNumInt copies an integer into a Num.
func NewNumInt(i *big.Int) *Num { return &Num{val: new(big.Rat).SetInt(i)} }

// ParseNum accepts "7", "-3/4" and similar exact forms. Exponent notation
// is refused: "1e1000000000" would otherwise allocate a billion-digit integer.
func ParseNum(s string) (*Num, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eEpP") {
		return nil, fmt.Errorf("qseries: cannot parse %q as a rational: exponent notation is not supported", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("qseries: cannot parse %q as a rational", s)
	}
	return &Num{val: r}, nil
}

func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsNegOne() bool   { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == -1 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) Sign() int        { return n.val.Sign() }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }
func (n *Num) Equal(o *Num) bool {
	return o != nil && n.val.Cmp(o.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

// MarshalText renders the exact "p/q" form so Num values survive JSON and
// YAML round trips.
func (n *Num) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *Num) UnmarshalText(b []byte) error {
	p, err := ParseNum(string(b))
	if err != nil {
		return err
	}
	n.val = p.val
	return nil
}

func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("qseries: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }

// numPow raises a to an integer power; a must be nonzero when e < 0.
func numPow(a *Num, e int64) *Num {
	if e < 0 {
		return numPow(numRecip(a), -e)
	}
	num := new(big.Int).Exp(a.val.Num(), big.NewInt(e), nil)
	den := new(big.Int).Exp(a.val.Denom(), big.NewInt(e), nil)
	return &Num{val: new(big.Rat).SetFrac(num, den)}
}

// signPow returns (-1)^e.
func signPow(e int64) *Num {
	if e%2 == 0 {
		return N(1)
	}
	return N(-1)
}
