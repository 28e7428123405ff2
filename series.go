// Package qseries is an exact symbolic engine for q-series: truncated formal
// power series in q with rational coefficients, q-Pochhammer symbols and
// named infinite products, partition statistics, mock theta functions,
// Bailey pairs and the q-Gosper algorithm.
//
// Design goals:
//   - Exact rational arithmetic (math/big.Rat), never floating point
//   - Every series carries its variable and the order below which its
//     coefficients are known
//   - Degenerate arithmetic is reported as an error, never a wrong answer
//   - Embeddable: JSON tool calls for services and agent backends
package qseries

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// ============================================================
// Series — truncated formal power series
// ============================================================

// Exact is the truncation order of a series that is known completely, i.e.
// a polynomial (or Laurent polynomial) in q.
const Exact int64 = 1 << 62

var ratOne = big.NewRat(1, 1)

// Term is one stored (exponent, coefficient) pair.
type Term struct {
	Exp   int64
	Coeff *Num
}

// Series is an immutable truncated formal power series Σ c_k q^k, known for
// every exponent below its truncation order. Exponents may be negative.
type Series struct {
	variable SymbolID
	coeffs   map[int64]*big.Rat
	keys     []int64
	trunc    int64
}

func clampOrder(t int64) int64 {
	if t >= Exact {
		return Exact
	}
	return t
}

func minOrder(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// build takes ownership of coeffs, dropping zeros and anything at or above
// the truncation order.
func build(v SymbolID, coeffs map[int64]*big.Rat, trunc int64) *Series {
	trunc = clampOrder(trunc)
	keys := make([]int64, 0, len(coeffs))
	for k, c := range coeffs {
		if c.Sign() == 0 || k >= trunc {
			delete(coeffs, k)
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &Series{variable: v, coeffs: coeffs, keys: keys, trunc: trunc}
}

// Zero is the additive identity with the given truncation order.
func Zero(v SymbolID, trunc int64) *Series {
	return build(v, map[int64]*big.Rat{}, trunc)
}

// One is the multiplicative identity with the given truncation order.
func One(v SymbolID, trunc int64) *Series {
	return build(v, map[int64]*big.Rat{0: big.NewRat(1, 1)}, trunc)
}

// Monomial is c·q^m + O(q^trunc).
func Monomial(v SymbolID, c *Num, m int64, trunc int64) *Series {
	return build(v, map[int64]*big.Rat{m: c.Rat()}, trunc)
}

// FromCoeffs builds a series from an exponent → coefficient map.
func FromCoeffs(v SymbolID, coeffs map[int64]*Num, trunc int64) *Series {
	m := make(map[int64]*big.Rat, len(coeffs))
	for k, c := range coeffs {
		m[k] = c.Rat()
	}
	return build(v, m, trunc)
}

// Polynomial builds an exact (Laurent) polynomial.
func Polynomial(v SymbolID, coeffs map[int64]*Num) *Series {
	return FromCoeffs(v, coeffs, Exact)
}

// oneMinus is the exact factor 1 - c·q^e.
func oneMinus(v SymbolID, c *Num, e int64) *Series {
	m := map[int64]*big.Rat{0: big.NewRat(1, 1)}
	neg := new(big.Rat).Neg(c.val)
	if old, ok := m[e]; ok {
		neg.Add(neg, old)
	}
	m[e] = neg
	return build(v, m, Exact)
}

func (s *Series) Variable() SymbolID     { return s.variable }
func (s *Series) TruncationOrder() int64 { return s.trunc }
func (s *Series) IsExact() bool          { return s.trunc == Exact }
func (s *Series) IsZero() bool           { return len(s.keys) == 0 }
func (s *Series) Len() int               { return len(s.keys) }

// Coeff returns the coefficient of q^k. Absent exponents read as exact zero.
func (s *Series) Coeff(k int64) *Num {
	if c, ok := s.coeffs[k]; ok {
		return NewNum(c)
	}
	return N(0)
}

func (s *Series) rat(k int64) *big.Rat {
	if c, ok := s.coeffs[k]; ok {
		return c
	}
	return new(big.Rat)
}

// Terms lists the stored terms in increasing exponent order.
func (s *Series) Terms() []Term {
	out := make([]Term, len(s.keys))
	for i, k := range s.keys {
		out[i] = Term{Exp: k, Coeff: NewNum(s.coeffs[k])}
	}
	return out
}

// MinOrder is the lowest exponent with a nonzero coefficient.
func (s *Series) MinOrder() (int64, bool) {
	if len(s.keys) == 0 {
		return 0, false
	}
	return s.keys[0], true
}

// MaxOrder is the highest stored exponent.
func (s *Series) MaxOrder() (int64, bool) {
	if len(s.keys) == 0 {
		return 0, false
	}
	return s.keys[len(s.keys)-1], true
}

// valuation is the lowest exponent, or the truncation order of a zero series.
func (s *Series) valuation() int64 {
	if len(s.keys) == 0 {
		return s.trunc
	}
	return s.keys[0]
}

// Equal reports identical variable, truncation order and coefficients.
func (s *Series) Equal(o *Series) bool {
	if s.variable != o.variable || s.trunc != o.trunc || len(s.keys) != len(o.keys) {
		return false
	}
	for i, k := range s.keys {
		if o.keys[i] != k || s.coeffs[k].Cmp(o.coeffs[k]) != 0 {
			return false
		}
	}
	return true
}

// AgreesWith reports whether both series share a variable and have equal
// coefficients at every exponent below the smaller truncation order.
func (s *Series) AgreesWith(o *Series) bool {
	if s.variable != o.variable {
		return false
	}
	return Truncate(s, o.trunc).Equal(Truncate(o, s.trunc))
}

func (s *Series) String() string { return s.Format("q") }

// Format renders the series with the given variable name, lowest exponent
// first, followed by the O-term unless the series is exact.
func (s *Series) Format(name string) string {
	var b strings.Builder
	for i, k := range s.keys {
		c := s.coeffs[k]
		neg := c.Sign() < 0
		abs := new(big.Rat).Abs(c)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		one := abs.Cmp(ratOne) == 0
		switch {
		case k == 0:
			b.WriteString(ratString(abs))
		case one:
			b.WriteString(powString(name, k))
		default:
			b.WriteString(ratString(abs) + "*" + powString(name, k))
		}
	}
	if s.trunc != Exact {
		if len(s.keys) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "O(%s)", powString(name, s.trunc))
	} else if len(s.keys) == 0 {
		b.WriteString("0")
	}
	return b.String()
}

// LaTeX renders the series like Format, with \frac coefficients and a
// \mathcal{O} term.
func (s *Series) LaTeX(name string) string {
	var b strings.Builder
	for i, k := range s.keys {
		c := s.coeffs[k]
		abs := &Num{val: new(big.Rat).Abs(c)}
		switch {
		case c.Sign() < 0 && i == 0:
			b.WriteString("-")
		case c.Sign() < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		switch {
		case k == 0:
			b.WriteString(abs.LaTeX())
		case abs.IsOne():
			b.WriteString(latexPow(name, k))
		default:
			b.WriteString(abs.LaTeX() + " " + latexPow(name, k))
		}
	}
	if s.trunc != Exact {
		if len(s.keys) > 0 {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "\\mathcal{O}(%s)", latexPow(name, s.trunc))
	} else if len(s.keys) == 0 {
		b.WriteString("0")
	}
	return b.String()
}

func latexPow(name string, k int64) string {
	if k == 1 {
		return name
	}
	return fmt.Sprintf("%s^{%d}", name, k)
}

func ratString(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.RatString()
}

func powString(name string, k int64) string {
	if k == 1 {
		return name
	}
	if k < 0 {
		return fmt.Sprintf("%s^(%d)", name, k)
	}
	return fmt.Sprintf("%s^%d", name, k)
}

// ============================================================
// Arithmetic
// ============================================================

func sameVariable(op string, a, b *Series) error {
	if a.variable != b.variable {
		return degenerate(op, ErrVariableMismatch, "variables %d and %d", a.variable, b.variable)
	}
	return nil
}

// Add returns a + b truncated to the smaller order.
func Add(a, b *Series) (*Series, error) {
	if err := sameVariable("Add", a, b); err != nil {
		return nil, err
	}
	return add(a, b), nil
}

// Sub returns a - b truncated to the smaller order.
func Sub(a, b *Series) (*Series, error) {
	if err := sameVariable("Sub", a, b); err != nil {
		return nil, err
	}
	return add(a, Negate(b)), nil
}

// Mul returns the truncated product a·b.
func Mul(a, b *Series) (*Series, error) {
	if err := sameVariable("Mul", a, b); err != nil {
		return nil, err
	}
	return mul(a, b), nil
}

func add(a, b *Series) *Series {
	trunc := minOrder(a.trunc, b.trunc)
	out := make(map[int64]*big.Rat, len(a.keys)+len(b.keys))
	for _, k := range a.keys {
		if k >= trunc {
			break
		}
		out[k] = new(big.Rat).Set(a.coeffs[k])
	}
	for _, k := range b.keys {
		if k >= trunc {
			break
		}
		if c, ok := out[k]; ok {
			c.Add(c, b.coeffs[k])
		} else {
			out[k] = new(big.Rat).Set(b.coeffs[k])
		}
	}
	return build(a.variable, out, trunc)
}

func sub(a, b *Series) *Series { return add(a, Negate(b)) }

// mulOrder is min(Ta + vb, Tb + va): a coefficient of the product is known
// only while every contributing pair lies below both truncation orders.
func mulOrder(a, b *Series) int64 {
	if a.trunc == Exact && b.trunc == Exact {
		return Exact
	}
	order := Exact
	if a.trunc != Exact {
		order = minOrder(order, clampOrder(a.trunc+b.valuation()))
	}
	if b.trunc != Exact {
		order = minOrder(order, clampOrder(b.trunc+a.valuation()))
	}
	return order
}

func mul(a, b *Series) *Series {
	trunc := mulOrder(a, b)
	out := make(map[int64]*big.Rat)
	tmp := new(big.Rat)
	for _, i := range a.keys {
		ci := a.coeffs[i]
		for _, j := range b.keys {
			if i+j >= trunc {
				break
			}
			tmp.Mul(ci, b.coeffs[j])
			if c, ok := out[i+j]; ok {
				c.Add(c, tmp)
			} else {
				out[i+j] = new(big.Rat).Set(tmp)
			}
		}
	}
	return build(a.variable, out, trunc)
}

// Negate flips every coefficient.
func Negate(a *Series) *Series {
	out := make(map[int64]*big.Rat, len(a.keys))
	for _, k := range a.keys {
		out[k] = new(big.Rat).Neg(a.coeffs[k])
	}
	return build(a.variable, out, a.trunc)
}

// ScalarMul multiplies every coefficient by c.
func ScalarMul(c *Num, a *Series) *Series {
	out := make(map[int64]*big.Rat, len(a.keys))
	if c.IsZero() {
		return build(a.variable, out, a.trunc)
	}
	for _, k := range a.keys {
		out[k] = new(big.Rat).Mul(c.val, a.coeffs[k])
	}
	return build(a.variable, out, a.trunc)
}

// Shift multiplies by q^k, moving every exponent and a finite truncation
// order by k.
func Shift(a *Series, k int64) *Series {
	out := make(map[int64]*big.Rat, len(a.keys))
	for _, e := range a.keys {
		out[e+k] = new(big.Rat).Set(a.coeffs[e])
	}
	trunc := a.trunc
	if trunc != Exact {
		trunc += k
	}
	return build(a.variable, out, trunc)
}

// Truncate lowers the truncation order to min(order, a's order). Truncating
// to an order at or above the current one returns a unchanged.
func Truncate(a *Series, order int64) *Series {
	if order >= a.trunc {
		return a
	}
	out := make(map[int64]*big.Rat, len(a.keys))
	for _, k := range a.keys {
		if k >= order {
			break
		}
		out[k] = new(big.Rat).Set(a.coeffs[k])
	}
	return build(a.variable, out, order)
}

// asExact re-tags a series whose remaining terms are known to be complete.
func asExact(a *Series) *Series {
	out := make(map[int64]*big.Rat, len(a.keys))
	for _, k := range a.keys {
		out[k] = new(big.Rat).Set(a.coeffs[k])
	}
	return build(a.variable, out, Exact)
}

// Invert computes 1/a to a's truncation order. The series must have a
// nonzero constant term and no negative exponents. An exact series inverts
// only when it is a nonzero constant.
func Invert(a *Series) (*Series, error) {
	if a.IsZero() {
		return nil, degenerate("Invert", ErrNotInvertible, "zero series")
	}
	low := a.keys[0]
	if low < 0 {
		return nil, degenerate("Invert", ErrNotInvertible, "lowest term has exponent %d < 0", low)
	}
	if low > 0 {
		return nil, degenerate("Invert", ErrNotInvertible, "constant term is zero (lowest term has exponent %d > 0)", low)
	}
	c0 := new(big.Rat).Inv(a.coeffs[0])
	if a.trunc == Exact {
		if len(a.keys) > 1 {
			return nil, degenerate("Invert", ErrNotInvertible, "exact polynomial of degree %d has no finite inverse; truncate it first", a.keys[len(a.keys)-1])
		}
		return build(a.variable, map[int64]*big.Rat{0: c0}, Exact), nil
	}
	n := a.trunc
	if n <= 0 {
		return Zero(a.variable, n), nil
	}
	negC0 := new(big.Rat).Neg(c0)
	c := make([]*big.Rat, n)
	c[0] = c0
	tmp := new(big.Rat)
	for i := int64(1); i < n; i++ {
		acc := new(big.Rat)
		for _, k := range a.keys[1:] {
			if k > i {
				break
			}
			if c[i-k].Sign() == 0 {
				continue
			}
			tmp.Mul(a.coeffs[k], c[i-k])
			acc.Add(acc, tmp)
		}
		c[i] = acc.Mul(acc, negC0)
	}
	out := make(map[int64]*big.Rat, n)
	for i, v := range c {
		if v.Sign() != 0 {
			out[int64(i)] = v
		}
	}
	return build(a.variable, out, n), nil
}

// invertLaurent inverts a series whose lowest term may sit at any exponent
// by factoring out that power of q first.
func invertLaurent(a *Series) (*Series, error) {
	low, ok := a.MinOrder()
	if !ok || low == 0 {
		return Invert(a)
	}
	inv, err := Invert(Shift(a, -low))
	if err != nil {
		return nil, err
	}
	return Shift(inv, -low), nil
}

// Pow raises a to an integer power. Negative powers go through Invert.
func Pow(a *Series, n int64) (*Series, error) {
	if n < 0 {
		inv, err := Invert(a)
		if err != nil {
			return nil, err
		}
		return Pow(inv, -n)
	}
	result := One(a.variable, a.trunc)
	base := a
	for n > 0 {
		if n&1 == 1 {
			result = mul(result, base)
		}
		n >>= 1
		if n > 0 {
			base = mul(base, base)
		}
	}
	return result, nil
}

// SubstituteNegQ applies q → -q: odd exponents change sign.
func SubstituteNegQ(a *Series) *Series {
	out := make(map[int64]*big.Rat, len(a.keys))
	for _, k := range a.keys {
		c := new(big.Rat).Set(a.coeffs[k])
		if k%2 != 0 {
			c.Neg(c)
		}
		out[k] = c
	}
	return build(a.variable, out, a.trunc)
}
