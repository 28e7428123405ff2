package qseries

import "fmt"

// ============================================================
// QMonomial — c·q^m
// ============================================================

// QMonomial is the exact parameter c·q^m used as the base of q-Pochhammer
// symbols and named products.
type QMonomial struct {
	Coeff *Num  `json:"coeff" yaml:"coeff"`
	Power int64 `json:"power" yaml:"power"`
}

// QMono builds c·q^m.
func QMono(c *Num, m int64) QMonomial { return QMonomial{Coeff: c, Power: m} }

// QPower builds q^m.
func QPower(m int64) QMonomial { return QMonomial{Coeff: N(1), Power: m} }

// QConst builds the constant c.
func QConst(c *Num) QMonomial { return QMonomial{Coeff: c} }

func (a QMonomial) coeff() *Num {
	if a.Coeff == nil {
		return N(0)
	}
	return a.Coeff
}

func (a QMonomial) IsZero() bool { return a.coeff().IsZero() }

// IsUnit reports a == 1·q^0.
func (a QMonomial) IsUnit() bool { return a.Power == 0 && a.coeff().IsOne() }

func (a QMonomial) Mul(b QMonomial) QMonomial {
	return QMonomial{Coeff: numMul(a.coeff(), b.coeff()), Power: a.Power + b.Power}
}

// Div returns a/b; b must be nonzero.
func (a QMonomial) Div(b QMonomial) (QMonomial, error) {
	if b.IsZero() {
		return QMonomial{}, malformed("QMonomial.Div", "division by the zero monomial")
	}
	return QMonomial{Coeff: numDiv(a.coeff(), b.coeff()), Power: a.Power - b.Power}, nil
}

// Pow returns a^n; a must be nonzero when n < 0.
func (a QMonomial) Pow(n int64) (QMonomial, error) {
	if n < 0 && a.IsZero() {
		return QMonomial{}, malformed("QMonomial.Pow", "negative power of the zero monomial")
	}
	return QMonomial{Coeff: numPow(a.coeff(), n), Power: a.Power * n}, nil
}

// Eval substitutes a numeric value for q.
func (a QMonomial) Eval(q *Num) (*Num, error) {
	if q.IsZero() && a.Power < 0 {
		return nil, malformed("QMonomial.Eval", "q = 0 with negative power %d", a.Power)
	}
	if q.IsZero() && a.Power > 0 {
		return N(0), nil
	}
	return numMul(a.coeff(), numPow(q, a.Power)), nil
}

// Series returns the exact one-term series c·q^m.
func (a QMonomial) Series(v SymbolID) *Series {
	return Monomial(v, a.coeff(), a.Power, Exact)
}

func (a QMonomial) String() string {
	c := a.coeff()
	switch {
	case a.Power == 0:
		return c.String()
	case c.IsOne():
		return powString("q", a.Power)
	case c.IsNegOne():
		return "-" + powString("q", a.Power)
	}
	return c.String() + "*" + powString("q", a.Power)
}

// ============================================================
// Pochhammer order
// ============================================================

// Order is the length of a q-Pochhammer symbol: a finite integer (possibly
// negative) or infinity.
type Order struct {
	n        int64
	infinite bool
}

// Infinite is the order of (a;q)_∞.
var Infinite = Order{infinite: true}

func Finite(n int64) Order { return Order{n: n} }

func (o Order) IsInfinite() bool { return o.infinite }

// Len is the finite length; it is meaningless for Infinite.
func (o Order) Len() int64 { return o.n }

func (o Order) String() string {
	if o.infinite {
		return "inf"
	}
	return fmt.Sprintf("%d", o.n)
}

// ============================================================
// q-Pochhammer symbol
// ============================================================

// Aqprod computes (a;q)_n known below trunc. Order 0 is 1; a positive
// order is the product of (1 - a·q^k) for k < n; a negative order -n is
// 1/(a·q^{-n};q)_n; Infinite expands the product lazily.
func Aqprod(a QMonomial, n Order, v SymbolID, trunc int64) (*Series, error) {
	switch {
	case n.infinite:
		if err := checkOrder("Aqprod", trunc); err != nil {
			return nil, err
		}
		return stepProduct(a.coeff(), a.Power, 1, v, trunc), nil
	case n.n == 0:
		return One(v, trunc), nil
	case n.n > 0:
		return finiteAqprod(a, n.n, v, trunc), nil
	}
	m := -n.n
	den := finiteAqprod(QMonomial{Coeff: a.coeff(), Power: a.Power - m}, m, v, trunc)
	inv, err := invertLaurent(den)
	if err != nil {
		return nil, fmt.Errorf("qseries: Aqprod(%s, %d): %w", a, n.n, err)
	}
	return inv, nil
}

// checkOrder rejects Exact for infinite expansions, which never terminate,
// and orders that leave no coefficient to compute.
func checkOrder(op string, trunc int64) error {
	if trunc <= 0 {
		return malformed(op, "truncation order %d must be positive", trunc)
	}
	if trunc == Exact {
		return malformed(op, "an infinite product needs a finite truncation order")
	}
	return nil
}

// hasUnitFactor reports whether some factor 1 - a·q^k, 0 ≤ k < n, is
// identically zero.
func hasUnitFactor(a QMonomial, n int64) bool {
	return a.coeff().IsOne() && a.Power <= 0 && -a.Power < n
}

// finiteAqprod multiplies the n factors of (a;q)_n. Factors at negative
// exponents are Laurent polynomials; the working order is widened by their
// total valuation so the result is known below trunc.
func finiteAqprod(a QMonomial, n int64, v SymbolID, trunc int64) *Series {
	c := a.coeff()
	if c.IsZero() {
		return One(v, trunc)
	}
	if hasUnitFactor(a, n) {
		return Zero(v, trunc)
	}
	widen := int64(0)
	for k := int64(0); k < n; k++ {
		if e := a.Power + k; e < 0 {
			widen -= e
		}
	}
	work := trunc
	if trunc != Exact {
		work = clampOrder(trunc + widen)
	}
	result := One(v, work)
	for k := int64(0); k < n; k++ {
		result = mul(result, oneMinus(v, c, a.Power+k))
	}
	return Truncate(result, trunc)
}

// stepProduct expands ∏_{n≥0} (1 - c·q^{base+step·n}) for step > 0. Factors
// with non-positive exponent are multiplied exactly up front; the rest come
// from a ProductGenerator run to an order widened by their valuation.
func stepProduct(c *Num, base, step int64, v SymbolID, trunc int64) *Series {
	if c.IsZero() {
		return One(v, trunc)
	}
	head := One(v, Exact)
	widen := int64(0)
	n := int64(0)
	for ; base+step*n <= 0; n++ {
		e := base + step*n
		f := oneMinus(v, c, e)
		if f.IsZero() {
			return Zero(v, trunc)
		}
		head = mul(head, f)
		widen -= e
	}
	work := clampOrder(trunc + widen)
	gen := NewProductGenerator(One(v, work), n, func(i int64, v SymbolID, _ int64) *Series {
		return oneMinus(v, c, base+step*i)
	})
	gen.EnsureOrder(work)
	return mul(head, gen.Series())
}

// stepValuation is the lowest exponent of ∏_{n≥0} (1 - c·q^{base+step·n}).
func stepValuation(c *Num, base, step int64) int64 {
	if c.IsZero() {
		return 0
	}
	val := int64(0)
	for e := base; e < 0; e += step {
		val += e
	}
	return val
}

// ============================================================
// q-binomial coefficient
// ============================================================

// QBin is the Gaussian polynomial [n choose k]_q as an exact series.
func QBin(n, k int64, v SymbolID) *Series {
	if k < 0 || k > n {
		return Zero(v, Exact)
	}
	if k == 0 || k == n {
		return One(v, Exact)
	}
	if k > n-k {
		k = n - k
	}
	trunc := k*(n-k) + 1
	num := One(v, trunc)
	den := One(v, trunc)
	for i := int64(1); i <= k; i++ {
		num = mul(num, oneMinus(v, N(1), n-k+i))
		den = mul(den, oneMinus(v, N(1), i))
	}
	return asExact(mul(num, invertUnit(den)))
}

// invertUnit inverts a series built to have constant term 1.
func invertUnit(s *Series) *Series {
	inv, err := Invert(s)
	if err != nil {
		panic(fmt.Sprintf("qseries: internal: %v", err))
	}
	return inv
}
