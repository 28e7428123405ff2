package qseries

// ============================================================
// Named infinite products
// ============================================================

// stepFactor describes (c·q^base; q^step)_∞.
type stepFactor struct {
	c    *Num
	base int64
	step int64
}

// productOf multiplies several (c·q^base; q^step)_∞ factors so that the
// result is known below trunc even when some factors are Laurent series:
// each factor is expanded to trunc minus the valuation of all the others.
func productOf(v SymbolID, trunc int64, factors ...stepFactor) *Series {
	total := int64(0)
	vals := make([]int64, len(factors))
	for i, f := range factors {
		if !f.c.IsZero() && f.c.IsOne() && f.base <= 0 && (-f.base)%f.step == 0 {
			return Zero(v, trunc)
		}
		vals[i] = stepValuation(f.c, f.base, f.step)
		total += vals[i]
	}
	result := One(v, Exact)
	for i, f := range factors {
		part := stepProduct(f.c, f.base, f.step, v, trunc-(total-vals[i]))
		if part.IsZero() {
			return Zero(v, trunc)
		}
		result = mul(result, part)
	}
	return Truncate(result, trunc)
}

// Etaq is (q^b; q^t)_∞. A non-positive step is malformed; b = 0 gives the
// zero series; b < 0 gives the Laurent expansion of the same product.
func Etaq(b, t int64, v SymbolID, trunc int64) (*Series, error) {
	if t <= 0 {
		return nil, malformed("Etaq", "step t = %d must be positive", t)
	}
	if err := checkOrder("Etaq", trunc); err != nil {
		return nil, err
	}
	return productOf(v, trunc, stepFactor{N(1), b, t}), nil
}

// Jacprod is JAC(a, b) = (q^a; q^b)_∞ (q^{b-a}; q^b)_∞ (q^b; q^b)_∞.
func Jacprod(a, b int64, v SymbolID, trunc int64) (*Series, error) {
	if b <= 0 {
		return nil, malformed("Jacprod", "modulus b = %d must be positive", b)
	}
	if err := checkOrder("Jacprod", trunc); err != nil {
		return nil, err
	}
	return productOf(v, trunc,
		stepFactor{N(1), a, b},
		stepFactor{N(1), b - a, b},
		stepFactor{N(1), b, b},
	), nil
}

// Tripleprod is the Jacobi triple product (q;q)_∞ (z;q)_∞ (q/z;q)_∞.
func Tripleprod(z QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if z.IsZero() {
		return nil, malformed("Tripleprod", "z must be nonzero")
	}
	if err := checkOrder("Tripleprod", trunc); err != nil {
		return nil, err
	}
	c := z.coeff()
	return productOf(v, trunc,
		stepFactor{N(1), 1, 1},
		stepFactor{c, z.Power, 1},
		stepFactor{numRecip(c), 1 - z.Power, 1},
	), nil
}

// Quinprod is the quintuple product
// (q;q)_∞ (zq;q)_∞ (1/z;q)_∞ (z²q;q²)_∞ (q/z²;q²)_∞.
func Quinprod(z QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if z.IsZero() {
		return nil, malformed("Quinprod", "z must be nonzero")
	}
	if err := checkOrder("Quinprod", trunc); err != nil {
		return nil, err
	}
	c := z.coeff()
	m := z.Power
	c2 := numMul(c, c)
	return productOf(v, trunc,
		stepFactor{N(1), 1, 1},
		stepFactor{c, m + 1, 1},
		stepFactor{numRecip(c), -m, 1},
		stepFactor{c2, 2*m + 1, 2},
		stepFactor{numRecip(c2), 1 - 2*m, 2},
	), nil
}

// Winquist is (q;q)_∞² (a)_∞ (q/a)_∞ (b)_∞ (q/b)_∞ (ab)_∞ (q/ab)_∞ (a/b)_∞ (bq/a)_∞,
// every factor to base q.
func Winquist(a, b QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if a.IsZero() || b.IsZero() {
		return nil, malformed("Winquist", "a and b must be nonzero")
	}
	if err := checkOrder("Winquist", trunc); err != nil {
		return nil, err
	}
	ac, ap := a.coeff(), a.Power
	bc, bp := b.coeff(), b.Power
	return productOf(v, trunc,
		stepFactor{N(1), 1, 1},
		stepFactor{N(1), 1, 1},
		stepFactor{ac, ap, 1},
		stepFactor{numRecip(ac), 1 - ap, 1},
		stepFactor{bc, bp, 1},
		stepFactor{numRecip(bc), 1 - bp, 1},
		stepFactor{numMul(ac, bc), ap + bp, 1},
		stepFactor{numRecip(numMul(ac, bc)), 1 - ap - bp, 1},
		stepFactor{numDiv(ac, bc), ap - bp, 1},
		stepFactor{numDiv(bc, ac), 1 - ap + bp, 1},
	), nil
}

// EulerProduct is (q;q)_∞.
func EulerProduct(v SymbolID, trunc int64) (*Series, error) {
	return Etaq(1, 1, v, trunc)
}
