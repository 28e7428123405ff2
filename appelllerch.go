package qseries

import "math/big"

// ============================================================
// Appell-Lerch sums and universal mock theta functions
// ============================================================

// AppellLerchSum is the unnormalised bilateral sum
//
//	Σ_{r∈ℤ} (-1)^r q^{r(r-1)/2 + b·r} / (1 - q^{a+r+b})
//
// Each 1/(1-q^k) is expanded as a geometric series: Σ_{j≥0} q^{kj} for
// k > 0 and -Σ_{j≥1} q^{|k|j} for k < 0. Terms with k = 0 are poles and are
// left out. The theta normaliser is not divided out: for integer
// parameters it vanishes identically.
func AppellLerchSum(a, b int64, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("AppellLerchSum", trunc); err != nil {
		return nil, err
	}
	out := make(map[int64]*big.Rat)
	addTerm := func(r int64) {
		k := a + r + b
		if k == 0 {
			return
		}
		start := r*(r-1)/2 + b*r
		sign := int64(1)
		if r%2 != 0 {
			sign = -1
		}
		step := k
		if k < 0 {
			sign = -sign
			step = -k
			start += step
		}
		for e := start; e < trunc; e += step {
			c, ok := out[e]
			if !ok {
				c = new(big.Rat)
				out[e] = c
			}
			c.Add(c, big.NewRat(sign, 1))
		}
	}
	for r := int64(0); r*(r-1)/2+b*r < trunc; r++ {
		addTerm(r)
	}
	for r := int64(-1); r*(r-1)/2+b*r < trunc; r-- {
		addTerm(r)
	}
	return build(v, out, trunc), nil
}

// AppellLerchM is the Appell-Lerch sum m(q^a, q, q^b) in the same
// unnormalised form as AppellLerchSum.
func AppellLerchM(a, b int64, v SymbolID, trunc int64) (*Series, error) {
	return AppellLerchSum(a, b, v, trunc)
}

// universalSum evaluates Σ_n N_n q^{e(n)} / ((q^a;q)_{n+1} (q^{1-a};q)_{n+1})
// after rewriting every factor 1 - q^{-m} of the second product as
// -q^{-m}(1 - q^m). The rewritten n-th term is
//
//	(-1)^{n+1} N_n q^{e(n) + (n+1)(a-1) - n(n+1)/2} / ((q^a;q)_{n+1} ∏_{k=0..n}(1 - q^{a-1-k}))
//
// The sum stops at n = a-2: the next factor of (q^{1-a};q)_{n+1} is 1 - q^0.
func universalSum(op string, a int64, v SymbolID, trunc int64, e func(n int64) int64, numer func(n int64) *Series) (*Series, error) {
	if err := checkOrder(op, trunc); err != nil {
		return nil, err
	}
	if a <= 1 {
		return nil, malformed(op, "x = q^%d makes (q/x;q)_{n+1} vanish at n = 0", a)
	}
	result := Zero(v, trunc)
	inv := One(v, trunc)
	num := One(v, Exact)
	for n := int64(0); n <= a-2; n++ {
		exp := e(n) + (n+1)*(a-1) - n*(n+1)/2
		if exp >= trunc {
			break
		}
		inv = over(inv, mul(oneMinus(v, N(1), a+n), oneMinus(v, N(1), a-1-n)))
		if n > 0 && numer != nil {
			num = mul(num, numer(n))
		}
		term := Shift(mul(num, inv), exp)
		if n%2 == 0 {
			term = Negate(term)
		}
		result = add(result, term)
	}
	return result, nil
}

// UniversalMockThetaG3 is g3(q^a, q) = Σ q^{n(n+1)} / ((q^a;q)_{n+1} (q^{1-a};q)_{n+1})
// for integer a ≥ 2, summed while the denominator is defined.
func UniversalMockThetaG3(a int64, v SymbolID, trunc int64) (*Series, error) {
	return universalSum("UniversalMockThetaG3", a, v, trunc, func(n int64) int64 { return n * (n + 1) }, nil)
}

// UniversalMockThetaG2 is g2(q^a, q) = Σ (-q;q)_n q^{n(n+1)/2} / ((q^a;q)_{n+1} (q^{1-a};q)_{n+1})
// for integer a ≥ 2, summed while the denominator is defined.
func UniversalMockThetaG2(a int64, v SymbolID, trunc int64) (*Series, error) {
	return universalSum("UniversalMockThetaG2", a, v, trunc, func(n int64) int64 { return n * (n + 1) / 2 }, func(n int64) *Series {
		return onePlus(v, n)
	})
}
