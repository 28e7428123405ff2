package qseries

import log "github.com/sirupsen/logrus"

// ============================================================
// Basic hypergeometric series as power series in q
// ============================================================

// MaxHypergeometricTerms caps how many terms EvalPhi and EvalPsi add
// while waiting for the term valuations to pass the truncation order.
const MaxHypergeometricTerms = 1 << 16

// BilateralTerm is the n-th term, n ∈ ℤ, of the bilateral series
// rψs(a_1..a_r; b_1..b_s; q, z):
//
//	t_n = (a_1..a_r;q)_n / (b_1..b_s;q)_n · ((-1)^n q^{n(n-1)/2})^{s-r} z^n
type BilateralTerm struct {
	Upper []QMonomial `json:"upper"`
	Lower []QMonomial `json:"lower"`
	Z     QMonomial   `json:"z"`
}

// unitFactor is 1 - x written as s·q^lowExponent(x)·u with u(0) = 1.
type unitFactor struct {
	s *Num
	u *Series
}

func splitOneMinus(v SymbolID, x QMonomial) unitFactor {
	c := x.coeff()
	switch {
	case c.IsZero():
		return unitFactor{s: N(1), u: One(v, Exact)}
	case x.Power > 0:
		return unitFactor{s: N(1), u: oneMinus(v, c, x.Power)}
	case x.Power == 0:
		return unitFactor{s: numSub(N(1), c), u: One(v, Exact)}
	}
	return unitFactor{s: numNeg(c), u: oneMinus(v, numRecip(c), -x.Power)}
}

// lowExponent is the valuation of 1 - x.
func lowExponent(x QMonomial) int64 {
	if x.IsZero() || x.Power >= 0 {
		return 0
	}
	return x.Power
}

func vanishes(x QMonomial) bool { return x.Power == 0 && x.coeff().IsOne() }

// hyperStep is t_{i+1}/t_i on the i-th step of a walk: ∏_num (1 - x)
// over ∏_den (1 - x), times scale·q^shift.
type hyperStep struct {
	num, den []QMonomial
	scale    *Num
	shift    int64
}

// paramSpan bounds the step after which every factor exponent has a fixed
// sign, so the valuation increments grow linearly from there on.
func paramSpan(groups ...[]QMonomial) int64 {
	span := int64(0)
	for _, g := range groups {
		for _, x := range g {
			if p := x.Power; p > span {
				span = p
			} else if -p > span {
				span = -p
			}
		}
	}
	return span + 2
}

// walkTerms sums t_0 = 1 and the terms reached from it by step(0),
// step(1), ... through O(q^trunc), leaving t_0 out when skipFirst is set.
// The walk stops when a numerator factor vanishes or once the valuations
// pass trunc for good. Terms whose valuations never grow are malformed.
func walkTerms(op string, v SymbolID, trunc, span int64, skipFirst bool, step func(i int64) hyperStep) (*Series, error) {
	vals := []int64{0}
	val, minVal, prev := int64(0), int64(0), int64(0)
	for i := int64(0); ; i++ {
		if i >= MaxHypergeometricTerms {
			return nil, malformed(op, "terms still below q^%d after %d steps", trunc, MaxHypergeometricTerms)
		}
		st := step(i)
		stop := st.scale.IsZero()
		for _, x := range st.num {
			stop = stop || vanishes(x)
		}
		if stop {
			break
		}
		for _, x := range st.den {
			if vanishes(x) {
				return nil, degenerate(op, ErrZeroFactor, "denominator factor 1 - %s vanishes at step %d", x, i)
			}
		}
		delta := st.shift
		for _, x := range st.num {
			delta += lowExponent(x)
		}
		for _, x := range st.den {
			delta -= lowExponent(x)
		}
		val += delta
		if i > span {
			if slope := delta - prev; slope < 0 || (slope == 0 && delta <= 0) {
				return nil, malformed(op, "terms do not tend to zero as power series in q")
			}
			if delta > 0 && val >= trunc {
				break
			}
		}
		vals = append(vals, val)
		if val < minVal {
			minVal = val
		}
		prev = delta
	}
	log.Debugf("%s: %d terms, lowest valuation %d", op, len(vals), minVal)

	prec := trunc - minVal
	sum := One(v, trunc)
	if skipFirst {
		sum = Zero(v, trunc)
	}
	u := One(v, prec)
	for i := 1; i < len(vals); i++ {
		st := step(int64(i - 1))
		s := st.scale
		for _, x := range st.num {
			f := splitOneMinus(v, x)
			s = numMul(s, f.s)
			u = mul(u, f.u)
		}
		for _, x := range st.den {
			f := splitOneMinus(v, x)
			s = numDiv(s, f.s)
			u = mul(u, invertUnit(Truncate(f.u, prec)))
		}
		u = ScalarMul(s, u)
		sum = add(sum, Truncate(Shift(u, vals[i]), trunc))
	}
	return sum, nil
}

func shifted(xs []QMonomial, k int64) []QMonomial {
	out := make([]QMonomial, len(xs))
	for i, x := range xs {
		out[i] = x.Mul(QPower(k))
	}
	return out
}

// EvalPhi expands rφs(a; b; q, z) through O(q^trunc). The sum must
// terminate (some a_i = q^{-n}) or its terms must tend to zero q-adically.
func EvalPhi(h HypergeometricTerm, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("EvalPhi", trunc); err != nil {
		return nil, err
	}
	e := int64(1 + len(h.Lower) - len(h.Upper))
	scale := numMul(signPow(e), h.Z.coeff())
	return walkTerms("EvalPhi", v, trunc, paramSpan(h.Upper, h.Lower), false, func(n int64) hyperStep {
		return hyperStep{
			num:   shifted(h.Upper, n),
			den:   append([]QMonomial{QPower(n + 1)}, shifted(h.Lower, n)...),
			scale: scale,
			shift: e*n + h.Z.Power,
		}
	})
}

// EvalPsi expands rψs(a; b; q, z) through O(q^trunc) as the n ≥ 0 half
// plus the n < 0 half, where (a;q)_{-m} = 1/(a·q^{-m};q)_m. Each half must
// terminate or converge q-adically; a pole of some (a_i;q)_n at n < 0 is
// degenerate.
func EvalPsi(h BilateralTerm, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("EvalPsi", trunc); err != nil {
		return nil, err
	}
	if h.Z.IsZero() {
		return nil, malformed("EvalPsi", "argument z must be nonzero")
	}
	e := int64(len(h.Lower) - len(h.Upper))
	span := paramSpan(h.Upper, h.Lower)
	up, err := walkTerms("EvalPsi", v, trunc, span, false, func(n int64) hyperStep {
		return hyperStep{
			num:   shifted(h.Upper, n),
			den:   shifted(h.Lower, n),
			scale: numMul(signPow(e), h.Z.coeff()),
			shift: e*n + h.Z.Power,
		}
	})
	if err != nil {
		return nil, err
	}
	down, err := walkTerms("EvalPsi", v, trunc, span, true, func(i int64) hyperStep {
		return hyperStep{
			num:   shifted(h.Lower, -i-1),
			den:   shifted(h.Upper, -i-1),
			scale: numDiv(signPow(e), h.Z.coeff()),
			shift: e*(i+1) - h.Z.Power,
		}
	})
	if err != nil {
		return nil, err
	}
	return add(up, down), nil
}

// VerifyTransformation reports whether lhs = prefactor · rhs on every
// coefficient known on both sides, through at most O(q^trunc).
func VerifyTransformation(lhs HypergeometricTerm, prefactor *Series, rhs HypergeometricTerm, v SymbolID, trunc int64) (bool, error) {
	l, err := EvalPhi(lhs, v, trunc)
	if err != nil {
		return false, err
	}
	r, err := EvalPhi(rhs, v, trunc)
	if err != nil {
		return false, err
	}
	if err := sameVariable("VerifyTransformation", l, prefactor); err != nil {
		return false, err
	}
	p := mul(prefactor, r)
	o := minOrder(l.trunc, p.trunc)
	return Truncate(l, o).Equal(Truncate(p, o)), nil
}
