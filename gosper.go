package qseries

import (
	"math"
	"math/big"

	log "github.com/sirupsen/logrus"
)

// ============================================================
// q-hypergeometric terms
// ============================================================

// HypergeometricTerm is the k-th term of the basic hypergeometric series
// rφs(a_1..a_r; b_1..b_s; q, z):
//
//	t_k = (a_1..a_r;q)_k / (q, b_1..b_s;q)_k · ((-1)^k q^{k(k-1)/2})^{1+s-r} z^k
type HypergeometricTerm struct {
	Upper []QMonomial `json:"upper"`
	Lower []QMonomial `json:"lower"`
	Z     QMonomial   `json:"z"`
}

func checkBase(op string, q *Num) error {
	if q == nil || q.IsZero() || q.IsOne() || q.IsNegOne() {
		return malformed(op, "base q must not be 0, 1 or -1")
	}
	return nil
}

// Term evaluates t_k at the numeric base q.
func (h HypergeometricTerm) Term(k int64, q *Num) (*Num, error) {
	if err := checkBase("HypergeometricTerm.Term", q); err != nil {
		return nil, err
	}
	if k < 0 {
		return nil, malformed("HypergeometricTerm.Term", "index k = %d must be non-negative", k)
	}
	num, den := N(1), N(1)
	qk := N(1)
	for i := int64(0); i < k; i++ {
		for _, a := range h.Upper {
			av, err := a.Eval(q)
			if err != nil {
				return nil, err
			}
			num = numMul(num, numSub(N(1), numMul(av, qk)))
		}
		qk = numMul(qk, q)
		den = numMul(den, numSub(N(1), qk))
	}
	qk = N(1)
	for i := int64(0); i < k; i++ {
		for _, b := range h.Lower {
			bv, err := b.Eval(q)
			if err != nil {
				return nil, err
			}
			den = numMul(den, numSub(N(1), numMul(bv, qk)))
		}
		qk = numMul(qk, q)
	}
	if den.IsZero() {
		return nil, degenerate("HypergeometricTerm.Term", ErrZeroFactor, "denominator of t_%d vanishes", k)
	}
	extra := int64(1 + len(h.Lower) - len(h.Upper))
	z, err := h.Z.Eval(q)
	if err != nil {
		return nil, err
	}
	t := numMul(numDiv(num, den), numPow(z, k))
	twist := numMul(signPow(k), numPow(q, k*(k-1)/2))
	return numMul(t, numPow(twist, extra)), nil
}

// Ratio returns t_{k+1}/t_k as a rational function of x = q^k:
//
//	∏(1 - a_i x) / ((1 - qx) ∏(1 - b_j x)) · (-1)^{1+s-r} z x^{1+s-r}
func (h HypergeometricTerm) Ratio(q *Num) (*RatFunc, error) {
	if err := checkBase("HypergeometricTerm.Ratio", q); err != nil {
		return nil, err
	}
	num := PolyFromInts(1)
	for _, a := range h.Upper {
		av, err := a.Eval(q)
		if err != nil {
			return nil, err
		}
		num = num.Mul(NewPoly(N(1), numNeg(av)))
	}
	den := NewPoly(N(1), numNeg(q))
	for _, b := range h.Lower {
		bv, err := b.Eval(q)
		if err != nil {
			return nil, err
		}
		den = den.Mul(NewPoly(N(1), numNeg(bv)))
	}
	z, err := h.Z.Eval(q)
	if err != nil {
		return nil, err
	}
	extra := int64(1 + len(h.Lower) - len(h.Upper))
	coeff := numMul(signPow(extra), z)
	if extra >= 0 {
		num = num.Mul(polyMonomial(coeff.val, int(extra)))
	} else {
		num = num.Scale(coeff)
		den = den.Mul(polyMonomial(ratOne, int(-extra)))
	}
	return NewRatFunc(num, den)
}

// ============================================================
// q-dispersion
// ============================================================

// MaxDispersion caps the shifts QDispersion and GosperNormalForm will try.
// The bound from the roots grows like 1/log|q|, so a base very close to ±1
// is rejected as malformed input instead of scanning millions of shifts.
const MaxDispersion int64 = 4096

// log2Abs is log2|r| for r ≠ 0. It works in big.Float so that it stays
// finite for values far outside the float64 range.
func log2Abs(r *big.Rat) float64 {
	f := new(big.Float).SetRat(r)
	f.Abs(f)
	mant := new(big.Float)
	exp := f.MantExp(mant)
	m, _ := mant.Float64()
	return float64(exp) + math.Log2(m)
}

// rootBounds returns log2 bounds lo ≤ log2|ρ| ≤ hi on the nonzero roots of
// p, from the Cauchy bound applied to p and to its reversal. ok is false
// when p has no nonzero roots.
func rootBounds(p *Poly) (lo, hi float64, ok bool) {
	start := 0
	for start < len(p.c) && p.c[start].Sign() == 0 {
		start++
	}
	top := len(p.c) - 1
	if top <= start {
		return 0, 0, false
	}
	// log2(1 + M) ≤ max(log2 M, 0) + 1
	cauchy := func(pivot *big.Rat, from, to int) float64 {
		m := 0.0
		for i := from; i <= to; i++ {
			if p.c[i].Sign() == 0 {
				continue
			}
			if l := log2Abs(new(big.Rat).Quo(p.c[i], pivot)); l > m {
				m = l
			}
		}
		return m + 1
	}
	return -cauchy(p.c[start], start+1, top), cauchy(p.c[top], start, top-1), true
}

// dispersionBound is the largest shift j for which gcd(a(x), b(q^j x)) can
// be nontrivial: deg a · deg b, raised to the root-ratio bound
// |q|^j = |β|/|α| over nonzero roots α of a and β of b.
func dispersionBound(a, b *Poly, q *Num) int64 {
	bound := int64(a.Degree()) * int64(b.Degree())
	aLo, aHi, okA := rootBounds(a)
	bLo, bHi, okB := rootBounds(b)
	if !okA || !okB {
		return bound
	}
	lq := log2Abs(q.val)
	var j float64
	if lq > 0 {
		j = (bHi - aLo) / lq
	} else {
		j = (bLo - aHi) / lq
	}
	switch {
	case math.IsNaN(j) || j < 0:
		return bound
	case j > float64(MaxDispersion):
		return MaxDispersion + 1
	}
	if r := int64(j) + 2; r > bound {
		return r
	}
	return bound
}

func dispersionFrom(op string, a, b *Poly, q *Num, start int64) ([]int64, error) {
	if a.Degree() < 1 || b.Degree() < 1 {
		return nil, nil
	}
	bound := dispersionBound(a, b, q)
	if bound > MaxDispersion {
		return nil, malformed(op, "shift search exceeds %d for q = %s", MaxDispersion, q)
	}
	var out []int64
	for j := start; j <= bound; j++ {
		if PolyGCD(a, b.QShift(q, j)).Degree() >= 1 {
			out = append(out, j)
		}
	}
	return out, nil
}

// QDispersion lists every j ≥ 0 with gcd(a(x), b(q^j x)) of degree ≥ 1.
func QDispersion(a, b *Poly, q *Num) ([]int64, error) {
	if err := checkBase("QDispersion", q); err != nil {
		return nil, err
	}
	return dispersionFrom("QDispersion", a, b, q, 0)
}

// ============================================================
// Gosper normal form
// ============================================================

// NormalForm is a/b = (σ(x)/τ(x))·(c(qx)/c(x)) with gcd(σ(x), τ(q^j x)) = 1
// for every j ≥ 1.
type NormalForm struct {
	Sigma *Poly
	Tau   *Poly
	C     *Poly
}

// GosperNormalForm splits a/b into normal form by repeatedly removing the
// common factor at the largest positive dispersion.
func GosperNormalForm(a, b *Poly, q *Num) (NormalForm, error) {
	if err := checkBase("GosperNormalForm", q); err != nil {
		return NormalForm{}, err
	}
	if b.IsZero() {
		return NormalForm{}, degenerate("GosperNormalForm", ErrNotInvertible, "zero denominator")
	}
	sigma, tau, c := a, b, PolyFromInts(1)
	for {
		disp, err := dispersionFrom("GosperNormalForm", sigma, tau, q, 1)
		if err != nil {
			return NormalForm{}, err
		}
		if len(disp) == 0 {
			break
		}
		j := disp[len(disp)-1]
		g := PolyGCD(sigma, tau.QShift(q, j))
		if g.Degree() < 1 {
			break
		}
		if sigma, err = sigma.ExactDiv(g); err != nil {
			return NormalForm{}, err
		}
		if tau, err = tau.ExactDiv(g.QShift(q, -j)); err != nil {
			return NormalForm{}, err
		}
		for i := int64(1); i <= j; i++ {
			c = c.Mul(g.QShift(q, -i))
		}
		log.Debugf("gosper: removed %s at shift %d", g, j)
	}
	return NormalForm{Sigma: sigma, Tau: tau, C: c}, nil
}

// ============================================================
// Key equation
// ============================================================

// qLog returns d ≥ 0 with q^d = r exactly.
func qLog(q, r *Num) (int64, bool) {
	if r.IsZero() {
		return 0, false
	}
	guess := math.Round(log2Abs(r.val) / log2Abs(q.val))
	if math.IsNaN(guess) || guess < -1 || guess > 1<<40 {
		return 0, false
	}
	for d := int64(guess) - 1; d <= int64(guess)+1; d++ {
		if d < 0 || !powerFits(q.val.Num(), r.val.Num(), d) || !powerFits(q.val.Denom(), r.val.Denom(), d) {
			continue
		}
		if numPow(q, d).Equal(r) {
			return d, true
		}
	}
	return 0, false
}

// powerFits reports whether |target| has the bit length of some |base|^d,
// which rules a candidate out before the exact power is built.
func powerFits(base, target *big.Int, d int64) bool {
	bb, tb := int64(base.BitLen()), int64(target.BitLen())
	if d == 0 || bb == 1 {
		return tb == 1
	}
	if d > tb {
		return false
	}
	return tb <= d*bb && tb >= d*(bb-1)+1
}

// keyDegrees lists the degrees worth trying for f in σ f(qx) - τ f(x) = rhs.
// The naive degree balances the leading terms. Above it the leading terms
// must cancel, which needs deg σ = deg τ and lc(σ)·q^d = lc(τ).
func keyDegrees(sigma, tau, rhs *Poly, q *Num) []int64 {
	ds, dt := int64(sigma.Degree()), int64(tau.Degree())
	top := ds
	if dt > top {
		top = dt
	}
	naive := int64(rhs.Degree()) - top
	var out []int64
	if naive >= 0 {
		out = append(out, naive)
	}
	if ds != dt || ds < 0 {
		return out
	}
	match, ok := qLog(q, numDiv(tau.LeadingCoeff(), sigma.LeadingCoeff()))
	limit := naive + ds + 2
	for d := naive + 1; d <= limit; d++ {
		if d >= 0 && ok && d == match {
			out = append(out, d)
		}
	}
	if ok && match > limit {
		out = append(out, match)
	}
	return out
}

// solveKeyDegree solves σ f(qx) - τ f(x) = rhs for deg f ≤ d.
func solveKeyDegree(sigma, tau, rhs *Poly, q *Num, d int64) (*Poly, bool) {
	top := sigma.Degree()
	if tau.Degree() > top {
		top = tau.Degree()
	}
	rows := top + int(d) + 1
	if rhs.Degree()+1 > rows {
		rows = rhs.Degree() + 1
	}
	a := make([][]*Num, rows)
	b := make([]*Num, rows)
	qj := make([]*big.Rat, d+1)
	qj[0] = big.NewRat(1, 1)
	for j := int64(1); j <= d; j++ {
		qj[j] = new(big.Rat).Mul(qj[j-1], q.val)
	}
	for k := 0; k < rows; k++ {
		a[k] = make([]*Num, d+1)
		for j := 0; j <= int(d); j++ {
			e := new(big.Rat).Mul(sigma.rat(k-j), qj[j])
			a[k][j] = &Num{val: e.Sub(e, tau.rat(k-j))}
		}
		b[k] = rhs.Coeff(k)
	}
	x, err := SolveLinearSystem(a, b)
	if err != nil {
		return nil, false
	}
	return NewPoly(x...), true
}

func solveKey(sigma, tau, rhs *Poly, q *Num) (*Poly, bool) {
	if rhs.IsZero() {
		return &Poly{}, true
	}
	for _, d := range keyDegrees(sigma, tau, rhs, q) {
		log.Debugf("gosper: trying deg f = %d", d)
		if f, ok := solveKeyDegree(sigma, tau, rhs, q, d); ok {
			return f, true
		}
	}
	return nil, false
}

// SolveKeyEquation finds a polynomial f with σ(x)f(qx) - τ(x)f(x) = τ(x)c(x).
// ok is false when no polynomial solution exists.
func SolveKeyEquation(sigma, tau, c *Poly, q *Num) (*Poly, bool, error) {
	if err := checkBase("SolveKeyEquation", q); err != nil {
		return nil, false, err
	}
	f, ok := solveKey(sigma, tau, tau.Mul(c), q)
	return f, ok, nil
}

// ============================================================
// q-Gosper
// ============================================================

// GosperResult is the outcome of q-Gosper. When Summable, s_k = y(q^k)·t_k
// satisfies s_{k+1} - s_k = t_k, where y is Certificate.
type GosperResult struct {
	Summable    bool
	Certificate *RatFunc
	NormalForm  NormalForm
	Q           *Num
}

// Antidifference returns s_k = y(q^k)·t_k given the value t_k.
func (r GosperResult) Antidifference(k int64, tk *Num) (*Num, error) {
	if !r.Summable {
		return nil, malformed("Antidifference", "term is not q-Gosper summable")
	}
	y, err := r.Certificate.Eval(numPow(r.Q, k))
	if err != nil {
		return nil, err
	}
	return numMul(y, tk), nil
}

// QGosperRatio decides summability of a term whose ratio t_{k+1}/t_k is
// a(x)/b(x) at x = q^k. The certificate may have a pole at x = 0, so f is
// sought as g(x)/x^L: L = 0, or the L > 0 with q^L = σ(0)/τ(0) that lets
// the lowest terms cancel.
func QGosperRatio(a, b *Poly, q *Num) (GosperResult, error) {
	nf, err := GosperNormalForm(a, b, q)
	if err != nil {
		return GosperResult{}, err
	}
	res := GosperResult{NormalForm: nf, Q: q}
	rhs := nf.Tau.Mul(nf.C)
	shifts := []int64{0}
	if s0, t0 := nf.Sigma.Coeff(0), nf.Tau.Coeff(0); !s0.IsZero() && !t0.IsZero() {
		if l, ok := qLog(q, numDiv(s0, t0)); ok && l > 0 {
			shifts = append(shifts, l)
		}
	}
	for _, l := range shifts {
		sigma := nf.Sigma.Scale(numPow(q, -l))
		xl := polyMonomial(ratOne, int(l))
		g, ok := solveKey(sigma, nf.Tau, xl.Mul(rhs), q)
		if !ok {
			continue
		}
		cert, err := NewRatFunc(g, xl.Mul(nf.C))
		if err != nil {
			return GosperResult{}, err
		}
		log.Debugf("gosper: summable with certificate %s", cert)
		res.Summable = true
		res.Certificate = cert
		return res, nil
	}
	log.Debugf("gosper: not summable")
	return res, nil
}

// QGosper runs the q-Gosper algorithm on a basic hypergeometric term.
func QGosper(term HypergeometricTerm, q *Num) (GosperResult, error) {
	ratio, err := term.Ratio(q)
	if err != nil {
		return GosperResult{}, err
	}
	return QGosperRatio(ratio.Num, ratio.Den, q)
}
