package qseries

import (
	"fmt"
	"math/big"
)

// ============================================================
// Series analysis
// ============================================================

// Sift extracts Σ_i a_{m·i+j} q^i from f = Σ a_n q^n. j is reduced mod m.
func Sift(f *Series, m, j int64) (*Series, error) {
	if m <= 0 {
		return nil, malformed("Sift", "modulus m = %d must be positive", m)
	}
	j = ((j % m) + m) % m
	trunc := f.trunc
	if trunc != Exact {
		if j < trunc {
			trunc = (trunc-j-1)/m + 1
		} else {
			trunc = 0
		}
	}
	out := make(map[int64]*big.Rat)
	for _, k := range f.keys {
		if (k-j)%m != 0 {
			continue
		}
		out[(k-j)/m] = new(big.Rat).Set(f.coeffs[k])
	}
	return build(f.variable, out, trunc), nil
}

// QDegree is the highest exponent with a nonzero coefficient.
func QDegree(f *Series) (int64, bool) { return f.MaxOrder() }

// LQDegree is the lowest exponent with a nonzero coefficient.
func LQDegree(f *Series) (int64, bool) { return f.MinOrder() }

// ProductForm is f = Scalar · q^Shift · ∏_{n≥1} (1 - q^n)^{-a_n}, with a_n
// recovered for n ≤ TermsUsed. Exponents omits the zero a_n.
type ProductForm struct {
	Scalar    *Num
	Shift     int64
	Exponents map[int64]*Num
	TermsUsed int64
}

// Prodmake recovers the exponents a_n, n ≤ maxN, of f as an infinite
// product (Andrews' algorithm). maxN is capped by the known coefficients.
func Prodmake(f *Series, maxN int64) (ProductForm, error) {
	low, ok := f.MinOrder()
	if !ok {
		return ProductForm{}, malformed("Prodmake", "the zero series has no product form")
	}
	form := ProductForm{Scalar: NewNum(f.coeffs[low]), Shift: low, Exponents: map[int64]*Num{}}
	if f.trunc != Exact && maxN > f.trunc-low-1 {
		maxN = f.trunc - low - 1
	}
	if maxN < 1 {
		return form, nil
	}
	inv := new(big.Rat).Inv(f.coeffs[low])
	b := make([]*big.Rat, maxN+1)
	for n := range b {
		b[n] = new(big.Rat).Mul(f.rat(low+int64(n)), inv)
	}
	// c_n = n·b_n - Σ_{j<n} c_j b_{n-j}
	c := make([]*big.Rat, maxN+1)
	c[0] = new(big.Rat)
	tmp := new(big.Rat)
	for n := int64(1); n <= maxN; n++ {
		acc := new(big.Rat).Mul(big.NewRat(n, 1), b[n])
		for j := int64(1); j < n; j++ {
			if c[j].Sign() == 0 || b[n-j].Sign() == 0 {
				continue
			}
			acc.Sub(acc, tmp.Mul(c[j], b[n-j]))
		}
		c[n] = acc
	}
	// n·a_n = Σ_{d|n} μ(n/d) c_d
	for n := int64(1); n <= maxN; n++ {
		sum := new(big.Rat)
		for d := int64(1); d <= n; d++ {
			if n%d != 0 || c[d].Sign() == 0 {
				continue
			}
			switch mobius(n / d) {
			case 1:
				sum.Add(sum, c[d])
			case -1:
				sum.Sub(sum, c[d])
			}
		}
		if sum.Sign() != 0 {
			form.Exponents[n] = &Num{val: sum.Quo(sum, big.NewRat(n, 1))}
		}
	}
	form.TermsUsed = maxN
	return form, nil
}

// mobius is the Möbius function μ(n) for n ≥ 1.
func mobius(n int64) int {
	mu := 1
	for p := int64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		n /= p
		if n%p == 0 {
			return 0
		}
		mu = -mu
	}
	if n > 1 {
		mu = -mu
	}
	return mu
}

// QEtaForm is f = Scalar · q^Shift · ∏_d (q^d;q^d)_∞^{Factors[d]}.
type QEtaForm struct {
	Scalar    *Num
	Shift     int64
	Factors   map[int64]int64
	TermsUsed int64
}

// Qetamake rewrites the product form of f as a quotient of (q^d;q^d)_∞
// with d ≤ maxN. ok is false when some exponent is not an integer.
func Qetamake(f *Series, maxN int64) (QEtaForm, bool, error) {
	pf, err := Prodmake(f, maxN)
	if err != nil {
		return QEtaForm{}, false, err
	}
	form := QEtaForm{Scalar: pf.Scalar, Shift: pf.Shift, Factors: map[int64]int64{}, TermsUsed: pf.TermsUsed}
	// (1 - q^n) carries Σ_{d|n} r_d = -a_n.
	for n := int64(1); n <= pf.TermsUsed; n++ {
		sum := new(big.Rat)
		for d := int64(1); d <= n; d++ {
			a, ok := pf.Exponents[d]
			if !ok || n%d != 0 {
				continue
			}
			switch mobius(n / d) {
			case 1:
				sum.Sub(sum, a.val)
			case -1:
				sum.Add(sum, a.val)
			}
		}
		if sum.Sign() == 0 {
			continue
		}
		if !sum.IsInt() || !sum.Num().IsInt64() {
			return form, false, nil
		}
		form.Factors[n] = sum.Num().Int64()
	}
	return form, true, nil
}

// EtaQuotient is f = Scalar · q^Shift · ∏_d η(dτ)^{Factors[d]} where
// η(dτ) = q^{d/24} (q^d;q^d)_∞.
type EtaQuotient struct {
	Scalar    *Num
	Shift     *Num
	Factors   map[int64]int64
	TermsUsed int64
}

// Etamake is Qetamake in eta notation: Shift absorbs -Σ d·r_d/24.
func Etamake(f *Series, maxN int64) (EtaQuotient, bool, error) {
	qf, ok, err := Qetamake(f, maxN)
	if err != nil || !ok {
		return EtaQuotient{}, ok, err
	}
	shift := new(big.Rat).SetInt64(qf.Shift)
	for d, r := range qf.Factors {
		shift.Sub(shift, big.NewRat(r*d, 24))
	}
	return EtaQuotient{Scalar: qf.Scalar, Shift: &Num{val: shift}, Factors: qf.Factors, TermsUsed: qf.TermsUsed}, true, nil
}

// MProductForm is f = Scalar · q^Shift · ∏_{n≥1} (1 + q^n)^{Exponents[n]}
// for n ≤ TermsUsed. Exponents omits the zero entries.
type MProductForm struct {
	Scalar    *Num
	Shift     int64
	Exponents map[int64]*Num
	TermsUsed int64
}

// Mprodmake rewrites the product form of f over (1 + q^n) factors.
func Mprodmake(f *Series, maxN int64) (MProductForm, error) {
	pf, err := Prodmake(f, maxN)
	if err != nil {
		return MProductForm{}, err
	}
	form := MProductForm{Scalar: pf.Scalar, Shift: pf.Shift, Exponents: map[int64]*Num{}, TermsUsed: pf.TermsUsed}
	// (1 + q^n)^m = (1 - q^n)^{-m} (1 - q^{2n})^m, so m_n = a_n + m_{n/2}.
	res := make(map[int64]*big.Rat, len(pf.Exponents))
	for n, a := range pf.Exponents {
		res[n] = a.Rat()
	}
	for n := int64(1); n <= pf.TermsUsed; n++ {
		m, ok := res[n]
		if !ok || m.Sign() == 0 {
			continue
		}
		form.Exponents[n] = &Num{val: m}
		if 2*n > pf.TermsUsed {
			continue
		}
		if a2, ok := res[2*n]; ok {
			a2.Add(a2, m)
		} else {
			res[2*n] = new(big.Rat).Set(m)
		}
	}
	return form, nil
}

// JacobiForm is f = Scalar · q^Shift · ∏_a JAC(a, Period)^{Factors[a]},
// 0 ≤ a ≤ Period/2, where JAC(a, b) = (q^a, q^{b-a}, q^b; q^b)_∞ and
// JAC(0, b) = (q^b; q^b)_∞.
type JacobiForm struct {
	Scalar    *Num
	Shift     int64
	Period    int64
	Factors   map[int64]int64
	TermsUsed int64
}

// Jacprodmake finds the smallest period b, 2b ≤ TermsUsed, on which the
// product exponents of f are constant along every residue class and
// symmetric under r ↔ b-r. A positive period restricts the search to its
// divisors above 1. ok is false when no period fits.
func Jacprodmake(f *Series, maxN, period int64) (JacobiForm, bool, error) {
	if period < 0 {
		return JacobiForm{}, false, malformed("Jacprodmake", "period %d must be non-negative", period)
	}
	pf, err := Prodmake(f, maxN)
	if err != nil {
		return JacobiForm{}, false, err
	}
	form := JacobiForm{Scalar: pf.Scalar, Shift: pf.Shift, TermsUsed: pf.TermsUsed}
	e := make([]int64, pf.TermsUsed+1)
	for n, a := range pf.Exponents {
		if !a.val.IsInt() || !a.val.Num().IsInt64() {
			return form, false, nil
		}
		e[n] = -a.val.Num().Int64()
	}
	for b := int64(1); 2*b <= pf.TermsUsed; b++ {
		if period > 0 && (b == 1 || period%b != 0) {
			continue
		}
		if factors, ok := jacobiFit(e, b); ok {
			form.Period, form.Factors = b, factors
			return form, true, nil
		}
	}
	return form, false, nil
}

// jacobiFit reads JAC(a, b) exponents off e, where e[n] is the exponent
// of (1 - q^n).
func jacobiFit(e []int64, b int64) (map[int64]int64, bool) {
	class := make([]int64, b)
	for r := int64(0); r < b; r++ {
		first := r
		if r == 0 {
			first = b
		}
		class[r] = e[first]
		for n := first; n < int64(len(e)); n += b {
			if e[n] != class[r] {
				return nil, false
			}
		}
	}
	factors := map[int64]int64{}
	rest := class[0]
	for a := int64(1); 2*a <= b; a++ {
		x := class[a]
		if 2*a == b {
			if x%2 != 0 {
				return nil, false
			}
			x /= 2
		} else if class[b-a] != x {
			return nil, false
		}
		if x != 0 {
			factors[a] = x
			rest -= x
		}
	}
	if rest != 0 {
		factors[0] = rest
	}
	return factors, true
}

// QFactorization is f = Scalar · q^Shift · ∏_d (1 - q^d)^{Factors[d]} ·
// Remainder(q), where Remainder has constant term 1 and no cyclotomic
// factor left.
type QFactorization struct {
	Scalar    *Num
	Shift     int64
	Factors   map[int64]int64
	Remainder *Poly
}

// Exact reports whether f is fully a product of (1 - q^d) powers.
func (f QFactorization) Exact() bool { return f.Remainder.Degree() == 0 }

// QFactor strips the cyclotomic factors Φ_n of an exact polynomial f and
// rewrites them through Φ_n = ∏_{d|n} (1 - q^d)^{μ(n/d)}.
func QFactor(f *Series) (QFactorization, error) {
	if !f.IsExact() {
		return QFactorization{}, malformed("QFactor", "needs an exact polynomial, got a series known below q^%d", f.trunc)
	}
	low, ok := f.MinOrder()
	if !ok {
		return QFactorization{}, malformed("QFactor", "the zero polynomial has no factorization")
	}
	if low < 0 {
		return QFactorization{}, malformed("QFactor", "Laurent polynomial with exponent %d", low)
	}
	high, _ := f.MaxOrder()
	c := make([]*big.Rat, high-low+1)
	for i := range c {
		c[i] = new(big.Rat).Set(f.rat(low + int64(i)))
	}
	out := QFactorization{Scalar: NewNum(c[0]), Shift: low, Factors: map[int64]int64{}}
	rem := trimPoly(c).scale(new(big.Rat).Inv(c[0]))

	deg := int64(rem.Degree())
	counts := map[int64]int64{}
	for n := int64(1); n <= 2*deg*deg+2 && rem.Degree() > 0; n++ {
		if totient(n) > int64(rem.Degree()) {
			continue
		}
		phi := cyclotomicPoly(n)
		for rem.Degree() >= phi.Degree() {
			q, r, _ := rem.DivRem(phi)
			if !r.IsZero() {
				break
			}
			rem = q
			counts[n]++
		}
	}
	for n, k := range counts {
		for d := int64(1); d <= n; d++ {
			if n%d == 0 {
				out.Factors[d] += k * int64(mobius(n/d))
			}
		}
	}
	for d, k := range out.Factors {
		if k == 0 {
			delete(out.Factors, d)
		}
	}
	out.Remainder = rem
	return out, nil
}

// totient is Euler's φ(n) for n ≥ 1.
func totient(n int64) int64 {
	out := n
	for p := int64(2); p*p <= n; p++ {
		if n%p != 0 {
			continue
		}
		for n%p == 0 {
			n /= p
		}
		out -= out / p
	}
	if n > 1 {
		out -= out / n
	}
	return out
}

// oneMinusX is 1 - x^d.
func oneMinusX(d int64) *Poly {
	c := make([]*big.Rat, d+1)
	for i := range c {
		c[i] = new(big.Rat)
	}
	c[0].SetInt64(1)
	c[d].SetInt64(-1)
	return trimPoly(c)
}

// cyclotomicPoly is Φ_n normalized to constant term 1.
func cyclotomicPoly(n int64) *Poly {
	num, den := PolyFromInts(1), PolyFromInts(1)
	for d := int64(1); d <= n; d++ {
		if n%d != 0 {
			continue
		}
		switch mobius(n / d) {
		case 1:
			num = num.Mul(oneMinusX(d))
		case -1:
			den = den.Mul(oneMinusX(d))
		}
	}
	phi, err := num.ExactDiv(den)
	if err != nil {
		panic(fmt.Sprintf("qseries: internal: %v", err))
	}
	return phi
}

// coefficientMatrix lays the coefficients of cands out column by column,
// starting at the lowest exponent among them (or 0), over len(cands) +
// topshift rows or as many as every candidate knows. It is nil when no row
// is known.
func coefficientMatrix(cands []*Series, topshift int) [][]*Num {
	start := int64(0)
	trunc := int64(Exact)
	for _, s := range cands {
		if lo, ok := s.MinOrder(); ok && lo < start {
			start = lo
		}
		trunc = minOrder(trunc, s.trunc)
	}
	rows := int64(len(cands) + topshift)
	if trunc != Exact && trunc-start < rows {
		rows = trunc - start
	}
	if rows <= 0 {
		return nil
	}
	m := make([][]*Num, rows)
	for i := range m {
		m[i] = make([]*Num, len(cands))
		for j, s := range cands {
			m[i][j] = s.Coeff(start + int64(i))
		}
	}
	return m
}

// FindLinearCombination looks for rationals c_i with f = Σ c_i·basis_i on
// the known coefficients. The matrix has len(basis)+1+topshift rows when
// that many coefficients are known. ok is false when f is not a
// combination of the basis.
func FindLinearCombination(f *Series, basis []*Series, topshift int) ([]*Num, bool, error) {
	for _, b := range basis {
		if err := sameVariable("FindLinearCombination", f, b); err != nil {
			return nil, false, err
		}
	}
	if len(basis) == 0 {
		return nil, f.IsZero(), nil
	}
	m := coefficientMatrix(append([]*Series{f}, basis...), topshift)
	if m == nil {
		return nil, false, nil
	}
	for _, v := range NullSpace(m) {
		if v[0].IsZero() {
			continue
		}
		scale := numNeg(numRecip(v[0]))
		out := make([]*Num, len(basis))
		for i := range out {
			out[i] = numMul(v[i+1], scale)
		}
		return out, true, nil
	}
	return nil, false, nil
}

// PolyRelation is Σ_i Coeffs[i] · ∏_j f_j^{Exponents[i][j]} = 0.
type PolyRelation struct {
	Exponents [][]int
	Coeffs    []*Num
}

// monomials lists the exponent vectors of length k summing to d in
// descending lexicographic order.
func monomials(k, d int) [][]int {
	if k == 1 {
		return [][]int{{d}}
	}
	var out [][]int
	for i := d; i >= 0; i-- {
		for _, rest := range monomials(k-1, d-i) {
			out = append(out, append([]int{i}, rest...))
		}
	}
	return out
}

// monomialSeries evaluates ∏_j fs[j]^{exps[j]}, caching powers in pows.
func monomialSeries(fs []*Series, exps []int, pows []map[int]*Series) *Series {
	out := One(fs[0].variable, Exact)
	for j, e := range exps {
		if e == 0 {
			continue
		}
		p, ok := pows[j][e]
		if !ok {
			p, _ = Pow(fs[j], int64(e))
			pows[j][e] = p
		}
		out = mul(out, p)
	}
	return out
}

func relationsFrom(fs []*Series, mons [][]int, topshift int) []PolyRelation {
	pows := make([]map[int]*Series, len(fs))
	for i := range pows {
		pows[i] = map[int]*Series{}
	}
	cands := make([]*Series, len(mons))
	for i, m := range mons {
		cands[i] = monomialSeries(fs, m, pows)
	}
	m := coefficientMatrix(cands, topshift)
	if m == nil {
		return nil
	}
	var out []PolyRelation
	for _, v := range NullSpace(m) {
		out = append(out, PolyRelation{Exponents: mons, Coeffs: v})
	}
	return out
}

// FindHom finds the homogeneous relations of the given degree among fs on
// the known coefficients, one per kernel vector.
func FindHom(fs []*Series, degree, topshift int) ([]PolyRelation, error) {
	if len(fs) == 0 {
		return nil, malformed("FindHom", "no series given")
	}
	if degree < 0 {
		return nil, malformed("FindHom", "degree %d must be non-negative", degree)
	}
	for _, f := range fs[1:] {
		if err := sameVariable("FindHom", fs[0], f); err != nil {
			return nil, err
		}
	}
	return relationsFrom(fs, monomials(len(fs), degree), topshift), nil
}

// FindPoly looks for P(x, y) = Σ c_ij x^i y^j, i ≤ degX, j ≤ degY, with
// P(x, y) = 0 on the known coefficients. Exponents are [i, j] pairs with i
// outer. ok is false when no such P exists.
func FindPoly(x, y *Series, degX, degY, topshift int) (PolyRelation, bool, error) {
	if degX < 0 || degY < 0 {
		return PolyRelation{}, false, malformed("FindPoly", "degrees (%d, %d) must be non-negative", degX, degY)
	}
	if err := sameVariable("FindPoly", x, y); err != nil {
		return PolyRelation{}, false, err
	}
	var mons [][]int
	for i := 0; i <= degX; i++ {
		for j := 0; j <= degY; j++ {
			mons = append(mons, []int{i, j})
		}
	}
	rels := relationsFrom([]*Series{x, y}, mons, topshift)
	if len(rels) == 0 {
		return PolyRelation{}, false, nil
	}
	return rels[0], true, nil
}
