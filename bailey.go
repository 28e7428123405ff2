package qseries

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
)

// ============================================================
// Bailey pairs
// ============================================================

// A Bailey pair relative to a is a pair of sequences with
//
//	β_n = Σ_{j=0..n} α_j / ((q;q)_{n-j} (aq;q)_{n+j})
//
// Family selects how α_n and β_n are produced.
type Family interface {
	family() string
}

// UnitFamily is α_n = δ_{n0}, β_n = 1/((q;q)_n (aq;q)_n).
type UnitFamily struct{}

// RogersRamanujanFamily is
// α_n = (a;q)_n (1 - aq^{2n}) (-1)^n q^{n(3n-1)/2} aⁿ / ((q;q)_n (1 - a)),
// β_n = 1/(q;q)_n.
type RogersRamanujanFamily struct{}

// QBinomialFamily is α_n = (-1)^n zⁿ q^{n(n-1)/2}, with β_n from the
// defining relation.
type QBinomialFamily struct{ Z *Num }

// TabulatedFamily holds finitely many explicit terms, relative to A. It is
// what the Bailey lemma produces.
type TabulatedFamily struct {
	A      QMonomial
	Alphas []*Series
	Betas  []*Series
}

func (UnitFamily) family() string            { return "unit" }
func (RogersRamanujanFamily) family() string { return "rogers-ramanujan" }
func (QBinomialFamily) family() string       { return "q-binomial" }
func (TabulatedFamily) family() string       { return "tabulated" }

// BaileyPair is a named pair with search tags.
type BaileyPair struct {
	Name   string
	Tags   []string
	Family Family
}

func sameMonomial(a, b QMonomial) bool {
	return a.Power == b.Power && a.coeff().Equal(b.coeff())
}

// invPoch is 1/(x;q)_n known below trunc. A vanishing product fails with
// ErrZeroFactor.
func invPoch(op string, x QMonomial, n int64, v SymbolID, trunc int64) (*Series, error) {
	if hasUnitFactor(x, n) {
		return nil, degenerate(op, ErrZeroFactor, "(%s;q)_%d vanishes", x, n)
	}
	p := finiteAqprod(x, n, v, trunc)
	if p.IsZero() {
		return nil, degenerate(op, ErrZeroFactor, "(%s;q)_%d vanishes", x, n)
	}
	return invertLaurent(p)
}

// relationWeight is 1/((q;q)_{n-j} (aq;q)_{n+j}).
func relationWeight(a QMonomial, n, j int64, v SymbolID, trunc int64) (*Series, error) {
	qq, err := invPoch("BaileyPair", QPower(1), n-j, v, trunc)
	if err != nil {
		return nil, err
	}
	aq, err := invPoch("BaileyPair", a.Mul(QPower(1)), n+j, v, trunc)
	if err != nil {
		return nil, err
	}
	return mul(qq, aq), nil
}

// relationBeta evaluates the right-hand side of the pair relation at n.
func relationBeta(alpha func(j int64) (*Series, error), a QMonomial, n int64, v SymbolID, trunc int64) (*Series, error) {
	sum := Zero(v, trunc)
	for j := int64(0); j <= n; j++ {
		aj, err := alpha(j)
		if err != nil {
			return nil, err
		}
		if aj.IsZero() {
			continue
		}
		w, err := relationWeight(a, n, j, v, trunc)
		if err != nil {
			return nil, err
		}
		sum = add(sum, mul(aj, w))
	}
	return Truncate(sum, trunc), nil
}

func checkPairArgs(op string, n int64, a QMonomial, trunc int64) error {
	if n < 0 {
		return malformed(op, "index n = %d must be non-negative", n)
	}
	if a.IsZero() {
		return malformed(op, "a must be nonzero")
	}
	return checkOrder(op, trunc)
}

func tableEntry(op string, t TabulatedFamily, which []*Series, n int64, a QMonomial, trunc int64) (*Series, error) {
	if !sameMonomial(t.A, a) {
		return nil, malformed(op, "pair is tabulated relative to a = %s, not %s", t.A, a)
	}
	if n >= int64(len(which)) {
		return nil, malformed(op, "pair is tabulated only for n < %d", len(which))
	}
	return Truncate(which[n], trunc), nil
}

// Alpha returns α_n relative to a.
func (p BaileyPair) Alpha(n int64, a QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if err := checkPairArgs("BaileyPair.Alpha", n, a, trunc); err != nil {
		return nil, err
	}
	switch f := p.Family.(type) {
	case UnitFamily:
		if n == 0 {
			return One(v, trunc), nil
		}
		return Zero(v, trunc), nil
	case RogersRamanujanFamily:
		return rogersRamanujanAlpha(n, a, v, trunc)
	case QBinomialFamily:
		return qBinomialAlpha(n, f.Z, v, trunc), nil
	case TabulatedFamily:
		return tableEntry("BaileyPair.Alpha", f, f.Alphas, n, a, trunc)
	}
	return nil, malformed("BaileyPair.Alpha", "unknown pair family %T", p.Family)
}

// Beta returns β_n relative to a.
func (p BaileyPair) Beta(n int64, a QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if err := checkPairArgs("BaileyPair.Beta", n, a, trunc); err != nil {
		return nil, err
	}
	switch f := p.Family.(type) {
	case UnitFamily:
		return relationWeight(a, n, 0, v, trunc)
	case RogersRamanujanFamily:
		return invPoch("BaileyPair.Beta", QPower(1), n, v, trunc)
	case QBinomialFamily:
		return relationBeta(func(j int64) (*Series, error) {
			return qBinomialAlpha(j, f.Z, v, trunc), nil
		}, a, n, v, trunc)
	case TabulatedFamily:
		return tableEntry("BaileyPair.Beta", f, f.Betas, n, a, trunc)
	}
	return nil, malformed("BaileyPair.Beta", "unknown pair family %T", p.Family)
}

// rogersRamanujanAlpha uses (a;q)_n/(1-a) = (aq;q)_{n-1}, which also covers
// a = 1, where α_n = (-1)^n q^{n(3n-1)/2} (1 + q^n).
func rogersRamanujanAlpha(n int64, a QMonomial, v SymbolID, trunc int64) (*Series, error) {
	if n == 0 {
		return One(v, trunc), nil
	}
	lead := Monomial(v, signPow(n), n*(3*n-1)/2, Exact)
	if a.IsUnit() {
		return Truncate(mul(lead, onePlus(v, n)), trunc), nil
	}
	an, _ := a.Pow(n)
	head := finiteAqprod(a.Mul(QPower(1)), n-1, v, trunc)
	num := mul(mul(head, oneMinus(v, a.coeff(), a.Power+2*n)), mul(lead, an.Series(v)))
	den, err := invPoch("BaileyPair.Alpha", QPower(1), n, v, trunc)
	if err != nil {
		return nil, err
	}
	return Truncate(mul(num, den), trunc), nil
}

func qBinomialAlpha(n int64, z *Num, v SymbolID, trunc int64) *Series {
	return Monomial(v, numMul(signPow(n), numPow(z, n)), n*(n-1)/2, trunc)
}

// VerifyBaileyPair checks the pair relation for n = 0..maxN below trunc.
func VerifyBaileyPair(p BaileyPair, a QMonomial, maxN int64, v SymbolID, trunc int64) (bool, error) {
	for n := int64(0); n <= maxN; n++ {
		beta, err := p.Beta(n, a, v, trunc)
		if err != nil {
			return false, err
		}
		rel, err := relationBeta(func(j int64) (*Series, error) {
			return p.Alpha(j, a, v, trunc)
		}, a, n, v, trunc)
		if err != nil {
			return false, err
		}
		if !beta.AgreesWith(rel) {
			log.Debugf("bailey: %s fails the pair relation at n = %d", p.Name, n)
			return false, nil
		}
	}
	return true, nil
}

// ============================================================
// Bailey lemma and chain
// ============================================================

// BaileyLemma maps (α, β) relative to a to the tabulated pair
//
//	α'_n = (b)_n (c)_n (aq/bc)ⁿ / ((aq/b)_n (aq/c)_n) · α_n
//	β'_n = Σ_k (b)_k (c)_k (aq/bc)_{n-k} (aq/bc)^k / (q;q)_{n-k} · β_k / ((aq/b)_n (aq/c)_n)
//
// for n = 0..maxN.
func BaileyLemma(p BaileyPair, a, b, c QMonomial, maxN int64, v SymbolID, trunc int64) (BaileyPair, error) {
	if b.IsZero() || c.IsZero() {
		return BaileyPair{}, malformed("BaileyLemma", "b and c must be nonzero")
	}
	if err := checkPairArgs("BaileyLemma", maxN, a, trunc); err != nil {
		return BaileyPair{}, err
	}
	aq := a.Mul(QPower(1))
	aqb, _ := aq.Div(b)
	aqc, _ := aq.Div(c)
	aqbc, _ := aqb.Div(c)

	alphas := make([]*Series, 0, maxN+1)
	betas := make([]*Series, 0, maxN+1)
	for n := int64(0); n <= maxN; n++ {
		ib, err := invPoch("BaileyLemma", aqb, n, v, trunc)
		if err != nil {
			return BaileyPair{}, err
		}
		ic, err := invPoch("BaileyLemma", aqc, n, v, trunc)
		if err != nil {
			return BaileyPair{}, err
		}
		outer := mul(ib, ic)

		alpha, err := p.Alpha(n, a, v, trunc)
		if err != nil {
			return BaileyPair{}, err
		}
		pw, _ := aqbc.Pow(n)
		num := mul(mul(finiteAqprod(b, n, v, trunc), finiteAqprod(c, n, v, trunc)), pw.Series(v))
		alphas = append(alphas, Truncate(mul(mul(num, outer), alpha), trunc))

		inner := Zero(v, trunc)
		for k := int64(0); k <= n; k++ {
			beta, err := p.Beta(k, a, v, trunc)
			if err != nil {
				return BaileyPair{}, err
			}
			qq, err := invPoch("BaileyLemma", QPower(1), n-k, v, trunc)
			if err != nil {
				return BaileyPair{}, err
			}
			pk, _ := aqbc.Pow(k)
			t := mul(finiteAqprod(b, k, v, trunc), finiteAqprod(c, k, v, trunc))
			t = mul(t, mul(finiteAqprod(aqbc, n-k, v, trunc), pk.Series(v)))
			inner = add(inner, mul(mul(t, qq), beta))
		}
		betas = append(betas, Truncate(mul(outer, inner), trunc))
	}
	return BaileyPair{
		Name:   fmt.Sprintf("lemma(%s, b=%s, c=%s)", p.Name, b, c),
		Tags:   []string{"derived"},
		Family: TabulatedFamily{A: a, Alphas: alphas, Betas: betas},
	}, nil
}

// ChainParameters picks b and c for repeated lemma application relative to
// a: nonzero, with (aq/b;q)_n and (aq/c;q)_n nonvanishing for every n.
func ChainParameters(a QMonomial) (QMonomial, QMonomial, error) {
	if a.IsZero() {
		return QMonomial{}, QMonomial{}, malformed("ChainParameters", "a must be nonzero")
	}
	aq := a.Mul(QPower(1))
	safe := func(x QMonomial) bool {
		y, _ := aq.Div(x)
		return !(y.coeff().IsOne() && y.Power <= 0)
	}
	for _, pair := range [][2]int64{{2, 3}, {3, 5}, {5, 7}} {
		b, c := QConst(N(pair[0])), QConst(N(pair[1]))
		if safe(b) && safe(c) {
			return b, c, nil
		}
	}
	return QMonomial{}, QMonomial{}, malformed("ChainParameters", "no admissible b, c for a = %s", a)
}

// BaileyChain applies the lemma depth times with ChainParameters(a) and
// returns every pair along the way, starting with p.
func BaileyChain(p BaileyPair, a QMonomial, depth int, maxN int64, v SymbolID, trunc int64) ([]BaileyPair, error) {
	b, c, err := ChainParameters(a)
	if err != nil {
		return nil, err
	}
	chain := []BaileyPair{p}
	for i := 0; i < depth; i++ {
		next, err := BaileyLemma(chain[len(chain)-1], a, b, c, maxN, v, trunc)
		if err != nil {
			return nil, err
		}
		chain = append(chain, next)
	}
	return chain, nil
}

// ============================================================
// Weak Bailey lemma
// ============================================================

// WeakBaileyLemma returns both sides of
//
//	Σ_n q^{n²} aⁿ β_n = (aq;q)_∞^{-1} Σ_n q^{n²} aⁿ α_n
//
// summed over every n whose weight q^{n²}aⁿ lies below trunc. a must have a
// non-negative power of q. A tabulated pair that ends early lowers the
// truncation order to the first missing weight.
func WeakBaileyLemma(p BaileyPair, a QMonomial, v SymbolID, trunc int64) (*Series, *Series, error) {
	if a.IsZero() || a.Power < 0 {
		return nil, nil, malformed("WeakBaileyLemma", "a = %s must be a nonzero multiple of a non-negative power of q", a)
	}
	if err := checkOrder("WeakBaileyLemma", trunc); err != nil {
		return nil, nil, err
	}
	limit := int64(-1)
	if t, ok := p.Family.(TabulatedFamily); ok {
		limit = int64(len(t.Alphas))
		if int64(len(t.Betas)) < limit {
			limit = int64(len(t.Betas))
		}
	}
	known := trunc
	lhs, alphaSum := Zero(v, trunc), Zero(v, trunc)
	for n := int64(0); n*n+a.Power*n < trunc; n++ {
		if limit >= 0 && n >= limit {
			known = n*n + a.Power*n
			break
		}
		an, _ := a.Pow(n)
		w := Shift(an.Series(v), n*n)
		beta, err := p.Beta(n, a, v, trunc)
		if err != nil {
			return nil, nil, err
		}
		alpha, err := p.Alpha(n, a, v, trunc)
		if err != nil {
			return nil, nil, err
		}
		lhs = add(lhs, mul(w, beta))
		alphaSum = add(alphaSum, mul(w, alpha))
	}
	inv, err := Invert(stepProduct(a.coeff(), a.Power+1, 1, v, trunc))
	if err != nil {
		return nil, nil, err
	}
	rhs := mul(inv, alphaSum)
	return Truncate(lhs, known), Truncate(rhs, known), nil
}

// ============================================================
// Bailey pair database
// ============================================================

// BaileyDatabase is an ordered collection of named pairs.
type BaileyDatabase struct {
	pairs []BaileyPair
}

// NewBaileyDatabase returns a database holding the canonical pairs.
func NewBaileyDatabase() *BaileyDatabase {
	return &BaileyDatabase{pairs: []BaileyPair{
		{Name: "unit", Tags: []string{"canonical", "unit"}, Family: UnitFamily{}},
		{Name: "rogers-ramanujan", Tags: []string{"canonical", "rogers-ramanujan"}, Family: RogersRamanujanFamily{}},
		{Name: "q-binomial(z=1)", Tags: []string{"canonical", "q-binomial"}, Family: QBinomialFamily{Z: N(1)}},
	}}
}

func (db *BaileyDatabase) Add(p BaileyPair) { db.pairs = append(db.pairs, p) }

// Lookup finds a pair by exact name.
func (db *BaileyDatabase) Lookup(name string) (BaileyPair, bool) {
	for _, p := range db.pairs {
		if p.Name == name {
			return p, true
		}
	}
	return BaileyPair{}, false
}

// SearchTag returns pairs carrying tag, compared case-insensitively.
func (db *BaileyDatabase) SearchTag(tag string) []BaileyPair {
	var out []BaileyPair
	for _, p := range db.pairs {
		for _, t := range p.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// SearchName returns pairs whose name contains substr, ignoring case.
func (db *BaileyDatabase) SearchName(substr string) []BaileyPair {
	needle := strings.ToLower(substr)
	var out []BaileyPair
	for _, p := range db.pairs {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func (db *BaileyDatabase) Pairs() []BaileyPair {
	return append([]BaileyPair(nil), db.pairs...)
}

func (db *BaileyDatabase) Len() int { return len(db.pairs) }

// ============================================================
// Identity discovery
// ============================================================

// Outcome classifies a discovery attempt.
type Outcome int

const (
	// NotFound means no match within the search bounds. It is not a
	// disproof of the identity.
	NotFound Outcome = iota
	Literal
	WeakLemma
	Chain
)

func (o Outcome) String() string {
	switch o {
	case Literal:
		return "literal"
	case WeakLemma:
		return "weak-lemma"
	case Chain:
		return "chain"
	}
	return "not-found"
}

// DiscoveryOptions bounds the search.
type DiscoveryOptions struct {
	// MaxDepth is the longest Bailey chain tried. Zero disables the chain
	// stage.
	MaxDepth int
	// MaxN is the number of tabulated terms built per chain step. Zero means
	// enough terms for every weight below the truncation order. A chain whose
	// table stops short of that is never reported as a match.
	MaxN int64
	// RequireProof keeps searching after a literal match so that a true
	// identity is reported with the pair that explains it. Literal is
	// returned only when no pair does.
	RequireProof bool
}

// Discovery reports how an identity lhs = rhs was explained.
type Discovery struct {
	Outcome Outcome
	Pair    string
	Depth   int
	Swapped bool
}

func (d Discovery) String() string {
	switch d.Outcome {
	case NotFound:
		return "no match within bounds"
	case Literal:
		return "literal match"
	}
	s := fmt.Sprintf("%s via %s", d.Outcome, d.Pair)
	if d.Outcome == Chain {
		s += fmt.Sprintf(" at depth %d", d.Depth)
	}
	return s
}

// matchSides reports whether the weak lemma sides (l, r) explain lhs = rhs,
// directly or with the sides swapped. Sides known below fewer terms than
// trunc explain nothing.
func matchSides(l, r, lhs, rhs *Series, trunc int64) (bool, bool) {
	if l.trunc < trunc || r.trunc < trunc {
		log.Debugf("bailey discovery: weak lemma sides known only below q^%d", minOrder(l.trunc, r.trunc))
		return false, false
	}
	if l.AgreesWith(lhs) && r.AgreesWith(rhs) {
		return true, false
	}
	if l.AgreesWith(rhs) && r.AgreesWith(lhs) {
		return true, true
	}
	return false, false
}

// DiscoverBaileyIdentity tries to explain lhs = rhs: first literally, then
// as the weak Bailey lemma of a database pair relative to a, then through
// Bailey chains of every pair up to opts.MaxDepth.
func DiscoverBaileyIdentity(lhs, rhs *Series, db *BaileyDatabase, a QMonomial, opts DiscoveryOptions) (Discovery, error) {
	if err := sameVariable("DiscoverBaileyIdentity", lhs, rhs); err != nil {
		return Discovery{}, err
	}
	fallback := Discovery{Outcome: NotFound}
	if lhs.AgreesWith(rhs) {
		log.Debugf("bailey discovery: literal match")
		if !opts.RequireProof {
			return Discovery{Outcome: Literal}, nil
		}
		fallback = Discovery{Outcome: Literal}
	}
	v := lhs.variable
	trunc := minOrder(lhs.trunc, rhs.trunc)
	if err := checkOrder("DiscoverBaileyIdentity", trunc); err != nil {
		return Discovery{}, err
	}
	for _, p := range db.pairs {
		l, r, err := WeakBaileyLemma(p, a, v, trunc)
		if err != nil {
			log.Debugf("bailey discovery: skipping %s: %v", p.Name, err)
			continue
		}
		if ok, swapped := matchSides(l, r, lhs, rhs, trunc); ok {
			log.Debugf("bailey discovery: weak lemma of %s matches", p.Name)
			return Discovery{Outcome: WeakLemma, Pair: p.Name, Swapped: swapped}, nil
		}
	}
	if opts.MaxDepth <= 0 {
		return fallback, nil
	}
	maxN := opts.MaxN
	if maxN <= 0 {
		for maxN*maxN+a.Power*maxN < trunc {
			maxN++
		}
	}
	b, c, err := ChainParameters(a)
	if err != nil {
		return Discovery{}, err
	}
	for _, p := range db.pairs {
		cur := p
		for depth := 1; depth <= opts.MaxDepth; depth++ {
			cur, err = BaileyLemma(cur, a, b, c, maxN, v, trunc)
			if err != nil {
				log.Debugf("bailey discovery: chain of %s stops at depth %d: %v", p.Name, depth, err)
				break
			}
			l, r, err := WeakBaileyLemma(cur, a, v, trunc)
			if err != nil {
				break
			}
			if ok, swapped := matchSides(l, r, lhs, rhs, trunc); ok {
				log.Debugf("bailey discovery: chain of %s matches at depth %d", p.Name, depth)
				return Discovery{Outcome: Chain, Pair: p.Name, Depth: depth, Swapped: swapped}, nil
			}
		}
	}
	log.Debugf("bailey discovery: no match within depth %d", opts.MaxDepth)
	return fallback, nil
}
