package qseries

import (
	log "github.com/sirupsen/logrus"
)

// ============================================================
// Infinite product generator
// ============================================================

// FactorFunc returns the index-th factor of an infinite product as a series
// in v known below trunc.
type FactorFunc func(index int64, v SymbolID, trunc int64) *Series

// ProductGenerator expands an infinite product lazily. Factors are applied
// in index order, each exactly once, and only while they can still affect a
// coefficient below the requested order. Successive factors must differ
// from 1 first at strictly increasing positive exponents.
type ProductGenerator struct {
	partial *Series
	next    int64
	applied int64
	known   int64
	zero    bool
	factor  FactorFunc
}

// NewProductGenerator starts from initial (usually One) and applies
// factor(start), factor(start+1), ... on demand. The product can be ensured
// up to initial's truncation order.
func NewProductGenerator(initial *Series, start int64, factor FactorFunc) *ProductGenerator {
	return &ProductGenerator{partial: initial, next: start, factor: factor}
}

// EnsureOrder multiplies in factors until the next one first differs from 1
// at an exponent ≥ order. Afterwards every coefficient below order is final.
func (g *ProductGenerator) EnsureOrder(order int64) {
	order = minOrder(order, g.partial.trunc)
	if g.zero || order <= g.known {
		return
	}
	v := g.partial.variable
	for {
		f := g.factor(g.next, v, g.partial.trunc)
		if f.IsZero() {
			log.Debugf("product generator: factor %d vanishes, product is zero", g.next)
			g.partial = Zero(v, g.partial.trunc)
			g.zero = true
			g.applied++
			g.next++
			break
		}
		d, ok := deviation(f)
		if !ok || d >= order {
			break
		}
		g.partial = mul(g.partial, f)
		g.next++
		g.applied++
	}
	if order > g.known {
		g.known = order
	}
	log.Debugf("product generator: %d factors applied, known below q^%d", g.applied, g.known)
}

// Applied reports how many factors have been multiplied in.
func (g *ProductGenerator) Applied() int64 { return g.applied }

// Series returns the product truncated to the order ensured so far.
func (g *ProductGenerator) Series() *Series {
	if g.zero {
		return g.partial
	}
	return Truncate(g.partial, g.known)
}

// deviation is the lowest exponent at which f differs from 1.
func deviation(f *Series) (int64, bool) {
	for _, k := range f.keys {
		if k != 0 {
			return k, true
		}
		if f.coeffs[k].Cmp(ratOne) != 0 {
			return 0, true
		}
	}
	if _, ok := f.coeffs[0]; !ok {
		return 0, true
	}
	return 0, false
}
