package qseries

import "math/big"

// ============================================================
// Partitions
// ============================================================

// PartitionCount returns p(n) by the pentagonal number recurrence
// p(n) = Σ_{k≥1} (-1)^{k+1} [p(n - k(3k-1)/2) + p(n - k(3k+1)/2)].
// p(0) = 1 and p(n) = 0 for n < 0.
func PartitionCount(n int64) *big.Int {
	if n < 0 {
		return new(big.Int)
	}
	p := make([]*big.Int, n+1)
	p[0] = big.NewInt(1)
	for m := int64(1); m <= n; m++ {
		acc := new(big.Int)
		for k := int64(1); ; k++ {
			g1 := k * (3*k - 1) / 2
			if g1 > m {
				break
			}
			g2 := k * (3*k + 1) / 2
			if k%2 == 1 {
				acc.Add(acc, p[m-g1])
				if g2 <= m {
					acc.Add(acc, p[m-g2])
				}
			} else {
				acc.Sub(acc, p[m-g1])
				if g2 <= m {
					acc.Sub(acc, p[m-g2])
				}
			}
		}
		p[m] = acc
	}
	return p[n]
}

// PartitionGF is Σ p(n) q^n = 1/(q;q)_∞.
func PartitionGF(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("PartitionGF", trunc); err != nil {
		return nil, err
	}
	return Invert(stepProduct(N(1), 1, 1, v, trunc))
}

// DistinctPartsGF counts partitions into distinct parts: (-q;q)_∞.
func DistinctPartsGF(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("DistinctPartsGF", trunc); err != nil {
		return nil, err
	}
	return stepProduct(N(-1), 1, 1, v, trunc), nil
}

// OddPartsGF counts partitions into odd parts: 1/(q;q²)_∞.
func OddPartsGF(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("OddPartsGF", trunc); err != nil {
		return nil, err
	}
	return Invert(stepProduct(N(1), 1, 2, v, trunc))
}

// BoundedPartsGF counts partitions with every part at most m: 1/(q;q)_m.
func BoundedPartsGF(m int64, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("BoundedPartsGF", trunc); err != nil {
		return nil, err
	}
	if m <= 0 {
		return One(v, trunc), nil
	}
	return Invert(finiteAqprod(QPower(1), m, v, trunc))
}

// ============================================================
// Rank and crank
// ============================================================

// geometric is 1/(1 - c·q^e) = Σ_j c^j q^{ej} for e > 0, known below trunc.
func geometric(c *Num, e int64, v SymbolID, trunc int64) *Series {
	out := make(map[int64]*big.Rat)
	pow := big.NewRat(1, 1)
	for k := int64(0); k < trunc; k += e {
		out[k] = new(big.Rat).Set(pow)
		pow.Mul(pow, c.val)
		if pow.Sign() == 0 {
			break
		}
	}
	return build(v, out, trunc)
}

// CrankGF is the crank generating function (q;q)_∞ / ((zq;q)_∞ (q/z;q)_∞).
// At z = 1 it is the partition generating function.
func CrankGF(z *Num, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("CrankGF", trunc); err != nil {
		return nil, err
	}
	if z.IsZero() {
		return nil, malformed("CrankGF", "z must be nonzero")
	}
	if z.IsOne() {
		return PartitionGF(v, trunc)
	}
	den := productOf(v, trunc, stepFactor{z, 1, 1}, stepFactor{numRecip(z), 1, 1})
	inv, err := Invert(den)
	if err != nil {
		return nil, err
	}
	return mul(stepProduct(N(1), 1, 1, v, trunc), inv), nil
}

// RankGF is the rank generating function
// 1 + Σ_{n≥1} q^{n²} / ((zq;q)_n (q/z;q)_n). At z = 1 it is the partition
// generating function.
func RankGF(z *Num, v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("RankGF", trunc); err != nil {
		return nil, err
	}
	if z.IsZero() {
		return nil, malformed("RankGF", "z must be nonzero")
	}
	if z.IsOne() {
		return PartitionGF(v, trunc)
	}
	zInv := numRecip(z)
	result := One(v, trunc)
	inv := One(v, trunc)
	for n := int64(1); n*n < trunc; n++ {
		inv = mul(inv, geometric(z, n, v, trunc))
		inv = mul(inv, geometric(zInv, n, v, trunc))
		result = add(result, Shift(inv, n*n))
	}
	return result, nil
}
