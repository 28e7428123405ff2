package qseries

import "sort"

// ============================================================
// Mock theta functions
// ============================================================

// termSum accumulates Σ_{n≥start} q^{exp(n)}·w_n where w_start = 1 and
// w_n = next(w_{n-1}, n) multiplies in only the factors that change between
// consecutive indices. exp must be increasing; the sum stops once exp(n)
// reaches trunc.
func termSum(v SymbolID, trunc, start int64, exp func(n int64) int64, next func(w *Series, n int64) *Series) *Series {
	result := Zero(v, trunc)
	w := One(v, trunc)
	for n := start; exp(n) < trunc; n++ {
		if n > start {
			w = next(w, n)
		}
		result = add(result, Shift(w, exp(n)))
	}
	return result
}

// over divides w by an exact factor with constant term 1.
func over(w, f *Series) *Series {
	if w.trunc <= 0 {
		return w
	}
	return mul(w, invertUnit(Truncate(f, w.trunc)))
}

func onePlus(v SymbolID, e int64) *Series { return oneMinus(v, N(-1), e) }

// cyclotomic is 1 + s·q^e + q^{2e}.
func cyclotomic(v SymbolID, s, e int64) *Series {
	return Polynomial(v, map[int64]*Num{0: N(1), e: N(s), 2 * e: N(1)})
}

func square(n int64) int64 { return n * n }

// MockThetaF3 is f(q) = Σ q^{n²} / (-q;q)_n².
func MockThetaF3(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		f := onePlus(v, n)
		return over(w, mul(f, f))
	})
}

// MockThetaPhi3 is φ(q) = Σ q^{n²} / (-q²;q²)_n.
func MockThetaPhi3(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		return over(w, onePlus(v, 2*n))
	})
}

// MockThetaPsi3 is ψ(q) = Σ_{n≥1} q^{n²} / (q;q²)_n.
func MockThetaPsi3(v SymbolID, trunc int64) *Series {
	w := over(One(v, trunc), oneMinus(v, N(1), 1))
	result := Zero(v, trunc)
	for n := int64(1); n*n < trunc; n++ {
		if n > 1 {
			w = over(w, oneMinus(v, N(1), 2*n-1))
		}
		result = add(result, Shift(w, n*n))
	}
	return result
}

// MockThetaChi3 is χ(q) = Σ q^{n²} / ∏_{k=1..n} (1 - q^k + q^{2k}).
func MockThetaChi3(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		return over(w, cyclotomic(v, -1, n))
	})
}

// MockThetaOmega3 is ω(q) = Σ q^{2n(n+1)} / (q;q²)_{n+1}².
func MockThetaOmega3(v SymbolID, trunc int64) *Series {
	first := oneMinus(v, N(1), 1)
	w := over(One(v, trunc), mul(first, first))
	result := Zero(v, trunc)
	for n := int64(0); 2*n*(n+1) < trunc; n++ {
		if n > 0 {
			f := oneMinus(v, N(1), 2*n+1)
			w = over(w, mul(f, f))
		}
		result = add(result, Shift(w, 2*n*(n+1)))
	}
	return result
}

// MockThetaNu3 is ν(q) = Σ q^{n(n+1)} / (-q;q²)_{n+1}.
func MockThetaNu3(v SymbolID, trunc int64) *Series {
	w := over(One(v, trunc), onePlus(v, 1))
	result := Zero(v, trunc)
	for n := int64(0); n*(n+1) < trunc; n++ {
		if n > 0 {
			w = over(w, onePlus(v, 2*n+1))
		}
		result = add(result, Shift(w, n*(n+1)))
	}
	return result
}

// MockThetaRho3 is ρ(q) = Σ q^{2n(n+1)} / ∏_{k=0..n} (1 + q^{2k+1} + q^{4k+2}).
func MockThetaRho3(v SymbolID, trunc int64) *Series {
	w := over(One(v, trunc), cyclotomic(v, 1, 1))
	result := Zero(v, trunc)
	for n := int64(0); 2*n*(n+1) < trunc; n++ {
		if n > 0 {
			w = over(w, cyclotomic(v, 1, 2*n+1))
		}
		result = add(result, Shift(w, 2*n*(n+1)))
	}
	return result
}

// MockThetaF0_5 is f0(q) = Σ q^{n²} / (-q;q)_n.
func MockThetaF0_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		return over(w, onePlus(v, n))
	})
}

// MockThetaF1_5 is f1(q) = Σ q^{n²+n} / (-q;q)_n.
func MockThetaF1_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, func(n int64) int64 { return n*n + n }, func(w *Series, n int64) *Series {
		return over(w, onePlus(v, n))
	})
}

// MockThetaCapF0_5 is F0(q) = Σ q^{2n²} / (q;q²)_n.
func MockThetaCapF0_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, func(n int64) int64 { return 2 * n * n }, func(w *Series, n int64) *Series {
		return over(w, oneMinus(v, N(1), 2*n-1))
	})
}

// MockThetaCapF1_5 is F1(q) = Σ q^{2n²+2n} / (q;q²)_{n+1}.
func MockThetaCapF1_5(v SymbolID, trunc int64) *Series {
	w := over(One(v, trunc), oneMinus(v, N(1), 1))
	result := Zero(v, trunc)
	for n := int64(0); 2*n*n+2*n < trunc; n++ {
		if n > 0 {
			w = over(w, oneMinus(v, N(1), 2*n+1))
		}
		result = add(result, Shift(w, 2*n*n+2*n))
	}
	return result
}

// MockThetaPhi0_5 is φ0(q) = Σ (-q;q²)_n q^{n²}.
func MockThetaPhi0_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		return mul(w, onePlus(v, 2*n-1))
	})
}

// MockThetaPhi1_5 is φ1(q) = Σ (-q;q²)_n q^{(n+1)²}.
func MockThetaPhi1_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, func(n int64) int64 { return (n + 1) * (n + 1) }, func(w *Series, n int64) *Series {
		return mul(w, onePlus(v, 2*n-1))
	})
}

// MockThetaPsi0_5 is ψ0(q) = Σ (-1;q)_n q^{n(n+1)/2}.
func MockThetaPsi0_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, func(n int64) int64 { return n * (n + 1) / 2 }, func(w *Series, n int64) *Series {
		return mul(w, onePlus(v, n-1))
	})
}

// MockThetaPsi1_5 is ψ1(q) = Σ (-q;q)_n q^{n(n+1)/2}.
func MockThetaPsi1_5(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, func(n int64) int64 { return n * (n + 1) / 2 }, func(w *Series, n int64) *Series {
		return mul(w, onePlus(v, n))
	})
}

// MockThetaChi0_5 is χ0(q) = 2F0(q) - φ0(-q).
func MockThetaChi0_5(v SymbolID, trunc int64) *Series {
	return sub(ScalarMul(N(2), MockThetaCapF0_5(v, trunc)), SubstituteNegQ(MockThetaPhi0_5(v, trunc)))
}

// MockThetaChi1_5 is χ1(q) = 2F1(q) + q^{-1}φ1(-q).
func MockThetaChi1_5(v SymbolID, trunc int64) *Series {
	phi1 := Shift(SubstituteNegQ(MockThetaPhi1_5(v, trunc+1)), -1)
	return add(ScalarMul(N(2), MockThetaCapF1_5(v, trunc)), phi1)
}

// MockThetaCapF0_7 is F0(q) = Σ q^{n²} / (q^{n+1};q)_n. Moving from n-1 to n
// the denominator gains (1-q^{2n-1})(1-q^{2n}) and loses (1-q^n).
func MockThetaCapF0_7(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		w = mul(w, oneMinus(v, N(1), n))
		return over(w, mul(oneMinus(v, N(1), 2*n-1), oneMinus(v, N(1), 2*n)))
	})
}

// MockThetaCapF1_7 is F1(q) = Σ q^{n²} / (q^n;q)_n. Moving from n-1 to n
// the denominator gains (1-q^{2n-2})(1-q^{2n-1}) and loses (1-q^{n-1}).
func MockThetaCapF1_7(v SymbolID, trunc int64) *Series {
	return termSum(v, trunc, 0, square, func(w *Series, n int64) *Series {
		if n == 1 {
			return over(w, oneMinus(v, N(1), 1))
		}
		w = mul(w, oneMinus(v, N(1), n-1))
		return over(w, mul(oneMinus(v, N(1), 2*n-2), oneMinus(v, N(1), 2*n-1)))
	})
}

// MockThetaCapF2_7 is F2(q) = Σ q^{n²+n} / (q^{n+1};q)_{n+1}. Moving from
// n-1 to n the denominator gains (1-q^{2n})(1-q^{2n+1}) and loses (1-q^n).
func MockThetaCapF2_7(v SymbolID, trunc int64) *Series {
	w := over(One(v, trunc), oneMinus(v, N(1), 1))
	result := Zero(v, trunc)
	for n := int64(0); n*n+n < trunc; n++ {
		if n > 0 {
			w = mul(w, oneMinus(v, N(1), n))
			w = over(w, mul(oneMinus(v, N(1), 2*n), oneMinus(v, N(1), 2*n+1)))
		}
		result = add(result, Shift(w, n*n+n))
	}
	return result
}

var mockThetaTable = map[string]func(SymbolID, int64) *Series{
	"f3":     MockThetaF3,
	"phi3":   MockThetaPhi3,
	"psi3":   MockThetaPsi3,
	"chi3":   MockThetaChi3,
	"omega3": MockThetaOmega3,
	"nu3":    MockThetaNu3,
	"rho3":   MockThetaRho3,
	"f0_5":   MockThetaF0_5,
	"f1_5":   MockThetaF1_5,
	"F0_5":   MockThetaCapF0_5,
	"F1_5":   MockThetaCapF1_5,
	"phi0_5": MockThetaPhi0_5,
	"phi1_5": MockThetaPhi1_5,
	"psi0_5": MockThetaPsi0_5,
	"psi1_5": MockThetaPsi1_5,
	"chi0_5": MockThetaChi0_5,
	"chi1_5": MockThetaChi1_5,
	"F0_7":   MockThetaCapF0_7,
	"F1_7":   MockThetaCapF1_7,
	"F2_7":   MockThetaCapF2_7,
}

// MockThetaNames lists the names accepted by MockTheta.
func MockThetaNames() []string {
	names := make([]string, 0, len(mockThetaTable))
	for name := range mockThetaTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MockTheta evaluates a mock theta function by name, e.g. "f3" or "F1_7".
func MockTheta(name string, v SymbolID, trunc int64) (*Series, error) {
	fn, ok := mockThetaTable[name]
	if !ok {
		return nil, malformed("MockTheta", "unknown function %q", name)
	}
	if err := checkOrder("MockTheta", trunc); err != nil {
		return nil, err
	}
	return fn(v, trunc), nil
}
