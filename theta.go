package qseries

// ============================================================
// Jacobi theta functions
// ============================================================

// Theta3 is Σ_{n∈ℤ} q^{n²} = (q²;q²)_∞ (-q;q²)_∞².
func Theta3(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("Theta3", trunc); err != nil {
		return nil, err
	}
	return productOf(v, trunc,
		stepFactor{N(1), 2, 2},
		stepFactor{N(-1), 1, 2},
		stepFactor{N(-1), 1, 2},
	), nil
}

// Theta4 is Σ_{n∈ℤ} (-1)^n q^{n²} = (q²;q²)_∞ (q;q²)_∞².
func Theta4(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("Theta4", trunc); err != nil {
		return nil, err
	}
	return productOf(v, trunc,
		stepFactor{N(1), 2, 2},
		stepFactor{N(1), 1, 2},
		stepFactor{N(1), 1, 2},
	), nil
}

// Theta2 is Σ_{n∈ℤ} q^{(n+1/2)²}. The result is a series in X = q^{1/4}:
// every exponent (and trunc) is four times the exponent of q, so the
// nonzero coefficients are 2 at the odd squares.
func Theta2(v SymbolID, trunc int64) (*Series, error) {
	if err := checkOrder("Theta2", trunc); err != nil {
		return nil, err
	}
	prod := productOf(v, trunc-1,
		stepFactor{N(1), 8, 8},
		stepFactor{N(-1), 8, 8},
		stepFactor{N(-1), 8, 8},
	)
	return Shift(ScalarMul(N(2), prod), 1), nil
}
