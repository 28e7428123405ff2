package qseries

import "math/big"

// ============================================================
// Exact linear algebra
// ============================================================

func ratMatrix(a [][]*Num, cols int) [][]*big.Rat {
	m := make([][]*big.Rat, len(a))
	for i, row := range a {
		m[i] = make([]*big.Rat, cols)
		for j := range m[i] {
			if j < len(row) && row[j] != nil {
				m[i][j] = row[j].Rat()
			} else {
				m[i][j] = new(big.Rat)
			}
		}
	}
	return m
}

// rref reduces m in place to reduced row echelon form over its first
// cols columns and returns the pivot column of each nonzero row.
func rref(m [][]*big.Rat, cols int) []int {
	var pivots []int
	row := 0
	tmp := new(big.Rat)
	for col := 0; col < cols && row < len(m); col++ {
		p := -1
		for r := row; r < len(m); r++ {
			if m[r][col].Sign() != 0 {
				p = r
				break
			}
		}
		if p < 0 {
			continue
		}
		m[row], m[p] = m[p], m[row]
		inv := new(big.Rat).Inv(m[row][col])
		for j := range m[row] {
			m[row][j].Mul(m[row][j], inv)
		}
		for r := range m {
			if r == row || m[r][col].Sign() == 0 {
				continue
			}
			f := new(big.Rat).Set(m[r][col])
			for j := range m[r] {
				m[r][j].Sub(m[r][j], tmp.Mul(f, m[row][j]))
			}
		}
		pivots = append(pivots, col)
		row++
	}
	return pivots
}

// SolveLinearSystem solves a·x = b exactly. Free variables are set to zero.
// An inconsistent system fails with ErrInconsistent.
func SolveLinearSystem(a [][]*Num, b []*Num) ([]*Num, error) {
	if len(a) != len(b) {
		return nil, malformed("SolveLinearSystem", "%d rows but %d right-hand sides", len(a), len(b))
	}
	cols := 0
	for _, row := range a {
		if len(row) > cols {
			cols = len(row)
		}
	}
	m := ratMatrix(a, cols+1)
	for i := range m {
		m[i][cols] = b[i].Rat()
	}
	pivots := rref(m, cols)
	for r := len(pivots); r < len(m); r++ {
		if m[r][cols].Sign() != 0 {
			return nil, degenerate("SolveLinearSystem", ErrInconsistent, "row %d reduces to 0 = %s", r, ratString(m[r][cols]))
		}
	}
	x := make([]*Num, cols)
	for i := range x {
		x[i] = N(0)
	}
	for r, c := range pivots {
		x[c] = NewNum(m[r][cols])
	}
	return x, nil
}

// NullSpace returns a basis of {x : a·x = 0}, one vector per free column.
// A full-rank matrix has an empty kernel.
func NullSpace(a [][]*Num) [][]*Num {
	cols := 0
	for _, row := range a {
		if len(row) > cols {
			cols = len(row)
		}
	}
	m := ratMatrix(a, cols)
	pivots := rref(m, cols)
	isPivot := make([]bool, cols)
	for _, c := range pivots {
		isPivot[c] = true
	}
	var basis [][]*Num
	for free := 0; free < cols; free++ {
		if isPivot[free] {
			continue
		}
		v := make([]*Num, cols)
		for i := range v {
			v[i] = N(0)
		}
		v[free] = N(1)
		for r, c := range pivots {
			v[c] = &Num{val: new(big.Rat).Neg(m[r][free])}
		}
		basis = append(basis, v)
	}
	return basis
}
