package qseries

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// ============================================================
// Tool interface
// ============================================================

// DefaultTruncation is used when a tool request carries no "trunc".
const DefaultTruncation int64 = 30

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

// WithTruncation returns a copy of r whose "trunc" is t unless r already
// names one.
func (r ToolRequest) WithTruncation(t int64) ToolRequest {
	params := make(map[string]interface{}, len(r.Params)+1)
	for k, v := range r.Params {
		params[k] = v
	}
	if _, ok := params["trunc"]; !ok {
		params["trunc"] = float64(t)
	}
	return ToolRequest{Tool: r.Tool, Params: params}
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SeriesJSON renders s as {"variable", "truncation", "exact", "terms"}.
// Truncation is omitted for exact series.
func SeriesJSON(reg *SymbolRegistry, s *Series) map[string]interface{} {
	name, ok := reg.Name(s.variable)
	if !ok {
		name = fmt.Sprintf("#%d", s.variable)
	}
	terms := make(map[string]string, len(s.keys))
	for _, k := range s.keys {
		terms[strconv.FormatInt(k, 10)] = ratString(s.coeffs[k])
	}
	out := map[string]interface{}{
		"variable": name,
		"exact":    s.IsExact(),
		"terms":    terms,
	}
	if !s.IsExact() {
		out["truncation"] = s.trunc
	}
	return out
}

// SeriesFromJSON is the inverse of SeriesJSON. The variable defaults to "q".
func SeriesFromJSON(reg *SymbolRegistry, m map[string]interface{}) (*Series, error) {
	name := "q"
	if v, ok := m["variable"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("series.variable must be a string")
		}
		name = s
	}
	trunc := Exact
	if e, _ := m["exact"].(bool); !e {
		t, ok := m["truncation"].(float64)
		if !ok {
			return nil, fmt.Errorf("series.truncation must be a number unless exact is true")
		}
		trunc = int64(t)
	}
	raw, ok := m["terms"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("series.terms must be an object")
	}
	coeffs := make(map[int64]*big.Rat, len(raw))
	for k, c := range raw {
		e, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("series.terms key %q is not an integer exponent", k)
		}
		n, err := numValue(c)
		if err != nil {
			return nil, fmt.Errorf("series.terms[%s]: %w", k, err)
		}
		coeffs[e] = n.val
	}
	return build(reg.Intern(name), coeffs, trunc), nil
}

func numValue(v interface{}) (*Num, error) {
	switch x := v.(type) {
	case string:
		return ParseNum(x)
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(x) == nil {
			return nil, fmt.Errorf("%v is not a finite number", x)
		}
		return &Num{val: r}, nil
	}
	return nil, fmt.Errorf("expected a number or a rational string, got %T", v)
}

func monoValue(v interface{}) (QMonomial, error) {
	switch x := v.(type) {
	case map[string]interface{}:
		mono := QPower(0)
		if c, ok := x["coeff"]; ok {
			n, err := numValue(c)
			if err != nil {
				return QMonomial{}, fmt.Errorf("coeff: %w", err)
			}
			mono.Coeff = n
		}
		if p, ok := x["power"]; ok {
			f, ok := p.(float64)
			if !ok || f != float64(int64(f)) {
				return QMonomial{}, fmt.Errorf("power must be an integer")
			}
			mono.Power = int64(f)
		}
		return mono, nil
	case string, float64:
		n, err := numValue(x)
		if err != nil {
			return QMonomial{}, err
		}
		return QConst(n), nil
	}
	return QMonomial{}, fmt.Errorf("expected a monomial {coeff, power}, got %T", v)
}

func formatExponents(form ProductForm) string {
	ns := make([]int64, 0, len(form.Exponents))
	for n := range form.Exponents {
		ns = append(ns, n)
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprintf("a_%d=%s", n, form.Exponents[n])
	}
	return strings.Join(parts, " ")
}

func intFactors(fs map[int64]int64) map[string]int64 {
	out := make(map[string]int64, len(fs))
	for d, r := range fs {
		out[strconv.FormatInt(d, 10)] = r
	}
	return out
}

// formatFactors renders scalar · q^shift · ∏ factor(d)^r in ascending d,
// e.g. "q^(-1/24) * eta(1tau)^1".
func formatFactors(factor string, scalar *Num, shift string, fs map[int64]int64) string {
	ds := make([]int64, 0, len(fs))
	for d := range fs {
		ds = append(ds, d)
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	var parts []string
	if !scalar.IsOne() {
		parts = append(parts, scalar.String())
	}
	if shift != "0" {
		parts = append(parts, "q^("+shift+")")
	}
	for _, d := range ds {
		parts = append(parts, fmt.Sprintf(factor+"^%d", d, fs[d]))
	}
	if len(parts) == 0 {
		return "1"
	}
	return strings.Join(parts, " * ")
}

func HandleToolCall(reg *SymbolRegistry, req ToolRequest) ToolResponse {
	getInt := func(key string) (int64, error) {
		v, ok := req.Params[key]
		if !ok {
			return 0, fmt.Errorf("missing param: %s", key)
		}
		f, ok := v.(float64)
		if !ok || f != float64(int64(f)) {
			return 0, fmt.Errorf("param %s must be an integer", key)
		}
		return int64(f), nil
	}
	optInt := func(key string, def int64) (int64, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getInt(key)
	}
	getString := func(key string) (string, error) {
		v, ok := req.Params[key]
		if !ok {
			return "", fmt.Errorf("missing param: %s", key)
		}
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("param %s must be a string", key)
		}
		return s, nil
	}
	getNum := func(key string) (*Num, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		n, err := numValue(v)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", key, err)
		}
		return n, nil
	}
	optNum := func(key string, def *Num) (*Num, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getNum(key)
	}
	getMono := func(key string) (QMonomial, error) {
		v, ok := req.Params[key]
		if !ok {
			return QMonomial{}, fmt.Errorf("missing param: %s", key)
		}
		m, err := monoValue(v)
		if err != nil {
			return QMonomial{}, fmt.Errorf("param %s: %w", key, err)
		}
		return m, nil
	}
	optMono := func(key string, def QMonomial) (QMonomial, error) {
		if _, ok := req.Params[key]; !ok {
			return def, nil
		}
		return getMono(key)
	}
	getMonoList := func(key string) ([]QMonomial, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, nil
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]QMonomial, len(raw))
		for i, r := range raw {
			m, err := monoValue(r)
			if err != nil {
				return nil, fmt.Errorf("param %s[%d]: %w", key, i, err)
			}
			result[i] = m
		}
		return result, nil
	}
	getSeries := func(key string) (*Series, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be a series object", key)
		}
		return SeriesFromJSON(reg, m)
	}
	getSeriesList := func(key string) ([]*Series, error) {
		v, ok := req.Params[key]
		if !ok {
			return nil, fmt.Errorf("missing param: %s", key)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("param %s must be array", key)
		}
		result := make([]*Series, len(raw))
		for i, r := range raw {
			m, ok := r.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("param %s[%d] must be a series object", key, i)
			}
			s, err := SeriesFromJSON(reg, m)
			if err != nil {
				return nil, err
			}
			result[i] = s
		}
		return result, nil
	}

	name := "q"
	if v, ok := req.Params["var"]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return ToolResponse{Error: "param var must be a non-empty string"}
		}
		name = s
	}
	v := reg.Intern(name)
	trunc, err := optInt("trunc", DefaultTruncation)
	if err != nil {
		return ToolResponse{Error: err.Error()}
	}

	respond := func(s *Series, err error) ToolResponse {
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: SeriesJSON(reg, s), LaTeX: s.LaTeX(name), String: s.Format(name)}
	}

	switch req.Tool {
	case "aqprod":
		a, err := getMono("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		n := Infinite
		if raw, ok := req.Params["n"]; ok && raw != "inf" {
			k, err := getInt("n")
			if err != nil {
				return ToolResponse{Error: err.Error()}
			}
			n = Finite(k)
		}
		return respond(Aqprod(a, n, v, trunc))

	case "qbin":
		n, err := getInt("n")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		k, err := getInt("k")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(QBin(n, k, v), nil)

	case "etaq":
		b, err := getInt("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		t, err := optInt("t", 1)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Etaq(b, t, v, trunc))

	case "jacprod":
		a, err := getInt("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getInt("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Jacprod(a, b, v, trunc))

	case "tripleprod", "quinprod":
		z, err := getMono("z")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if req.Tool == "tripleprod" {
			return respond(Tripleprod(z, v, trunc))
		}
		return respond(Quinprod(z, v, trunc))

	case "winquist":
		a, err := getMono("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getMono("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Winquist(a, b, v, trunc))

	case "theta":
		which, err := optInt("which", 3)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		switch which {
		case 2:
			return respond(Theta2(v, trunc))
		case 3:
			return respond(Theta3(v, trunc))
		case 4:
			return respond(Theta4(v, trunc))
		}
		return ToolResponse{Error: fmt.Sprintf("param which must be 2, 3 or 4, got %d", which)}

	case "partition_count":
		n, err := getInt("n")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if n < 0 {
			return ToolResponse{Error: fmt.Sprintf("param n must be non-negative, got %d", n)}
		}
		p := PartitionCount(n)
		return ToolResponse{Result: p.String(), String: fmt.Sprintf("p(%d) = %s", n, p)}

	case "partition_gf":
		kind := "all"
		if _, ok := req.Params["kind"]; ok {
			if kind, err = getString("kind"); err != nil {
				return ToolResponse{Error: err.Error()}
			}
		}
		switch kind {
		case "all":
			return respond(PartitionGF(v, trunc))
		case "distinct":
			return respond(DistinctPartsGF(v, trunc))
		case "odd":
			return respond(OddPartsGF(v, trunc))
		case "bounded":
			m, err := getInt("m")
			if err != nil {
				return ToolResponse{Error: err.Error()}
			}
			return respond(BoundedPartsGF(m, v, trunc))
		}
		return ToolResponse{Error: fmt.Sprintf("unknown partition kind: %s", kind)}

	case "rank_gf", "crank_gf":
		z, err := optNum("z", N(1))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if req.Tool == "rank_gf" {
			return respond(RankGF(z, v, trunc))
		}
		return respond(CrankGF(z, v, trunc))

	case "mocktheta":
		fn, err := getString("name")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(MockTheta(fn, v, trunc))

	case "mocktheta_names":
		names := MockThetaNames()
		return ToolResponse{Result: names, String: strings.Join(names, ", ")}

	case "appell_lerch":
		a, err := getInt("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getInt("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(AppellLerchSum(a, b, v, trunc))

	case "g2", "g3":
		a, err := getInt("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if req.Tool == "g2" {
			return respond(UniversalMockThetaG2(a, v, trunc))
		}
		return respond(UniversalMockThetaG3(a, v, trunc))

	case "bailey_pairs":
		db := NewBaileyDatabase()
		var pairs []BaileyPair
		if tag, ok := req.Params["tag"].(string); ok {
			pairs = db.SearchTag(tag)
		} else {
			pairs = db.Pairs()
		}
		names := make([]string, len(pairs))
		for i, p := range pairs {
			names[i] = p.Name
		}
		return ToolResponse{Result: names, String: strings.Join(names, ", ")}

	case "bailey_verify":
		pn, err := getString("pair")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		p, ok := NewBaileyDatabase().Lookup(pn)
		if !ok {
			return ToolResponse{Error: fmt.Sprintf("unknown Bailey pair: %s", pn)}
		}
		a, err := optMono("a", QPower(0))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		maxN, err := optInt("max_n", 5)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		ok, err = VerifyBaileyPair(p, a, maxN, v, trunc)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: ok, String: fmt.Sprintf("%s relative to a = %s: %t", pn, a, ok)}

	case "bailey_discover":
		lhs, err := getSeries("lhs")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		rhs, err := getSeries("rhs")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		a, err := optMono("a", QPower(0))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		depth, err := optInt("max_depth", 2)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		maxN, err := optInt("max_n", 0)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		proof, _ := req.Params["require_proof"].(bool)
		opts := DiscoveryOptions{MaxDepth: int(depth), MaxN: maxN, RequireProof: proof}
		d, err := DiscoverBaileyIdentity(lhs, rhs, NewBaileyDatabase(), a, opts)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return ToolResponse{Result: map[string]interface{}{
			"outcome": d.Outcome.String(),
			"pair":    d.Pair,
			"depth":   d.Depth,
			"swapped": d.Swapped,
		}, String: d.String()}

	case "qgosper":
		upper, err := getMonoList("upper")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		lower, err := getMonoList("lower")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		z, err := optMono("z", QPower(1))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		q, err := getNum("q")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		res, err := QGosper(HypergeometricTerm{Upper: upper, Lower: lower, Z: z}, q)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		out := map[string]interface{}{
			"summable": res.Summable,
			"sigma":    res.NormalForm.Sigma.String(),
			"tau":      res.NormalForm.Tau.String(),
			"c":        res.NormalForm.C.String(),
		}
		if !res.Summable {
			return ToolResponse{Result: out, String: "not q-Gosper summable"}
		}
		out["certificate"] = res.Certificate.String()
		return ToolResponse{Result: out, String: "summable, certificate " + res.Certificate.String()}

	case "sift":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		m, err := getInt("m")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		j, err := optInt("j", 0)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Sift(f, m, j))

	case "prodmake":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		maxN, err := optInt("max_n", trunc)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		form, err := Prodmake(f, maxN)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		exps := make(map[string]string, len(form.Exponents))
		for n, a := range form.Exponents {
			exps[strconv.FormatInt(n, 10)] = a.String()
		}
		return ToolResponse{Result: map[string]interface{}{
			"scalar":     form.Scalar.String(),
			"shift":      form.Shift,
			"exponents":  exps,
			"terms_used": form.TermsUsed,
		}, String: formatExponents(form)}

	case "findlincombo":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		basis, err := getSeriesList("basis")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		top, err := optInt("topshift", 0)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		cs, ok, err := FindLinearCombination(f, basis, int(top))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !ok {
			return ToolResponse{Result: nil, String: "no linear combination found"}
		}
		strs := make([]string, len(cs))
		for i, c := range cs {
			strs[i] = c.String()
		}
		return ToolResponse{Result: strs, String: strings.Join(strs, ", ")}

	case "eval_phi":
		upper, err := getMonoList("upper")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		lower, err := getMonoList("lower")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		z, err := optMono("z", QPower(1))
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(EvalPhi(HypergeometricTerm{Upper: upper, Lower: lower, Z: z}, v, trunc))

	case "etamake":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		maxN, err := optInt("max_n", trunc)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		form, ok, err := Etamake(f, maxN)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		if !ok {
			return ToolResponse{Result: nil, String: "not an eta quotient"}
		}
		return ToolResponse{Result: map[string]interface{}{
			"scalar":  form.Scalar.String(),
			"shift":   form.Shift.String(),
			"factors": intFactors(form.Factors),
		}, String: formatFactors("eta(%dtau)", form.Scalar, form.Shift.String(), form.Factors)}

	case "qfactor":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		fz, err := QFactor(f)
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		str := formatFactors("(1-q^%d)", fz.Scalar, strconv.FormatInt(fz.Shift, 10), fz.Factors)
		if !fz.Exact() {
			str += " * (" + fz.Remainder.String() + ")"
		}
		return ToolResponse{Result: map[string]interface{}{
			"scalar":    fz.Scalar.String(),
			"shift":     fz.Shift,
			"factors":   intFactors(fz.Factors),
			"remainder": fz.Remainder.String(),
			"exact":     fz.Exact(),
		}, String: str}

	case "mul", "add", "sub":
		a, err := getSeries("a")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		b, err := getSeries("b")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		switch req.Tool {
		case "mul":
			return respond(Mul(a, b))
		case "add":
			return respond(Add(a, b))
		}
		return respond(Sub(a, b))

	case "invert":
		f, err := getSeries("f")
		if err != nil {
			return ToolResponse{Error: err.Error()}
		}
		return respond(Invert(f))

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// Tool schema
// ============================================================

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
// Every tool also takes the optional "var" (string) and "trunc" (integer).
func ToolSpec() string {
	tools := []map[string]interface{}{
		ts("aqprod", "q-Pochhammer (a;q)_n; n omitted or \"inf\" for the infinite product", []string{"a"}, map[string]string{"a": "object", "n": "integer"}),
		ts("qbin", "Gaussian polynomial [n choose k]_q", []string{"n", "k"}, map[string]string{"n": "integer", "k": "integer"}),
		ts("etaq", "(q^b;q^t)_inf, t defaults to 1", []string{"b"}, map[string]string{"b": "integer", "t": "integer"}),
		ts("jacprod", "Jacobi product J(a,b)", []string{"a", "b"}, map[string]string{"a": "integer", "b": "integer"}),
		ts("tripleprod", "Jacobi triple product in z", []string{"z"}, map[string]string{"z": "object"}),
		ts("quinprod", "Quintuple product in z", []string{"z"}, map[string]string{"z": "object"}),
		ts("winquist", "Winquist's product in a and b", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}),
		ts("theta", "Jacobi theta function; which is 2, 3 (default) or 4", []string{}, map[string]string{"which": "integer"}),
		ts("partition_count", "Exact p(n)", []string{"n"}, map[string]string{"n": "integer"}),
		ts("partition_gf", "Partition generating function; kind is all, distinct, odd or bounded (with m)", []string{}, map[string]string{"kind": "string", "m": "integer"}),
		ts("rank_gf", "Rank generating function at z (default 1)", []string{}, map[string]string{"z": "string"}),
		ts("crank_gf", "Crank generating function at z (default 1)", []string{}, map[string]string{"z": "string"}),
		ts("mocktheta", "Named mock theta function, e.g. f3, omega3, F0_7", []string{"name"}, map[string]string{"name": "string"}),
		ts("mocktheta_names", "List the mock theta function names", []string{}, map[string]string{}),
		ts("appell_lerch", "Appell-Lerch sum m(a,b)", []string{"a", "b"}, map[string]string{"a": "integer", "b": "integer"}),
		ts("g2", "Universal mock theta function g2 at z = q^a", []string{"a"}, map[string]string{"a": "integer"}),
		ts("g3", "Universal mock theta function g3 at z = q^a", []string{"a"}, map[string]string{"a": "integer"}),
		ts("bailey_pairs", "List the Bailey pair database, optionally by tag", []string{}, map[string]string{"tag": "string"}),
		ts("bailey_verify", "Check the Bailey pair relation for n <= max_n", []string{"pair"}, map[string]string{"pair": "string", "a": "object", "max_n": "integer"}),
		ts("bailey_discover", "Explain lhs = rhs by a Bailey pair, the weak lemma or a chain", []string{"lhs", "rhs"}, map[string]string{"lhs": "object", "rhs": "object", "a": "object", "max_depth": "integer", "max_n": "integer", "require_proof": "boolean"}),
		ts("qgosper", "q-Gosper summability of a basic hypergeometric term at numeric q", []string{"q"}, map[string]string{"upper": "array", "lower": "array", "z": "object", "q": "string"}),
		ts("sift", "Coefficients a_{m*i+j} of a series", []string{"f", "m"}, map[string]string{"f": "object", "m": "integer", "j": "integer"}),
		ts("prodmake", "Recover infinite product exponents of a series", []string{"f"}, map[string]string{"f": "object", "max_n": "integer"}),
		ts("findlincombo", "Express f as a rational combination of basis series", []string{"f", "basis"}, map[string]string{"f": "object", "basis": "array", "topshift": "integer"}),
		ts("eval_phi", "Basic hypergeometric series rphis(upper; lower; q, z) as a power series", []string{}, map[string]string{"upper": "array", "lower": "array", "z": "object"}),
		ts("etamake", "Rewrite a series as an eta quotient", []string{"f"}, map[string]string{"f": "object", "max_n": "integer"}),
		ts("qfactor", "Factor a polynomial into (1-q^d) powers", []string{"f"}, map[string]string{"f": "object"}),
		ts("add", "Series sum a+b", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}),
		ts("sub", "Series difference a-b", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}),
		ts("mul", "Series product a*b", []string{"a", "b"}, map[string]string{"a": "object", "b": "object"}),
		ts("invert", "Multiplicative inverse of a series", []string{"f"}, map[string]string{"f": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	properties := map[string]interface{}{}
	for k, typ := range props {
		properties[k] = map[string]interface{}{"type": typ}
	}
	properties["var"] = map[string]interface{}{"type": "string"}
	properties["trunc"] = map[string]interface{}{"type": "integer"}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}
