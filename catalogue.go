package qseries

import (
	"fmt"
	"io"
	"math/big"

	semver "github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Bailey pair catalogue (YAML)
// ============================================================

// CatalogueFormat is the format version written by WriteCatalogue.
const CatalogueFormat = "1.1.0"

// catalogueConstraint is the range of format versions ReadCatalogue accepts.
const catalogueConstraint = "^1.0"

type catalogueDoc struct {
	Format string    `yaml:"format"`
	Pairs  []pairDoc `yaml:"pairs"`
}

type pairDoc struct {
	Name   string      `yaml:"name"`
	Tags   []string    `yaml:"tags,omitempty"`
	Family string      `yaml:"family"`
	Z      *Num        `yaml:"z,omitempty"`
	A      *QMonomial  `yaml:"a,omitempty"`
	Alphas []seriesDoc `yaml:"alphas,omitempty"`
	Betas  []seriesDoc `yaml:"betas,omitempty"`
}

type seriesDoc struct {
	Truncation int64            `yaml:"truncation,omitempty"`
	Exact      bool             `yaml:"exact,omitempty"`
	Terms      map[int64]string `yaml:"terms"`
}

func toSeriesDoc(s *Series) seriesDoc {
	d := seriesDoc{Terms: make(map[int64]string, len(s.keys))}
	if s.IsExact() {
		d.Exact = true
	} else {
		d.Truncation = s.trunc
	}
	for _, k := range s.keys {
		d.Terms[k] = ratString(s.coeffs[k])
	}
	return d
}

func (d seriesDoc) series(v SymbolID) (*Series, error) {
	trunc := d.Truncation
	if d.Exact {
		trunc = Exact
	}
	m := make(map[int64]*big.Rat, len(d.Terms))
	for k, c := range d.Terms {
		n, err := ParseNum(c)
		if err != nil {
			return nil, fmt.Errorf("qseries: catalogue: bad coefficient %q at q^%d", c, k)
		}
		m[k] = n.val
	}
	return build(v, m, trunc), nil
}

// WriteCatalogue encodes every pair of db as YAML.
func WriteCatalogue(w io.Writer, db *BaileyDatabase) error {
	doc := catalogueDoc{Format: CatalogueFormat}
	for _, p := range db.pairs {
		pd := pairDoc{Name: p.Name, Tags: p.Tags}
		switch f := p.Family.(type) {
		case UnitFamily, RogersRamanujanFamily:
			pd.Family = f.family()
		case QBinomialFamily:
			pd.Family = f.family()
			pd.Z = f.Z
		case TabulatedFamily:
			pd.Family = f.family()
			a := f.A
			pd.A = &a
			for _, s := range f.Alphas {
				pd.Alphas = append(pd.Alphas, toSeriesDoc(s))
			}
			for _, s := range f.Betas {
				pd.Betas = append(pd.Betas, toSeriesDoc(s))
			}
		default:
			return fmt.Errorf("qseries: catalogue: pair %q has unknown family %T", p.Name, p.Family)
		}
		doc.Pairs = append(doc.Pairs, pd)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("qseries: catalogue: %w", err)
	}
	return enc.Close()
}

// ReadCatalogue decodes a catalogue written by WriteCatalogue. Tabulated
// series are rebuilt over v. The format version must satisfy ^1.0.
func ReadCatalogue(r io.Reader, v SymbolID) (*BaileyDatabase, error) {
	var doc catalogueDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("qseries: catalogue: %w", err)
	}
	ver, err := semver.NewVersion(doc.Format)
	if err != nil {
		return nil, fmt.Errorf("qseries: catalogue: invalid format version %q: %w", doc.Format, err)
	}
	c, err := semver.NewConstraint(catalogueConstraint)
	if err != nil {
		return nil, err
	}
	if !c.Check(ver) {
		return nil, fmt.Errorf("qseries: catalogue: format %s does not satisfy %s", ver, catalogueConstraint)
	}
	db := &BaileyDatabase{}
	for _, pd := range doc.Pairs {
		p := BaileyPair{Name: pd.Name, Tags: pd.Tags}
		switch pd.Family {
		case "unit":
			p.Family = UnitFamily{}
		case "rogers-ramanujan":
			p.Family = RogersRamanujanFamily{}
		case "q-binomial":
			if pd.Z == nil {
				return nil, fmt.Errorf("qseries: catalogue: pair %q: q-binomial family needs z", pd.Name)
			}
			p.Family = QBinomialFamily{Z: pd.Z}
		case "tabulated":
			if pd.A == nil {
				return nil, fmt.Errorf("qseries: catalogue: pair %q: tabulated family needs a", pd.Name)
			}
			t := TabulatedFamily{A: *pd.A}
			for _, sd := range pd.Alphas {
				s, err := sd.series(v)
				if err != nil {
					return nil, err
				}
				t.Alphas = append(t.Alphas, s)
			}
			for _, sd := range pd.Betas {
				s, err := sd.series(v)
				if err != nil {
					return nil, err
				}
				t.Betas = append(t.Betas, s)
			}
			p.Family = t
		default:
			return nil, fmt.Errorf("qseries: catalogue: pair %q: unknown family %q", pd.Name, pd.Family)
		}
		db.Add(p)
	}
	return db, nil
}
