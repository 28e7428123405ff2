package qseries_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/njchilds90/qseries"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue_RoundTrip(t *testing.T) {
	_, q := newQ()
	db := qseries.NewBaileyDatabase()
	rr, _ := db.Lookup("rogers-ramanujan")
	derived, err := qseries.BaileyLemma(rr, qseries.QPower(0), qseries.QConst(qseries.N(2)), qseries.QConst(qseries.N(3)), 2, q, 8)
	require.NoError(t, err)
	db.Add(derived)

	var buf bytes.Buffer
	require.NoError(t, qseries.WriteCatalogue(&buf, db))
	assert.Contains(t, buf.String(), "format: "+qseries.CatalogueFormat)

	back, err := qseries.ReadCatalogue(&buf, q)
	require.NoError(t, err)
	require.Equal(t, db.Len(), back.Len())
	for i, p := range db.Pairs() {
		got := back.Pairs()[i]
		assert.Equal(t, p.Name, got.Name)
		assert.Equal(t, p.Tags, got.Tags)
	}

	orig := derived.Family.(qseries.TabulatedFamily)
	read, ok := back.Pairs()[3].Family.(qseries.TabulatedFamily)
	require.True(t, ok)
	assert.Equal(t, orig.A.String(), read.A.String())
	require.Len(t, read.Betas, len(orig.Betas))
	for n := range orig.Betas {
		if !read.Betas[n].Equal(orig.Betas[n]) {
			t.Errorf("beta_%d: want %s, got %s", n, orig.Betas[n], read.Betas[n])
		}
		if !read.Alphas[n].Equal(orig.Alphas[n]) {
			t.Errorf("alpha_%d: want %s, got %s", n, orig.Alphas[n], read.Alphas[n])
		}
	}

	qb, ok := back.Lookup("q-binomial(z=1)")
	require.True(t, ok)
	assert.Equal(t, "1", qb.Family.(qseries.QBinomialFamily).Z.String())
}

func TestReadCatalogue_Rejects(t *testing.T) {
	_, q := newQ()
	cases := map[string]string{
		"future format": "format: 2.0.0\npairs: []\n",
		"bad format":    "format: banana\npairs: []\n",
		"unknown":       "format: 1.0.0\npairs:\n  - name: x\n    family: mystery\n",
		"missing z":     "format: 1.0.0\npairs:\n  - name: x\n    family: q-binomial\n",
		"bad coeff": "format: 1.0.0\npairs:\n  - name: x\n    family: tabulated\n    a: {coeff: \"1\", power: 0}\n" +
			"    alphas:\n      - exact: true\n        terms: {0: \"one\"}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := qseries.ReadCatalogue(strings.NewReader(doc), q)
			assert.Error(t, err)
		})
	}
}
