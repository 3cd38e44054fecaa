package service

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetops/internal/apperr"
	"sheetops/internal/mapping/model"
	"sheetops/internal/table"
)

func key(asin, ean, vendor string) model.KeyTuple {
	return model.KeyTuple{ASIN: table.Infer(asin), NewEAN: table.Infer(ean), Vendor: table.Infer(vendor)}
}

func keyed(t *testing.T, extra []string, rows ...[]string) *table.Dataset {
	t.Helper()
	ds := table.MustNew(append(append([]string(nil), model.KeyColumns...), extra...)...)
	for _, r := range rows {
		vals := make([]table.Value, len(r))
		for i, s := range r {
			vals[i] = table.Infer(s)
		}
		require.NoError(t, ds.Append(vals...))
	}
	return ds
}

func TestScoreProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []rune("AB01 é")
	word := func() string {
		n := rng.Intn(6)
		rs := make([]rune, n)
		for i := range rs {
			rs[i] = alphabet[rng.Intn(len(alphabet))]
		}
		return string(rs)
	}
	for i := 0; i < 300; i++ {
		a := model.KeyTuple{ASIN: table.Text(word()), NewEAN: table.Text(word()), Vendor: table.Text(word())}
		b := model.KeyTuple{ASIN: table.Text(word()), NewEAN: table.Text(word()), Vendor: table.Text(word())}
		ab, ba := Score(a, b), Score(b, a)
		assert.Equal(t, ab, ba)
		assert.GreaterOrEqual(t, ab, 0.0)
		assert.LessOrEqual(t, ab, 100.0)
		assert.Equal(t, 100.0, Score(a, a))
	}
}

func TestScoreValues(t *testing.T) {
	assert.Equal(t, 100.0, Score(key("B001", "111", "V1"), key("B001", "111", "V1")))
	// 5 substitutions over 11 runes including the two separators
	assert.InDelta(t, 100*(1-5.0/11), Score(key("B002", "222", "V2"), key("B001", "111", "V1")), 1e-9)
	assert.Less(t, Score(key("AB", "C", ""), key("A", "BC", "")), 100.0)
}

func TestMatchScenarios(t *testing.T) {
	candidates := []model.KeyTuple{key("B001", "111", "V1")}
	res := Match([]model.KeyTuple{key("B001", "111", "V1"), key("B002", "222", "V2")}, candidates, 90, model.Options{})

	require.Len(t, res, 2)
	require.NotNil(t, res[0].Best)
	assert.Equal(t, 100.0, res[0].Best.Score)
	assert.Equal(t, candidates[0], res[0].Best.Key)
	assert.Nil(t, res[1].Best)
}

func TestMatchTiesPickEarliest(t *testing.T) {
	candidates := []model.KeyTuple{
		key("B00X", "111", "V1"),
		key("B00Y", "111", "V1"),
		key("B001", "111", "V1"),
		key("B001", "111", "V1"),
	}
	res := Match([]model.KeyTuple{key("B00Z", "111", "V1"), key("B001", "111", "V1")}, candidates, 0, model.Options{})
	require.NotNil(t, res[0].Best)
	assert.Equal(t, 0, res[0].Best.Index)
	require.NotNil(t, res[1].Best)
	assert.Equal(t, 2, res[1].Best.Index)
}

func TestMatchEmptyCandidates(t *testing.T) {
	res := Match([]model.KeyTuple{key("B001", "111", "V1")}, nil, 0, model.Options{})
	require.Len(t, res, 1)
	assert.Nil(t, res[0].Best)
}

func TestMatchNormalization(t *testing.T) {
	candidates := []model.KeyTuple{key("b001", "111", "v1")}
	sources := []model.KeyTuple{key(" B001 ", "111", "V1")}

	res := Match(sources, candidates, 100, model.Options{})
	assert.Nil(t, res[0].Best)

	res = Match(sources, candidates, 100, model.Options{IgnoreCase: true, TrimSpaces: true})
	require.NotNil(t, res[0].Best)
	assert.Equal(t, 100.0, res[0].Best.Score)
}

func randomKeys(rng *rand.Rand, n int) []model.KeyTuple {
	out := make([]model.KeyTuple, n)
	for i := range out {
		out[i] = key(
			fmt.Sprintf("B%03d", rng.Intn(60)),
			fmt.Sprintf("%d", 100+rng.Intn(40)),
			fmt.Sprintf("V%d", rng.Intn(9)),
		)
	}
	return out
}

func TestMatchThresholdMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sources, candidates := randomKeys(rng, 80), randomKeys(rng, 50)

	count := func(th float64) int {
		n := 0
		for _, r := range Match(sources, candidates, th, model.Options{}) {
			if r.Best != nil {
				n++
			}
		}
		return n
	}
	prev := count(50)
	for th := 55.0; th <= 100; th += 5 {
		cur := count(th)
		assert.LessOrEqual(t, cur, prev, "threshold %v", th)
		prev = cur
	}
}

func TestMatchWorkersDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sources, candidates := randomKeys(rng, 120), randomKeys(rng, 40)

	serial := Match(sources, candidates, 60, model.Options{Workers: 1})
	parallel := Match(sources, candidates, 60, model.Options{Workers: 8})
	assert.Equal(t, serial, parallel)
}

func TestJoin(t *testing.T) {
	portal := keyed(t, []string{"Qty"},
		[]string{"B001", "111", "V1", "5"},
		[]string{"B002", "222", "V2", "7"},
		[]string{"B001", "111", "V1", "9"},
	)
	catalogue := keyed(t, []string{"Title", "Qty"},
		[]string{"B001", "111", "V1", "Soap", "1"},
		[]string{"B001", "111", "V1", "Soap dup", "2"},
		[]string{"B003", "333", "V3", "Brush", "3"},
	)

	out, err := Join(portal, catalogue, model.KeyColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"ASIN", "New EAN", "VENDOR 8 DIGIT", "Qty_x", "Title", "Qty_y"}, out.Columns())
	require.Equal(t, portal.Len(), out.Len())

	title := func(i int) table.Value { v, _ := out.Value(i, "Title"); return v }
	assert.Equal(t, table.Text("Soap"), title(0))
	assert.True(t, title(1).IsNull())
	assert.Equal(t, table.Text("Soap"), title(2))
	v, _ := out.Value(1, "Qty_x")
	assert.Equal(t, table.Number(7), v)
}

func TestJoinIsTyped(t *testing.T) {
	portal := keyed(t, nil, []string{"B001", "111", "V1"})
	catalogue := table.MustNew(append(append([]string(nil), model.KeyColumns...), "Title")...)
	require.NoError(t, catalogue.Append(table.Text("B001"), table.Text("111"), table.Text("V1"), table.Text("Soap")))

	out, err := Join(portal, catalogue, model.KeyColumns)
	require.NoError(t, err)
	v, _ := out.Value(0, "Title")
	assert.True(t, v.IsNull(), "number 111 must not equal text 111")
}

func TestJoinMissingKeys(t *testing.T) {
	left := table.MustNew("ASIN", "New EAN")
	right := keyed(t, nil)
	_, err := Join(left, right, model.KeyColumns)
	require.Error(t, err)
	assert.Equal(t, apperr.KindMissingColumn, apperr.KindOf(err))
}

func TestRunPrecondition(t *testing.T) {
	portal := table.MustNew("ASIN", "New EAN")
	catalogue := keyed(t, nil)
	_, _, err := Run(portal, catalogue, model.Options{Method: model.MethodFuzzy, Threshold: 90})
	require.Error(t, err)
	assert.Equal(t, apperr.KindPreconditionFailed, apperr.KindOf(err))
	e, _ := apperr.As(err)
	assert.Equal(t, []string{"VENDOR 8 DIGIT"}, e.Columns())
}

func TestRunFuzzy(t *testing.T) {
	portal := keyed(t, []string{"Qty"},
		[]string{"B001", "111", "V1", "1"},
		[]string{"B002", "222", "V2", "2"},
	)
	catalogue := keyed(t, nil, []string{"B001", "111", "V1"})

	out, sum, err := Run(portal, catalogue, model.Options{Method: model.MethodFuzzy, Threshold: 90})
	require.NoError(t, err)
	assert.Equal(t, model.Summary{Method: model.MethodFuzzy, Threshold: 90, Rows: 2, Matched: 1, Unmatched: 1}, sum)
	assert.Equal(t, append(portal.Columns(), model.MatchedColumns...), out.Columns())

	for f, col := range model.MatchedColumns {
		v, _ := out.Value(0, col)
		assert.Equal(t, key("B001", "111", "V1").Values()[f], v)
		v, _ = out.Value(1, col)
		assert.True(t, v.IsNull())
	}
	assert.Equal(t, 4, portal.Width(), "portal must not change")
}

func TestRunRuleBased(t *testing.T) {
	portal := keyed(t, nil, []string{"B001", "111", "V1"}, []string{"B009", "999", "V9"})
	catalogue := keyed(t, []string{"Title"}, []string{"B001", "111", "V1", "Soap"})

	out, sum, err := Run(portal, catalogue, model.Options{Method: model.MethodRuleBased})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Len())
	assert.Equal(t, 1, sum.Matched)
	assert.Equal(t, 1, sum.Unmatched)
}

func TestParseMethod(t *testing.T) {
	m, err := model.ParseMethod("Fuzzy Matching")
	require.NoError(t, err)
	assert.Equal(t, model.MethodFuzzy, m)
	m, err = model.ParseMethod("Rule-Based")
	require.NoError(t, err)
	assert.Equal(t, model.MethodRuleBased, m)
	_, err = model.ParseMethod("magic")
	assert.Error(t, err)
}
