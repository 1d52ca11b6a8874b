package aline_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/phonalign/aline"
	"github.com/katalvlaran/phonalign/features"
	"github.com/katalvlaran/phonalign/internal/grid"
	"github.com/katalvlaran/phonalign/scoring"
)

const eps = 1e-9

// seq splits a word of single-letter symbols.
func seq(word string) []string {
	if word == "" {
		return []string{}
	}
	return strings.Split(word, "")
}

func span(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// checkReconstruction asserts that every alignment covers both sides in order.
func checkReconstruction(t *testing.T, res *aline.Result) {
	t.Helper()
	for k, al := range res.Alignments {
		assert.Equal(t, span(len(res.Source)), al.SourcePositions(), "alignment %d source", k)
		assert.Equal(t, span(len(res.Target)), al.TargetPositions(), "alignment %d target", k)
		var sum float64
		for _, p := range al.Pairs {
			sum += p.Score
		}
		assert.InDelta(t, al.Score, sum, eps)
	}
}

// TestAlign_Basic aligns tat with tata: three matches and a trailing insertion.
func TestAlign_Basic(t *testing.T) {
	res, err := aline.Align(seq("tat"), seq("tata"))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	assert.False(t, res.Truncated)
	assert.InDelta(t, 75.0, res.Score, eps)
	assert.InDelta(t, 85.0, res.SourceSelf, eps)
	assert.InDelta(t, 100.0, res.TargetSelf, eps)
	assert.InDelta(t, 0.75, res.Normalized(), eps)

	best := res.Best()
	assert.InDelta(t, 75.0, best.Score, eps)
	ops := make([]aline.Op, len(best.Pairs))
	for i, p := range best.Pairs {
		ops[i] = p.Op
	}
	assert.Equal(t, []aline.Op{aline.Match, aline.Match, aline.Match, aline.Insertion}, ops)
	assert.Equal(t, "t a t -\nt a t a", best.String())
	assert.Nil(t, res.Matrix)
	checkReconstruction(t, res)
}

// TestAlign_Identity yields one all-match alignment scoring the self score.
func TestAlign_Identity(t *testing.T) {
	for _, w := range []string{"t", "a", "tapka", "kutot", "strandat", "mizu", "aaa", "eee", "aae", "eaa", "eea"} {
		t.Run(w, func(t *testing.T) {
			for _, harmony := range []bool{false, true} {
				res, err := aline.Align(seq(w), seq(w), aline.WithHarmonyBonus(harmony))
				require.NoError(t, err)
				require.Len(t, res.Alignments, 1)
				for _, p := range res.Best().Pairs {
					assert.Equal(t, aline.Match, p.Op)
				}
				assert.InDelta(t, res.SourceSelf, res.Score, eps)
				assert.InDelta(t, 1.0, res.Normalized(), eps)
			}
		})
	}
}

// TestAlign_Symmetry mirrors alignments and keeps the score.
func TestAlign_Symmetry(t *testing.T) {
	pairs := [][2]string{
		{"tat", "tata"},
		{"kentum", "satem"},
		{"t", "tt"},
		{"mizu", "midzu"},
		{"a", "t"},
		{"", "pat"},
	}
	for _, pr := range pairs {
		t.Run(pr[0]+"/"+pr[1], func(t *testing.T) {
			ab, err := aline.Align(seq(pr[0]), seq(pr[1]))
			require.NoError(t, err)
			ba, err := aline.Align(seq(pr[1]), seq(pr[0]))
			require.NoError(t, err)

			assert.InDelta(t, ab.Score, ba.Score, eps)
			assert.Equal(t, len(ab.Alignments), len(ba.Alignments))
			mirror := func(al aline.Alignment) [][2][]int {
				out := make([][2][]int, len(al.Pairs))
				for i, p := range al.Pairs {
					out[i] = [2][]int{p.Target, p.Source}
				}
				return out
			}
			// The mirrored set must appear among ba's alignments.
			for _, x := range ab.Alignments {
				found := false
				for _, y := range ba.Alignments {
					yy := make([][2][]int, len(y.Pairs))
					for i, p := range y.Pairs {
						yy[i] = [2][]int{p.Source, p.Target}
					}
					if assert.ObjectsAreEqual(mirror(x), yy) {
						found = true
						break
					}
				}
				assert.True(t, found, "mirror of %q missing", x.String())
			}
		})
	}
}

// TestAlign_GapMonotonic checks that a costlier gap never yields more gaps
// or a higher optimal score.
func TestAlign_GapMonotonic(t *testing.T) {
	gaps := []float64{0, -5, -10, -20, -40, -80}
	for _, pr := range [][2]string{{"kentum", "satem"}, {"tat", "tata"}, {"pater", "fadar"}, {"aksa", "tuk"}} {
		t.Run(pr[0]+"/"+pr[1], func(t *testing.T) {
			prevGaps, prevScore := -1, 0.0
			for k, g := range gaps {
				res, err := aline.Align(seq(pr[0]), seq(pr[1]), aline.WithGapPenalty(g))
				require.NoError(t, err)
				n := 0
				for _, p := range res.Best().Pairs {
					if p.Op == aline.Deletion || p.Op == aline.Insertion {
						n++
					}
				}
				if k > 0 {
					assert.LessOrEqual(t, n, prevGaps, "gap %g", g)
					assert.LessOrEqual(t, res.Score, prevScore+eps, "gap %g", g)
				}
				prevGaps, prevScore = n, res.Score
			}
		})
	}
}

// TestAlign_CompressionBound checks every 2:1 pair against its two substitutions.
func TestAlign_CompressionBound(t *testing.T) {
	tbl := features.Kondrak()
	for _, d := range []float64{1, 0.75, 0.5, 0.1} {
		p := scoring.DefaultParams()
		p.CompressionDiscount = d
		sc, err := scoring.New(tbl, p)
		require.NoError(t, err)

		for _, pr := range [][2]string{{"t", "tt"}, {"ta", "tta"}, {"kw", "k"}, {"aa", "a"}, {"mizu", "midzu"}} {
			res, err := aline.Align(seq(pr[0]), seq(pr[1]),
				aline.WithCompressionDiscount(d), aline.WithEpsilon(0.9), aline.WithMaxAlignments(50))
			require.NoError(t, err)
			checkReconstruction(t, res)
			for _, al := range res.Alignments {
				for _, pair := range al.Pairs {
					if pair.Op != aline.Expansion && pair.Op != aline.Compression {
						continue
					}
					one, two := pair.SourceSymbols, pair.TargetSymbols
					if pair.Op == aline.Expansion {
						one, two = two, one
					}
					v, _ := tbl.Resolve(one[0])
					q1, _ := tbl.Resolve(two[0])
					q2, _ := tbl.Resolve(two[1])
					assert.LessOrEqual(t, pair.Score, sc.Substitute(v, q1)+sc.Substitute(v, q2)+eps)
				}
			}
		}
	}
}

// TestAlign_Compression picks the 1:2 correspondence at full discount.
func TestAlign_Compression(t *testing.T) {
	res, err := aline.Align(seq("t"), seq("tt"))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	pair := res.Best().Pairs[0]
	assert.Equal(t, aline.Compression, pair.Op)
	assert.Equal(t, []int{0}, pair.Source)
	assert.Equal(t, []int{0, 1}, pair.Target)
	assert.InDelta(t, 42.5, res.Score, eps)
	assert.Equal(t, "t\ntt", res.Best().String())

	res, err = aline.Align(seq("tt"), seq("t"))
	require.NoError(t, err)
	assert.Equal(t, aline.Expansion, res.Best().Pairs[0].Op)
}

// TestAlign_TieEnumeration constructs two equally good insertion points.
func TestAlign_TieEnumeration(t *testing.T) {
	res, err := aline.Align(seq("t"), seq("tt"), aline.WithCompressionDiscount(0.5), aline.WithMaxAlignments(2))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 2)
	assert.False(t, res.Truncated)
	assert.InDelta(t, 25.0, res.Score, eps)

	// Substitution is tried first from (1,2): the insertion lands first.
	assert.Equal(t, "- t\nt t", res.Alignments[0].String())
	assert.Equal(t, "t -\nt t", res.Alignments[1].String())
	assert.Equal(t, aline.Insertion, res.Alignments[0].Pairs[0].Op)
	assert.Equal(t, aline.Match, res.Alignments[1].Pairs[0].Op)
	for _, al := range res.Alignments {
		assert.InDelta(t, 25.0, al.Score, eps)
	}

	res, err = aline.Align(seq("t"), seq("tt"), aline.WithCompressionDiscount(0.5), aline.WithMaxAlignments(1))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	assert.True(t, res.Truncated)
	assert.Equal(t, "- t\nt t", res.Best().String())
}

// TestAlign_CrossClass covers the fixed vowel/consonant penalty.
func TestAlign_CrossClass(t *testing.T) {
	res, err := aline.Align(seq("a"), seq("t"))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	assert.Equal(t, aline.Substitution, res.Best().Pairs[0].Op)
	assert.InDelta(t, -15.0, res.Score, eps)

	// A heavier penalty makes deletion+insertion win, with two orders.
	res, err = aline.Align(seq("a"), seq("t"), aline.WithCrossClassPenalty(-30))
	require.NoError(t, err)
	require.Len(t, res.Alignments, 2)
	assert.InDelta(t, -20.0, res.Score, eps)
	assert.Equal(t, aline.Insertion, res.Alignments[0].Pairs[0].Op)
	assert.Equal(t, aline.Deletion, res.Alignments[0].Pairs[1].Op)
	assert.Equal(t, aline.Deletion, res.Alignments[1].Pairs[0].Op)
	assert.InDelta(t, -20.0/35.0, res.Normalized(), eps)
}

// TestAlign_Degenerate covers empty inputs.
func TestAlign_Degenerate(t *testing.T) {
	res, err := aline.Align([]string{}, nil)
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	assert.Empty(t, res.Best().Pairs)
	assert.Zero(t, res.Score)
	assert.Zero(t, res.Normalized())
	assert.Equal(t, "\n", res.Best().String())

	_, err = aline.Align(nil, nil, aline.WithRequireNonEmpty(true))
	assert.ErrorIs(t, err, aline.ErrEmptyInput)

	res, err = aline.Align(seq("x"), nil)
	require.NoError(t, err)
	require.Len(t, res.Alignments, 1)
	require.Len(t, res.Best().Pairs, 1)
	assert.Equal(t, aline.Deletion, res.Best().Pairs[0].Op)
	assert.InDelta(t, -10.0, res.Score, eps)

	res, err = aline.Align(nil, seq("pa"), aline.WithGapPenalty(-7))
	require.NoError(t, err)
	assert.InDelta(t, -14.0, res.Score, eps)
	checkReconstruction(t, res)
}

// TestAlign_UnknownSymbol aborts with the offending symbol and position.
func TestAlign_UnknownSymbol(t *testing.T) {
	res, err := aline.Align([]string{"zz-unknown"}, []string{"a"})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, features.ErrUnknownSymbol)
	var use *features.UnknownSymbolError
	require.True(t, errors.As(err, &use))
	assert.Equal(t, "zz-unknown", use.Symbol)
	assert.Equal(t, 0, use.Position)
	assert.Contains(t, err.Error(), "source")

	_, err = aline.Align(seq("ta"), []string{"t", "a", "@"})
	require.True(t, errors.As(err, &use))
	assert.Equal(t, 2, use.Position)
	assert.Contains(t, err.Error(), "target")
}

// TestAlign_Harmony adds the bonus to linked, harmonic vowel pairs only.
func TestAlign_Harmony(t *testing.T) {
	off, err := aline.Align(seq("tapa"), seq("taka"))
	require.NoError(t, err)
	assert.InDelta(t, 84.0, off.Score, eps)

	on, err := aline.Align(seq("tapa"), seq("taka"), aline.WithHarmonyBonus(true))
	require.NoError(t, err)
	assert.InDelta(t, 89.0, on.Score, eps)
	assert.InDelta(t, 105.0, on.SourceSelf, eps)
	pairs := on.Best().Pairs
	assert.Zero(t, pairs[1].Bonus)
	assert.InDelta(t, 5.0, pairs[3].Bonus, eps)
	assert.InDelta(t, 20.0, pairs[3].Score, eps)

	weighted, err := aline.Align(seq("tapa"), seq("taka"), aline.WithHarmonyBonus(true), aline.WithHarmonyWeight(2))
	require.NoError(t, err)
	assert.InDelta(t, 86.0, weighted.Score, eps)
}

// TestAlign_ScoreFloor clamps dissimilar consonants.
func TestAlign_ScoreFloor(t *testing.T) {
	res, err := aline.Align(seq("q"), seq("r"), aline.WithGapPenalty(-30))
	require.NoError(t, err)
	assert.InDelta(t, -33.0, res.Score, eps)

	res, err = aline.Align(seq("q"), seq("r"), aline.WithGapPenalty(-30), aline.WithScoreFloor(-20))
	require.NoError(t, err)
	assert.InDelta(t, -20.0, res.Score, eps)
}

// TestAlign_Epsilon returns near-optimal alignments after the optimal ones.
func TestAlign_Epsilon(t *testing.T) {
	res, err := aline.Align(seq("tat"), seq("tata"), aline.WithEpsilon(0.5), aline.WithMaxAlignments(20))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(res.Alignments), 2)
	assert.InDelta(t, 75.0, res.Score, eps)
	assert.InDelta(t, 75.0, res.Alignments[0].Score, eps)
	assert.InDelta(t, 70.0, res.Alignments[1].Score, eps)
	assert.Equal(t, aline.Compression, res.Alignments[1].Pairs[2].Op)
	for k, al := range res.Alignments {
		assert.GreaterOrEqual(t, al.Score, 37.5-eps)
		if k > 0 {
			assert.LessOrEqual(t, al.Score, res.Alignments[k-1].Score+eps)
			assert.NotEqual(t, res.Alignments[k-1].String(), al.String())
		}
	}
	checkReconstruction(t, res)

	capped, err := aline.Align(seq("tat"), seq("tata"), aline.WithEpsilon(0.5), aline.WithMaxAlignments(1))
	require.NoError(t, err)
	require.Len(t, capped.Alignments, 1)
	assert.True(t, capped.Truncated)

	exact, err := aline.Align(seq("tat"), seq("tata"), aline.WithEpsilon(0))
	require.NoError(t, err)
	assert.Len(t, exact.Alignments, 1)
	assert.False(t, exact.Truncated)
}

// TestAlign_EpsilonTopK keeps the highest-scoring near-optimal alignments
// under a small cap: a capped result is a prefix of an uncapped one.
func TestAlign_EpsilonTopK(t *testing.T) {
	for _, pr := range [][2]string{{"tat", "tata"}, {"kentum", "satem"}, {"pater", "fadar"}} {
		t.Run(pr[0]+"/"+pr[1], func(t *testing.T) {
			full, err := aline.Align(seq(pr[0]), seq(pr[1]), aline.WithEpsilon(0.5), aline.WithMaxAlignments(1000))
			require.NoError(t, err)
			capped, err := aline.Align(seq(pr[0]), seq(pr[1]), aline.WithEpsilon(0.5), aline.WithMaxAlignments(3))
			require.NoError(t, err)

			require.GreaterOrEqual(t, len(full.Alignments), 3)
			require.Len(t, capped.Alignments, 3)
			assert.Equal(t, len(full.Alignments) > 3, capped.Truncated)
			for k, al := range capped.Alignments {
				assert.InDelta(t, full.Alignments[k].Score, al.Score, eps, "index %d", k)
				assert.Equal(t, full.Alignments[k].String(), al.String(), "index %d", k)
			}
			checkReconstruction(t, capped)
		})
	}

	res, err := aline.Align(seq("tat"), seq("tata"), aline.WithEpsilon(0.5), aline.WithMaxAlignments(3))
	require.NoError(t, err)
	assert.InDelta(t, 70.0, res.Alignments[1].Score, eps)
}

// TestAlign_Matrix exposes the filled matrix on request.
func TestAlign_Matrix(t *testing.T) {
	res, err := aline.Align(seq("tat"), seq("tata"), aline.WithMatrix(true))
	require.NoError(t, err)
	mx := res.Matrix
	require.NotNil(t, mx)
	assert.Equal(t, 4, mx.Rows())
	assert.Equal(t, 5, mx.Cols())

	v, err := mx.Score(3, 4)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, v, eps)
	v, err = mx.Score(0, 2)
	require.NoError(t, err)
	assert.InDelta(t, -20.0, v, eps)

	moves, err := mx.Moves(0, 0)
	require.NoError(t, err)
	assert.Empty(t, moves)
	moves, err = mx.Moves(2, 0)
	require.NoError(t, err)
	assert.Equal(t, []aline.Op{aline.Deletion}, moves)
	moves, err = mx.Moves(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []aline.Op{aline.Substitution}, moves)

	_, err = mx.Score(4, 0)
	assert.ErrorIs(t, err, grid.ErrIndexOutOfBounds)
	assert.Len(t, strings.Split(strings.TrimRight(mx.String(), "\n"), "\n"), 4)
}

// TestAlign_FeatureTable swaps in an alternate inventory.
func TestAlign_FeatureTable(t *testing.T) {
	def := features.KondrakDefinition()
	def.Name = "with-ts"
	def.Phonemes = append(def.Phonemes, features.PhonemeDef{
		Symbol: "ts",
		Class:  "consonant",
		Features: map[string]string{
			"syllabic": "minus", "place": "alveolar", "manner": "affricate", "voice": "minus",
			"nasal": "minus", "retroflex": "minus", "lateral": "minus", "aspirated": "minus",
		},
	})
	tbl, err := features.New(def)
	require.NoError(t, err)

	_, err = aline.Align([]string{"ts", "a"}, seq("ta"))
	assert.ErrorIs(t, err, features.ErrUnknownSymbol)

	res, err := aline.Align([]string{"ts", "a"}, seq("ta"), aline.WithFeatureTable(tbl))
	require.NoError(t, err)
	assert.InDelta(t, 30.0+15.0, res.Score, eps, "affricate vs stop costs 0.1·50")
	assert.Equal(t, aline.Substitution, res.Best().Pairs[0].Op)
	assert.Equal(t, "ts a\nt  a", res.Best().String())
}

// TestAlign_Limits covers the length-product bound.
func TestAlign_Limits(t *testing.T) {
	_, err := aline.Align(seq("abc"), seq("abc"), aline.WithMaxLengthProduct(8))
	assert.ErrorIs(t, err, aline.ErrSequenceTooLarge)

	_, err = aline.Align(seq("abc"), seq("abc"), aline.WithMaxLengthProduct(9))
	assert.NoError(t, err)

	_, err = aline.Align(seq("abc"), nil, aline.WithMaxLengthProduct(1))
	assert.NoError(t, err)
}

// TestNewAligner_Validation rejects bad options before any computation.
func TestNewAligner_Validation(t *testing.T) {
	cases := map[string][]aline.Option{
		"zero alignments":     {aline.WithMaxAlignments(0)},
		"negative alignments": {aline.WithMaxAlignments(-3)},
		"epsilon one":         {aline.WithEpsilon(1)},
		"epsilon negative":    {aline.WithEpsilon(-0.1)},
		"negative product":    {aline.WithMaxLengthProduct(-1)},
		"positive gap":        {aline.WithGapPenalty(5)},
		"zero discount":       {aline.WithCompressionDiscount(0)},
		"large discount":      {aline.WithCompressionDiscount(1.5)},
		"positive cross":      {aline.WithCrossClassPenalty(3)},
		"positive floor":      {aline.WithScoreFloor(1)},
		"heavy harmony":       {aline.WithHarmonyWeight(50)},
	}
	for name, opts := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := aline.NewAligner(opts...)
			assert.Nil(t, a)
			assert.ErrorIs(t, err, aline.ErrInvalidConfiguration)
		})
	}

	_, err := aline.NewAligner(aline.WithCompressionDiscount(-1))
	assert.ErrorIs(t, err, scoring.ErrInvalidParams)

	a, err := aline.NewAligner()
	require.NoError(t, err)
	assert.Equal(t, aline.DefaultOptions().MaxAlignments, a.Options().MaxAlignments)
	assert.Same(t, features.Kondrak(), a.Table())
}

// TestOp_String covers every operation name.
func TestOp_String(t *testing.T) {
	names := map[aline.Op]string{
		aline.Match: "match", aline.Substitution: "substitution", aline.Deletion: "deletion",
		aline.Insertion: "insertion", aline.Expansion: "expansion", aline.Compression: "compression",
	}
	for op, want := range names {
		assert.Equal(t, want, op.String())
	}
	assert.Equal(t, "Op(42)", aline.Op(42).String())
}
