package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/phonalign/contextual"
	"github.com/katalvlaran/phonalign/features"
)

// Default ALINE constants and penalties.
const (
	DefaultSub                 = 35.0
	DefaultExp                 = 45.0
	DefaultVowel               = 10.0
	DefaultGap                 = -10.0
	DefaultCrossClass          = -15.0
	DefaultFloor               = -100.0
	DefaultCompressionDiscount = 1.0
	DefaultHarmonyBonus        = 5.0
)

// Sentinel errors returned by the scoring package.
var (
	// ErrInvalidParams indicates a Params value outside its documented range.
	ErrInvalidParams = errors.New("scoring: invalid parameters")

	// ErrNilTable indicates that New was given a nil feature table.
	ErrNilTable = errors.New("scoring: feature table is nil")
)

// Params configures a Scorer.
//
//   - Sub, Exp, Vowel       — ALINE maxima and vowel weight (Sub, Exp > 0; Vowel ≥ 0).
//   - Gap                   — score of one insertion or deletion (≤ 0).
//   - CrossClass            — fixed score of a vowel/consonant substitution (≤ 0).
//   - Floor                 — lowest score a same-class substitution can reach (≤ 0).
//   - CompressionDiscount   — scale in (0,1] applied to positive expansion scores.
//   - HarmonyBonus          — bonus in [0, Vowel] for harmonic vowel pairs.
//   - Harmony               — enables HarmonyBonus.
type Params struct {
	Sub                 float64
	Exp                 float64
	Vowel               float64
	Gap                 float64
	CrossClass          float64
	Floor               float64
	CompressionDiscount float64
	HarmonyBonus        float64
	Harmony             bool
}

// DefaultParams returns Kondrak's constants with harmony disabled.
func DefaultParams() Params {
	return Params{
		Sub:                 DefaultSub,
		Exp:                 DefaultExp,
		Vowel:               DefaultVowel,
		Gap:                 DefaultGap,
		CrossClass:          DefaultCrossClass,
		Floor:               DefaultFloor,
		CompressionDiscount: DefaultCompressionDiscount,
		HarmonyBonus:        DefaultHarmonyBonus,
		Harmony:             false,
	}
}

// Validate checks every field against its documented range.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"Sub": p.Sub, "Exp": p.Exp, "Vowel": p.Vowel, "Gap": p.Gap, "CrossClass": p.CrossClass,
		"Floor": p.Floor, "CompressionDiscount": p.CompressionDiscount, "HarmonyBonus": p.HarmonyBonus,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidParams, name)
		}
	}
	switch {
	case p.Sub <= 0:
		return fmt.Errorf("%w: Sub must be > 0, got %g", ErrInvalidParams, p.Sub)
	case p.Exp <= 0:
		return fmt.Errorf("%w: Exp must be > 0, got %g", ErrInvalidParams, p.Exp)
	case p.Vowel < 0:
		return fmt.Errorf("%w: Vowel must be ≥ 0, got %g", ErrInvalidParams, p.Vowel)
	case p.Gap > 0:
		return fmt.Errorf("%w: Gap must be ≤ 0, got %g", ErrInvalidParams, p.Gap)
	case p.CrossClass > 0:
		return fmt.Errorf("%w: CrossClass must be ≤ 0, got %g", ErrInvalidParams, p.CrossClass)
	case p.Floor > 0:
		return fmt.Errorf("%w: Floor must be ≤ 0, got %g", ErrInvalidParams, p.Floor)
	case p.CompressionDiscount <= 0 || p.CompressionDiscount > 1:
		return fmt.Errorf("%w: CompressionDiscount must be in (0,1], got %g", ErrInvalidParams, p.CompressionDiscount)
	case p.HarmonyBonus < 0 || p.HarmonyBonus > p.Vowel:
		return fmt.Errorf("%w: HarmonyBonus must be in [0,%g], got %g", ErrInvalidParams, p.Vowel, p.HarmonyBonus)
	}

	return nil
}

// weighted is one relevant feature with its salience.
type weighted struct {
	f features.Feature
	w float64
}

// Scorer evaluates ALINE similarities against one feature table.
// It is immutable and safe for concurrent use.
type Scorer struct {
	p        Params
	relevant [2][]weighted // per class, in feature order
}

// New validates p and prepares the per-class relevant-feature lists of tbl.
func New(tbl *features.Table, p Params) (*Scorer, error) {
	if tbl == nil {
		return nil, ErrNilTable
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s := &Scorer{p: p}
	for _, c := range []features.Class{features.Consonant, features.Vowel} {
		sal := tbl.Salience(c)
		for _, f := range sal.Features() {
			s.relevant[c] = append(s.relevant[c], weighted{f: f, w: sal.Weight(f)})
		}
	}

	return s, nil
}

// Params returns the parameters the scorer was built with.
func (s *Scorer) Params() Params { return s.p }

// Delta is the salience-weighted feature distance δ(a,b). Features are
// taken from the vowel table only when both segments are vowels.
// δ is symmetric and zero for identical vectors.
func (s *Scorer) Delta(a, b features.Vector) float64 {
	c := features.Consonant
	if a.IsVowel() && b.IsVowel() {
		c = features.Vowel
	}

	var d float64
	for _, r := range s.relevant[c] {
		d += r.w * math.Abs(a.Value(r.f)-b.Value(r.f))
	}

	return d
}

// vowelWeight is V(p).
func (s *Scorer) vowelWeight(a features.Vector) float64 {
	if a.IsVowel() {
		return s.p.Vowel
	}

	return 0
}

// Skip is the score of one insertion or deletion.
func (s *Scorer) Skip() float64 { return s.p.Gap }

// Substitute scores a 1:1 correspondence without context.
func (s *Scorer) Substitute(a, b features.Vector) float64 {
	if a.Class != b.Class {
		return s.p.CrossClass
	}

	return math.Max(s.p.Floor, s.p.Sub-s.Delta(a, b)-s.vowelWeight(a)-s.vowelWeight(b))
}

// Bonus returns the harmony bonus for aligning a with b in context ta, tb:
// HarmonyBonus when harmony is enabled, both are vowels linked to a preceding
// vowel across a consonant cluster, both links are harmonic, and a and b
// agree in backness. Otherwise 0.
func (s *Scorer) Bonus(a, b features.Vector, ta, tb contextual.Tag) float64 {
	if !s.p.Harmony || s.p.HarmonyBonus == 0 {
		return 0
	}
	if !a.IsVowel() || !b.IsVowel() {
		return 0
	}
	if !ta.Linked() || !tb.Linked() || !ta.Harmonic || !tb.Harmonic {
		return 0
	}
	if a.Value(features.Back) != b.Value(features.Back) {
		return 0
	}

	return s.p.HarmonyBonus
}

// SubstituteAt scores a 1:1 correspondence including the harmony bonus.
func (s *Scorer) SubstituteAt(a, b features.Vector, ta, tb contextual.Tag) float64 {
	return s.Substitute(a, b) + s.Bonus(a, b, ta, tb)
}

// Self is the score of aligning a with itself in context t.
func (s *Scorer) Self(a features.Vector, t contextual.Tag) float64 {
	return s.SubstituteAt(a, a, t, t)
}

// Expand scores one segment p against the pair (q1, q2), used for both
// expansion and compression. When all three share a class the ALINE σ_exp
// applies; otherwise the two substitutions are summed. A positive score is
// scaled by CompressionDiscount, and the result is bounded by
//
//	Substitute(p,q1) + Substitute(p,q2)
//	(Self(p) + Self(q1) + Self(q2))/2 + Gap
//
// A 1:1 pair scores at most half the self scores of its two segments, so the
// second bound charges a merge one gap over matching its segments 1:1 and
// keeps an identical sequence aligning to itself by matches only.
func (s *Scorer) Expand(p, q1, q2 features.Vector) float64 {
	pair := s.Substitute(p, q1) + s.Substitute(p, q2)
	merged := (s.Substitute(p, p)+s.Substitute(q1, q1)+s.Substitute(q2, q2))/2 + s.p.Gap

	raw := pair
	if p.Class == q1.Class && p.Class == q2.Class {
		raw = s.p.Exp - s.Delta(p, q1) - s.Delta(p, q2) - s.vowelWeight(p) -
			math.Max(s.vowelWeight(q1), s.vowelWeight(q2))
	}
	if raw > 0 {
		raw *= s.p.CompressionDiscount
	}

	return min(raw, pair, merged)
}
