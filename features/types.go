package features

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the features package.
var (
	// ErrUnknownSymbol indicates that a phoneme symbol is not in the table.
	ErrUnknownSymbol = errors.New("features: unknown phoneme symbol")

	// ErrInvalidDefinition indicates a structurally invalid Definition.
	ErrInvalidDefinition = errors.New("features: invalid definition")

	// ErrDuplicateSymbol indicates that a symbol is defined more than once.
	ErrDuplicateSymbol = errors.New("features: duplicate symbol")

	// ErrUnknownFeature indicates a feature name outside the known set.
	ErrUnknownFeature = errors.New("features: unknown feature")

	// ErrMissingFeature indicates a phoneme lacks a feature required by its class salience.
	ErrMissingFeature = errors.New("features: missing feature value")

	// ErrValueOutOfRange indicates a feature value outside [0,1].
	ErrValueOutOfRange = errors.New("features: value out of range [0,1]")
)

// UnknownSymbolError reports the offending symbol and its position in the
// sequence being resolved. Position is -1 when no sequence context exists.
type UnknownSymbolError struct {
	Symbol   string
	Position int
}

// Error implements error.
func (e *UnknownSymbolError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("%s %q", ErrUnknownSymbol, e.Symbol)
	}

	return fmt.Sprintf("%s %q at position %d", ErrUnknownSymbol, e.Symbol, e.Position)
}

// Unwrap lets errors.Is(err, ErrUnknownSymbol) match.
func (e *UnknownSymbolError) Unwrap() error { return ErrUnknownSymbol }

// Class separates phonemes compared with the consonant salience table from
// those compared with the vowel salience table.
type Class int

const (
	// Consonant covers obstruents, sonorants and glides.
	Consonant Class = iota
	// Vowel covers syllabic segments.
	Vowel
)

// String returns "consonant" or "vowel".
func (c Class) String() string {
	switch c {
	case Consonant:
		return "consonant"
	case Vowel:
		return "vowel"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// ParseClass converts "consonant"/"vowel" (case-insensitive; "c"/"v" accepted).
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "consonant", "c":
		return Consonant, nil
	case "vowel", "v":
		return Vowel, nil
	default:
		return 0, fmt.Errorf("%w: unknown class %q", ErrInvalidDefinition, s)
	}
}

// Feature enumerates the articulatory features known to the table.
type Feature int

const (
	Syllabic Feature = iota
	Place
	Manner
	Voice
	Nasal
	Retroflex
	Lateral
	Aspirated
	Long
	High
	Back
	Round

	numFeatures
)

var featureNames = [numFeatures]string{
	Syllabic:  "syllabic",
	Place:     "place",
	Manner:    "manner",
	Voice:     "voice",
	Nasal:     "nasal",
	Retroflex: "retroflex",
	Lateral:   "lateral",
	Aspirated: "aspirated",
	Long:      "long",
	High:      "high",
	Back:      "back",
	Round:     "round",
}

// String returns the lower-case feature name.
func (f Feature) String() string {
	if f < 0 || f >= numFeatures {
		return fmt.Sprintf("Feature(%d)", int(f))
	}

	return featureNames[f]
}

// ParseFeature resolves a feature name (case-insensitive).
func ParseFeature(name string) (Feature, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f := Feature(0); f < numFeatures; f++ {
		if featureNames[f] == n {
			return f, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

// AllFeatures returns every known feature in declaration order.
func AllFeatures() []Feature {
	out := make([]Feature, numFeatures)
	for f := Feature(0); f < numFeatures; f++ {
		out[f] = f
	}

	return out
}

// Vector is the resolved feature description of one phoneme.
type Vector struct {
	Symbol string
	Class  Class

	values  [numFeatures]float64
	defined uint16 // bit f set ⇔ values[f] was given
}

// Value returns the value of f, or 0 if f is undefined for this phoneme.
func (v Vector) Value(f Feature) float64 {
	if f < 0 || f >= numFeatures {
		return 0
	}

	return v.values[f]
}

// Has reports whether f is defined for this phoneme.
func (v Vector) Has(f Feature) bool {
	if f < 0 || f >= numFeatures {
		return false
	}

	return v.defined&(1<<uint(f)) != 0
}

// IsVowel is shorthand for v.Class == Vowel.
func (v Vector) IsVowel() bool { return v.Class == Vowel }

func (v *Vector) set(f Feature, x float64) {
	v.values[f] = x
	v.defined |= 1 << uint(f)
}

// Salience holds the per-feature weights of one class, in feature order.
// Only features with a weight are "relevant" to comparisons in that class.
type Salience struct {
	features []Feature
	weights  [numFeatures]float64
}

// NewSalience builds a Salience from a weight map. Negative weights are rejected.
func NewSalience(w map[Feature]float64) (Salience, error) {
	var s Salience
	for f := Feature(0); f < numFeatures; f++ {
		x, ok := w[f]
		if !ok {
			continue
		}
		if x < 0 {
			return Salience{}, fmt.Errorf("%w: negative salience %g for %s", ErrInvalidDefinition, x, f)
		}
		s.features = append(s.features, f)
		s.weights[f] = x
	}
	for f := range w {
		if f < 0 || f >= numFeatures {
			return Salience{}, fmt.Errorf("%w: Feature(%d)", ErrUnknownFeature, int(f))
		}
	}

	return s, nil
}

// Features returns the relevant features in declaration order.
func (s Salience) Features() []Feature {
	return append([]Feature(nil), s.features...)
}

// Weight returns the salience of f (0 when f is not relevant).
func (s Salience) Weight(f Feature) float64 {
	if f < 0 || f >= numFeatures {
		return 0
	}

	return s.weights[f]
}

// Has reports whether f carries a weight in this table.
func (s Salience) Has(f Feature) bool {
	for _, g := range s.features {
		if g == f {
			return true
		}
	}

	return false
}

// Total returns the sum of all weights.
func (s Salience) Total() float64 {
	var t float64
	for _, f := range s.features {
		t += s.weights[f]
	}

	return t
}
