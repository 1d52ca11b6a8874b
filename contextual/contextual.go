package contextual

import (
	"fmt"
	"math"

	"github.com/katalvlaran/phonalign/features"
)

// agreeTol is the tolerance for treating two feature values as equal.
const agreeTol = 1e-9

// Role is the syllabic role of a position.
type Role int

const (
	Unsyllabified Role = iota
	Peak
	Onset
	Coda
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case Unsyllabified:
		return "unsyllabified"
	case Peak:
		return "peak"
	case Onset:
		return "onset"
	case Coda:
		return "coda"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Tag is the context of one position. Indices are -1 when absent.
type Tag struct {
	Position    int
	Class       features.Class
	Role        Role
	PrevVowel   int // nearest vowel strictly before Position
	NextVowel   int // nearest vowel strictly after Position
	HarmonyLink int // PrevVowel, if a consonant intervenes; vowels only
	Harmonic    bool
}

// IsVowel reports whether the position is a vowel.
func (t Tag) IsVowel() bool { return t.Class == features.Vowel }

// Linked reports whether the position has a harmony link.
func (t Tag) Linked() bool { return t.HarmonyLink >= 0 }

// Annotate tags seq using backness as the harmony feature.
func Annotate(seq []features.Vector) []Tag {
	return AnnotateFeature(seq, features.Back)
}

// AnnotateFeature tags seq, judging harmony by feature f.
// The result has len(seq) entries and depends only on seq and f.
func AnnotateFeature(seq []features.Vector, f features.Feature) []Tag {
	n := len(seq)
	tags := make([]Tag, n)

	// Forward sweep: previous vowel, harmony link.
	last := -1
	crossed := false // a consonant seen since last
	var i int
	for i = 0; i < n; i++ {
		tags[i] = Tag{
			Position:    i,
			Class:       seq[i].Class,
			PrevVowel:   last,
			NextVowel:   -1,
			HarmonyLink: -1,
		}
		if !seq[i].IsVowel() {
			crossed = true
			continue
		}
		if last >= 0 && crossed {
			tags[i].HarmonyLink = last
			tags[i].Harmonic = math.Abs(seq[i].Value(f)-seq[last].Value(f)) <= agreeTol
		}
		last = i
		crossed = false
	}

	// Backward sweep: next vowel.
	next := -1
	for i = n - 1; i >= 0; i-- {
		tags[i].NextVowel = next
		if seq[i].IsVowel() {
			next = i
		}
	}

	// Roles.
	for i = 0; i < n; i++ {
		tags[i].Role = role(tags, i)
	}

	return tags
}

// role classifies position i from its vowel neighbours.
func role(tags []Tag, i int) Role {
	t := tags[i]
	switch {
	case t.IsVowel():
		return Peak
	case t.PrevVowel < 0 && t.NextVowel < 0:
		return Unsyllabified
	case t.PrevVowel < 0:
		return Onset
	case t.NextVowel < 0:
		return Coda
	case t.NextVowel == i+1:
		return Onset
	default:
		return Coda
	}
}
