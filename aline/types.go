package aline

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sentinel errors returned by the aline package.
var (
	// ErrInvalidConfiguration indicates an option outside its valid range.
	// Scorer parameter errors (scoring.ErrInvalidParams) are wrapped by it.
	ErrInvalidConfiguration = errors.New("aline: invalid configuration")

	// ErrSequenceTooLarge indicates that len(source)·len(target) exceeds
	// the configured MaxLengthProduct.
	ErrSequenceTooLarge = errors.New("aline: sequence length product too large")

	// ErrEmptyInput indicates two empty sequences while RequireNonEmpty is set.
	ErrEmptyInput = errors.New("aline: both sequences are empty")
)

// Op is the kind of one correspondence in an alignment.
type Op uint8

const (
	// Match pairs two identical symbols.
	Match Op = iota
	// Substitution pairs two different symbols.
	Substitution
	// Deletion consumes one source symbol against a gap.
	Deletion
	// Insertion consumes one target symbol against a gap.
	Insertion
	// Expansion pairs two source symbols with one target symbol.
	Expansion
	// Compression pairs one source symbol with two target symbols.
	Compression
)

// String returns the lower-case operation name.
func (o Op) String() string {
	switch o {
	case Match:
		return "match"
	case Substitution:
		return "substitution"
	case Deletion:
		return "deletion"
	case Insertion:
		return "insertion"
	case Expansion:
		return "expansion"
	case Compression:
		return "compression"
	default:
		return fmt.Sprintf("Op(%d)", uint8(o))
	}
}

// Pair is one correspondence: the source and target positions it consumes,
// their symbols, and its contribution to the total score. Score includes
// Bonus, the harmony share of it.
type Pair struct {
	Op            Op
	Source        []int
	Target        []int
	SourceSymbols []string
	TargetSymbols []string
	Score         float64
	Bonus         float64
}

// Alignment is an ordered list of pairs covering both sequences exactly once.
type Alignment struct {
	Pairs []Pair
	Score float64
}

// SourcePositions concatenates the source positions of every pair.
// For a valid alignment the result is 0..len(source)-1.
func (a Alignment) SourcePositions() []int {
	out := make([]int, 0, len(a.Pairs))
	for _, p := range a.Pairs {
		out = append(out, p.Source...)
	}

	return out
}

// TargetPositions concatenates the target positions of every pair.
func (a Alignment) TargetPositions() []int {
	out := make([]int, 0, len(a.Pairs))
	for _, p := range a.Pairs {
		out = append(out, p.Target...)
	}

	return out
}

// String renders the alignment as two rows, source over target, one column
// per pair. Gaps print as "-"; the symbols of an expansion or compression
// are joined without a separator.
func (a Alignment) String() string {
	var top, bottom strings.Builder
	for k, p := range a.Pairs {
		s, t := cellText(p.SourceSymbols), cellText(p.TargetSymbols)
		w := max(utf8.RuneCountInString(s), utf8.RuneCountInString(t))
		if k > 0 {
			top.WriteByte(' ')
			bottom.WriteByte(' ')
		}
		top.WriteString(pad(s, w))
		bottom.WriteString(pad(t, w))
	}

	return strings.TrimRight(top.String(), " ") + "\n" + strings.TrimRight(bottom.String(), " ")
}

func cellText(syms []string) string {
	if len(syms) == 0 {
		return "-"
	}

	return strings.Join(syms, "")
}

func pad(s string, w int) string {
	if n := utf8.RuneCountInString(s); n < w {
		return s + strings.Repeat(" ", w-n)
	}

	return s
}

// Result is the outcome of one Align call. It is read-only.
//
//   - Alignments  — optimal alignments in backtrace order, then (with
//     Epsilon > 0) the best-scoring near-optimal ones, by descending score.
//   - Score       — the optimal total score.
//   - SourceSelf  — score of aligning Source with itself; TargetSelf likewise.
//   - Truncated   — more alignments qualified than MaxAlignments allowed.
//   - Matrix      — the filled DP matrix, only when WithMatrix(true).
type Result struct {
	Source     []string
	Target     []string
	Alignments []Alignment
	Score      float64
	SourceSelf float64
	TargetSelf float64
	Truncated  bool
	Matrix     *Matrix
}

// Best returns the first optimal alignment.
func (r *Result) Best() Alignment {
	if len(r.Alignments) == 0 {
		return Alignment{}
	}

	return r.Alignments[0]
}

// Normalized returns Score divided by the larger self score, or 0 when
// neither sequence has a positive self score.
func (r *Result) Normalized() float64 {
	den := max(r.SourceSelf, r.TargetSelf)
	if den <= 0 {
		return 0
	}

	return r.Score / den
}
