package aline

import (
	"container/heap"
	"fmt"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/katalvlaran/phonalign/contextual"
	"github.com/katalvlaran/phonalign/features"
	"github.com/katalvlaran/phonalign/internal/grid"
	"github.com/katalvlaran/phonalign/scoring"
)

// tieTol is the tolerance under which two cumulative scores are equal.
const tieTol = 1e-9

// move is one DP transition into a cell, in backtrace preference order.
type move uint8

const (
	moveSub move = iota
	moveDel
	moveIns
	moveExp
	moveComp
	numMoves
)

func (mv move) bit() uint8 { return 1 << mv }

// op maps a move onto the public operation (Match is decided per pair).
func (mv move) op() Op {
	switch mv {
	case moveDel:
		return Deletion
	case moveIns:
		return Insertion
	case moveExp:
		return Expansion
	case moveComp:
		return Compression
	default:
		return Substitution
	}
}

// cell is one DP entry: the best prefix score and every move achieving it.
type cell struct {
	score float64
	moves uint8
}

// Aligner aligns phoneme sequences with a fixed configuration.
// It is immutable after NewAligner and safe for concurrent use.
type Aligner struct {
	opts   Options
	table  *features.Table
	scorer *scoring.Scorer
	log    *slog.Logger
}

// NewAligner applies opts over DefaultOptions and validates the result.
// Every configuration error wraps ErrInvalidConfiguration.
func NewAligner(opts ...Option) (*Aligner, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	tbl := o.Table
	if tbl == nil {
		tbl = features.Kondrak()
	}
	sc, err := scoring.New(tbl, o.params())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	log := o.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Aligner{opts: o, table: tbl, scorer: sc, log: log}, nil
}

// Align is a convenience wrapper: NewAligner(opts...) then Align.
func Align(source, target []string, opts ...Option) (*Result, error) {
	a, err := NewAligner(opts...)
	if err != nil {
		return nil, err
	}

	return a.Align(source, target)
}

// Options returns the effective configuration.
func (a *Aligner) Options() Options { return a.opts }

// Table returns the feature table the aligner resolves symbols against.
func (a *Aligner) Table() *features.Table { return a.table }

// Align computes every optimal alignment of source with target, up to
// MaxAlignments, plus near-optimal ones when Epsilon > 0.
//
// Steps:
//  1. Resolve both sequences (unknown symbols abort the call).
//  2. Annotate context for the harmony bonus.
//  3. Fill the (m+1)×(n+1) matrix, keeping every tied move per cell.
//  4. Walk tied moves depth-first from (m,n) in the order substitution,
//     deletion, insertion, expansion, compression.
//  5. With Epsilon > 0, walk again with branch-and-bound for alignments
//     scoring at least best − ε·|best|, keeping the highest-scoring ones
//     that fit under MaxAlignments.
//
// Complexity: O(m·n) time and memory for the fill; O(k·(m+n)) for k
// returned alignments.
func (a *Aligner) Align(source, target []string) (*Result, error) {
	m, n := len(source), len(target)
	if m == 0 && n == 0 && a.opts.RequireNonEmpty {
		return nil, ErrEmptyInput
	}
	if a.opts.MaxLengthProduct > 0 && m*n > a.opts.MaxLengthProduct {
		return nil, fmt.Errorf("%w: %d×%d exceeds %d", ErrSequenceTooLarge, m, n, a.opts.MaxLengthProduct)
	}

	src, err := a.table.ResolveSequence(source)
	if err != nil {
		return nil, fmt.Errorf("aline: source: %w", err)
	}
	tgt, err := a.table.ResolveSequence(target)
	if err != nil {
		return nil, fmt.Errorf("aline: target: %w", err)
	}

	p := &problem{
		sc:      a.scorer,
		src:     src,
		tgt:     tgt,
		srcSyms: source,
		tgtSyms: target,
		srcTags: contextual.Annotate(src),
		tgtTags: contextual.Annotate(tgt),
	}
	if err = p.fill(); err != nil {
		return nil, err
	}
	best := p.d.Ref(m, n).score
	a.log.Debug("aline: matrix filled", "rows", m+1, "cols", n+1, "score", best)

	w := &walker{p: p, limit: a.opts.MaxAlignments}
	w.exact(m, n)
	alignments, truncated := w.out, w.more

	threshold := best - a.opts.Epsilon*math.Abs(best)
	if !truncated && threshold < best-tieTol {
		nw := &walker{p: p, limit: a.opts.MaxAlignments - len(alignments), best: best, threshold: threshold}
		nw.near(m, n, 0)
		alignments = append(alignments, nw.sorted()...)
		truncated = nw.more
	}
	if truncated {
		a.log.Debug("aline: alignments truncated", "limit", a.opts.MaxAlignments)
	}

	res := &Result{
		Source:     slices.Clone(source),
		Target:     slices.Clone(target),
		Alignments: alignments,
		Score:      best,
		SourceSelf: p.selfScore(src, p.srcTags),
		TargetSelf: p.selfScore(tgt, p.tgtTags),
		Truncated:  truncated,
	}
	if a.opts.KeepMatrix {
		res.Matrix = &Matrix{d: p.d}
	}

	return res, nil
}

// problem is the per-call state: resolved sequences, their context and the matrix.
type problem struct {
	sc               *scoring.Scorer
	src, tgt         []features.Vector
	srcSyms, tgtSyms []string
	srcTags, tgtTags []contextual.Tag
	d                *grid.Dense[cell]
}

// legal reports whether mv can enter cell (i,j).
func (p *problem) legal(mv move, i, j int) bool {
	switch mv {
	case moveSub:
		return i >= 1 && j >= 1
	case moveDel:
		return i >= 1
	case moveIns:
		return j >= 1
	case moveExp:
		return i >= 2 && j >= 1
	case moveComp:
		return i >= 1 && j >= 2
	}

	return false
}

// from returns the predecessor of (i,j) under mv.
func from(mv move, i, j int) (int, int) {
	switch mv {
	case moveSub:
		return i - 1, j - 1
	case moveDel:
		return i - 1, j
	case moveIns:
		return i, j - 1
	case moveExp:
		return i - 2, j - 1
	default:
		return i - 1, j - 2
	}
}

// pairScore is the score of the correspondence mv consumes to enter (i,j).
func (p *problem) pairScore(mv move, i, j int) float64 {
	switch mv {
	case moveSub:
		return p.sc.SubstituteAt(p.src[i-1], p.tgt[j-1], p.srcTags[i-1], p.tgtTags[j-1])
	case moveDel, moveIns:
		return p.sc.Skip()
	case moveExp:
		return p.sc.Expand(p.tgt[j-1], p.src[i-2], p.src[i-1])
	default:
		return p.sc.Expand(p.src[i-1], p.tgt[j-2], p.tgt[j-1])
	}
}

// fill computes every cell in row-major order.
func (p *problem) fill() error {
	// Stage 1: allocate the (m+1)×(n+1) matrix; (0,0) stays the zero cell.
	m, n := len(p.src), len(p.tgt)
	d, err := grid.New[cell](m+1, n+1)
	if err != nil {
		return fmt.Errorf("aline: matrix: %w", err)
	}
	p.d = d

	// Stage 2: each cell takes the best legal move and records every move
	// tied with it. Row 0 and column 0 only admit skips.
	for i := 0; i <= m; i++ {
		for j := 0; j <= n; j++ {
			if i == 0 && j == 0 {
				continue
			}
			best := math.Inf(-1)
			var moves uint8
			for mv := moveSub; mv < numMoves; mv++ {
				if !p.legal(mv, i, j) {
					continue
				}
				pi, pj := from(mv, i, j)
				v := d.Ref(pi, pj).score + p.pairScore(mv, i, j)
				switch {
				case v > best+tieTol:
					best, moves = v, mv.bit()
				case v >= best-tieTol:
					best = math.Max(best, v)
					moves |= mv.bit()
				}
			}
			if err = d.Set(i, j, cell{score: best, moves: moves}); err != nil {
				return fmt.Errorf("aline: matrix: %w", err)
			}
		}
	}

	return nil
}

// pair builds the correspondence mv consumes to enter (i,j).
func (p *problem) pair(mv move, i, j int) Pair {
	var pr Pair
	switch mv {
	case moveSub:
		pr.Source, pr.Target = []int{i - 1}, []int{j - 1}
		pr.Bonus = p.sc.Bonus(p.src[i-1], p.tgt[j-1], p.srcTags[i-1], p.tgtTags[j-1])
	case moveDel:
		pr.Source = []int{i - 1}
	case moveIns:
		pr.Target = []int{j - 1}
	case moveExp:
		pr.Source, pr.Target = []int{i - 2, i - 1}, []int{j - 1}
	case moveComp:
		pr.Source, pr.Target = []int{i - 1}, []int{j - 2, j - 1}
	}
	pr.Op = mv.op()
	if mv == moveSub && p.src[i-1].Symbol == p.tgt[j-1].Symbol {
		pr.Op = Match
	}
	pr.SourceSymbols = pick(p.srcSyms, pr.Source)
	pr.TargetSymbols = pick(p.tgtSyms, pr.Target)
	pr.Score = p.pairScore(mv, i, j)

	return pr
}

func pick(syms []string, idx []int) []string {
	if len(idx) == 0 {
		return nil
	}
	out := make([]string, len(idx))
	for k, x := range idx {
		out[k] = syms[x]
	}

	return out
}

func (p *problem) selfScore(seq []features.Vector, tags []contextual.Tag) float64 {
	var s float64
	for k := range seq {
		s += p.sc.Self(seq[k], tags[k])
	}

	return s
}

// walker enumerates backtrace paths depth-first. stack holds the pairs of
// the current path from (m,n) backwards.
type walker struct {
	p     *problem
	limit int
	out   []Alignment
	more  bool
	stack []Pair

	// near-optimal walk only
	best, threshold float64
	kept            rankHeap
	seq             int
}

// path returns the current stack as a left-to-right alignment.
func (w *walker) path() Alignment {
	pairs := make([]Pair, len(w.stack))
	var total float64
	for k := range w.stack {
		pairs[k] = w.stack[len(w.stack)-1-k]
		total += pairs[k].Score
	}

	return Alignment{Pairs: pairs, Score: total}
}

// emit records the current path. It reports false once limit alignments
// are held and another is found.
func (w *walker) emit() bool {
	if len(w.out) >= w.limit {
		w.more = true
		return false
	}
	w.out = append(w.out, w.path())

	return true
}

// exact follows stored tied moves only.
func (w *walker) exact(i, j int) bool {
	// Step 1: (0,0) closes a path.
	if i == 0 && j == 0 {
		return w.emit()
	}
	// Step 2: branch on each tied move in preference order, stopping as
	// soon as the limit is hit.
	moves := w.p.d.Ref(i, j).moves
	for mv := moveSub; mv < numMoves; mv++ {
		if moves&mv.bit() == 0 {
			continue
		}
		w.stack = append(w.stack, w.p.pair(mv, i, j))
		pi, pj := from(mv, i, j)
		ok := w.exact(pi, pj)
		w.stack = w.stack[:len(w.stack)-1]
		if !ok {
			return false
		}
	}

	return true
}

// offer keeps the current path if it ranks among the limit best seen.
// It reports false only when limit is zero.
func (w *walker) offer() bool {
	if w.limit <= 0 {
		w.more = true
		return false
	}
	w.seq++
	r := ranked{al: w.path(), seq: w.seq}
	if len(w.kept) < w.limit {
		heap.Push(&w.kept, r)
		return true
	}
	w.more = true
	if r.compare(w.kept[0]) < 0 {
		w.kept[0] = r
		heap.Fix(&w.kept, 0)
	}

	return true
}

// near follows every legal move whose best completion still reaches the
// threshold, offering strictly suboptimal paths. suffix is the score of
// the pairs already on the stack.
func (w *walker) near(i, j int, suffix float64) bool {
	if i == 0 && j == 0 {
		if suffix >= w.best-tieTol {
			return true
		}
		return w.offer()
	}
	for mv := moveSub; mv < numMoves; mv++ {
		if !w.p.legal(mv, i, j) {
			continue
		}
		pi, pj := from(mv, i, j)
		ps := w.p.pairScore(mv, i, j)
		bound := w.p.d.Ref(pi, pj).score + ps + suffix
		if bound < w.threshold-tieTol {
			continue
		}
		// A full heap only admits paths above its worst entry. The pruned
		// branch still holds a qualifying path scoring exactly bound.
		if len(w.kept) > 0 && len(w.kept) == w.limit && bound < w.kept[0].al.Score-tieTol {
			w.more = true
			continue
		}
		w.stack = append(w.stack, w.p.pair(mv, i, j))
		ok := w.near(pi, pj, suffix+ps)
		w.stack = w.stack[:len(w.stack)-1]
		if !ok {
			return false
		}
	}

	return true
}

// sorted returns the kept near-optimal alignments, best first and in
// discovery order among equal scores.
func (w *walker) sorted() []Alignment {
	slices.SortFunc(w.kept, ranked.compare)
	out := make([]Alignment, len(w.kept))
	for k, r := range w.kept {
		out[k] = r.al
	}

	return out
}
