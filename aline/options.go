package aline

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/phonalign/features"
	"github.com/katalvlaran/phonalign/scoring"
)

// DefaultMaxAlignments is the default cap on returned alignments.
const DefaultMaxAlignments = 10

// Options configures an Aligner.
//
// Gap                 – score of one insertion/deletion. Must be ≤ 0. Default −10.
// CrossClass          – score of a vowel/consonant substitution. Must be ≤ 0. Default −15.
// CompressionDiscount – scale for expansion/compression. Must be in (0,1]. Default 1.
// MaxAlignments       – cap on returned alignments. Must be ≥ 1. Default 10.
// Harmony             – add HarmonyWeight to harmonic vowel pairs. Default false.
// HarmonyWeight       – harmony bonus. Must be in [0,10]. Default 5.
// Floor               – lowest same-class substitution score. Must be ≤ 0. Default −100.
// Epsilon             – also return alignments within ε·|best| of the best. Must be in [0,1). Default 0.
// RequireNonEmpty     – reject two empty sequences with ErrEmptyInput. Default false.
// MaxLengthProduct    – reject inputs with m·n above it; 0 disables. Default 0.
// KeepMatrix          – attach the filled matrix to the Result. Default false.
// Table               – feature table; nil selects features.Kondrak().
// Logger              – debug sink; nil discards.
type Options struct {
	Gap                 float64
	CrossClass          float64
	CompressionDiscount float64
	MaxAlignments       int
	Harmony             bool
	HarmonyWeight       float64
	Floor               float64
	Epsilon             float64
	RequireNonEmpty     bool
	MaxLengthProduct    int
	KeepMatrix          bool
	Table               *features.Table
	Logger              *slog.Logger
}

// Option represents a functional option for configuring an Aligner.
type Option func(*Options)

// DefaultOptions returns Kondrak's published constants with harmony off.
func DefaultOptions() Options {
	return Options{
		Gap:                 scoring.DefaultGap,
		CrossClass:          scoring.DefaultCrossClass,
		CompressionDiscount: scoring.DefaultCompressionDiscount,
		MaxAlignments:       DefaultMaxAlignments,
		Harmony:             false,
		HarmonyWeight:       scoring.DefaultHarmonyBonus,
		Floor:               scoring.DefaultFloor,
	}
}

// WithGapPenalty sets the (non-positive) score of one insertion or deletion.
func WithGapPenalty(gap float64) Option {
	return func(o *Options) { o.Gap = gap }
}

// WithCrossClassPenalty sets the score of pairing a vowel with a consonant.
func WithCrossClassPenalty(p float64) Option {
	return func(o *Options) { o.CrossClass = p }
}

// WithCompressionDiscount scales positive expansion/compression scores.
func WithCompressionDiscount(d float64) Option {
	return func(o *Options) { o.CompressionDiscount = d }
}

// WithMaxAlignments caps the number of returned alignments.
func WithMaxAlignments(n int) Option {
	return func(o *Options) { o.MaxAlignments = n }
}

// WithHarmonyBonus enables or disables the vowel-harmony bonus.
func WithHarmonyBonus(enable bool) Option {
	return func(o *Options) { o.Harmony = enable }
}

// WithHarmonyWeight sets the size of the harmony bonus.
func WithHarmonyWeight(w float64) Option {
	return func(o *Options) { o.HarmonyWeight = w }
}

// WithFeatureTable replaces the default Kondrak inventory.
func WithFeatureTable(t *features.Table) Option {
	return func(o *Options) { o.Table = t }
}

// WithScoreFloor sets the lowest score a same-class substitution can reach.
func WithScoreFloor(f float64) Option {
	return func(o *Options) { o.Floor = f }
}

// WithEpsilon enables near-optimal retrieval.
func WithEpsilon(eps float64) Option {
	return func(o *Options) { o.Epsilon = eps }
}

// WithRequireNonEmpty makes align([], []) fail with ErrEmptyInput.
func WithRequireNonEmpty(req bool) Option {
	return func(o *Options) { o.RequireNonEmpty = req }
}

// WithMaxLengthProduct bounds len(source)·len(target); 0 means unbounded.
func WithMaxLengthProduct(n int) Option {
	return func(o *Options) { o.MaxLengthProduct = n }
}

// WithMatrix attaches the filled DP matrix to every Result.
func WithMatrix(keep bool) Option {
	return func(o *Options) { o.KeepMatrix = keep }
}

// WithLogger sets a logger for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// params maps the alignment options onto scorer parameters.
func (o Options) params() scoring.Params {
	p := scoring.DefaultParams()
	p.Gap = o.Gap
	p.CrossClass = o.CrossClass
	p.Floor = o.Floor
	p.CompressionDiscount = o.CompressionDiscount
	p.Harmony = o.Harmony
	p.HarmonyBonus = o.HarmonyWeight

	return p
}

// validate checks the options that the scorer does not own.
func (o Options) validate() error {
	switch {
	case o.MaxAlignments < 1:
		return fmt.Errorf("%w: MaxAlignments must be ≥ 1, got %d", ErrInvalidConfiguration, o.MaxAlignments)
	case !(o.Epsilon >= 0 && o.Epsilon < 1):
		return fmt.Errorf("%w: Epsilon must be in [0,1), got %g", ErrInvalidConfiguration, o.Epsilon)
	case o.MaxLengthProduct < 0:
		return fmt.Errorf("%w: MaxLengthProduct must be ≥ 0, got %d", ErrInvalidConfiguration, o.MaxLengthProduct)
	}

	return nil
}
