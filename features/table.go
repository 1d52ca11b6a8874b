package features

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Table is an immutable phoneme inventory. Construct it with New, one of the
// loaders, or Kondrak; share the pointer freely across goroutines.
type Table struct {
	name     string
	phonemes map[string]Vector
	symbols  []string // sorted
	maxRunes int      // longest symbol, in runes (for Segment)
	salience [2]Salience
}

var (
	kondrakOnce  sync.Once
	kondrakTable *Table
)

// Kondrak returns the shared default table built from KondrakDefinition.
// The table is constructed on first use and never mutated afterwards.
func Kondrak() *Table {
	kondrakOnce.Do(func() {
		t, err := New(KondrakDefinition())
		if err != nil {
			// The built-in definition is always valid.
			panic(err)
		}
		kondrakTable = t
	})

	return kondrakTable
}

// New validates def and builds a Table.
//
// Validation order:
//  1. The inventory is non-empty.
//  2. Both salience tables parse, are non-negative and carry a positive weight.
//  3. Every phoneme has a unique non-empty symbol (after NFC normalization),
//     known feature names, values in [0,1] and a resolvable class.
//  4. Every feature weighted by a phoneme's class salience is defined for it.
//
// Complexity: O(P·F) for P phonemes and F features.
func New(def Definition) (*Table, error) {
	// 1) Inventory must be non-empty
	if len(def.Phonemes) == 0 {
		return nil, fmt.Errorf("%w: no phonemes", ErrInvalidDefinition)
	}

	// 2) Salience tables
	cons, err := parseSalience(Consonant, def.Salience.Consonant)
	if err != nil {
		return nil, err
	}
	vow, err := parseSalience(Vowel, def.Salience.Vowel)
	if err != nil {
		return nil, err
	}

	scale := KondrakScale()
	for k, v := range def.Scale {
		scale[normalizeName(k)] = v
	}

	t := &Table{
		name:     def.Name,
		phonemes: make(map[string]Vector, len(def.Phonemes)),
		symbols:  make([]string, 0, len(def.Phonemes)),
		salience: [2]Salience{Consonant: cons, Vowel: vow},
	}

	// 3) Phoneme rows
	var (
		pd PhonemeDef
		v  Vector
	)
	for _, pd = range def.Phonemes {
		v, err = buildVector(pd, scale)
		if err != nil {
			return nil, err
		}
		if _, dup := t.phonemes[v.Symbol]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSymbol, v.Symbol)
		}

		// 4) Class salience coverage
		var f Feature
		for _, f = range t.salience[v.Class].features {
			if !v.Has(f) {
				return nil, fmt.Errorf("%w: %s %q lacks %s", ErrMissingFeature, v.Class, v.Symbol, f)
			}
		}

		t.phonemes[v.Symbol] = v
		t.symbols = append(t.symbols, v.Symbol)
		if n := utf8.RuneCountInString(v.Symbol); n > t.maxRunes {
			t.maxRunes = n
		}
	}
	sort.Strings(t.symbols)

	return t, nil
}

// parseSalience converts a name→weight map for class c.
func parseSalience(c Class, raw map[string]float64) (Salience, error) {
	w := make(map[Feature]float64, len(raw))
	for name, x := range raw {
		f, err := ParseFeature(name)
		if err != nil {
			return Salience{}, fmt.Errorf("%s salience: %w", c, err)
		}
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Salience{}, fmt.Errorf("%w: %s salience %s is not finite", ErrInvalidDefinition, c, f)
		}
		w[f] = x
	}
	s, err := NewSalience(w)
	if err != nil {
		return Salience{}, err
	}
	if s.Total() <= 0 {
		return Salience{}, fmt.Errorf("%w: %s salience has no positive weight", ErrInvalidDefinition, c)
	}

	return s, nil
}

// buildVector resolves one PhonemeDef against the value scale.
func buildVector(pd PhonemeDef, scale map[string]float64) (Vector, error) {
	sym := normalizeSymbol(pd.Symbol)
	if sym == "" {
		return Vector{}, fmt.Errorf("%w: empty symbol", ErrInvalidDefinition)
	}

	v := Vector{Symbol: sym}
	for name, raw := range pd.Features {
		f, err := ParseFeature(name)
		if err != nil {
			return Vector{}, fmt.Errorf("phoneme %q: %w", sym, err)
		}
		x, err := parseValue(raw, scale)
		if err != nil {
			return Vector{}, fmt.Errorf("phoneme %q, %s: %w", sym, f, err)
		}
		v.set(f, x)
	}

	// Explicit class wins; otherwise syllabic decides.
	if strings.TrimSpace(pd.Class) != "" {
		c, err := ParseClass(pd.Class)
		if err != nil {
			return Vector{}, fmt.Errorf("phoneme %q: %w", sym, err)
		}
		v.Class = c
	} else {
		if !v.Has(Syllabic) {
			return Vector{}, fmt.Errorf("%w: phoneme %q has neither class nor syllabic", ErrInvalidDefinition, sym)
		}
		v.Class = Consonant
		if v.Value(Syllabic) >= 0.5 {
			v.Class = Vowel
		}
	}

	return v, nil
}

// parseValue accepts a scale name or a numeric literal in [0,1].
func parseValue(raw string, scale map[string]float64) (float64, error) {
	key := normalizeName(raw)
	x, ok := scale[key]
	if !ok {
		var err error
		x, err = strconv.ParseFloat(key, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: unknown value %q", ErrInvalidDefinition, raw)
		}
	}
	if math.IsNaN(x) || x < 0 || x > 1 {
		return 0, fmt.Errorf("%w: %q = %g", ErrValueOutOfRange, raw, x)
	}

	return x, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// normalizeSymbol brings a symbol to NFC with surrounding space removed.
func normalizeSymbol(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Name returns the definition name the table was built from.
func (t *Table) Name() string { return t.name }

// Len returns the number of phonemes.
func (t *Table) Len() int { return len(t.symbols) }

// Symbols returns the inventory in sorted order.
func (t *Table) Symbols() []string {
	return append([]string(nil), t.symbols...)
}

// Salience returns the weight table used for comparisons within class c.
func (t *Table) Salience(c Class) Salience {
	if c != Vowel {
		return t.salience[Consonant]
	}

	return t.salience[Vowel]
}

// Has reports whether symbol is in the inventory.
func (t *Table) Has(symbol string) bool {
	_, err := t.Resolve(symbol)

	return err == nil
}

// Resolve returns the feature vector of symbol, or *UnknownSymbolError
// (Position -1) when the symbol is absent.
// Complexity: O(1) for already-normalized input, O(len(symbol)) otherwise.
func (t *Table) Resolve(symbol string) (Vector, error) {
	if v, ok := t.phonemes[symbol]; ok {
		return v, nil
	}
	if v, ok := t.phonemes[normalizeSymbol(symbol)]; ok {
		return v, nil
	}

	return Vector{}, &UnknownSymbolError{Symbol: symbol, Position: -1}
}

// ResolveSequence resolves every symbol of seq. The first unknown symbol
// aborts the call with *UnknownSymbolError carrying its index.
func (t *Table) ResolveSequence(seq []string) ([]Vector, error) {
	out := make([]Vector, len(seq))
	for i, s := range seq {
		v, err := t.Resolve(s)
		if err != nil {
			return nil, &UnknownSymbolError{Symbol: s, Position: i}
		}
		out[i] = v
	}

	return out, nil
}

// Class returns the class of symbol.
func (t *Table) Class(symbol string) (Class, error) {
	v, err := t.Resolve(symbol)
	if err != nil {
		return 0, err
	}

	return v.Class, nil
}
