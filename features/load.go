package features

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultSQLQuery is the query LoadSQL runs when none is given. It expects a
// long-format table with one row per (phoneme, feature) value.
const DefaultSQLQuery = `SELECT symbol, class, feature, value FROM phoneme_features ORDER BY symbol, feature`

// LoadYAML decodes a Definition from r and builds a Table.
// Unknown keys are rejected so that typos in feature files surface early.
func LoadYAML(r io.Reader) (*Table, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrInvalidDefinition, err)
	}

	return New(def)
}

// LoadCSV reads phoneme rows from r and builds a Table using the salience
// tables, scale and name of base (base.Phonemes is ignored).
//
// Layout: the header row is `symbol[,class],<feature>...`; each following row
// describes one phoneme. Empty cells leave a feature undefined. Lines
// starting with '#' are comments.
func LoadCSV(r io.Reader, base Definition) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: csv header: %w", ErrInvalidDefinition, err)
	}
	if len(header) == 0 || normalizeName(header[0]) != "symbol" {
		return nil, fmt.Errorf("%w: csv header must start with \"symbol\"", ErrInvalidDefinition)
	}

	// Column layout
	classCol := -1
	featureCols := make(map[int]string, len(header))
	var (
		i   int
		col string
	)
	for i, col = range header[1:] {
		name := normalizeName(col)
		if name == "class" {
			classCol = i + 1
			continue
		}
		if _, err = ParseFeature(name); err != nil {
			return nil, fmt.Errorf("csv header: %w", err)
		}
		featureCols[i+1] = name
	}

	def := base
	def.Phonemes = nil
	line := 1
	for {
		rec, rerr := cr.Read()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return nil, fmt.Errorf("%w: csv: %w", ErrInvalidDefinition, rerr)
		}
		line++

		pd := PhonemeDef{Symbol: rec[0], Features: make(map[string]string, len(featureCols))}
		if classCol > 0 && classCol < len(rec) {
			pd.Class = rec[classCol]
		}
		for i, col = range featureCols {
			if i >= len(rec) || strings.TrimSpace(rec[i]) == "" {
				continue
			}
			pd.Features[col] = rec[i]
		}
		if strings.TrimSpace(pd.Symbol) == "" {
			return nil, fmt.Errorf("%w: csv line %d: empty symbol", ErrInvalidDefinition, line)
		}
		def.Phonemes = append(def.Phonemes, pd)
	}

	return New(def)
}

// LoadSQL runs query against db and builds a Table from its rows, using the
// salience tables, scale and name of base. Rows must yield
// (symbol, class, feature, value); class may be NULL or empty, in which case
// it is inferred from syllabic. An empty query means DefaultSQLQuery.
func LoadSQL(ctx context.Context, db *sql.DB, query string, base Definition) (*Table, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: db is nil", ErrInvalidDefinition)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultSQLQuery
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("features: query: %w", err)
	}
	defer rows.Close()

	// Rows arrive in long format; keep first-seen symbol order.
	index := make(map[string]int)
	var defs []PhonemeDef
	for rows.Next() {
		var (
			symbol, feature, value string
			class                  sql.NullString
		)
		if err = rows.Scan(&symbol, &class, &feature, &value); err != nil {
			return nil, fmt.Errorf("features: scan: %w", err)
		}
		k, ok := index[symbol]
		if !ok {
			k = len(defs)
			index[symbol] = k
			defs = append(defs, PhonemeDef{Symbol: symbol, Features: make(map[string]string)})
		}
		if class.Valid && strings.TrimSpace(class.String) != "" {
			defs[k].Class = class.String
		}
		defs[k].Features[feature] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("features: rows: %w", err)
	}

	def := base
	def.Phonemes = defs

	return New(def)
}
