// Package features maps phoneme symbols to articulatory feature vectors and
// per-class salience weights, the static data every ALINE comparison reads.
//
// 🚀 What is a feature table?
//
//	Each phoneme is described by a fixed set of multivalued features
//	(place, manner, voice, nasal, high, back, …) on a 0.0–1.0 scale.
//	Two salience tables, one for consonants and one for vowels, say how
//	much each feature contributes to perceived similarity.
//
// ✨ Key features:
//   - Kondrak(): the a–z inventory from Kondrak (2002), built once
//   - New(Definition): construct an alternate inventory (per language)
//   - LoadYAML / LoadCSV / LoadSQL: build a Table from external sources
//   - Segment(word): split a string into known symbols (longest match)
//   - Symbols are NFC-normalized, so "é" and "é" resolve the same
//
// ⚙️ Usage:
//
//	tbl := features.Kondrak()
//	v, err := tbl.Resolve("t")
//	if err != nil {
//	    // *features.UnknownSymbolError
//	}
//	fmt.Println(v.Class, v.Value(features.Place))
//
// Guarantees:
//   - A *Table is immutable after construction and safe for concurrent reads.
//   - Every feature weighted in a class's salience table is defined for every
//     phoneme of that class (validated by New).
//
// Errors (sentinel):
//   - ErrUnknownSymbol      — symbol absent from the table (see UnknownSymbolError).
//   - ErrInvalidDefinition  — malformed Definition (empty, bad class, bad weights).
//   - ErrDuplicateSymbol    — the same (normalized) symbol defined twice.
//   - ErrUnknownFeature     — a feature name outside the known feature set.
//   - ErrMissingFeature     — a phoneme lacks a feature its class salience needs.
//   - ErrValueOutOfRange    — a feature value outside [0,1].
package features
