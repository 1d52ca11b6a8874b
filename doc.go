// Package phonalign aligns phoneme sequences by articulatory similarity,
// following Kondrak's ALINE algorithm.
//
// 🚀 What is phonalign?
//
//	A small, pure-Go toolkit for historical and comparative linguistics:
//		• Feature tables: phonemes as multivalued feature vectors with
//		  per-class salience weights (Kondrak 2002 inventory built in)
//		• Loaders: Go definitions, YAML, CSV and SQL sources
//		• Context analysis: syllabic roles and vowel-harmony links
//		• Scoring: substitution, skip, expansion/compression, harmony bonus
//		• Alignment: all co-optimal alignments, near-optimal retrieval,
//		  bounded-concurrency batches
//
// ✨ Why phonalign?
//
//   - p/f and t/d are close, p/a is not: scores reflect articulation
//   - Every optimal analysis, in a deterministic order
//   - Alternate inventories per language, swapped in wholesale
//   - Immutable tables and aligners, safe to share across goroutines
//
// Packages:
//
//	features/   — feature vectors, salience tables, loaders, segmentation
//	contextual/ — per-position context tags
//	scoring/    — ALINE similarity functions
//	aline/      — dynamic-programming alignment and results
//
// Quick example:
//
//	res, _ := aline.Align([]string{"p","a","t","e","r"}, []string{"f","a","d","a","r"})
//	fmt.Println(res.Best())
//
//	p a t e r
//	f a d a r
//
//	go get github.com/katalvlaran/phonalign/aline
package phonalign
