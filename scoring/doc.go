// Package scoring implements the ALINE similarity functions over feature
// vectors: substitution, skip, and expansion/compression, together with the
// cross-class penalty, score floor, compression discount and vowel-harmony
// bonus.
//
// 🚀 Scores are similarities: higher is better. Identical segments score the
// class maximum; gaps and dissimilar segments score below zero.
//
//	σ_sub(p,q)     = Sub − δ(p,q) − V(p) − V(q)          (same class)
//	σ_sub(p,q)     = CrossClass                          (vowel vs consonant)
//	σ_skip(p)      = Gap
//	σ_exp(p,q1q2)  = Exp − δ(p,q1) − δ(p,q2) − V(p) − max(V(q1),V(q2))
//	δ(p,q)         = Σ_{f ∈ R(class)} salience(f)·|p_f − q_f|
//	V(p)           = Vowel if p is a vowel, 0 otherwise
//
// Expand never exceeds the two substitutions it replaces, nor half the self
// scores of its three segments plus one Gap.
//
// Constants follow Kondrak (2002): Sub=35, Exp=45, Vowel=10, Gap=−10.
//
// ⚙️ Usage:
//
//	s, err := scoring.New(features.Kondrak(), scoring.DefaultParams())
//	t, _ := features.Kondrak().Resolve("t")
//	d, _ := features.Kondrak().Resolve("d")
//	fmt.Println(s.Substitute(t, d)) // 25
//
// Errors (sentinel):
//   - ErrInvalidParams — a Params field outside its range.
//   - ErrNilTable      — New called without a feature table.
package scoring
