// Package aline aligns two phoneme sequences with Kondrak's ALINE
// algorithm: a global dynamic-programming alignment whose scores come from
// articulatory feature similarity rather than symbol identity.
//
// 🚀 What does it compute?
//
//	For source s (length m) and target t (length n) it fills an
//	(m+1)×(n+1) matrix where cell (i,j) is the best score of aligning
//	s[:i] with t[:j]:
//
//	  D[0][0] = 0,  D[i][0] = i·gap,  D[0][j] = j·gap
//	  D[i][j] = max(
//	      D[i-1][j-1] + σ_sub(s[i-1], t[j-1])          substitution / match
//	      D[i-1][j]   + gap                            deletion
//	      D[i][j-1]   + gap                            insertion
//	      D[i-2][j-1] + σ_exp(t[j-1], s[i-2]s[i-1])     expansion   (2 : 1)
//	      D[i-1][j-2] + σ_exp(s[i-1], t[j-2]t[j-1])     compression (1 : 2)
//	  )
//
//	Every move within 1e-9 of the maximum is kept, so the backtrace can
//	enumerate all optimal alignments, not an arbitrary one.
//
// ✨ Key features:
//   - All co-optimal alignments, capped by MaxAlignments (Result.Truncated).
//   - Deterministic order: depth-first from (m,n), moves tried as
//     substitution, deletion, insertion, expansion, compression.
//   - Near-optimal retrieval: WithEpsilon(ε) adds alignments scoring at
//     least best − ε·|best|.
//   - Optional vowel-harmony bonus (contextual + scoring packages).
//   - Self scores and a Normalized() similarity.
//   - AlignAll: bounded-concurrency batch alignment.
//
// ⚙️ Usage:
//
//	res, err := aline.Align(
//	    []string{"t", "a", "t"},
//	    []string{"t", "a", "t", "a"},
//	    aline.WithMaxAlignments(5),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Score)          // 75
//	fmt.Println(res.Best().String())
//
// Concurrency:
//   - An *Aligner is immutable; Align may be called from many goroutines.
//   - Each call owns its matrix; nothing is cached between calls.
//
// Complexity:
//
//	Time   = O(m·n) fill + O(k·(m+n)) for k returned alignments
//	Memory = O(m·n)
//
// Errors:
//   - *features.UnknownSymbolError (errors.Is features.ErrUnknownSymbol),
//     prefixed with the side ("source" or "target").
//   - ErrInvalidConfiguration — bad option; scorer errors are wrapped.
//   - ErrSequenceTooLarge     — m·n above WithMaxLengthProduct.
//   - ErrEmptyInput           — align([], []) with WithRequireNonEmpty(true).
package aline
