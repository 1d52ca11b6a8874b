// Package contextual annotates each position of a phoneme sequence with the
// context the scorer needs: syllabic role, nearest vowels on either side, and
// the vowel-harmony link across an intervening consonant cluster.
//
// Annotation is a pure pre-pass. It runs once per sequence before the
// alignment matrix is filled, so the DP loop only reads precomputed tags.
//
// Roles:
//
//	Peak          — a vowel.
//	Onset         — a consonant in a word-initial cluster, or the last
//	                consonant of a medial cluster.
//	Coda          — a consonant in a word-final cluster, or any non-final
//	                consonant of a medial cluster.
//	Unsyllabified — a consonant in a sequence with no vowel at all.
//
// Harmony:
//
//	A vowel's HarmonyLink is the nearest preceding vowel, provided at least
//	one consonant stands between them; adjacent vowels (hiatus) are not
//	linked. Harmonic reports whether the two agree in the harmony feature
//	(backness by default).
//
// Complexity: O(n) time and memory.
package contextual
