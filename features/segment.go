package features

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Segment splits word into inventory symbols by greedy longest match, so a
// table that defines both "t" and "ts" reads "tsa" as ["ts", "a"].
//
// The word is NFC-normalized first; whitespace is skipped. An unmatched rune
// yields *UnknownSymbolError whose Position is the rune offset in the
// normalized word.
//
// Complexity: O(R·L) for R runes and longest symbol length L.
func (t *Table) Segment(word string) ([]string, error) {
	runes := []rune(norm.NFC.String(word))
	out := make([]string, 0, len(runes))

	var i, l int
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		// Try the longest candidate first.
		matched := 0
		for l = min(t.maxRunes, len(runes)-i); l > 0; l-- {
			if _, ok := t.phonemes[string(runes[i:i+l])]; ok {
				matched = l
				break
			}
		}
		if matched == 0 {
			return nil, &UnknownSymbolError{Symbol: string(runes[i]), Position: i}
		}

		out = append(out, string(runes[i:i+matched]))
		i += matched
	}

	return out, nil
}
