package features

// Definition is the serializable description of a feature table: two
// salience tables, an optional named-value scale, and the phoneme rows.
// It is the input of New and the shape decoded by LoadYAML.
type Definition struct {
	Name     string             `yaml:"name"`
	Salience SalienceDefinition `yaml:"salience"`
	// Scale maps value names ("bilabial", "stop", "plus", …) to numbers.
	// Entries here extend and override KondrakScale.
	Scale    map[string]float64 `yaml:"scale,omitempty"`
	Phonemes []PhonemeDef       `yaml:"phonemes"`
}

// SalienceDefinition keys weights by feature name, one map per class.
type SalienceDefinition struct {
	Consonant map[string]float64 `yaml:"consonant"`
	Vowel     map[string]float64 `yaml:"vowel"`
}

// PhonemeDef is one row of the table. Feature values are either scale names
// or numeric literals. An empty Class is inferred from the syllabic value.
type PhonemeDef struct {
	Symbol   string            `yaml:"symbol"`
	Class    string            `yaml:"class,omitempty"`
	Features map[string]string `yaml:"features"`
}

// KondrakScale returns the multivalued feature scale of Kondrak (2002: 56).
func KondrakScale() map[string]float64 {
	return map[string]float64{
		// place
		"bilabial":        1.0,
		"labiodental":     0.95,
		"dental":          0.9,
		"alveolar":        0.85,
		"retroflex":       0.8,
		"palato-alveolar": 0.75,
		"palatal":         0.7,
		"velar":           0.6,
		"uvular":          0.5,
		"pharyngeal":      0.3,
		"glottal":         0.1,
		// manner
		"stop":        1.0,
		"affricate":   0.9,
		"fricative":   0.8,
		"approximant": 0.6,
		"high vowel":  0.4,
		"mid vowel":   0.2,
		"low vowel":   0.0,
		// high
		"high": 1.0,
		"mid":  0.5,
		"low":  0.0,
		// back
		"front":   1.0,
		"central": 0.5,
		"back":    0.0,
		// binary
		"plus":  1.0,
		"minus": 0.0,
	}
}

// KondrakDefinition returns a fresh copy of the default inventory: salience
// weights from Kondrak (2002: 55) and the a–z feature rows (2002: 59–60).
// The copy is safe to modify and pass to New as an alternate table.
//
// w and y deviate from that source, which lists both as syllabic vowels
// (y placed velar). Here they are non-syllabic glides in the consonant
// class with "high vowel" manner: w velar, y palatal.
func KondrakDefinition() Definition {
	return Definition{
		Name: "kondrak-2002",
		Salience: SalienceDefinition{
			Consonant: map[string]float64{
				"syllabic":  5,
				"place":     40,
				"manner":    50,
				"voice":     10,
				"nasal":     10,
				"retroflex": 10,
				"lateral":   10,
				"aspirated": 5,
			},
			Vowel: map[string]float64{
				"syllabic":  5,
				"nasal":     10,
				"retroflex": 10,
				"high":      5,
				"back":      5,
				"round":     5,
				"long":      1,
			},
		},
		Phonemes: []PhonemeDef{
			vowelDef("a", "velar", "low vowel", "low", "central", "minus"),
			consonantDef("b", "bilabial", "stop", "plus", "minus", "minus", "minus"),
			consonantDef("c", "alveolar", "stop", "minus", "minus", "minus", "minus"),
			consonantDef("d", "alveolar", "stop", "plus", "minus", "minus", "minus"),
			vowelDef("e", "palatal", "mid vowel", "mid", "front", "minus"),
			consonantDef("f", "labiodental", "fricative", "minus", "minus", "minus", "minus"),
			consonantDef("g", "velar", "stop", "plus", "minus", "minus", "minus"),
			consonantDef("h", "glottal", "fricative", "minus", "minus", "minus", "minus"),
			vowelDef("i", "palatal", "high vowel", "high", "front", "minus"),
			consonantDef("j", "alveolar", "affricate", "plus", "minus", "minus", "minus"),
			consonantDef("k", "velar", "stop", "minus", "minus", "minus", "minus"),
			consonantDef("l", "alveolar", "approximant", "plus", "minus", "minus", "plus"),
			consonantDef("m", "bilabial", "stop", "plus", "plus", "minus", "minus"),
			consonantDef("n", "alveolar", "stop", "plus", "plus", "minus", "minus"),
			vowelDef("o", "velar", "mid vowel", "mid", "back", "plus"),
			consonantDef("p", "bilabial", "stop", "minus", "minus", "minus", "minus"),
			consonantDef("q", "glottal", "stop", "minus", "minus", "minus", "minus"),
			consonantDef("r", "retroflex", "approximant", "plus", "minus", "plus", "minus"),
			consonantDef("s", "alveolar", "fricative", "minus", "minus", "minus", "minus"),
			consonantDef("t", "alveolar", "stop", "minus", "minus", "minus", "minus"),
			vowelDef("u", "velar", "high vowel", "high", "back", "plus"),
			consonantDef("v", "labiodental", "fricative", "plus", "minus", "minus", "minus"),
			// glides: non-syllabic, high-vowel manner
			consonantDef("w", "velar", "high vowel", "plus", "minus", "minus", "minus"),
			consonantDef("x", "velar", "fricative", "minus", "minus", "minus", "minus"),
			consonantDef("y", "palatal", "high vowel", "plus", "minus", "minus", "minus"),
			consonantDef("z", "alveolar", "fricative", "plus", "minus", "minus", "minus"),
		},
	}
}

func consonantDef(sym, place, manner, voice, nasal, retroflex, lateral string) PhonemeDef {
	return PhonemeDef{
		Symbol: sym,
		Class:  Consonant.String(),
		Features: map[string]string{
			"syllabic":  "minus",
			"place":     place,
			"manner":    manner,
			"voice":     voice,
			"nasal":     nasal,
			"retroflex": retroflex,
			"lateral":   lateral,
			"aspirated": "minus",
		},
	}
}

func vowelDef(sym, place, manner, high, back, round string) PhonemeDef {
	return PhonemeDef{
		Symbol: sym,
		Class:  Vowel.String(),
		Features: map[string]string{
			"syllabic":  "plus",
			"place":     place,
			"manner":    manner,
			"voice":     "plus",
			"nasal":     "minus",
			"retroflex": "minus",
			"lateral":   "minus",
			"high":      high,
			"back":      back,
			"round":     round,
			"long":      "minus",
		},
	}
}
