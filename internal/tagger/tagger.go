// Package tagger builds the occupation tagging model: a lexicon of
// occupation words layered over a general part-of-speech tagger.
package tagger

// OccupationTag is the synthetic part-of-speech label for occupation words
const OccupationTag = "OCC"

// StopTags are Penn Treebank tags that never denote an occupation:
// determiners, conjunctions, punctuation, numerals, prepositions,
// pronouns, possessive pronouns, existential "there" and the possessive marker.
var StopTags = map[string]struct{}{
	"DT":   {},
	"CC":   {},
	",":    {},
	".":    {},
	":":    {},
	"!":    {},
	"CD":   {},
	"IN":   {},
	"PRP":  {},
	"PRP$": {},
	"EX":   {},
	"POS":  {},
}

// Token is a word paired with its assigned tag
type Token struct {
	Text string
	Tag  string
}

// Tagger assigns one tag to every word of a sequence
type Tagger interface {
	Tag(words []string) []Token
}

// Tokenizer splits free text into words
type Tokenizer interface {
	Tokenize(text string) []string
}

// IsStopTag reports whether tag belongs to StopTags
func IsStopTag(tag string) bool {
	_, ok := StopTags[tag]
	return ok
}
