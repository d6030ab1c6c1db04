package tagger

import "strings"

// mapTagger tags words from a fixed table, defaulting to NN
type mapTagger map[string]string

func (m mapTagger) Tag(words []string) []Token {
	out := make([]Token, len(words))
	for i, w := range words {
		tag, ok := m[w]
		if !ok {
			tag = "NN"
		}
		out[i] = Token{Text: w, Tag: tag}
	}
	return out
}

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// contextTagger tags any word following "the" as NN and defers to the table otherwise
type contextTagger struct {
	mapTagger
}

func (c contextTagger) Tag(words []string) []Token {
	out := c.mapTagger.Tag(words)
	for i := 1; i < len(words); i++ {
		if words[i-1] == "the" {
			out[i].Tag = "NN"
		}
	}
	return out
}
