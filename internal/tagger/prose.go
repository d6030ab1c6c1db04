package tagger

import (
	"github.com/jdkato/prose/tag"
	"github.com/jdkato/prose/tokenize"
)

// PerceptronTagger is the pretrained averaged-perceptron Penn Treebank tagger
type PerceptronTagger struct {
	pt *tag.PerceptronTagger
}

// NewPerceptronTagger loads the bundled perceptron model
func NewPerceptronTagger() *PerceptronTagger {
	return &PerceptronTagger{pt: tag.NewPerceptronTagger()}
}

// Tag tags words in context
func (p *PerceptronTagger) Tag(words []string) []Token {
	if len(words) == 0 {
		return nil
	}
	tagged := p.pt.Tag(words)
	out := make([]Token, len(tagged))
	for i, t := range tagged {
		out[i] = Token{Text: t.Text, Tag: t.Tag}
	}
	return out
}

// WordTokenizer segments text into sentences and then into Treebank words
type WordTokenizer struct{}

// NewWordTokenizer creates a word tokenizer
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Tokenize splits text into words
func (WordTokenizer) Tokenize(text string) []string {
	return tokenize.TextToWords(text)
}
