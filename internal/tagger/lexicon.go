package tagger

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/hpextract/internal/model"
)

// minWordLength is the exclusive lower bound on occupation word length
const minWordLength = 3

// Lexicon maps occupation words to OccupationTag
type Lexicon map[string]string

// LexiconBuilder filters a raw occupation word list into a Lexicon
type LexiconBuilder struct {
	tokenizer Tokenizer
	tagger    Tagger
}

// NewLexiconBuilder creates a builder using the given tokenizer and general tagger
func NewLexiconBuilder(tokenizer Tokenizer, tagger Tagger) *LexiconBuilder {
	return &LexiconBuilder{
		tokenizer: tokenizer,
		tagger:    tagger,
	}
}

// Build tokenizes and tags text, then keeps every word longer than three
// characters whose tag is not a stop tag. Words are tagged in the context of
// the whole list, so a word whose standalone tag differs follows its
// in-context tag; one non-stop occurrence is enough to keep it.
func (b *LexiconBuilder) Build(text string) Lexicon {
	lex := make(Lexicon)
	for _, tok := range b.tagger.Tag(b.tokenizer.Tokenize(text)) {
		if IsStopTag(tok.Tag) || utf8.RuneCountInString(tok.Text) <= minWordLength {
			continue
		}
		lex[tok.Text] = OccupationTag
	}
	return lex
}

// Contains reports whether word is an occupation word
func (l Lexicon) Contains(word string) bool {
	_, ok := l[word]
	return ok
}

// LoadOccupations reads the occupation word list and lowercases it
func LoadOccupations(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %w", model.ErrLexiconLoad, path, err)
	}
	text := strings.ToLower(string(data))
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: %s is empty", model.ErrLexiconLoad, path)
	}
	return text, nil
}
