package extract

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ppiankov/hpextract/internal/tagger"
)

type fieldsTokenizer struct{}

func (fieldsTokenizer) Tokenize(text string) []string {
	return strings.Fields(text)
}

// nounTagger tags every word NN
type nounTagger struct{}

func (nounTagger) Tag(words []string) []tagger.Token {
	out := make([]tagger.Token, len(words))
	for i, w := range words {
		out[i] = tagger.Token{Text: w, Tag: "NN"}
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testChain(words ...string) *tagger.Chain {
	lex := tagger.Lexicon{}
	for _, w := range words {
		lex[w] = tagger.OccupationTag
	}
	return tagger.NewChain(lex, nounTagger{})
}
