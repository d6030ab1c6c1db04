package tagger

// defaultTag is used when the backoff tagger is absent or returns nothing
const defaultTag = "NN"

// Chain tags words found in the lexicon as occupations and defers every
// other word to the backoff tagger.
type Chain struct {
	lexicon Lexicon
	backoff Tagger
}

// NewChain creates a fallback chain over lex and backoff
func NewChain(lex Lexicon, backoff Tagger) *Chain {
	return &Chain{
		lexicon: lex,
		backoff: backoff,
	}
}

// Tag returns exactly one token per input word. The backoff tagger sees the
// whole sequence so its context features are intact; lexicon hits override
// its choice.
func (c *Chain) Tag(words []string) []Token {
	if len(words) == 0 {
		return nil
	}

	out := make([]Token, len(words))
	var backed []Token
	if c.backoff != nil {
		backed = c.backoff.Tag(words)
	}

	for i, w := range words {
		if tag, ok := c.lexicon[w]; ok {
			out[i] = Token{Text: w, Tag: tag}
			continue
		}
		out[i] = Token{Text: w, Tag: defaultTag}
		if i < len(backed) && backed[i].Tag != "" {
			out[i].Tag = backed[i].Tag
		}
	}
	return out
}

// Lexicon returns the exact-match table
func (c *Chain) Lexicon() Lexicon {
	return c.lexicon
}
