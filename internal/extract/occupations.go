// Package extract finds occupation mentions in articles, folds them into one
// record per article and attaches the causative factors annotated for it.
package extract

import (
	"github.com/ppiankov/hpextract/internal/model"
	"github.com/ppiankov/hpextract/internal/tagger"
)

// OccupationExtractor finds occupation-tagged words in article text
type OccupationExtractor struct {
	tokenizer tagger.Tokenizer
	tagger    tagger.Tagger
}

// NewOccupationExtractor creates an extractor. tg is normally a *tagger.Chain
// so that lexicon words receive tagger.OccupationTag.
func NewOccupationExtractor(tokenizer tagger.Tokenizer, tg tagger.Tagger) *OccupationExtractor {
	return &OccupationExtractor{
		tokenizer: tokenizer,
		tagger:    tg,
	}
}

// Extract returns one record per distinct occupation word in the article,
// in order of first occurrence.
func (e *OccupationExtractor) Extract(article model.Article) []*model.OccupationResult {
	tagged := e.tagger.Tag(e.tokenizer.Tokenize(article.Text))

	var results []*model.OccupationResult
	seen := make(map[tagger.Token]bool, len(tagged))
	for _, tok := range tagged {
		if seen[tok] {
			continue
		}
		seen[tok] = true

		if tok.Tag != tagger.OccupationTag {
			continue
		}
		results = append(results, model.NewOccupationResult(article.PMID, tok.Text))
	}
	return results
}
