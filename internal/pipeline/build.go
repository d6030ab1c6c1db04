package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/ppiankov/hpextract/internal/cache"
	"github.com/ppiankov/hpextract/internal/extract"
	"github.com/ppiankov/hpextract/internal/fetch"
	"github.com/ppiankov/hpextract/internal/model"
	"github.com/ppiankov/hpextract/internal/pubmed"
	"github.com/ppiankov/hpextract/internal/pubtator"
	"github.com/ppiankov/hpextract/internal/tagger"
)

// NewFromConfig wires the production pipeline. A lexicon that cannot be
// loaded is fatal.
func NewFromConfig(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	raw, err := tagger.LoadOccupations(cfg.Lexicon.Path)
	if err != nil {
		return nil, err
	}
	tokenizer := tagger.NewWordTokenizer()
	general := tagger.NewPerceptronTagger()
	lexicon := tagger.NewLexiconBuilder(tokenizer, general).Build(raw)
	if len(lexicon) == 0 {
		return nil, fmt.Errorf("%w: no occupation words survived filtering in %s", model.ErrLexiconLoad, cfg.Lexicon.Path)
	}
	logger.Debug("Lexicon built", "path", cfg.Lexicon.Path, "words", len(lexicon))
	chain := tagger.NewChain(lexicon, general)

	fetcher := fetch.NewFetcher(fetch.Options{
		Timeout:       cfg.HTTP.Timeout,
		UserAgent:     cfg.HTTP.UserAgent,
		MaxBodyBytes:  cfg.HTTP.MaxBodyBytes,
		MaxAttempts:   cfg.HTTP.MaxAttempts,
		HTTPProxy:     cfg.HTTP.HTTPProxy,
		HTTPSProxy:    cfg.HTTP.HTTPSProxy,
		RespectRobots: cfg.HTTP.RespectRobots,
	}, fetch.NewLimiter(cfg.HTTP.RequestsPerSecond), logger)

	var articleCache cache.Cache = cache.Noop{}
	if cfg.Cache.Enabled {
		articleCache = cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL)
	}

	annotator, err := pubtator.NewClient(fetcher, cfg.Annotation.URL)
	if err != nil {
		return nil, err
	}

	return New(Deps{
		Source:    pubmed.NewClient(fetcher, articleCache, cfg.EUtils, cfg.Query, logger),
		Annotator: annotator,
		Extractor: extract.NewOccupationExtractor(tokenizer, chain),
		Matcher:   extract.NewFactorMatcher(cfg.Annotation.Concepts, logger),
		BatchSize: cfg.Annotation.BatchSize,
		Query:     cfg.Query.Term,
		Logger:    logger,
	}), nil
}
