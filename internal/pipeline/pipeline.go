package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ppiankov/hpextract/internal/extract"
	"github.com/ppiankov/hpextract/internal/model"
	"github.com/ppiankov/hpextract/internal/pubtator"
)

// ArticleSource yields the articles for the configured query and the number
// of articles it skipped as malformed
type ArticleSource interface {
	Articles(ctx context.Context) ([]model.Article, int, error)
}

// Annotator returns the raw BioC annotation response for a batch of PMIDs
type Annotator interface {
	Annotate(ctx context.Context, ids []string) ([]byte, error)
}

// Deps are the collaborators of a Pipeline
type Deps struct {
	Source    ArticleSource
	Annotator Annotator
	Extractor *extract.OccupationExtractor
	Matcher   *extract.FactorMatcher
	BatchSize int    // PMIDs per annotation request; <= 0 sends one request
	Query     string // Recorded in the report only
	Logger    *slog.Logger
}

// Pipeline orchestrates retrieval, extraction, aggregation and matching
type Pipeline struct {
	source    ArticleSource
	annotator Annotator
	extractor *extract.OccupationExtractor
	matcher   *extract.FactorMatcher
	batchSize int
	query     string
	logger    *slog.Logger
}

// New creates a pipeline from its collaborators
func New(d Deps) *Pipeline {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:    d.Source,
		annotator: d.Annotator,
		extractor: d.Extractor,
		matcher:   d.Matcher,
		batchSize: d.BatchSize,
		query:     d.Query,
		logger:    logger,
	}
}

// Run executes one complete pass. Every stage finishes before the next starts.
func (p *Pipeline) Run(ctx context.Context) (*model.Report, error) {
	report := &model.Report{
		RunID:     ulid.Make().String(),
		Query:     p.query,
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With("run", report.RunID)

	// 1. Retrieve articles
	articles, skipped, err := p.source.Articles(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieve articles: %w", err)
	}
	report.Stats.ArticlesRetrieved = len(articles)
	report.Stats.ArticlesSkipped = skipped

	// 2. Extract occupation observations
	var observations []*model.OccupationResult
	for _, article := range articles {
		observations = append(observations, p.extractor.Extract(article)...)
	}
	report.Stats.Observations = len(observations)

	// 3. Aggregate per article
	results := extract.Aggregate(observations)
	report.Stats.Records = len(results)
	logger.Info("Occupations extracted", "articles", len(articles), "observations", len(observations), "records", len(results))

	// 4. Match causative factors against the finished aggregation
	stats, err := p.matchFactors(ctx, logger, results)
	if err != nil {
		return nil, fmt.Errorf("match causative factors: %w", err)
	}
	report.Stats.FactorsAttached = stats.FactorsAttached
	report.Stats.DocumentsSkipped = stats.Skipped
	logger.Info("Causative factors matched", "documents", stats.Documents, "unmatched", stats.Unmatched, "skipped", stats.Skipped, "factors", stats.FactorsAttached)

	report.Results = model.SortResults(results)
	report.CompletedAt = time.Now().UTC()
	return report, nil
}

func (p *Pipeline) matchFactors(ctx context.Context, logger *slog.Logger, results map[string]*model.OccupationResult) (extract.MatchStats, error) {
	var total extract.MatchStats

	ids := make([]string, 0, len(results))
	for _, id := range model.SortPMIDs(results) {
		if err := pubtator.ValidateID(id); err != nil {
			logger.Warn("Skipping annotation for identifier", "pmid", id, "error", err)
			continue
		}
		ids = append(ids, id)
	}

	for _, batch := range batches(ids, p.batchSize) {
		logger.Debug("Requesting annotations", "pmids", len(batch))
		body, err := p.annotator.Annotate(ctx, batch)
		if err != nil {
			return total, err
		}

		stats, err := p.matcher.Match(results, bytes.NewReader(body))
		if err != nil {
			return total, err
		}
		total.Add(stats)
	}
	return total, nil
}

// batches splits ids into consecutive groups of at most size
func batches(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	if size <= 0 || size >= len(ids) {
		return [][]string{ids}
	}
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
