package extract

import (
	"io"
	"log/slog"
	"strings"

	"github.com/ppiankov/hpextract/internal/model"
)

const meshPrefix = "MESH:"

// MatchStats summarizes one matching pass
type MatchStats struct {
	Documents       int // Documents decoded from the response
	Unmatched       int // Documents whose PMID has no occupation record
	Skipped         int // Documents dropped as malformed
	FactorsAttached int // Factors that entered a record's factor set
}

// Add accumulates another pass into s
func (s *MatchStats) Add(o MatchStats) {
	s.Documents += o.Documents
	s.Unmatched += o.Unmatched
	s.Skipped += o.Skipped
	s.FactorsAttached += o.FactorsAttached
}

// FactorMatcher attaches annotated entities to occupation records
type FactorMatcher struct {
	concepts map[string]struct{}
	logger   *slog.Logger
}

// NewFactorMatcher creates a matcher that only accepts the given entity
// categories (case-insensitive). An empty list accepts every category.
func NewFactorMatcher(concepts []string, logger *slog.Logger) *FactorMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	set := make(map[string]struct{}, len(concepts))
	for _, c := range concepts {
		set[strings.ToLower(c)] = struct{}{}
	}
	return &FactorMatcher{
		concepts: set,
		logger:   logger,
	}
}

// Match decodes a BioC response and attaches its annotations to results.
// Malformed documents are logged and skipped.
func (m *FactorMatcher) Match(results map[string]*model.OccupationResult, r io.Reader) (MatchStats, error) {
	coll, err := DecodeBioC(r)
	if err != nil {
		return MatchStats{}, err
	}

	for _, s := range coll.Skipped {
		m.logger.Warn("Skipping annotation document", "pmid", s.ID, "error", s.Err)
	}

	stats := m.Attach(results, coll.Documents)
	stats.Skipped = len(coll.Skipped)
	return stats, nil
}

// Attach adds one factor per annotation to the record sharing the document's PMID
func (m *FactorMatcher) Attach(results map[string]*model.OccupationResult, docs []Document) MatchStats {
	var stats MatchStats
	for _, doc := range docs {
		stats.Documents++

		rec, ok := results[doc.ID]
		if !ok {
			stats.Unmatched++
			m.logger.Debug("No occupation record for annotated document", "pmid", doc.ID)
			continue
		}

		for _, ann := range doc.Annotations {
			factor := FactorFromAnnotation(ann)
			if !m.accepts(factor.Category) {
				continue
			}
			if rec.AddFactor(factor) {
				stats.FactorsAttached++
			}
		}
	}
	return stats
}

func (m *FactorMatcher) accepts(category string) bool {
	if len(m.concepts) == 0 {
		return true
	}
	_, ok := m.concepts[strings.ToLower(category)]
	return ok
}

// FactorFromAnnotation builds a causative factor from an annotation's
// "type" and "MESH" infons. A "MESH:"-prefixed "identifier" infon stands in
// for a missing "MESH" infon.
func FactorFromAnnotation(a Annotation) model.CausativeFactor {
	mesh := a.Infon("MESH")
	if mesh == "" {
		if id := a.Infon("identifier"); strings.HasPrefix(id, meshPrefix) {
			mesh = strings.TrimPrefix(id, meshPrefix)
		}
	}
	return model.CausativeFactor{
		Category:   a.Infon("type"),
		Name:       a.Text,
		OntologyID: mesh,
	}
}
