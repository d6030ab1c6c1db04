package model

import (
	"sort"
	"time"
)

// Report represents the outcome of one extraction run
type Report struct {
	RunID       string    `json:"run_id"`       // ULID assigned at pipeline start
	Query       string    `json:"query"`        // PubMed search term
	StartedAt   time.Time `json:"started_at"`   // When the run began
	CompletedAt time.Time `json:"completed_at"` // When matching finished

	Stats   RunStats            `json:"stats"`
	Results []*OccupationResult `json:"-"` // One record per article, ordered by PMID
}

// RunStats counts what survived each stage of the run
type RunStats struct {
	ArticlesRetrieved int `json:"articles_retrieved"` // Articles parsed successfully
	ArticlesSkipped   int `json:"articles_skipped"`   // Articles dropped as malformed
	Observations      int `json:"observations"`       // Raw occupation observations before aggregation
	Records           int `json:"records"`            // Aggregated records (one per article)
	FactorsAttached   int `json:"factors_attached"`   // Causative factors added across all records
	DocumentsSkipped  int `json:"documents_skipped"`  // Annotation documents dropped as malformed
}

// SortResults returns the records of an aggregation map ordered by PMID.
// Numeric identifiers sort numerically (shorter first), others lexically.
func SortResults(results map[string]*OccupationResult) []*OccupationResult {
	out := make([]*OccupationResult, 0, len(results))
	for _, r := range results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessPMID(out[i].PMID, out[j].PMID)
	})
	return out
}

// SortPMIDs returns the keys of an aggregation map in PMID order
func SortPMIDs(results map[string]*OccupationResult) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return lessPMID(ids[i], ids[j]) })
	return ids
}

func lessPMID(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
