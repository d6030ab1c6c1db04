package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewArticle(t *testing.T) {
	a := NewArticle("Farmer's lung", "A case report.", "100")

	assert.Equal(t, "Farmer's lung", a.Title)
	assert.Equal(t, "A case report.", a.Abstract)
	assert.Equal(t, "100", a.PMID)
	assert.Equal(t, "Farmer's lung\n\nA case report.", a.Text)
}

func TestSortResults(t *testing.T) {
	results := map[string]*OccupationResult{
		"1000": NewOccupationResult("1000", "a"),
		"999":  NewOccupationResult("999", "b"),
		"12":   NewOccupationResult("12", "c"),
	}

	sorted := SortResults(results)

	var ids []string
	for _, r := range sorted {
		ids = append(ids, r.PMID)
	}
	assert.Equal(t, []string{"12", "999", "1000"}, ids)
	assert.Equal(t, ids, SortPMIDs(results))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1.0, cfg.HTTP.RequestsPerSecond)
	assert.Contains(t, cfg.Annotation.URL, "{ids}")
	assert.Equal(t, []string{"Chemical", "Species"}, cfg.Annotation.Concepts)
	assert.Equal(t, 500, cfg.Query.MaxResults)
}
