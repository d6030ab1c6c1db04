package model

import (
	"sort"
	"strings"
)

// SpeciesStopWords are human-referring terms that are never causative factors
var SpeciesStopWords = map[string]struct{}{
	"human":    {},
	"patient":  {},
	"patients": {},
	"woman":    {},
	"man":      {},
	"people":   {},
	"men":      {},
	"women":    {},
}

// OccupationResult aggregates the occupation mentions and causative factors
// observed for a single article. The zero value is an empty record.
type OccupationResult struct {
	PMID    string
	names   map[string]struct{}
	factors map[CausativeFactor]struct{}
}

// NewOccupationResult creates a result holding exactly one name variant
func NewOccupationResult(pmid, name string) *OccupationResult {
	return &OccupationResult{
		PMID:    pmid,
		names:   map[string]struct{}{name: {}},
		factors: make(map[CausativeFactor]struct{}),
	}
}

// AddName records another occupation name variant
func (r *OccupationResult) AddName(name string) {
	if r.names == nil {
		r.names = make(map[string]struct{})
	}
	r.names[name] = struct{}{}
}

// AddFactor attaches a causative factor. Factors naming a species stop word
// are dropped. Reports whether the factor set grew.
func (r *OccupationResult) AddFactor(f CausativeFactor) bool {
	if IsSpeciesStopWord(f.Name) {
		return false
	}
	if _, ok := r.factors[f]; ok {
		return false
	}
	if r.factors == nil {
		r.factors = make(map[CausativeFactor]struct{})
	}
	r.factors[f] = struct{}{}
	return true
}

// HasName reports whether name is one of the recorded variants
func (r *OccupationResult) HasName(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Names returns the name variants in sorted order
func (r *OccupationResult) Names() []string {
	names := make([]string, 0, len(r.names))
	for n := range r.names {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Factors returns the causative factors in sorted order
func (r *OccupationResult) Factors() []CausativeFactor {
	factors := make([]CausativeFactor, 0, len(r.factors))
	for f := range r.factors {
		factors = append(factors, f)
	}
	sort.Slice(factors, func(i, j int) bool { return factors[i].less(factors[j]) })
	return factors
}

// IsSpeciesStopWord reports whether name (case-insensitive) refers to humans
func IsSpeciesStopWord(name string) bool {
	_, ok := SpeciesStopWords[strings.ToLower(name)]
	return ok
}
