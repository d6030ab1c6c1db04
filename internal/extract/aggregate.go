package extract

import "github.com/ppiankov/hpextract/internal/model"

// Aggregate folds occupation records into one record per PMID. The first
// record seen for a PMID is kept and absorbs the name variants of the rest.
func Aggregate(records []*model.OccupationResult) map[string]*model.OccupationResult {
	byPMID := make(map[string]*model.OccupationResult)
	for _, rec := range records {
		existing, ok := byPMID[rec.PMID]
		if !ok {
			byPMID[rec.PMID] = rec
			continue
		}
		for _, name := range rec.Names() {
			existing.AddName(name)
		}
	}
	return byPMID
}
