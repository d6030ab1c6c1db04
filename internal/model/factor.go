package model

import "fmt"

// CausativeFactor is a chemical or species entity annotated in an article.
// It is a comparable value: two factors with equal fields are the same factor
// and collapse to one entry when used as a map key.
type CausativeFactor struct {
	Category   string `json:"category"`              // Entity type (e.g., "Chemical", "Species")
	Name       string `json:"name"`                  // Surface form in the article text
	OntologyID string `json:"ontology_id,omitempty"` // MeSH identifier, may be empty
}

func (f CausativeFactor) String() string {
	if f.OntologyID == "" {
		return fmt.Sprintf("%s %q", f.Category, f.Name)
	}
	return fmt.Sprintf("%s %q (MESH %s)", f.Category, f.Name, f.OntologyID)
}

// less orders factors by category, then name, then ontology id
func (f CausativeFactor) less(o CausativeFactor) bool {
	if f.Category != o.Category {
		return f.Category < o.Category
	}
	if f.Name != o.Name {
		return f.Name < o.Name
	}
	return f.OntologyID < o.OntologyID
}
