package model

// Article represents one retrieved PubMed document
type Article struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	PMID     string `json:"pmid"`
	Text     string `json:"text"` // Title and abstract separated by a blank line
}

// NewArticle creates an article and derives its tagging text
func NewArticle(title, abstract, pmid string) Article {
	return Article{
		Title:    title,
		Abstract: abstract,
		PMID:     pmid,
		Text:     title + "\n\n" + abstract,
	}
}
