package pubmed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"github.com/ppiankov/hpextract/internal/model"
)

type searchResult struct {
	XMLName xml.Name `xml:"eSearchResult"`
	Count   int      `xml:"Count"`
	IDs     []string `xml:"IdList>Id"`
	Errors  []string `xml:"ERROR"`
}

type articleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	MedlineCitation medlineCitation `xml:"MedlineCitation"`
}

type medlineCitation struct {
	PMID    string         `xml:"PMID"`
	Article medlineArticle `xml:"Article"`
}

type medlineArticle struct {
	ArticleTitle markup   `xml:"ArticleTitle"`
	AbstractText []markup `xml:"Abstract>AbstractText"`
}

// markup holds element content that may carry inline tags such as <i> or <sup>
type markup struct {
	Inner string `xml:",innerxml"`
}

func newDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// parseSearch extracts the PMID list from an esearch response
func parseSearch(data []byte) ([]string, error) {
	var res searchResult
	if err := newDecoder(data).Decode(&res); err != nil {
		return nil, fmt.Errorf("%w: decode esearch: %w", model.ErrMalformedDocument, err)
	}
	if len(res.Errors) > 0 && len(res.IDs) == 0 {
		return nil, fmt.Errorf("%w: esearch: %s", model.ErrMalformedDocument, strings.Join(res.Errors, "; "))
	}

	ids := make([]string, 0, len(res.IDs))
	for _, id := range res.IDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseArticle builds an Article from an efetch response for pmid. Multiple
// abstract sections are joined with a space.
func parseArticle(pmid string, data []byte) (model.Article, error) {
	var set articleSet
	if err := newDecoder(data).Decode(&set); err != nil {
		return model.Article{}, fmt.Errorf("%w: decode efetch: %w", model.ErrMalformedDocument, err)
	}
	if len(set.Articles) == 0 {
		return model.Article{}, fmt.Errorf("%w: no PubmedArticle in response", model.ErrMalformedDocument)
	}

	citation := set.Articles[0].MedlineCitation
	for _, a := range set.Articles {
		if strings.TrimSpace(a.MedlineCitation.PMID) == pmid {
			citation = a.MedlineCitation
			break
		}
	}

	title, err := citation.Article.ArticleTitle.text()
	if err != nil {
		return model.Article{}, fmt.Errorf("%w: title: %w", model.ErrMalformedDocument, err)
	}

	sections := make([]string, 0, len(citation.Article.AbstractText))
	for _, m := range citation.Article.AbstractText {
		s, err := m.text()
		if err != nil {
			return model.Article{}, fmt.Errorf("%w: abstract: %w", model.ErrMalformedDocument, err)
		}
		if s != "" {
			sections = append(sections, s)
		}
	}

	return model.NewArticle(title, strings.Join(sections, " "), pmid), nil
}

// text drops inline tags and unescapes entities
func (m markup) text() (string, error) {
	if !strings.ContainsAny(m.Inner, "<&") {
		return collapseSpace(m.Inner), nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(m.Inner), &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Div,
		Data:     atom.Div.String(),
	})
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return collapseSpace(buf.String()), nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
