package extract

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ppiankov/hpextract/internal/model"
)

// Document is one article of a BioC collection
type Document struct {
	ID          string
	Annotations []Annotation
}

// Annotation is one annotated text span
type Annotation struct {
	Text   string
	Infons map[string]string
}

// Infon returns the value of the metadata entry key, or "" if absent
func (a Annotation) Infon(key string) string {
	return a.Infons[key]
}

// SkippedDocument records a document dropped while decoding
type SkippedDocument struct {
	ID  string
	Err error
}

// Collection is a decoded BioC response
type Collection struct {
	Documents []Document
	Skipped   []SkippedDocument
}

type biocInfon struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type biocAnnotation struct {
	Text   *string     `xml:"text"`
	Infons []biocInfon `xml:"infon"`
}

type biocPassage struct {
	Annotations []biocAnnotation `xml:"annotation"`
}

type biocDocument struct {
	ID          string           `xml:"id"`
	Passages    []biocPassage    `xml:"passage"`
	Annotations []biocAnnotation `xml:"annotation"`
}

// DecodeBioC streams a BioC XML collection one document at a time. A document
// without an id, or with an annotation lacking text, is skipped. A syntax error
// after at least one document stops decoding and keeps what was read; a syntax
// error before any document, or a response with no elements at all, is
// returned as ErrMalformedDocument.
func DecodeBioC(r io.Reader) (*Collection, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	coll := &Collection{}
	root := false
	seen := 0
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if !root {
				return nil, fmt.Errorf("%w: response contains no XML elements", model.ErrMalformedDocument)
			}
			break
		}
		if err != nil {
			if seen == 0 {
				return nil, fmt.Errorf("%w: decode BioC: %w", model.ErrMalformedDocument, err)
			}
			coll.Skipped = append(coll.Skipped, SkippedDocument{Err: fmt.Errorf("%w: truncated collection: %w", model.ErrMalformedDocument, err)})
			break
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		root = true
		if start.Name.Local != "document" {
			continue
		}
		seen++

		var raw biocDocument
		if err := dec.DecodeElement(&raw, &start); err != nil {
			coll.Skipped = append(coll.Skipped, SkippedDocument{ID: raw.ID, Err: fmt.Errorf("%w: %w", model.ErrMalformedDocument, err)})
			break
		}

		doc, err := raw.document()
		if err != nil {
			coll.Skipped = append(coll.Skipped, SkippedDocument{ID: raw.ID, Err: err})
			continue
		}
		coll.Documents = append(coll.Documents, doc)
	}

	return coll, nil
}

func (d biocDocument) document() (Document, error) {
	id := strings.TrimSpace(d.ID)
	if id == "" {
		return Document{}, fmt.Errorf("%w: document without id", model.ErrMalformedDocument)
	}

	raw := append([]biocAnnotation{}, d.Annotations...)
	for _, p := range d.Passages {
		raw = append(raw, p.Annotations...)
	}

	doc := Document{ID: id, Annotations: make([]Annotation, 0, len(raw))}
	for i, a := range raw {
		if a.Text == nil || strings.TrimSpace(*a.Text) == "" {
			return Document{}, fmt.Errorf("%w: annotation %d of document %s has no text", model.ErrMalformedDocument, i, id)
		}
		ann := Annotation{Text: strings.TrimSpace(*a.Text), Infons: make(map[string]string, len(a.Infons))}
		for _, in := range a.Infons {
			ann.Infons[in.Key] = strings.TrimSpace(in.Value)
		}
		doc.Annotations = append(doc.Annotations, ann)
	}
	return doc, nil
}
