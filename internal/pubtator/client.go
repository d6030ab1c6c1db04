// Package pubtator requests BioC annotations for batches of PubMed identifiers.
package pubtator

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/hpextract/internal/model"
)

// IDsPlaceholder marks where the comma-joined identifiers go in the URL template
const IDsPlaceholder = "{ids}"

// Delimiter joins identifiers in one request
const Delimiter = ","

// Getter performs one HTTP GET
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Client fetches raw BioC XML from the annotation service
type Client struct {
	getter      Getter
	urlTemplate string
}

// NewClient creates a client for urlTemplate, which must contain IDsPlaceholder
func NewClient(getter Getter, urlTemplate string) (*Client, error) {
	if !strings.Contains(urlTemplate, IDsPlaceholder) {
		return nil, fmt.Errorf("annotation URL %q lacks %s placeholder", urlTemplate, IDsPlaceholder)
	}
	return &Client{
		getter:      getter,
		urlTemplate: urlTemplate,
	}, nil
}

// Annotate returns the BioC collection for ids as one request
func (c *Client) Annotate(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: empty identifier batch", model.ErrInvalidIdentifier)
	}
	for _, id := range ids {
		if err := ValidateID(id); err != nil {
			return nil, err
		}
	}

	body, err := c.getter.Get(ctx, c.URL(ids))
	if err != nil {
		return nil, fmt.Errorf("annotate %d articles: %w", len(ids), err)
	}
	return body, nil
}

// URL renders the request URL for ids
func (c *Client) URL(ids []string) string {
	escaped := make([]string, len(ids))
	for i, id := range ids {
		escaped[i] = url.PathEscape(id)
	}
	return strings.ReplaceAll(c.urlTemplate, IDsPlaceholder, strings.Join(escaped, Delimiter))
}

// ValidateID rejects identifiers that cannot be joined into a batch
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" || strings.Contains(id, Delimiter) {
		return fmt.Errorf("%w: %q", model.ErrInvalidIdentifier, id)
	}
	return nil
}
