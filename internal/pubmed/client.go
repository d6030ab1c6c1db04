// Package pubmed retrieves articles through the NCBI E-utilities API.
package pubmed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/hpextract/internal/cache"
	"github.com/ppiankov/hpextract/internal/model"
)

// Getter performs one HTTP GET
type Getter interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Client searches PubMed and fetches articles one PMID at a time, caching
// each raw response by PMID.
type Client struct {
	getter Getter
	cache  cache.Cache
	eutils model.EUtilsConfig
	query  model.QueryConfig
	logger *slog.Logger
}

// NewClient creates a PubMed client. A nil cache disables caching.
func NewClient(getter Getter, c cache.Cache, eutils model.EUtilsConfig, query model.QueryConfig, logger *slog.Logger) *Client {
	if c == nil {
		c = cache.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		getter: getter,
		cache:  c,
		eutils: eutils,
		query:  query,
		logger: logger,
	}
}

// Articles searches for the configured term and fetches every hit.
// Articles that fail to parse are logged and skipped; any other failure
// aborts. It returns the articles and the number skipped.
func (c *Client) Articles(ctx context.Context) ([]model.Article, int, error) {
	ids, err := c.Search(ctx)
	if err != nil {
		return nil, 0, err
	}
	c.logger.Info("Search complete", "term", c.query.Term, "pmids", len(ids))

	articles := make([]model.Article, 0, len(ids))
	skipped := 0
	for _, pmid := range ids {
		c.logger.Debug("Get article", "pmid", pmid)
		article, err := c.FetchArticle(ctx, pmid)
		if errors.Is(err, model.ErrMalformedDocument) {
			skipped++
			c.logger.Warn("Skipping article", "pmid", pmid, "url", c.fetchURL(pmid), "error", err)
			continue
		}
		if err != nil {
			return nil, skipped, fmt.Errorf("article %s: %w", pmid, err)
		}
		articles = append(articles, article)
	}

	c.logger.Info("Articles loaded", "count", len(articles), "skipped", skipped)
	return articles, skipped, nil
}

// Search returns the PMIDs matching the configured query
func (c *Client) Search(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "xml")
	params.Set("retmax", strconv.Itoa(c.query.MaxResults))
	params.Set("term", c.query.Term)

	body, err := c.getter.Get(ctx, c.endpoint("esearch.fcgi", params))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	ids, err := parseSearch(body)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return ids, nil
}

// FetchArticle returns the article for pmid, from cache when present. A cached
// document that no longer parses is evicted.
func (c *Client) FetchArticle(ctx context.Context, pmid string) (model.Article, error) {
	body, cached := c.cache.Get(pmid)
	if !cached {
		var err error
		body, err = c.getter.Get(ctx, c.fetchURL(pmid))
		if err != nil {
			return model.Article{}, err
		}
		if err := c.cache.Set(pmid, body, 0); err != nil {
			c.logger.Warn("Failed to cache article", "pmid", pmid, "error", err)
		}
	}

	article, err := parseArticle(pmid, body)
	if err != nil {
		if delErr := c.cache.Delete(pmid); delErr != nil {
			c.logger.Debug("Failed to evict cached article", "pmid", pmid, "error", delErr)
		}
		return model.Article{}, err
	}
	return article, nil
}

func (c *Client) fetchURL(pmid string) string {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("retmode", "xml")
	params.Set("id", pmid)
	return c.endpoint("efetch.fcgi", params)
}

// endpoint joins an E-utilities program to the base URL with the tool,
// email and api_key identification parameters.
func (c *Client) endpoint(program string, params url.Values) string {
	if c.eutils.Tool != "" {
		params.Set("tool", c.eutils.Tool)
	}
	if c.eutils.Email != "" {
		params.Set("email", c.eutils.Email)
	}
	if c.eutils.APIKey != "" {
		params.Set("api_key", c.eutils.APIKey)
	}
	return strings.TrimRight(c.eutils.BaseURL, "/") + "/" + program + "?" + params.Encode()
}
