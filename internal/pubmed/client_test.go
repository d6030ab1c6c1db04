package pubmed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hpextract/internal/cache"
	"github.com/ppiankov/hpextract/internal/fetch"
	"github.com/ppiankov/hpextract/internal/model"
)

type eutilsServer struct {
	*httptest.Server
	fetches atomic.Int32
}

func newEUtilsServer(t *testing.T, docs map[string]string) *eutilsServer {
	t.Helper()
	s := &eutilsServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "pubmed", q.Get("db"))
		assert.Equal(t, "hpextract", q.Get("tool"))
		switch r.URL.Path {
		case "/esearch.fcgi":
			assert.Equal(t, "hypersensitivity pneumonitis", q.Get("term"))
			assert.Equal(t, "500", q.Get("retmax"))
			_, _ = fmt.Fprint(w, `<eSearchResult><Count>3</Count><IdList><Id>100</Id><Id>200</Id><Id>300</Id></IdList></eSearchResult>`)
		case "/efetch.fcgi":
			s.fetches.Add(1)
			doc, ok := docs[q.Get("id")]
			if !ok {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = fmt.Fprint(w, doc)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func testClient(baseURL string, c cache.Cache) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	getter := fetch.NewFetcher(fetch.Options{MaxAttempts: 1}, fetch.NewLimiter(0), logger)
	cfg := model.DefaultConfig()
	cfg.EUtils.BaseURL = baseURL + "/"
	return NewClient(getter, c, cfg.EUtils, cfg.Query, logger)
}

func TestClient_Articles_SkipsMalformed(t *testing.T) {
	server := newEUtilsServer(t, map[string]string{
		"100": efetchXML("100", "Welder's lung", "A welder."),
		"200": `<PubmedArticleSet><PubmedArticle>`,
		"300": efetchXML("300", "Farmer's lung", "A farmer."),
	})

	articles, skipped, err := testClient(server.URL, nil).Articles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, articles, 2)
	assert.Equal(t, "100", articles[0].PMID)
	assert.Equal(t, "300", articles[1].PMID)
}

func TestClient_Articles_KeepsEscapedText(t *testing.T) {
	server := newEUtilsServer(t, map[string]string{
		"100": efetchXML("100", "<i>Mycobacterium</i> in machinists", "Risk was higher (p &lt; 0.05)."),
		"200": efetchXML("200", "Farmer&apos;s lung", "Hay &amp; straw."),
		"300": efetchXML("300", "Bird fancier", "CD4<sup>+</sup> cells."),
	})
	dir := t.TempDir()

	articles, skipped, err := testClient(server.URL, cache.NewDiskCache(dir, 0)).Articles(context.Background())

	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, articles, 3)
	assert.Equal(t, "Risk was higher (p < 0.05).", articles[0].Abstract)
	assert.Equal(t, "Farmer's lung", articles[1].Title)
	assert.Equal(t, "CD4+ cells.", articles[2].Abstract)

	_, cached := cache.NewDiskCache(dir, 0).Get("100")
	assert.True(t, cached, "parsed article stays cached")
}

func TestClient_Articles_RetrievalFailureAborts(t *testing.T) {
	server := newEUtilsServer(t, map[string]string{
		"100": efetchXML("100", "Welder's lung", "A welder."),
	})

	_, _, err := testClient(server.URL, nil).Articles(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrRetrieval))
}

func TestClient_FetchArticle_UsesCache(t *testing.T) {
	server := newEUtilsServer(t, map[string]string{"100": efetchXML("100", "Title", "Abstract")})
	dir := t.TempDir()
	client := testClient(server.URL, cache.NewDiskCache(dir, 0))

	first, err := client.FetchArticle(context.Background(), "100")
	require.NoError(t, err)
	second, err := client.FetchArticle(context.Background(), "100")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), server.fetches.Load())

	cached, ok := cache.NewDiskCache(dir, 0).Get("100")
	require.True(t, ok)
	assert.Contains(t, string(cached), "<PubmedArticleSet>")
}

func TestClient_FetchArticle_EvictsUnparseableCacheEntry(t *testing.T) {
	server := newEUtilsServer(t, map[string]string{"100": efetchXML("100", "Title", "Abstract")})
	c := cache.NewDiskCache(t.TempDir(), 0)
	require.NoError(t, c.Set("100", []byte("<PubmedArticleSet><Pub"), 0))
	client := testClient(server.URL, c)

	_, err := client.FetchArticle(context.Background(), "100")
	assert.ErrorIs(t, err, model.ErrMalformedDocument)
	_, ok := c.Get("100")
	assert.False(t, ok)

	article, err := client.FetchArticle(context.Background(), "100")
	require.NoError(t, err)
	assert.Equal(t, "Title", article.Title)
}

func TestClient_Endpoint(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(nil, nil, model.EUtilsConfig{
		BaseURL: "https://eutils.example/entrez/eutils",
		Tool:    "hpextract",
		Email:   "ops@example.org",
		APIKey:  "k",
	}, model.QueryConfig{}, logger)

	got := client.fetchURL("100")

	assert.Equal(t, "https://eutils.example/entrez/eutils/efetch.fcgi?api_key=k&db=pubmed&email=ops%40example.org&id=100&retmode=xml&tool=hpextract", got)
}
