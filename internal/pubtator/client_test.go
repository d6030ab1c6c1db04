package pubtator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/hpextract/internal/model"
)

type recordingGetter struct {
	urls []string
	body []byte
	err  error
}

func (g *recordingGetter) Get(_ context.Context, rawURL string) ([]byte, error) {
	g.urls = append(g.urls, rawURL)
	return g.body, g.err
}

func TestNewClient_RequiresPlaceholder(t *testing.T) {
	_, err := NewClient(&recordingGetter{}, "https://example.org/biocxml")
	assert.Error(t, err)
}

func TestClient_Annotate(t *testing.T) {
	getter := &recordingGetter{body: []byte("<collection/>")}
	client, err := NewClient(getter, "https://example.org/export/biocxml?pmids={ids}")
	require.NoError(t, err)

	body, err := client.Annotate(context.Background(), []string{"100", "200"})

	require.NoError(t, err)
	assert.Equal(t, "<collection/>", string(body))
	assert.Equal(t, []string{"https://example.org/export/biocxml?pmids=100,200"}, getter.urls)
}

func TestClient_Annotate_PathTemplate(t *testing.T) {
	getter := &recordingGetter{body: []byte("<collection/>")}
	client, err := NewClient(getter, "https://example.org/tmTool.cgi/Chemical,Species/{ids}/BioC")
	require.NoError(t, err)

	_, err = client.Annotate(context.Background(), []string{"100"})

	require.NoError(t, err)
	assert.Equal(t, "https://example.org/tmTool.cgi/Chemical,Species/100/BioC", getter.urls[0])
}

func TestClient_Annotate_RejectsDelimiter(t *testing.T) {
	getter := &recordingGetter{}
	client, err := NewClient(getter, "https://example.org/{ids}")
	require.NoError(t, err)

	_, err = client.Annotate(context.Background(), []string{"100", "1,2"})

	assert.ErrorIs(t, err, model.ErrInvalidIdentifier)
	assert.Empty(t, getter.urls)
}

func TestClient_Annotate_PropagatesRetrievalFailure(t *testing.T) {
	getter := &recordingGetter{err: errors.Join(model.ErrRetrieval, errors.New("503"))}
	client, err := NewClient(getter, "https://example.org/{ids}")
	require.NoError(t, err)

	_, err = client.Annotate(context.Background(), []string{"100"})

	assert.ErrorIs(t, err, model.ErrRetrieval)
}
