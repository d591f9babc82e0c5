package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/tome/internal/catalog"
	"github.com/lepinkainen/tome/internal/errors"
	"github.com/lepinkainen/tome/internal/googlebooks"
)

// googleBooksFixture serves the search and fetch endpoints for the Forever
// War test volume, mirroring real API payloads.
func googleBooksFixture(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/volumes", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "isbn:9780575094147" {
			_, _ = w.Write([]byte(`{"totalItems": 0}`))
			return
		}
		_, _ = w.Write([]byte(`{"totalItems": 1, "items": [{"id": "qm2PPwAACAAJ"}]}`))
	})
	mux.HandleFunc("/volumes/qm2PPwAACAAJ", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": "qm2PPwAACAAJ",
			"etag": "eac0++rKPDY",
			"selfLink": "https://www.googleapis.com/books/v1/volumes/qm2PPwAACAAJ",
			"volumeInfo": {
				"title": "The Forever War",
				"authors": ["joe haldeman"],
				"publisher": "Gollancz",
				"publishedDate": "2010",
				"industryIdentifiers": [
					{"type": "ISBN_10", "identifier": "0575094141"},
					{"type": "ISBN_13", "identifier": "9780575094147"}
				],
				"pageCount": 240,
				"language": "en"
			}
		}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestImporter(t *testing.T) *Importer {
	t.Helper()

	server := googleBooksFixture(t)
	client := googlebooks.NewClient(
		googlebooks.WithBaseURL(server.URL),
		googlebooks.WithHTTPClient(server.Client()),
	)

	store, err := catalog.Open(catalog.Config{DatabaseFile: filepath.Join(t.TempDir(), "tome.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.CreateTable())

	return New(client, store)
}

func TestAddByISBNEndToEnd(t *testing.T) {
	imp := newTestImporter(t)

	b, inserted, err := imp.AddByISBN(context.Background(), "9780575094147", false)
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.Equal(t, "qm2PPwAACAAJ", b.ID)
	require.NotNil(t, b.PublishedDate)
	assert.Equal(t, "2010-01-01", *b.PublishedDate)
	assert.Equal(t, []string{"Joe Haldeman"}, b.Authors)
	require.NotNil(t, b.ISBN13)
	assert.Equal(t, "9780575094147", *b.ISBN13)
	require.NotNil(t, b.Categories)
	assert.Empty(t, b.Categories)
}

func TestAddByISBNAlreadyCatalogued(t *testing.T) {
	imp := newTestImporter(t)

	_, inserted, err := imp.AddByISBN(context.Background(), "9780575094147", false)
	require.NoError(t, err)
	require.True(t, inserted)

	b, inserted, err := imp.AddByISBN(context.Background(), "9780575094147", true)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, "qm2PPwAACAAJ", b.ID)
}

func TestAddByISBNUnknownISBN(t *testing.T) {
	imp := newTestImporter(t)

	_, _, err := imp.AddByISBN(context.Background(), "1234", false)
	require.Error(t, err)
	assert.True(t, errors.IsNoUniqueMatchError(err))
}
