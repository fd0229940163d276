package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micca12/Progetto-IW/internal/models"
)

func fakeCluster(t *testing.T, handle func(w http.ResponseWriter, r *http.Request, body []byte)) *ES {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handle(w, r, body)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL})
	require.NoError(t, err)
	return NewES(client, "prodotti")
}

func TestES_Search(t *testing.T) {
	var gotPath string
	var gotQuery map[string]any
	es := fakeCluster(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		gotPath = r.URL.Path
		_ = json.Unmarshal(body, &gotQuery)
		_, _ = w.Write([]byte(`{"hits":{"total":{"value":2},"hits":[{"_source":{"id":7}},{"_source":{"id":3}}]}}`))
	})

	ids, total, err := es.Search(context.Background(), " smalto ", 0, 12)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 3}, ids)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "/prodotti/_search", gotPath)

	mm := gotQuery["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "smalto", mm["query"])
}

func TestES_IndexProduct(t *testing.T) {
	var gotPath string
	var doc Document
	es := fakeCluster(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		gotPath = r.URL.Path
		_ = json.Unmarshal(body, &doc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	desc := "Smalto all'acqua"
	p := &models.Product{
		ID: 4, BrandID: 2, Name: "Smalto Lux", Description: &desc,
		Brand:  &models.Brand{ID: 2, Name: "Colorificio"},
		Colors: []models.Color{{Name: "Bianco", HexCode: "#FFFFFF"}},
	}
	require.NoError(t, es.IndexProduct(context.Background(), p))

	assert.True(t, strings.HasPrefix(gotPath, "/prodotti/_doc/4"), gotPath)
	assert.Equal(t, "Colorificio", doc.Brand)
	assert.Equal(t, []string{"Bianco"}, doc.Colors)
}

func TestES_DeleteMissingIsNotAnError(t *testing.T) {
	es := fakeCluster(t, func(w http.ResponseWriter, r *http.Request, body []byte) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"result":"not_found"}`))
	})
	assert.NoError(t, es.DeleteProduct(context.Background(), 9))
}
