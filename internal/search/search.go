package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/micca12/Progetto-IW/internal/models"
)

// Index keeps a full text copy of the catalog.
type Index interface {
	IndexProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, q string, from, size int) ([]uint, int64, error)
}

type Document struct {
	ID          uint     `json:"id"`
	BrandID     uint     `json:"marca_id"`
	Brand       string   `json:"marca,omitempty"`
	Name        string   `json:"nome"`
	Description string   `json:"descrizione,omitempty"`
	Colors      []string `json:"colori,omitempty"`
}

func DocumentFrom(p *models.Product) Document {
	doc := Document{ID: p.ID, BrandID: p.BrandID, Name: p.Name}
	if p.Brand != nil {
		doc.Brand = p.Brand.Name
	}
	if p.Description != nil {
		doc.Description = *p.Description
	}
	for _, c := range p.Colors {
		doc.Colors = append(doc.Colors, c.Name)
	}
	return doc
}

type Config struct {
	URL      string
	User     string
	Password string
	Index    string
}

type ES struct {
	client *elasticsearch.Client
	index  string
}

func NewClient(cfg Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return client, nil
}

func NewES(client *elasticsearch.Client, index string) *ES {
	return &ES{client: client, index: index}
}

// Ping checks the cluster is reachable.
func (s *ES) Ping(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("elasticsearch info: %s: %s", res.Status(), body)
	}
	return nil
}

func (s *ES) IndexProduct(ctx context.Context, p *models.Product) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(DocumentFrom(p)); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	res, err := s.client.Index(
		s.index,
		&buf,
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(strconv.FormatUint(uint64(p.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index product %d: %w", p.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index product %d: %s", p.ID, res.Status())
	}
	return nil
}

func (s *ES) DeleteProduct(ctx context.Context, id uint) error {
	res, err := s.client.Delete(
		s.index,
		strconv.FormatUint(uint64(id), 10),
		s.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete product %d: %s", id, res.Status())
	}
	return nil
}

func (s *ES) Search(ctx context.Context, q string, from, size int) ([]uint, int64, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     strings.TrimSpace(q),
				"fields":    []string{"nome^3", "marca^2", "descrizione", "colori"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("encode query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, 0, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]uint, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return ids, r.Hits.Total.Value, nil
}
