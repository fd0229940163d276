package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	msgBrandProductsLoad = "Errore nel caricamento prodotti"
	msgBrandCreate       = "Errore nella creazione"
	msgBrandDelete       = "Errore nell'eliminazione"
)

var ErrEmptyName = errors.New("nome prodotto obbligatorio")

// BrandStore holds the products of the logged-in brand account.
type BrandStore struct {
	api *API

	mu       sync.RWMutex
	products []Product
	loading  bool
	deleting uint
	err      string
}

func NewBrandStore(api *API) *BrandStore {
	return &BrandStore{api: api}
}

func (s *BrandStore) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

func (s *BrandStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *BrandStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *BrandStore) IsDeleting(id uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleting != 0 && s.deleting == id
}

func (s *BrandStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *BrandStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	var out struct {
		Products []Product `json:"prodotti"`
	}
	err := s.api.Get(ctx, "/marca/prodotti", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = ErrorMessage(err, msgBrandProductsLoad)
		return err
	}
	s.products = out.Products
	return nil
}

// Create makes an empty product with just a name and returns its id.
// The new product goes to the front of the list.
func (s *BrandStore) Create(ctx context.Context, name string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrEmptyName
	}
	s.mu.Lock()
	s.err = ""
	s.mu.Unlock()

	var p Product
	err := s.api.Post(ctx, "/marca/prodotti", map[string]any{
		"nome":               name,
		"colori":             []any{},
		"ambienti_materiali": []any{},
	}, &p)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.err = ErrorMessage(err, msgBrandCreate)
		return 0, err
	}
	s.products = append([]Product{p}, s.products...)
	return p.ID, nil
}

func (s *BrandStore) Delete(ctx context.Context, id uint) error {
	s.mu.Lock()
	if s.deleting != 0 {
		s.mu.Unlock()
		return nil
	}
	s.deleting = id
	s.err = ""
	s.mu.Unlock()

	err := s.api.Delete(ctx, fmt.Sprintf("/marca/prodotti/%d", id), nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleting = 0
	if err != nil {
		s.err = ErrorMessage(err, msgBrandDelete)
		return err
	}
	kept := s.products[:0]
	for _, p := range s.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.products = kept
	return nil
}

func (s *BrandStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	s.loading = false
	s.deleting = 0
	s.err = ""
}
