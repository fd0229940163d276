package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultPageSize = 12

	msgCatalogLoad  = "Errore nel caricamento del catalogo"
	msgProductsLoad = "Errore nel caricamento dei prodotti"
	msgProductLoad  = "Errore nel caricamento del prodotto"
	msgTrendingLoad = "Errore nel caricamento dei prodotti trending"
	msgSearchLoad   = "Errore nella ricerca"
)

type CatalogLoading struct {
	Catalog  bool
	Product  bool
	Trending bool
	Filters  bool
}

// CatalogStore is the public browsing state: lookup lists, the current
// product page with its filters, trending products and a detail cache.
type CatalogStore struct {
	api *API

	mu           sync.RWMutex
	environments []Environment
	materials    []Material
	brands       []Brand
	products     []Product
	trending     []TrendingProduct
	current      *Product
	pagination   Pagination
	filters      Filters
	details      map[uint]Product
	loading      CatalogLoading
	err          string
}

func NewCatalogStore(api *API) *CatalogStore {
	return &CatalogStore{
		api:        api,
		pagination: Pagination{Page: 1, Limit: DefaultPageSize},
		details:    map[uint]Product{},
	}
}

func (s *CatalogStore) Environments() []Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Environment(nil), s.environments...)
}

func (s *CatalogStore) Materials() []Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Material(nil), s.materials...)
}

func (s *CatalogStore) Brands() []Brand {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Brand(nil), s.brands...)
}

func (s *CatalogStore) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Product(nil), s.products...)
}

func (s *CatalogStore) Trending() []TrendingProduct {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]TrendingProduct(nil), s.trending...)
}

func (s *CatalogStore) Current() *Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	p := *s.current
	return &p
}

func (s *CatalogStore) Pagination() Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

func (s *CatalogStore) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *CatalogStore) Loading() CatalogLoading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *CatalogStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Init loads environments, materials and filter brands concurrently.
// It is a no-op once the lists are loaded.
func (s *CatalogStore) Init(ctx context.Context) error {
	s.mu.Lock()
	if len(s.environments) > 0 {
		s.mu.Unlock()
		return nil
	}
	s.loading.Filters = true
	s.err = ""
	s.mu.Unlock()

	var (
		envs   []Environment
		mats   []Material
		brands []Brand
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.api.Get(gctx, "/catalogo/ambienti", &envs) })
	g.Go(func() error { return s.api.Get(gctx, "/catalogo/materiali", &mats) })
	g.Go(func() error { return s.api.Get(gctx, "/catalogo/marche-per-filtro", &brands) })
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Filters = false
	if err != nil {
		s.err = msgCatalogLoad
		return err
	}
	s.environments = envs
	s.materials = mats
	s.brands = brands
	return nil
}

// FetchProducts loads one page matching f. Names in f are resolved to ids
// case-insensitively; unknown names are ignored. Filters, products and
// pagination change only when the request succeeds.
func (s *CatalogStore) FetchProducts(ctx context.Context, f Filters, page int) error {
	if page < 1 {
		page = 1
	}
	s.mu.Lock()
	s.loading.Catalog = true
	s.err = ""
	q := s.queryLocked(f)
	s.mu.Unlock()

	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(DefaultPageSize))

	var out ProductPage
	err := s.api.Get(ctx, "/prodotti?"+q.Encode(), &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Catalog = false
	if err != nil {
		s.err = ErrorMessage(err, msgProductsLoad)
		return err
	}
	s.filters = f
	s.products = out.Data
	s.pagination = out.Pagination
	return nil
}

func (s *CatalogStore) SetFilters(ctx context.Context, f Filters) error {
	return s.FetchProducts(ctx, f, 1)
}

func (s *CatalogStore) SetPage(ctx context.Context, page int) error {
	return s.FetchProducts(ctx, s.Filters(), page)
}

// FetchDetail serves the product from the cache unless force is set.
func (s *CatalogStore) FetchDetail(ctx context.Context, id uint, force bool) (*Product, error) {
	s.mu.Lock()
	if p, ok := s.details[id]; ok && !force {
		s.current = &p
		s.mu.Unlock()
		out := p
		return &out, nil
	}
	s.loading.Product = true
	s.err = ""
	s.mu.Unlock()

	var p Product
	err := s.api.Get(ctx, fmt.Sprintf("/prodotti/%d", id), &p)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Product = false
	if err != nil {
		s.err = ErrorMessage(err, msgProductLoad)
		s.current = nil
		return nil, err
	}
	s.details[id] = p
	s.current = &p
	out := p
	return &out, nil
}

// FetchTrending is a no-op while a non-empty list is already loaded.
func (s *CatalogStore) FetchTrending(ctx context.Context) ([]TrendingProduct, error) {
	s.mu.Lock()
	if len(s.trending) > 0 {
		out := append([]TrendingProduct(nil), s.trending...)
		s.mu.Unlock()
		return out, nil
	}
	s.loading.Trending = true
	s.mu.Unlock()

	var out []TrendingProduct
	err := s.api.Get(ctx, "/prodotti/trending", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading.Trending = false
	if err != nil {
		s.err = ErrorMessage(err, msgTrendingLoad)
		return nil, err
	}
	s.trending = out
	return append([]TrendingProduct(nil), out...), nil
}

// Search runs a free-text query. Results are returned, not stored.
func (s *CatalogStore) Search(ctx context.Context, text string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("q", text)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(DefaultPageSize))

	var out SearchPage
	if err := s.api.Get(ctx, "/prodotti/cerca?"+q.Encode(), &out); err != nil {
		s.mu.Lock()
		s.err = ErrorMessage(err, msgSearchLoad)
		s.mu.Unlock()
		return nil, err
	}
	return &out, nil
}

// ClearCache drops cached details and trending so the next fetch hits the API.
func (s *CatalogStore) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.details = map[uint]Product{}
	s.trending = nil
}

func (s *CatalogStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environments = nil
	s.materials = nil
	s.brands = nil
	s.products = nil
	s.trending = nil
	s.current = nil
	s.pagination = Pagination{Page: 1, Limit: DefaultPageSize}
	s.filters = Filters{}
	s.details = map[uint]Product{}
	s.loading = CatalogLoading{}
	s.err = ""
}

func (s *CatalogStore) queryLocked(f Filters) url.Values {
	q := url.Values{}
	if f.Environment != "" {
		for _, e := range s.environments {
			if strings.EqualFold(e.Name, f.Environment) {
				q.Set("ambiente_id", strconv.FormatUint(uint64(e.ID), 10))
				break
			}
		}
	}
	if f.Material != "" {
		for _, m := range s.materials {
			if strings.EqualFold(m.Name, f.Material) {
				q.Set("materiale_id", strconv.FormatUint(uint64(m.ID), 10))
				break
			}
		}
	}
	if f.Brand != "" {
		for _, b := range s.brands {
			if strings.EqualFold(b.Name, f.Brand) {
				q.Set("marca_id", strconv.FormatUint(uint64(b.ID), 10))
				break
			}
		}
	}
	return q
}
