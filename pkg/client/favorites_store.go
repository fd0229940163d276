package client

import (
	"context"
	"fmt"
	"sync"
)

const (
	msgFavoritesLoad   = "Errore nel caricamento preferiti"
	msgFavoritesAdd    = "Errore nell'aggiunta ai preferiti"
	msgFavoritesRemove = "Errore nella rimozione dai preferiti"
)

// FavoritesStore keeps the user's favorites plus a set of their product ids.
// Mutations apply the server answer locally without refetching.
type FavoritesStore struct {
	api *API

	mu          sync.RWMutex
	favorites   []Favorite
	ids         map[uint]struct{}
	loading     bool
	toggling    uint
	err         string
	initialized bool
}

func NewFavoritesStore(api *API) *FavoritesStore {
	return &FavoritesStore{api: api, ids: map[uint]struct{}{}}
}

func (s *FavoritesStore) Favorites() []Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Favorite(nil), s.favorites...)
}

func (s *FavoritesStore) IsFavorite(productID uint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[productID]
	return ok
}

func (s *FavoritesStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.favorites)
}

func (s *FavoritesStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Toggling is the product id currently being added or removed, 0 if none.
func (s *FavoritesStore) Toggling() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.toggling
}

func (s *FavoritesStore) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

func (s *FavoritesStore) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Fetch loads the favorites. A 401 leaves the list empty without an error.
func (s *FavoritesStore) Fetch(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()

	var out []Favorite
	err := s.api.Get(ctx, "/preferiti", &out)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.setLocked(nil)
		if IsUnauthorized(err) {
			return nil
		}
		s.err = ErrorMessage(err, msgFavoritesLoad)
		return err
	}
	s.setLocked(out)
	s.initialized = true
	return nil
}

func (s *FavoritesStore) Add(ctx context.Context, productID uint) error {
	if !s.startToggle(productID) {
		return nil
	}
	var fav Favorite
	err := s.api.Post(ctx, "/preferiti", map[string]uint{"prodotto_id": productID}, &fav)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggling = 0
	if err != nil {
		s.err = ErrorMessage(err, msgFavoritesAdd)
		return err
	}
	s.favorites = append(s.favorites, fav)
	s.ids[fav.ProductID] = struct{}{}
	return nil
}

func (s *FavoritesStore) Remove(ctx context.Context, productID uint) error {
	if !s.startToggle(productID) {
		return nil
	}
	err := s.api.Delete(ctx, fmt.Sprintf("/preferiti/%d", productID), nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.toggling = 0
	if err != nil {
		s.err = ErrorMessage(err, msgFavoritesRemove)
		return err
	}
	kept := s.favorites[:0]
	for _, f := range s.favorites {
		if f.ProductID != productID {
			kept = append(kept, f)
		}
	}
	s.favorites = kept
	delete(s.ids, productID)
	return nil
}

// Toggle adds or removes productID and reports whether it is now a favorite.
func (s *FavoritesStore) Toggle(ctx context.Context, productID uint) (bool, error) {
	if s.IsFavorite(productID) {
		if err := s.Remove(ctx, productID); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.Add(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FavoritesStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(nil)
	s.loading = false
	s.toggling = 0
	s.err = ""
	s.initialized = false
}

// startToggle refuses a second mutation while one is in flight.
func (s *FavoritesStore) startToggle(productID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.toggling != 0 {
		return false
	}
	s.toggling = productID
	s.err = ""
	return true
}

func (s *FavoritesStore) setLocked(favs []Favorite) {
	s.favorites = favs
	s.ids = make(map[uint]struct{}, len(favs))
	for _, f := range favs {
		s.ids[f.ProductID] = struct{}{}
	}
}
