package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/models"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/validate"
)

const msgAlreadyFavorite = "Prodotto già nei preferiti"

type FavoriteService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]models.Favorite, error) {
	items, err := s.Repo.Favorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return items, nil
}

// Add takes the raw prodotto_id from the request body, a number or a numeric string.
func (s *FavoriteService) Add(ctx context.Context, userID uint, rawProductID any) (*models.Favorite, error) {
	productID, err := validate.IDFromAny(rawProductID, "ID prodotto")
	if err != nil {
		return nil, err
	}

	exists, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, apperr.NotFound(msgProductNotFound)
	}

	_, err = s.Repo.FindFavorite(ctx, userID, productID)
	switch {
	case err == nil:
		return nil, apperr.Validation(msgAlreadyFavorite)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("find favorite: %w", err)
	}

	f, err := s.Repo.CreateFavorite(ctx, userID, productID)
	if err != nil {
		// a concurrent insert lost the race on the unique pair
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Validation(msgAlreadyFavorite)
		}
		return nil, fmt.Errorf("create favorite: %w", err)
	}

	logging.FromContext(ctx).Info("favorite_added", "user_id", userID, "product_id", productID)
	publish(ctx, s.Events, events.TopicFavorites, strconv.FormatUint(uint64(productID), 10), "favorite_added",
		map[string]any{"utente_id": userID, "prodotto_id": productID})
	return f, nil
}

// Remove deletes by product id, the key the client holds.
func (s *FavoriteService) Remove(ctx context.Context, userID, productID uint) error {
	f, err := s.Repo.FindFavorite(ctx, userID, productID)
	if err != nil {
		return notFound(err, "Preferito non trovato", "find favorite")
	}
	if err := s.Repo.DeleteFavorite(ctx, f.ID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	logging.FromContext(ctx).Info("favorite_removed", "user_id", userID, "product_id", productID)
	publish(ctx, s.Events, events.TopicFavorites, strconv.FormatUint(uint64(productID), 10), "favorite_removed",
		map[string]any{"utente_id": userID, "prodotto_id": productID})
	return nil
}
