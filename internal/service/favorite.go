package service

import (
	"context"
	"errors"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

type FavoriteService struct {
	Profiles  *repository.ProfileRepo
	Services  *repository.ServiceRepo
	Favorites *repository.FavoriteRepo
}

func (s *FavoriteService) List(ctx context.Context, userID uint64) ([]model.Service, error) {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return nil, err
	}
	return s.Favorites.ListForClient(ctx, clientID)
}

// Add favorites a visible service; a second add yields ErrAlreadyFavorite.
func (s *FavoriteService) Add(ctx context.Context, userID, serviceID uint64) error {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return err
	}
	if _, err := s.Services.GetVisible(ctx, serviceID); err != nil {
		return notFound(err)
	}
	err = s.Favorites.Add(ctx, clientID, serviceID)
	if errors.Is(err, repository.ErrConflict) {
		return ErrAlreadyFavorite
	}
	return err
}

func (s *FavoriteService) Remove(ctx context.Context, userID, serviceID uint64) error {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return err
	}
	return notFound(s.Favorites.Remove(ctx, clientID, serviceID))
}
