package service

import (
	"context"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

type ReviewService struct {
	Profiles *repository.ProfileRepo
	Services *repository.ServiceRepo
	Reviews  *repository.ReviewRepo
}

// List returns the reviews of a visible service and their average rating.
func (s *ReviewService) List(ctx context.Context, serviceID uint64) ([]model.Review, float64, error) {
	if _, err := s.Services.GetVisible(ctx, serviceID); err != nil {
		return nil, 0, notFound(err)
	}
	return s.Reviews.ListForService(ctx, serviceID)
}

// Create stores a review from the calling client.  Providers cannot review
// their own services.
func (s *ReviewService) Create(ctx context.Context, userID, serviceID uint64, rating int, comment string) (uint64, error) {
	clientID, err := requireClient(ctx, s.Profiles, userID)
	if err != nil {
		return 0, err
	}
	svc, err := s.Services.GetVisible(ctx, serviceID)
	if err != nil {
		return 0, notFound(err)
	}
	if own, err := s.Profiles.ProviderIDByUser(ctx, userID); err == nil && own == svc.ProviderID {
		return 0, ErrNotPermitted
	}
	return s.Reviews.Create(ctx, serviceID, clientID, rating, comment)
}
