package service

import (
	"context"
	"errors"

	"github.com/iliyamo/services-marketplace/internal/model"
	"github.com/iliyamo/services-marketplace/internal/repository"
)

// CatalogService exposes categories and services.  Writes are limited to
// the provider that owns the service.
type CatalogService struct {
	Profiles   *repository.ProfileRepo
	Categories *repository.CategoryRepo
	Services   *repository.ServiceRepo
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.Categories.List(ctx)
}

// ListServices returns visible services matching f.
func (s *CatalogService) ListServices(ctx context.Context, f model.ServiceFilter) ([]model.Service, error) {
	return s.Services.ListVisible(ctx, f)
}

// GetService returns a visible service; hidden services are not found.
func (s *CatalogService) GetService(ctx context.Context, id uint64) (model.Service, error) {
	svc, err := s.Services.GetVisible(ctx, id)
	return svc, notFound(err)
}

// ProviderServices lists the caller's own services, hidden ones included.
func (s *CatalogService) ProviderServices(ctx context.Context, userID uint64) ([]model.Service, error) {
	providerID, err := requireProvider(ctx, s.Profiles, userID)
	if err != nil {
		return nil, err
	}
	return s.Services.ListByProvider(ctx, providerID)
}

func (s *CatalogService) CreateService(ctx context.Context, userID uint64, in repository.ServiceInput) (model.Service, error) {
	providerID, err := requireProvider(ctx, s.Profiles, userID)
	if err != nil {
		return model.Service{}, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return model.Service{}, err
	}
	id, err := s.Services.Create(ctx, providerID, in)
	if err != nil {
		return model.Service{}, err
	}
	return s.Services.GetByID(ctx, id)
}

// UpdateService edits a service owned by the caller.
func (s *CatalogService) UpdateService(ctx context.Context, userID, id uint64, in repository.ServiceInput) (model.Service, error) {
	providerID, err := requireProvider(ctx, s.Profiles, userID)
	if err != nil {
		return model.Service{}, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return model.Service{}, err
	}
	if err := ownership(s.Services.Update(ctx, id, providerID, in)); err != nil {
		return model.Service{}, err
	}
	return s.Services.GetByID(ctx, id)
}

// DeleteService hides a service owned by the caller.  Contracts and
// conversations keep referring to it.
func (s *CatalogService) DeleteService(ctx context.Context, userID, id uint64) error {
	providerID, err := requireProvider(ctx, s.Profiles, userID)
	if err != nil {
		return err
	}
	return ownership(s.Services.Hide(ctx, id, providerID))
}

func (s *CatalogService) checkCategory(ctx context.Context, id uint64) error {
	ok, err := s.Categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownCategory
	}
	return nil
}

// ownership maps owner-scoped repository errors to service errors.
func ownership(err error) error {
	if errors.Is(err, repository.ErrForbidden) {
		return ErrNotPermitted
	}
	return notFound(err)
}
