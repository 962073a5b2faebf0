package service

import (
	"context"
	"strings"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// LocationService manages the location taxonomy, admin-curated like
// categories but addressed by numeric ID only.
type LocationService struct {
	locationRepo repository.LocationRepository
}

type CreateLocationInput struct {
	Name      string
	Published *bool
}

type UpdateLocationInput struct {
	LocationID uint
	Name       string
	Published  *bool
}

func NewLocationService(locationRepo repository.LocationRepository) *LocationService {
	return &LocationService{locationRepo: locationRepo}
}

func (s *LocationService) ListPublished(ctx context.Context) ([]*models.Location, error) {
	return s.locationRepo.ListPublished(ctx)
}

func (s *LocationService) CreateLocation(ctx context.Context, in CreateLocationInput) (*models.Location, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	location := &models.Location{
		Name:             name,
		PublicationState: models.PublicationState{IsPublished: published},
	}
	if err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, in UpdateLocationInput) (*models.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, models.NewNotFoundError("Location", in.LocationID)
	}

	if in.Name != "" {
		location.Name = strings.TrimSpace(in.Name)
	}
	if in.Published != nil {
		location.IsPublished = *in.Published
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return location, nil
}

func (s *LocationService) DeleteLocation(ctx context.Context, id uint) error {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if location == nil {
		return models.NewNotFoundError("Location", id)
	}
	if err := s.locationRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}
