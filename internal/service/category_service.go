package service

import (
	"context"
	"strings"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/repository"
	"chronicle/internal/validation"
)

// CategoryService manages the category taxonomy. Mutations are reserved
// for administrators; the handlers gate on that before calling in.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
}

type CreateCategoryInput struct {
	Title       string
	Description string
	Slug        string
	Published   *bool
}

type UpdateCategoryInput struct {
	CategoryID  uint
	Title       string
	Description string
	Published   *bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository, postRepo repository.PostRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, postRepo: postRepo}
}

func (s *CategoryService) ListPublished(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListPublished(ctx)
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if err := validation.ValidateCategorySlug(in.Slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	published := true
	if in.Published != nil {
		published = *in.Published
	}

	category := &models.Category{
		Title:            title,
		Description:      in.Description,
		Slug:             in.Slug,
		PublicationState: models.PublicationState{IsPublished: published},
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory edits everything but the slug; slugs are permanent so
// published category URLs never break. Unpublishing hides the category's
// page and pulls its posts from the feed in the same request.
func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, models.NewNotFoundError("Category", in.CategoryID)
	}

	if in.Title != "" {
		category.Title = strings.TrimSpace(in.Title)
	}
	if in.Description != "" {
		category.Description = in.Description
	}
	if in.Published != nil {
		category.IsPublished = *in.Published
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	// Unpublishing hides every post filed here, so their cached details
	// must go too, not just the category page.
	if in.Published != nil && !*in.Published {
		ids, err := s.postRepo.IDsByCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		cache.InvalidatePostSet(ctx, ids, category.Slug)
	} else {
		cache.InvalidateCategory(ctx, category.Slug)
	}
	return category, nil
}

func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return models.NewNotFoundError("Category", id)
	}
	// Deleting SET-NULLs every post's category, which hides them all.
	// Collect the ids before the delete clears the references.
	ids, err := s.postRepo.IDsByCategory(ctx, category.ID)
	if err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidatePostSet(ctx, ids, category.Slug)
	return nil
}
