// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListPublished(c.Context())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// GetCategoryPosts handles GET /api/categories/:slug. An unpublished
// category answers 404, same as an unknown slug.
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid slug"))
	}

	now := requestTime(c)
	page, err := s.postService.ListByCategory(c.Context(), s.viewer(c), now, slug, parsePage(c))
	if err != nil {
		return respondServiceError(c, err, "")
	}
	middleware.PostListings.WithLabelValues("category").Inc()
	return c.JSON(page)
}

// CreateCategory handles POST /api/categories (admin)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Slug        string `json:"slug"`
		Published   *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.Context(), service.CreateCategoryInput{
		Title:       req.Title,
		Description: req.Description,
		Slug:        req.Slug,
		Published:   req.Published,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/categories/:id (admin)
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Published   *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.Context(), service.UpdateCategoryInput{
		CategoryID:  id,
		Title:       req.Title,
		Description: req.Description,
		Published:   req.Published,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(category)
}

// DeleteCategory handles DELETE /api/categories/:id (admin). Posts filed
// under the category keep existing with a null category, which drops them
// from public view until re-filed.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(c.Context(), id); err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"message": "Category deleted"})
}
