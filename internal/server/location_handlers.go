// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLocations handles GET /api/locations
func (s *Server) GetLocations(c *fiber.Ctx) error {
	locations, err := s.locationService.ListPublished(c.Context())
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"locations": locations})
}

// CreateLocation handles POST /api/locations (admin)
func (s *Server) CreateLocation(c *fiber.Ctx) error {
	var req struct {
		Name      string `json:"name"`
		Published *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.CreateLocation(c.Context(), service.CreateLocationInput{
		Name:      req.Name,
		Published: req.Published,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(location)
}

// UpdateLocation handles PUT /api/locations/:id (admin)
func (s *Server) UpdateLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name      string `json:"name"`
		Published *bool  `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	location, err := s.locationService.UpdateLocation(c.Context(), service.UpdateLocationInput{
		LocationID: id,
		Name:       req.Name,
		Published:  req.Published,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(location)
}

// DeleteLocation handles DELETE /api/locations/:id (admin). Posts keep
// existing with a null location.
func (s *Server) DeleteLocation(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.locationService.DeleteLocation(c.Context(), id); err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"message": "Location deleted"})
}
