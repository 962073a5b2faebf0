// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUserProfile handles GET /api/users/:username. The page totals depend
// on who is asking: the owner sees drafts and scheduled posts counted in,
// everyone else only the public ones.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid username"))
	}

	now := requestTime(c)
	page, err := s.userService.GetProfile(c.Context(), s.viewer(c), now, username, parsePage(c))
	if err != nil {
		return respondServiceError(c, err, "")
	}
	middleware.PostListings.WithLabelValues("profile").Inc()
	return c.JSON(page)
}

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("User", userID))
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		FirstName *string `json:"first_name"`
		LastName  *string `json:"last_name"`
		Email     *string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		Viewer:    s.viewer(c),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(user)
}

// DeleteMyAccount handles DELETE /api/users/me. Posts and comments are
// removed with the account.
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	if err := s.userService.DeleteAccount(c.Context(), s.viewer(c)); err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(fiber.Map{"message": "Account deleted"})
}
