// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"chronicle/internal/models"
	"chronicle/internal/visibility"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parsePage extracts the page number query parameter. Values below one are
// left to the pagination package, which clamps them to the first page.
func parsePage(c *fiber.Ctx) int {
	return c.QueryInt("page", 1)
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "commentId" -> "comment ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// requestTime returns the instant this request is evaluated at. It is
// captured on first use and reused for every visibility decision within the
// request, so a post cannot flicker in and out of view mid-request.
func requestTime(c *fiber.Ctx) time.Time {
	if t, ok := c.Locals("requestTime").(time.Time); ok {
		return t
	}
	t := time.Now().UTC()
	c.Locals("requestTime", t)
	return t
}

// viewer builds the visibility viewer for the request. On protected routes
// the auth middleware has stored the user ID in locals; on public routes a
// bearer token is honored when present but never required.
func (s *Server) viewer(c *fiber.Ctx) visibility.Viewer {
	if userID, ok := c.Locals("userID").(uint); ok {
		return visibility.Viewer{ID: userID, Authenticated: true}
	}
	if userID, ok := s.optionalUserID(c); ok {
		return visibility.Viewer{ID: userID, Authenticated: true}
	}
	return visibility.Anonymous
}

// isAdmin checks whether the given user has admin privileges.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	var user models.User
	if err := s.db.WithContext(c.Context()).Select("is_admin").First(&user, userID).Error; err != nil {
		return false, err
	}
	return user.IsAdmin, nil
}

// respondServiceError maps service-layer errors onto HTTP responses. The
// NOT_OWNER code becomes a 303 redirect to the given detail path with no
// error body; everything else keeps the regular JSON error shape.
func respondServiceError(c *fiber.Ctx, err error, redirectPath string) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_OWNER":
			return c.Redirect(redirectPath, fiber.StatusSeeOther)
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
