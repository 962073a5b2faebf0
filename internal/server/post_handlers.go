// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"time"

	"chronicle/internal/middleware"
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts, the public feed.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	now := requestTime(c)
	page, err := s.postService.ListFeed(c.Context(), s.viewer(c), now, parsePage(c))
	if err != nil {
		return respondServiceError(c, err, "")
	}
	middleware.PostListings.WithLabelValues("feed").Inc()
	return c.JSON(page)
}

// GetPost handles GET /api/posts/:id. A post hidden from the viewer is
// answered exactly like a missing one.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	post, err := s.postService.GetPost(c.Context(), s.viewer(c), now, id)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		Title      string     `json:"title"`
		Text       string     `json:"text"`
		PubDate    *time.Time `json:"pub_date"`
		ImageURL   string     `json:"image_url"`
		CategoryID *uint      `json:"category_id"`
		LocationID *uint      `json:"location_id"`
		Published  *bool      `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	now := requestTime(c)
	in := service.CreatePostInput{
		Viewer:     s.viewer(c),
		Title:      req.Title,
		Text:       req.Text,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
		Published:  req.Published,
	}
	if req.PubDate != nil {
		in.PubDate = *req.PubDate
	}

	post, err := s.postService.CreatePost(c.Context(), now, in)
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Editing somebody else's post is
// answered with a redirect to the post, never with an error.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      string     `json:"title"`
		Text       string     `json:"text"`
		PubDate    *time.Time `json:"pub_date"`
		ImageURL   *string    `json:"image_url"`
		CategoryID *uint      `json:"category_id"`
		LocationID *uint      `json:"location_id"`
		Published  *bool      `json:"is_published"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	now := requestTime(c)
	post, err := s.postService.UpdatePost(c.Context(), now, service.UpdatePostInput{
		Viewer:     s.viewer(c),
		PostID:     id,
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    req.PubDate,
		ImageURL:   req.ImageURL,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
		Published:  req.Published,
	})
	if err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(post)
}

// ConfirmDeletePost handles GET /api/posts/:id/delete, the read-only first
// step of deletion. It returns the post that would be removed and changes
// nothing, so it can be repeated safely.
func (s *Server) ConfirmDeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	post, err := s.postService.GetOwnedPost(c.Context(), s.viewer(c), now, id)
	if err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(fiber.Map{
		"post":    post,
		"message": "Confirm deletion with DELETE /api/posts/" + c.Params("id"),
	})
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	if err := s.postService.DeletePost(c.Context(), now, service.DeletePostInput{
		Viewer: s.viewer(c),
		PostID: id,
	}); err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(fiber.Map{"message": "Post deleted"})
}
