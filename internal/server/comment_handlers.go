// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"chronicle/internal/models"
	"chronicle/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments, oldest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	page, err := s.commentService.ListComments(c.Context(), s.viewer(c), now, postID, parsePage(c))
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.JSON(page)
}

// CreateComment handles POST /api/posts/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	now := requestTime(c)
	comment, err := s.commentService.AddComment(c.Context(), now, service.AddCommentInput{
		Viewer: s.viewer(c),
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err, "")
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment handles PUT /api/posts/:id/comments/:commentId. Editing
// somebody else's comment redirects to the post, same as posts.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	now := requestTime(c)
	comment, err := s.commentService.UpdateComment(c.Context(), now, service.UpdateCommentInput{
		Viewer:    s.viewer(c),
		PostID:    postID,
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(comment)
}

// ConfirmDeleteComment handles GET /api/posts/:id/comments/:commentId/delete,
// the read-only first step of comment deletion.
func (s *Server) ConfirmDeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	comment, err := s.commentService.GetOwnedComment(c.Context(), s.viewer(c), now, postID, commentID)
	if err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(fiber.Map{
		"comment": comment,
		"message": "Confirm deletion with DELETE /api/posts/" + c.Params("id") + "/comments/" + c.Params("commentId"),
	})
}

// DeleteComment handles DELETE /api/posts/:id/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	now := requestTime(c)
	if err := s.commentService.DeleteComment(c.Context(), now, service.DeleteCommentInput{
		Viewer:    s.viewer(c),
		PostID:    postID,
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err, "/api/posts/"+c.Params("id"))
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}
