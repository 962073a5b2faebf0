package service

import (
	"context"
	"strings"
	"time"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/pagination"
	"chronicle/internal/repository"
	"chronicle/internal/visibility"
)

// CommentService handles comments under posts. Every operation first
// resolves the parent post through the viewer's visibility, so commenting
// on a hidden post fails exactly like commenting on a missing one.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	Viewer visibility.Viewer
	PostID uint
	Text   string
}

type UpdateCommentInput struct {
	Viewer    visibility.Viewer
	PostID    uint
	CommentID uint
	Text      string
}

type DeleteCommentInput struct {
	Viewer    visibility.Viewer
	PostID    uint
	CommentID uint
}

// CommentPage is one page of a post's comments, oldest first.
type CommentPage struct {
	Comments []*models.Comment `json:"comments"`
	Page     pagination.Page   `json:"page"`
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

func (s *CommentService) ListComments(ctx context.Context, v visibility.Viewer, now time.Time, postID uint, pageNumber int) (*CommentPage, error) {
	if _, err := s.requireVisiblePost(ctx, v, now, postID); err != nil {
		return nil, err
	}

	total, err := s.commentRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	page := pagination.New(total, pagination.DefaultPageSize, pageNumber)
	comments, err := s.commentRepo.ListByPost(ctx, postID, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &CommentPage{Comments: comments, Page: page}, nil
}

func (s *CommentService) AddComment(ctx context.Context, now time.Time, in AddCommentInput) (*models.Comment, error) {
	const maxTextLen = 10000

	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(in.Text) > maxTextLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	post, err := s.requireVisiblePost(ctx, in.Viewer, now, in.PostID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		PostID:   in.PostID,
		AuthorID: in.Viewer.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, in.PostID, categorySlugOf(post))
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// GetOwnedComment resolves a comment for its author. It backs the edit and
// delete-confirmation reads; a comment under a hidden post is a 404, a
// comment owned by someone else is a NOT_OWNER redirect to the post.
func (s *CommentService) GetOwnedComment(ctx context.Context, v visibility.Viewer, now time.Time, postID, commentID uint) (*models.Comment, error) {
	if _, err := s.requireVisiblePost(ctx, v, now, postID); err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(ctx, v, postID, commentID)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ownedComment(ctx context.Context, v visibility.Viewer, postID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.PostID != postID {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	if comment.AuthorID != v.ID {
		return nil, models.NewNotOwnerError(postID)
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, now time.Time, in UpdateCommentInput) (*models.Comment, error) {
	post, err := s.requireVisiblePost(ctx, in.Viewer, now, in.PostID)
	if err != nil {
		return nil, err
	}
	comment, err := s.ownedComment(ctx, in.Viewer, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	cache.InvalidatePost(ctx, in.PostID, categorySlugOf(post))
	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, now time.Time, in DeleteCommentInput) error {
	post, err := s.requireVisiblePost(ctx, in.Viewer, now, in.PostID)
	if err != nil {
		return err
	}
	comment, err := s.ownedComment(ctx, in.Viewer, in.PostID, in.CommentID)
	if err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, in.PostID, categorySlugOf(post))
	return nil
}

func (s *CommentService) requireVisiblePost(ctx context.Context, v visibility.Viewer, now time.Time, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || !visibility.PostVisible(v, post, now) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}
