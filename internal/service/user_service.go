package service

import (
	"context"
	"time"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/pagination"
	"chronicle/internal/repository"
	"chronicle/internal/validation"
	"chronicle/internal/visibility"
)

// UserService backs profile pages and profile edits.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	Viewer    visibility.Viewer
	FirstName *string
	LastName  *string
	Email     *string
}

// ProfilePage is a user's public card plus one page of their posts. When
// the viewer is the profile owner the page includes drafts and scheduled
// posts; for everyone else only publicly visible posts are counted and
// listed, so the two audiences can see different page totals.
type ProfilePage struct {
	User  *models.User    `json:"user"`
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

func (s *UserService) GetProfile(ctx context.Context, v visibility.Viewer, now time.Time, username string, pageNumber int) (*ProfilePage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	total, err := s.postRepo.CountByAuthor(ctx, user.ID, v, now)
	if err != nil {
		return nil, err
	}
	page := pagination.New(total, pagination.DefaultPageSize, pageNumber)
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, v, now, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &ProfilePage{User: user, Posts: posts, Page: page}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.Viewer.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", in.Viewer.ID)
	}

	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Email != nil {
		if err := validation.ValidateEmail(*in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = *in.Email
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the viewer's own account. Posts and comments go
// with it through the schema cascades; the cached copies of those posts
// and the pages listing them are dropped in the same request.
func (s *UserService) DeleteAccount(ctx context.Context, v visibility.Viewer) error {
	user, err := s.userRepo.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	if user == nil {
		return models.NewNotFoundError("User", v.ID)
	}

	postIDs, err := s.postRepo.IDsByAuthor(ctx, user.ID)
	if err != nil {
		return err
	}
	slugs, err := s.postRepo.CategorySlugsByAuthor(ctx, user.ID)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return err
	}
	cache.InvalidatePostSet(ctx, postIDs, slugs...)
	return nil
}
