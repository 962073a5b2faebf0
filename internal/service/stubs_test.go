package service

import (
	"context"
	"testing"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/visibility"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	countVisibleFn    func(context.Context, visibility.Viewer, time.Time) (int64, error)
	listVisibleFn     func(context.Context, visibility.Viewer, time.Time, int, int) ([]*models.Post, error)
	countByCategoryFn func(context.Context, uint, visibility.Viewer, time.Time) (int64, error)
	listByCategoryFn  func(context.Context, uint, visibility.Viewer, time.Time, int, int) ([]*models.Post, error)
	countByAuthorFn   func(context.Context, uint, visibility.Viewer, time.Time) (int64, error)
	listByAuthorFn    func(context.Context, uint, visibility.Viewer, time.Time, int, int) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	idsByCategoryFn   func(context.Context, uint) ([]uint, error)
	idsByAuthorFn     func(context.Context, uint) ([]uint, error)
	slugsByAuthorFn   func(context.Context, uint) ([]string, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) CountVisible(ctx context.Context, v visibility.Viewer, now time.Time) (int64, error) {
	return s.countVisibleFn(ctx, v, now)
}
func (s *postRepoStub) ListVisible(ctx context.Context, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	return s.listVisibleFn(ctx, v, now, limit, offset)
}
func (s *postRepoStub) CountByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time) (int64, error) {
	return s.countByCategoryFn(ctx, categoryID, v, now)
}
func (s *postRepoStub) ListByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	return s.listByCategoryFn(ctx, categoryID, v, now, limit, offset)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time) (int64, error) {
	return s.countByAuthorFn(ctx, authorID, v, now)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, v, now, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	return s.idsByCategoryFn(ctx, categoryID)
}
func (s *postRepoStub) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	return s.idsByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) CategorySlugsByAuthor(ctx context.Context, authorID uint) ([]string, error) {
	return s.slugsByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		countVisibleFn: func(_ context.Context, _ visibility.Viewer, _ time.Time) (int64, error) {
			return 0, nil
		},
		listVisibleFn: func(_ context.Context, _ visibility.Viewer, _ time.Time, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countByCategoryFn: func(_ context.Context, _ uint, _ visibility.Viewer, _ time.Time) (int64, error) {
			return 0, nil
		},
		listByCategoryFn: func(_ context.Context, _ uint, _ visibility.Viewer, _ time.Time, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		countByAuthorFn: func(_ context.Context, _ uint, _ visibility.Viewer, _ time.Time) (int64, error) {
			return 0, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _ visibility.Viewer, _ time.Time, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		idsByCategoryFn: func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		idsByAuthorFn:   func(_ context.Context, _ uint) ([]uint, error) { return nil, nil },
		slugsByAuthorFn: func(_ context.Context, _ uint) ([]string, error) { return nil, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	getByIDFn     func(context.Context, uint) (*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
	listByPostFn  func(context.Context, uint, int, int) ([]*models.Comment, error)
	updateFn      func(context.Context, *models.Comment) error
	deleteFn      func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id}, nil
		},
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		listByPostFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn        func(context.Context, *models.Category) error
	getByIDFn       func(context.Context, uint) (*models.Category, error)
	getBySlugFn     func(context.Context, string) (*models.Category, error)
	listPublishedFn func(context.Context) ([]*models.Category, error)
	updateFn        func(context.Context, *models.Category) error
	deleteFn        func(context.Context, uint) error
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) ListPublished(ctx context.Context) ([]*models.Category, error) {
	return s.listPublishedFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, PublicationState: models.PublicationState{IsPublished: true}}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Category, error) {
			return &models.Category{ID: 1, Slug: slug, PublicationState: models.PublicationState{IsPublished: true}}, nil
		},
		listPublishedFn: func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// locationRepoStub is a stub for repository.LocationRepository.
type locationRepoStub struct {
	createFn        func(context.Context, *models.Location) error
	getByIDFn       func(context.Context, uint) (*models.Location, error)
	listPublishedFn func(context.Context) ([]*models.Location, error)
	updateFn        func(context.Context, *models.Location) error
	deleteFn        func(context.Context, uint) error
}

func (s *locationRepoStub) Create(ctx context.Context, location *models.Location) error {
	return s.createFn(ctx, location)
}
func (s *locationRepoStub) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	return s.getByIDFn(ctx, id)
}
func (s *locationRepoStub) ListPublished(ctx context.Context) ([]*models.Location, error) {
	return s.listPublishedFn(ctx)
}
func (s *locationRepoStub) Update(ctx context.Context, location *models.Location) error {
	return s.updateFn(ctx, location)
}
func (s *locationRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopLocationRepo() *locationRepoStub {
	return &locationRepoStub{
		createFn: func(_ context.Context, _ *models.Location) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Location, error) {
			return &models.Location{ID: id, PublicationState: models.PublicationState{IsPublished: true}}, nil
		},
		listPublishedFn: func(_ context.Context) ([]*models.Location, error) { return nil, nil },
		updateFn:        func(_ context.Context, _ *models.Location) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Username: "someone"}, nil
		},
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return &models.User{ID: 1, Username: username}, nil
		},
		updateFn: func(_ context.Context, _ *models.User) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func assertNotOwnerError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, "NOT_OWNER")
}
