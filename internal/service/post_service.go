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

// PostService owns the feed, detail and mutation flows for posts. Every
// method takes the viewer and the request instant explicitly; the instant
// is captured once per request by the handler and threaded down, so a
// single request never observes two different clocks.
type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
}

type CreatePostInput struct {
	Viewer     visibility.Viewer
	Title      string
	Text       string
	PubDate    time.Time
	ImageURL   string
	CategoryID *uint
	LocationID *uint
	Published  *bool
}

type UpdatePostInput struct {
	Viewer     visibility.Viewer
	PostID     uint
	Title      string
	Text       string
	PubDate    *time.Time
	ImageURL   *string
	CategoryID *uint
	LocationID *uint
	Published  *bool
}

type DeletePostInput struct {
	Viewer visibility.Viewer
	PostID uint
}

// PostPage is one page of an already-filtered, already-ordered listing.
type PostPage struct {
	Posts []*models.Post  `json:"posts"`
	Page  pagination.Page `json:"page"`
}

// CategoryPage is a category detail together with one page of its posts.
type CategoryPage struct {
	Category *models.Category `json:"category"`
	Posts    []*models.Post   `json:"posts"`
	Page     pagination.Page  `json:"page"`
}

// categorySlugOf reads the slug off a post's preloaded category, empty
// when the post has none.
func categorySlugOf(post *models.Post) string {
	if post == nil || post.Category == nil {
		return ""
	}
	return post.Category.Slug
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
}

// ListFeed returns one page of the public feed. The visibility scope is
// applied before the page is cut, so page numbers are stable for a given
// viewer. Only the anonymous first page is served from cache.
func (s *PostService) ListFeed(ctx context.Context, v visibility.Viewer, now time.Time, pageNumber int) (*PostPage, error) {
	if !v.Authenticated && pageNumber <= 1 {
		var cached PostPage
		err := cache.Aside(ctx, cache.FeedFirstPageKey, &cached, cache.FeedTTL, func() error {
			page, fetchErr := s.listFeedPage(ctx, v, now, 1)
			if fetchErr != nil {
				return fetchErr
			}
			cached = *page
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.listFeedPage(ctx, v, now, pageNumber)
}

func (s *PostService) listFeedPage(ctx context.Context, v visibility.Viewer, now time.Time, pageNumber int) (*PostPage, error) {
	total, err := s.postRepo.CountVisible(ctx, v, now)
	if err != nil {
		return nil, err
	}
	page := pagination.New(total, pagination.DefaultPageSize, pageNumber)
	posts, err := s.postRepo.ListVisible(ctx, v, now, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Page: page}, nil
}

// ListByCategory returns one page of a published category's posts. An
// unknown slug and an unpublished category answer identically. Like the
// feed, only the anonymous first page is served from cache; not-found
// answers are never cached.
func (s *PostService) ListByCategory(ctx context.Context, v visibility.Viewer, now time.Time, slug string, pageNumber int) (*CategoryPage, error) {
	if !v.Authenticated && pageNumber <= 1 {
		var cached CategoryPage
		err := cache.Aside(ctx, cache.CategoryKey(slug), &cached, cache.CategoryTTL, func() error {
			page, fetchErr := s.listCategoryPage(ctx, v, now, slug, 1)
			if fetchErr != nil {
				return fetchErr
			}
			cached = *page
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.listCategoryPage(ctx, v, now, slug, pageNumber)
}

func (s *PostService) listCategoryPage(ctx context.Context, v visibility.Viewer, now time.Time, slug string, pageNumber int) (*CategoryPage, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if category == nil || !visibility.CategoryVisible(category) {
		return nil, models.NewNotFoundError("Category", slug)
	}

	total, err := s.postRepo.CountByCategory(ctx, category.ID, v, now)
	if err != nil {
		return nil, err
	}
	page := pagination.New(total, pagination.DefaultPageSize, pageNumber)
	posts, err := s.postRepo.ListByCategory(ctx, category.ID, v, now, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	return &CategoryPage{Category: category, Posts: posts, Page: page}, nil
}

// GetPost returns the post as the viewer is allowed to see it. A post the
// viewer may not see answers exactly like a post that does not exist. The
// anonymous detail view is served from cache; not-found answers are never
// cached, so a post becoming visible shows up immediately.
func (s *PostService) GetPost(ctx context.Context, v visibility.Viewer, now time.Time, id uint) (*models.Post, error) {
	if !v.Authenticated {
		var cached models.Post
		err := cache.Aside(ctx, cache.PostKey(id), &cached, cache.PostTTL, func() error {
			post, fetchErr := s.fetchVisiblePost(ctx, v, now, id)
			if fetchErr != nil {
				return fetchErr
			}
			cached = *post
			return nil
		})
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}
	return s.fetchVisiblePost(ctx, v, now, id)
}

func (s *PostService) fetchVisiblePost(ctx context.Context, v visibility.Viewer, now time.Time, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || !visibility.PostVisible(v, post, now) {
		return nil, models.NewNotFoundError("Post", id)
	}
	return post, nil
}

// GetOwnedPost is GetPost plus an ownership check. It backs the edit and
// delete-confirmation reads, where a non-owner is redirected rather than
// shown an error.
func (s *PostService) GetOwnedPost(ctx context.Context, v visibility.Viewer, now time.Time, id uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, v, now, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != v.ID {
		return nil, models.NewNotOwnerError(post.ID)
	}
	return post, nil
}

func (s *PostService) CreatePost(ctx context.Context, now time.Time, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 256
	const maxTextLen = 50000

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 256 characters)")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if len(in.Text) > maxTextLen {
		return nil, models.NewValidationError("Text too long (max 50000 characters)")
	}

	categorySlug, err := s.checkReferences(ctx, in.CategoryID, in.LocationID)
	if err != nil {
		return nil, err
	}

	pubDate := in.PubDate
	if pubDate.IsZero() {
		pubDate = now
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		Title:            title,
		Text:             in.Text,
		PubDate:          pubDate,
		ImageURL:         in.ImageURL,
		PublicationState: models.PublicationState{IsPublished: published},
		AuthorID:         in.Viewer.ID,
		CategoryID:       in.CategoryID,
		LocationID:       in.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	if categorySlug != "" {
		cache.InvalidateCategory(ctx, categorySlug)
	} else {
		cache.InvalidateFeed(ctx)
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost edits a post the viewer owns. A non-owner gets a NOT_OWNER
// error, which the handler turns into a redirect; the post is untouched.
func (s *PostService) UpdatePost(ctx context.Context, now time.Time, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetOwnedPost(ctx, in.Viewer, now, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		title := strings.TrimSpace(in.Title)
		if len(title) > 256 {
			return nil, models.NewValidationError("Title too long (max 256 characters)")
		}
		post.Title = title
	}
	if in.Text != "" {
		post.Text = in.Text
	}
	if in.PubDate != nil {
		post.PubDate = *in.PubDate
	}
	if in.ImageURL != nil {
		post.ImageURL = *in.ImageURL
	}
	oldSlug := categorySlugOf(post)
	newSlug := ""
	if in.CategoryID != nil || in.LocationID != nil {
		slug, err := s.checkReferences(ctx, in.CategoryID, in.LocationID)
		if err != nil {
			return nil, err
		}
		newSlug = slug
	}
	if in.CategoryID != nil {
		post.CategoryID = in.CategoryID
	}
	if in.LocationID != nil {
		post.LocationID = in.LocationID
	}
	if in.Published != nil {
		post.IsPublished = *in.Published
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}

	// Both the old and new category pages go stale on a move.
	cache.InvalidatePost(ctx, post.ID, oldSlug)
	if newSlug != "" && newSlug != oldSlug {
		cache.InvalidateCategory(ctx, newSlug)
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, now time.Time, in DeletePostInput) error {
	post, err := s.GetOwnedPost(ctx, in.Viewer, now, in.PostID)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID, categorySlugOf(post))
	return nil
}

// checkReferences verifies that a referenced category or location exists
// and is published, returning the category's slug for cache invalidation.
// Filing a post under a hidden taxonomy entry would bury it without
// feedback, so it is rejected up front.
func (s *PostService) checkReferences(ctx context.Context, categoryID, locationID *uint) (string, error) {
	var categorySlug string
	if categoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *categoryID)
		if err != nil {
			return "", err
		}
		if category == nil || !category.IsPublished {
			return "", models.NewValidationError("Category does not exist or is not published")
		}
		categorySlug = category.Slug
	}
	if locationID != nil {
		location, err := s.locationRepo.GetByID(ctx, *locationID)
		if err != nil {
			return "", err
		}
		if location == nil || !location.IsPublished {
			return "", models.NewValidationError("Location does not exist or is not published")
		}
	}
	return categorySlug, nil
}
