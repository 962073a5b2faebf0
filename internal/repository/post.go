package repository

import (
	"context"
	"errors"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/visibility"

	"gorm.io/gorm"
)

// commentCountSelect annotates each post row with its number of comments.
const commentCountSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// PostRepository defines the interface for post data operations.
// Listing methods apply the visibility scope before ordering and slicing,
// so a page is always cut from the already-filtered candidate set.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	CountVisible(ctx context.Context, v visibility.Viewer, now time.Time) (int64, error)
	ListVisible(ctx context.Context, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error)
	CountByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time) (int64, error)
	ListByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error)
	CountByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time) (int64, error)
	ListByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error)
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	CategorySlugsByAuthor(ctx context.Context, authorID uint) ([]string, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID returns (nil, nil) when the post does not exist. Visibility is
// decided by the caller; the repository only fetches.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(commentCountSelect).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) CountVisible(ctx context.Context, v visibility.Viewer, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(visibility.PostScope(v, now)).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListVisible(ctx context.Context, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(commentCountSelect).
		Scopes(visibility.PostScope(v, now)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(visibility.PostScope(v, now)).
		Where("posts.category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(commentCountSelect).
		Scopes(visibility.PostScope(v, now)).
		Where("posts.category_id = ?", categoryID).
		Preload("Author").
		Preload("Location").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

// CountByAuthor and ListByAuthor serve profile pages. When the viewer is
// the author the visibility scope degenerates to "everything by this
// author", so the owner sees unpublished and future-dated posts without a
// separate code path.
func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Scopes(visibility.PostScope(v, now), visibility.OwnerScope(authorID)).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, v visibility.Viewer, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(commentCountSelect).
		Scopes(visibility.PostScope(v, now), visibility.OwnerScope(authorID)).
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes the post; its comments go with it through the FK cascade.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Post{}, id).Error
}

// IDsByCategory lists every post id filed under the category, drafts
// included. Cache invalidation uses it when a taxonomy change hides a
// whole category's posts at once.
func (r *postRepository) IDsByCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Pluck("id", &ids).Error
	return ids, err
}

// CategorySlugsByAuthor lists the distinct category slugs the author has
// posted under, so their cached category pages can be dropped alongside
// the posts when the account goes away.
func (r *postRepository) CategorySlugsByAuthor(ctx context.Context, authorID uint) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Joins("JOIN categories ON categories.id = posts.category_id").
		Where("posts.author_id = ?", authorID).
		Distinct().
		Pluck("categories.slug", &slugs).Error
	return slugs, err
}
