package service

import (
	"context"
	"testing"

	"chronicle/internal/cache"
	"chronicle/internal/models"
	"chronicle/internal/visibility"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests share the package-level cache client, so they stay serial.
func setupServiceCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func seedCacheKeys(t *testing.T, ctx context.Context, keys ...string) {
	t.Helper()
	for _, key := range keys {
		require.NoError(t, cache.SetJSON(ctx, key, "stale", cache.PostTTL))
	}
}

func assertKeysGone(t *testing.T, mr *miniredis.Miniredis, keys ...string) {
	t.Helper()
	for _, key := range keys {
		assert.False(t, mr.Exists(key), "key %s should have been invalidated", key)
	}
}

func TestUnpublishCategory_DropsCachedPostDetails(t *testing.T) {
	mr := setupServiceCache(t)
	ctx := context.Background()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
		return &models.Category{ID: id, Slug: "travel",
			PublicationState: models.PublicationState{IsPublished: true}}, nil
	}
	postRepo := noopPostRepo()
	postRepo.idsByCategoryFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{7, 9}, nil
	}
	svc := NewCategoryService(categoryRepo, postRepo)

	seedCacheKeys(t, ctx,
		cache.PostKey(7), cache.PostKey(9),
		cache.CategoryKey("travel"), cache.FeedFirstPageKey)

	unpublished := false
	_, err := svc.UpdateCategory(ctx, UpdateCategoryInput{CategoryID: 3, Published: &unpublished})
	require.NoError(t, err)

	// Anonymous readers must not keep seeing the hidden posts out of cache.
	assertKeysGone(t, mr,
		cache.PostKey(7), cache.PostKey(9),
		cache.CategoryKey("travel"), cache.FeedFirstPageKey)
}

func TestDeleteCategory_DropsCachedPostDetails(t *testing.T) {
	mr := setupServiceCache(t)
	ctx := context.Background()

	categoryRepo := noopCategoryRepo()
	categoryRepo.getByIDFn = func(_ context.Context, id uint) (*models.Category, error) {
		return &models.Category{ID: id, Slug: "food",
			PublicationState: models.PublicationState{IsPublished: true}}, nil
	}
	postRepo := noopPostRepo()
	postRepo.idsByCategoryFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{4}, nil
	}
	svc := NewCategoryService(categoryRepo, postRepo)

	seedCacheKeys(t, ctx, cache.PostKey(4), cache.CategoryKey("food"))

	require.NoError(t, svc.DeleteCategory(ctx, 2))
	assertKeysGone(t, mr, cache.PostKey(4), cache.CategoryKey("food"), cache.FeedFirstPageKey)
}

func TestDeleteAccount_DropsCachedPostDetails(t *testing.T) {
	mr := setupServiceCache(t)
	ctx := context.Background()

	postRepo := noopPostRepo()
	postRepo.idsByAuthorFn = func(_ context.Context, _ uint) ([]uint, error) {
		return []uint{11, 12}, nil
	}
	postRepo.slugsByAuthorFn = func(_ context.Context, _ uint) ([]string, error) {
		return []string{"travel", "food"}, nil
	}
	svc := NewUserService(noopUserRepo(), postRepo)

	seedCacheKeys(t, ctx,
		cache.PostKey(11), cache.PostKey(12),
		cache.CategoryKey("travel"), cache.CategoryKey("food"))

	require.NoError(t, svc.DeleteAccount(ctx, visibility.Viewer{ID: 8, Authenticated: true}))
	assertKeysGone(t, mr,
		cache.PostKey(11), cache.PostKey(12),
		cache.CategoryKey("travel"), cache.CategoryKey("food"), cache.FeedFirstPageKey)
}

func TestListByCategory_AnonymousFirstPageCached(t *testing.T) {
	setupServiceCache(t)
	ctx := context.Background()

	lookups := 0
	categoryRepo := noopCategoryRepo()
	categoryRepo.getBySlugFn = func(_ context.Context, slug string) (*models.Category, error) {
		lookups++
		return &models.Category{ID: 1, Slug: slug,
			PublicationState: models.PublicationState{IsPublished: true}}, nil
	}
	svc := NewPostService(noopPostRepo(), categoryRepo, noopLocationRepo())

	_, err := svc.ListByCategory(ctx, visibility.Anonymous, testNow, "travel", 1)
	require.NoError(t, err)
	_, err = svc.ListByCategory(ctx, visibility.Anonymous, testNow, "travel", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, lookups)

	// Authenticated viewers always read through to the database.
	_, err = svc.ListByCategory(ctx, visibility.Viewer{ID: 1, Authenticated: true}, testNow, "travel", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, lookups)
}

func TestDeletePost_DropsCategoryPage(t *testing.T) {
	mr := setupServiceCache(t)
	ctx := context.Background()

	post := visiblePost(6, 2)
	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
	svc := NewPostService(postRepo, noopCategoryRepo(), noopLocationRepo())

	seedCacheKeys(t, ctx, cache.PostKey(6), cache.CategoryKey("general"))

	viewer := visibility.Viewer{ID: 2, Authenticated: true}
	require.NoError(t, svc.DeletePost(ctx, testNow, DeletePostInput{Viewer: viewer, PostID: 6}))
	assertKeysGone(t, mr, cache.PostKey(6), cache.CategoryKey("general"), cache.FeedFirstPageKey)
}
