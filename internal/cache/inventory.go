package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix     = "post:%d"
	FeedFirstPageKey  = "feed:page:1"
	CategoryKeyPrefix = "category:%s"
)

// Only anonymous, first-page reads are cached; viewer-specific results are
// always served from the database. Every mutation that changes what the
// public may see invalidates the affected keys, so the TTLs only bound
// content staleness (renamed titles, changed bodies), never visibility.
const (
	PostTTL     = 5 * time.Minute
	FeedTTL     = 1 * time.Minute
	CategoryTTL = 1 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func CategoryKey(slug string) string {
	return fmt.Sprintf(CategoryKeyPrefix, slug)
}

// InvalidatePost drops the cached detail for a post together with the
// listings that embed it: the first feed page and the post's category
// page. categorySlug may be empty for a post with no category.
func InvalidatePost(ctx context.Context, postID uint, categorySlug string) {
	keys := []string{PostKey(postID), FeedFirstPageKey}
	if categorySlug != "" {
		keys = append(keys, CategoryKey(categorySlug))
	}
	Invalidate(ctx, keys...)
}

// InvalidatePostSet drops the cached details for a group of posts plus the
// feed and the given category pages in one round trip. Taxonomy changes
// and account deletions hide many posts at once and go through here.
func InvalidatePostSet(ctx context.Context, postIDs []uint, categorySlugs ...string) {
	keys := make([]string, 0, len(postIDs)+len(categorySlugs)+1)
	for _, id := range postIDs {
		keys = append(keys, PostKey(id))
	}
	for _, slug := range categorySlugs {
		if slug != "" {
			keys = append(keys, CategoryKey(slug))
		}
	}
	keys = append(keys, FeedFirstPageKey)
	Invalidate(ctx, keys...)
}

func InvalidateFeed(ctx context.Context) {
	Invalidate(ctx, FeedFirstPageKey)
}

func InvalidateCategory(ctx context.Context, slug string) {
	Invalidate(ctx, CategoryKey(slug), FeedFirstPageKey)
}
