// Package visibility decides which posts and categories a given viewer may
// see at a given instant. The predicates are pure; the scopes express the
// same rules as composable GORM query fragments so listings are filtered
// before ordering and pagination, never after.
package visibility

import (
	"time"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// Viewer is the requesting actor. The zero value is an anonymous viewer.
type Viewer struct {
	ID            uint
	Authenticated bool
}

// Anonymous is the viewer used for unauthenticated requests.
var Anonymous = Viewer{}

// PostVisible reports whether the viewer may see the post at instant now.
// The author always sees their own posts. Everyone else sees a post only
// when it is published, filed under a published category and its pub date
// has passed. A post without a category is not publicly visible.
func PostVisible(v Viewer, post *models.Post, now time.Time) bool {
	if v.Authenticated && v.ID == post.AuthorID {
		return true
	}
	if !post.IsPublished {
		return false
	}
	if post.Category == nil || !post.Category.IsPublished {
		return false
	}
	return !post.PubDate.After(now)
}

// CategoryVisible reports whether the category may be browsed. Ownership
// does not apply to categories.
func CategoryVisible(category *models.Category) bool {
	return category.IsPublished
}

// publicPostCond is the SQL form of the anonymous-viewer predicate. It
// left-joins categories so a null category reference fails the check
// instead of dropping the row silently.
const publicPostCond = "posts.is_published AND posts.pub_date <= ? " +
	"AND posts.category_id IS NOT NULL AND categories.is_published"

// PostScope filters a posts query down to what the viewer may see at
// instant now. Callers must capture now once per request so every page of
// a response is cut against the same instant.
func PostScope(v Viewer, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN categories ON categories.id = posts.category_id")
		if v.Authenticated {
			return db.Where("posts.author_id = ? OR ("+publicPostCond+")", v.ID, now)
		}
		return db.Where(publicPostCond, now)
	}
}

// OwnerScope restricts a posts query to everything authored by ownerID,
// publication state ignored. Used for the owner's view of their profile.
func OwnerScope(ownerID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.author_id = ?", ownerID)
	}
}
