package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"chronicle/internal/database"
	"chronicle/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with foreign key
// enforcement on, so cascade and SET NULL behavior matches postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the shared in-memory database alive for
	// the duration of the test.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "irrelevant-hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func createCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{
		Title:            "Category " + slug,
		Slug:             slug,
		PublicationState: models.PublicationState{IsPublished: published},
	}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), category))
	return category
}

func createPost(t *testing.T, db *gorm.DB, author *models.User, category *models.Category, pubDate time.Time, published bool) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:            "Post by " + author.Username,
		Text:             "body",
		PubDate:          pubDate,
		AuthorID:         author.ID,
		PublicationState: models.PublicationState{IsPublished: published},
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	require.NoError(t, NewPostRepository(db).Create(context.Background(), post))
	return post
}

func createComment(t *testing.T, db *gorm.DB, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		Text:     text,
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	require.NoError(t, NewCommentRepository(db).Create(context.Background(), comment))
	return comment
}
