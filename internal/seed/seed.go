package seed

import (
	"fmt"
	"time"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// Options tunes the size and shape of a seeding run.
type Options struct {
	Users      int
	Categories int
	Locations  int
	Posts      int
	// MaxDays bounds how far back pub dates are spread.
	MaxDays int
	// SkipBcrypt stores a plaintext password marker instead of hashing.
	// Dev-only speedup; never use outside local seeding.
	SkipBcrypt bool
}

// DefaultOptions is a medium-sized demo dataset.
var DefaultOptions = Options{
	Users:      10,
	Categories: 5,
	Locations:  6,
	Posts:      80,
	MaxDays:    90,
}

// Run populates the database with a demo dataset: an admin, regular users,
// a taxonomy, and a feed that exercises every visibility case, so the
// seeded instance shows drafts, scheduled posts and hidden categories
// behaving differently per viewer out of the box.
func Run(db *gorm.DB, opts Options) error {
	f := NewFactory(db, opts)

	admin, err := f.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@chronicle.local"
		u.IsAdmin = true
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	logStep("created admin user %q", admin.Username)

	users := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		users = append(users, user)
	}
	logStep("created %d users", len(users))

	categories := make([]*models.Category, 0, opts.Categories)
	for i := 0; i < opts.Categories; i++ {
		category, err := f.CreateCategory()
		if err != nil {
			return fmt.Errorf("seed category: %w", err)
		}
		categories = append(categories, category)
	}
	// One hidden category so unpublished-category filtering is visible in
	// the demo data.
	hidden, err := f.CreateCategory(func(c *models.Category) {
		c.Title = "Backstage"
		c.Slug = "backstage"
		c.IsPublished = false
	})
	if err != nil {
		return fmt.Errorf("seed hidden category: %w", err)
	}
	logStep("created %d categories (+1 hidden)", len(categories))

	locations := make([]*models.Location, 0, opts.Locations)
	for i := 0; i < opts.Locations; i++ {
		location, err := f.CreateLocation()
		if err != nil {
			return fmt.Errorf("seed location: %w", err)
		}
		locations = append(locations, location)
	}
	logStep("created %d locations", len(locations))

	posts := make([]*models.Post, 0, opts.Posts)
	for i := 0; i < opts.Posts; i++ {
		author := users[i%len(users)]
		category := categories[i%len(categories)]
		var location *models.Location
		if len(locations) > 0 && i%3 != 0 {
			location = locations[i%len(locations)]
		}

		post := f.BuildPost(author, category, location, func(p *models.Post) {
			switch i % 10 {
			case 7:
				// draft
				p.IsPublished = false
			case 8:
				// scheduled for the future
				p.PubDate = time.Now().UTC().Add(time.Duration(24+i) * time.Hour)
			case 9:
				// filed under the hidden category
				p.CategoryID = &hidden.ID
			}
		})
		posts = append(posts, post)
	}
	if err := f.CreatePostsBatch(posts); err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}
	logStep("created %d posts", len(posts))

	comments := 0
	for i, post := range posts {
		// Comment only the publicly visible ones, a few each.
		if !post.IsPublished || post.PubDate.After(time.Now().UTC()) {
			continue
		}
		for j := 0; j < (i%4)+1; j++ {
			author := users[(i+j+1)%len(users)]
			if _, err := f.CreateComment(post, author); err != nil {
				return fmt.Errorf("seed comment: %w", err)
			}
			comments++
		}
	}
	logStep("created %d comments", comments)

	return nil
}
