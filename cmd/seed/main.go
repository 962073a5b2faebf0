// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"chronicle/internal/config"
	"chronicle/internal/database"
	"chronicle/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultOptions.Users, "Number of users to create")
	numPosts := flag.Int("posts", seed.DefaultOptions.Posts, "Number of posts to create")
	maxDays := flag.Int("max-days", seed.DefaultOptions.MaxDays, "Spread pub dates over this many days")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Skip password hashing (dev only)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions
	opts.Users = *numUsers
	opts.Posts = *numPosts
	opts.MaxDays = *maxDays
	opts.SkipBcrypt = *skipBcrypt

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
