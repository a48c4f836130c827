// Command seed populates a development database with demo forum data.
package main

import (
	"flag"
	"log"

	"github.com/SelfhostedPro/foss.space/internal/config"
	"github.com/SelfhostedPro/foss.space/internal/database"
	"github.com/SelfhostedPro/foss.space/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numThreads := flag.Int("threads", 200, "Number of threads to create")
	postsPerThread := flag.Int("posts-per-thread", 8, "Upper bound on replies per thread")
	clean := flag.Bool("clean", true, "Clear existing forum data before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumThreads:     *numThreads,
		PostsPerThread: *postsPerThread,
		Clean:          *clean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Database seeded. The 'mod' account has moderator privileges.")
}
