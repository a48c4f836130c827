package seed

import (
	"fmt"
	"log/slog"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	NumUsers       int
	NumThreads     int
	PostsPerThread int
	Clean          bool
}

var categoryNames = []string{
	"General", "Announcements", "Support", "Programming", "Linux",
	"Self-Hosting", "Networking", "Hardware", "Off-Topic",
}

var tagNames = []string{
	"help-wanted", "tutorial", "showcase", "discussion", "question",
	"docker", "kubernetes", "go", "rust", "python", "postgres", "nginx",
}

// Seed populates the database with demo users, categories, tags, threads,
// replies and interactions.
func Seed(db *gorm.DB, opts Options) error {
	slog.Info("seeding database",
		"users", opts.NumUsers, "threads", opts.NumThreads, "clean", opts.Clean)

	if opts.Clean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clearing existing data: %w", err)
		}
	}

	f := NewFactory(db)

	users, err := createUsers(f, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("creating users: %w", err)
	}
	slog.Info("users created", "count", len(users))

	categories, err := createCategories(f)
	if err != nil {
		return fmt.Errorf("creating categories: %w", err)
	}

	tags := make([]*models.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := f.CreateTag(name)
		if err != nil {
			return fmt.Errorf("creating tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	if err := createDiscussions(f, users, categories, tags, opts); err != nil {
		return fmt.Errorf("creating threads: %w", err)
	}

	slog.Info("seeding complete")
	return nil
}

// clearData empties all forum tables. Ordered children-first so foreign keys
// never block the deletes.
func clearData(db *gorm.DB) error {
	tables := []interface{}{
		&models.Notification{}, &models.Subscription{}, &models.Flag{},
		&models.Bookmark{}, &models.Like{}, &models.PostVersion{},
		&models.PostTag{}, &models.Post{}, &models.ThreadTag{},
		&models.Thread{}, &models.Tag{}, &models.Category{}, &models.User{},
	}
	for _, table := range tables {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// A stable moderator account for manual testing.
	moderator, err := f.CreateUser(func(u *models.User) {
		u.Handle = "mod"
		u.Name = "Moderator"
		u.Email = "mod@example.com"
		u.Role = models.RoleModerator
	})
	if err != nil {
		return nil, err
	}
	users = append(users, moderator)

	for i := len(users); i < count; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createCategories(f *Factory) ([]*models.Category, error) {
	categories := make([]*models.Category, 0, len(categoryNames)+2)
	for _, name := range categoryNames {
		category, err := f.CreateCategory(name, nil)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	// A couple of subcategories so the tree has depth.
	for _, name := range []string{"Go", "Web Development"} {
		child, err := f.CreateCategory(name, categories[3])
		if err != nil {
			return nil, err
		}
		categories = append(categories, child)
	}
	return categories, nil
}

func createDiscussions(f *Factory, users []*models.User, categories []*models.Category, tags []*models.Tag, opts Options) error {
	postsPerThread := opts.PostsPerThread
	if postsPerThread <= 0 {
		postsPerThread = 5
	}

	for i := 0; i < opts.NumThreads; i++ {
		author := users[f.r.Intn(len(users))]
		category := categories[f.r.Intn(len(categories))]

		thread, err := f.CreateThread(author, category, 90)
		if err != nil {
			return err
		}

		for _, tag := range pickTags(f, tags) {
			link := &models.ThreadTag{ThreadID: thread.ID, TagID: tag.ID}
			if err := f.db.Create(link).Error; err != nil {
				return err
			}
		}

		var posts []*models.Post
		for j := 0; j < f.r.Intn(postsPerThread)+1; j++ {
			replier := users[f.r.Intn(len(users))]

			// Roughly a third of replies nest under an earlier post.
			var parent *models.Post
			if len(posts) > 0 && f.r.Intn(3) == 0 {
				parent = posts[f.r.Intn(len(posts))]
			}

			post, err := f.CreatePost(replier, thread, parent)
			if err != nil {
				return err
			}
			posts = append(posts, post)

			for k := 0; k < f.r.Intn(4); k++ {
				if err := f.CreateLike(users[f.r.Intn(len(users))], post); err != nil {
					return err
				}
			}
		}

		if f.r.Intn(2) == 0 {
			subscriber := users[f.r.Intn(len(users))]
			if err := f.CreateSubscription(subscriber, models.ResourceThread, thread.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func pickTags(f *Factory, tags []*models.Tag) []*models.Tag {
	n := f.r.Intn(3)
	picked := make([]*models.Tag, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		tag := tags[f.r.Intn(len(tags))]
		if seen[tag.ID] {
			continue
		}
		seen[tag.ID] = true
		picked = append(picked, tag)
	}
	return picked
}
