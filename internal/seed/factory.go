// Package seed creates demo data for development databases. Not used in
// production builds.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds domain entities and persists them. Optional override
// functions may adjust a generated entity before it is saved.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a Factory bound to the given database handle.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // weak randomness is fine for demo data
	return &Factory{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser persists a sample user with a unique handle.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	handle := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Name:          gofakeit.Name(),
		Email:         fmt.Sprintf("%s@example.com", handle),
		EmailVerified: true,
		Handle:        handle,
		Bio:           gofakeit.Sentence(10),
		Image:         fmt.Sprintf("https://i.pravatar.cc/150?u=%s", handle),
		Role:          models.RoleUser,
	}
	for _, override := range overrides {
		override(user)
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateCategory persists a category with a slug derived from its name.
func (f *Factory) CreateCategory(name string, parent *models.Category, overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:        name,
		Slug:        service.Slugify(name),
		Description: gofakeit.Sentence(8),
		IsActive:    true,
	}
	if parent != nil {
		category.ParentID = &parent.ID
	}
	for _, override := range overrides {
		override(category)
	}
	err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(category).Error
	if err != nil {
		return nil, err
	}
	return category, nil
}

// CreateTag persists a tag with a slug derived from its name.
func (f *Factory) CreateTag(name string) (*models.Tag, error) {
	tag := &models.Tag{
		Name: name,
		Slug: service.Slugify(name),
	}
	err := f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(tag).Error
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// CreateThread persists a thread with a created_at spread over the last
// maxDays days so listings look lived-in.
func (f *Factory) CreateThread(author *models.User, category *models.Category, maxDays int, overrides ...func(*models.Thread)) (*models.Thread, error) {
	title := gofakeit.Sentence(f.r.Intn(6) + 3)
	thread := &models.Thread{
		Title:      title,
		Slug:       fmt.Sprintf("%s-%s", service.Slugify(title), gofakeit.LetterN(6)),
		CategoryID: category.ID,
		AuthorID:   author.ID,
		ViewCount:  int64(f.r.Intn(500)),
	}
	thread.CreatedAt = f.pastInstant(maxDays)
	thread.LastActivityAt = thread.CreatedAt
	for _, override := range overrides {
		override(thread)
	}
	if err := f.db.Create(thread).Error; err != nil {
		return nil, err
	}
	return thread, nil
}

// CreatePost persists a reply in the given thread, optionally under a parent
// post, and bumps the thread's activity timestamp.
func (f *Factory) CreatePost(author *models.User, thread *models.Thread, parent *models.Post) (*models.Post, error) {
	post := &models.Post{
		ThreadID: thread.ID,
		AuthorID: author.ID,
		Content:  gofakeit.Paragraph(1, f.r.Intn(4)+1, 12, "\n"),
	}
	if parent != nil {
		post.ParentID = &parent.ID
	}
	post.CreatedAt = thread.CreatedAt.Add(time.Duration(f.r.Intn(72)) * time.Hour)
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	err := f.db.Model(&models.Thread{}).Where("id = ?", thread.ID).
		UpdateColumn("last_activity_at", post.CreatedAt).Error
	if err != nil {
		return nil, err
	}
	return post, nil
}

// CreateLike persists a like from user on post; duplicates are no-ops.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{UserID: user.ID, PostID: post.ID}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// CreateSubscription subscribes user to the given resource; duplicates are
// no-ops.
func (f *Factory) CreateSubscription(user *models.User, resourceType, resourceID string) error {
	sub := &models.Subscription{
		UserID:       user.ID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		NotifyEmail:  true,
		NotifyInApp:  true,
	}
	return f.db.Clauses(clause.OnConflict{DoNothing: true}).Create(sub).Error
}

func (f *Factory) pastInstant(maxDays int) time.Time {
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.r.Intn(maxDays))*24*time.Hour +
		time.Duration(f.r.Intn(24))*time.Hour +
		time.Duration(f.r.Intn(60))*time.Minute
	return time.Now().Add(-back)
}
