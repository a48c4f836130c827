package service

import (
	"context"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"

	"gorm.io/gorm"
)

const maxThreadTitleLen = 300

type ThreadService struct {
	db            *gorm.DB
	threadRepo    repository.ThreadRepository
	categoryRepo  repository.CategoryRepository
	tagRepo       repository.TagRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
}

type CreateThreadInput struct {
	Title      string
	CategoryID string
	AuthorID   string
	TagIDs     []string
}

type ListThreadsInput struct {
	CategoryID string
	TagID      string
	Limit      int
	Offset     int
}

func NewThreadService(
	db *gorm.DB,
	threadRepo repository.ThreadRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *ThreadService {
	return &ThreadService{
		db:            db,
		threadRepo:    threadRepo,
		categoryRepo:  categoryRepo,
		tagRepo:       tagRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// CreateThread validates the category, author and tags, then creates the
// thread, its tag links and the subscriber fan-out in one transaction.
func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxThreadTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	slug := Slugify(in.Title)
	if slug == "" {
		return nil, models.NewValidationError("Title must contain at least one slug-safe character")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.IsActive {
		return nil, models.NewValidationError("Category is not active")
	}

	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if author.IsBanned(time.Now()) {
		return nil, models.NewForbiddenError("Banned users cannot create threads")
	}

	tagIDs := dedupeStrings(in.TagIDs)
	tags, err := s.tagRepo.GetByIDs(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, models.NewNotFoundError("tag", missingID(tagIDs, tags))
	}

	thread := &models.Thread{
		Title:      in.Title,
		Slug:       slug,
		CategoryID: in.CategoryID,
		AuthorID:   in.AuthorID,
	}

	var created []models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		threadRepo := s.threadRepo.WithTx(tx)
		if err := threadRepo.Create(ctx, thread); err != nil {
			return err
		}
		for _, tagID := range tagIDs {
			if _, err := threadRepo.AddTag(ctx, thread.ID, tagID); err != nil {
				return err
			}
		}

		created, err = s.notifications.WithTx(tx).NotifyThreadCreated(ctx, thread, tagIDs)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifications.PublishAll(ctx, created)

	return s.threadRepo.GetByID(ctx, thread.ID)
}

// GetThreadBySlug also counts the view; every fetch bumps view_count by
// exactly one.
func (s *ThreadService) GetThreadBySlug(ctx context.Context, slug string) (*models.Thread, error) {
	return s.threadRepo.GetBySlugIncrementingViews(ctx, slug)
}

func (s *ThreadService) GetThread(ctx context.Context, id string) (*models.Thread, error) {
	return s.threadRepo.GetByID(ctx, id)
}

func (s *ThreadService) ListThreads(ctx context.Context, in ListThreadsInput) ([]models.Thread, error) {
	limit, offset := normalizePage(in.Limit, in.Offset)
	switch {
	case in.CategoryID != "":
		return s.threadRepo.ListByCategory(ctx, in.CategoryID, limit, offset)
	case in.TagID != "":
		return s.threadRepo.ListByTag(ctx, in.TagID, limit, offset)
	default:
		return s.threadRepo.List(ctx, limit, offset)
	}
}

func (s *ThreadService) PinThread(ctx context.Context, id string, pinned bool) error {
	return s.threadRepo.SetPinned(ctx, id, pinned)
}

func (s *ThreadService) LockThread(ctx context.Context, id string, locked bool) error {
	return s.threadRepo.SetLocked(ctx, id, locked)
}

// SoftDeleteThread is allowed for the thread's author and for moderators.
func (s *ThreadService) SoftDeleteThread(ctx context.Context, id, actorID string) error {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.ID != thread.AuthorID && !actor.IsModerator() {
		return models.NewForbiddenError("You can only delete your own threads")
	}

	return s.threadRepo.SoftDelete(ctx, id, actorID)
}

// AddThreadTag attaches a tag and fans the attachment out to the tag's
// subscribers. Attaching a tag that is already present is a no-op and does
// not notify again.
func (s *ThreadService) AddThreadTag(ctx context.Context, threadID, tagID, actorID string) error {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return err
	}
	if _, err := s.tagRepo.GetByID(ctx, tagID); err != nil {
		return err
	}
	for _, link := range thread.Tags {
		if link.TagID == tagID {
			return nil
		}
	}

	var created []models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.threadRepo.WithTx(tx).AddTag(ctx, threadID, tagID); err != nil {
			return err
		}
		created, err = s.notifications.WithTx(tx).NotifyThreadTagged(ctx, thread, tagID, actorID)
		return err
	})
	if err != nil {
		return err
	}
	s.notifications.PublishAll(ctx, created)
	return nil
}

func (s *ThreadService) RemoveThreadTag(ctx context.Context, threadID, tagID string) error {
	return s.threadRepo.RemoveTag(ctx, threadID, tagID)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// missingID names one requested ID absent from the fetched tags, for the
// not-found message.
func missingID(requested []string, found []models.Tag) string {
	present := make(map[string]bool, len(found))
	for _, tag := range found {
		present[tag.ID] = true
	}
	for _, id := range requested {
		if !present[id] {
			return id
		}
	}
	return ""
}
