package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ThreadRepository defines the interface for thread data operations.
type ThreadRepository interface {
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) ThreadRepository

	Create(ctx context.Context, thread *models.Thread) error
	GetByID(ctx context.Context, id string) (*models.Thread, error)
	// GetBySlugIncrementingViews atomically bumps the view counter and
	// returns the thread reflecting the increment.
	GetBySlugIncrementingViews(ctx context.Context, slug string) (*models.Thread, error)
	List(ctx context.Context, limit, offset int) ([]models.Thread, error)
	ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]models.Thread, error)
	ListByTag(ctx context.Context, tagID string, limit, offset int) ([]models.Thread, error)
	SetPinned(ctx context.Context, id string, pinned bool) error
	SetLocked(ctx context.Context, id string, locked bool) error
	SoftDelete(ctx context.Context, id, deletedByID string) error
	TouchActivity(ctx context.Context, id string, at time.Time) error
	AddTag(ctx context.Context, threadID, tagID string) (*models.ThreadTag, error)
	RemoveTag(ctx context.Context, threadID, tagID string) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) WithTx(tx *gorm.DB) ThreadRepository {
	return &threadRepository{db: tx}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	if err := r.db.WithContext(ctx).Create(thread).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("thread slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *threadRepository) GetByID(ctx context.Context, id string) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags.Tag").
		First(&thread, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("thread", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *threadRepository) GetBySlugIncrementingViews(ctx context.Context, slug string) (*models.Thread, error) {
	// Single-statement in-place increment; read-then-write from the caller
	// would lose updates under concurrent readers. UpdateColumn also keeps
	// updated_at untouched: a view is not an edit.
	res := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("slug = ? AND is_deleted = ?", slug, false).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, models.NewNotFoundError("thread", slug)
	}

	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Preload("Tags.Tag").
		First(&thread, "slug = ?", slug).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &thread, nil
}

func (r *threadRepository) List(ctx context.Context, limit, offset int) ([]models.Thread, error) {
	return r.list(ctx, r.db.WithContext(ctx), limit, offset)
}

func (r *threadRepository) ListByCategory(ctx context.Context, categoryID string, limit, offset int) ([]models.Thread, error) {
	q := r.db.WithContext(ctx).Where("category_id = ?", categoryID)
	return r.list(ctx, q, limit, offset)
}

func (r *threadRepository) ListByTag(ctx context.Context, tagID string, limit, offset int) ([]models.Thread, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN thread_tags ON thread_tags.thread_id = threads.id").
		Where("thread_tags.tag_id = ?", tagID)
	return r.list(ctx, q, limit, offset)
}

func (r *threadRepository) list(_ context.Context, q *gorm.DB, limit, offset int) ([]models.Thread, error) {
	var threads []models.Thread
	err := q.
		Preload("Category").
		Preload("Author").
		Preload("Tags.Tag").
		Where("threads.is_deleted = ?", false).
		Order("threads.is_pinned DESC, threads.last_activity_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return threads, nil
}

func (r *threadRepository) SetPinned(ctx context.Context, id string, pinned bool) error {
	return r.updateFlag(ctx, id, "is_pinned", pinned)
}

func (r *threadRepository) SetLocked(ctx context.Context, id string, locked bool) error {
	return r.updateFlag(ctx, id, "is_locked", locked)
}

func (r *threadRepository) updateFlag(ctx context.Context, id, column string, value bool) error {
	res := r.db.WithContext(ctx).Model(&models.Thread{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("thread", id)
	}
	return nil
}

func (r *threadRepository) SoftDelete(ctx context.Context, id, deletedByID string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted":    true,
			"deleted_at":    now,
			"deleted_by_id": deletedByID,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("thread", id)
	}
	return nil
}

func (r *threadRepository) TouchActivity(ctx context.Context, id string, at time.Time) error {
	if err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", id).
		UpdateColumn("last_activity_at", at).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// AddTag is an idempotent upsert guarded by the junction table's composite
// primary key: concurrent duplicate calls race harmlessly into a no-op.
func (r *threadRepository) AddTag(ctx context.Context, threadID, tagID string) (*models.ThreadTag, error) {
	link := &models.ThreadTag{ThreadID: threadID, TagID: tagID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var existing models.ThreadTag
	if err := r.db.WithContext(ctx).
		First(&existing, "thread_id = ? AND tag_id = ?", threadID, tagID).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &existing, nil
}

func (r *threadRepository) RemoveTag(ctx context.Context, threadID, tagID string) error {
	res := r.db.WithContext(ctx).
		Where("thread_id = ? AND tag_id = ?", threadID, tagID).
		Delete(&models.ThreadTag{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("thread tag", tagID)
	}
	return nil
}
