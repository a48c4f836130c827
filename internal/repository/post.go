package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	WithTx(tx *gorm.DB) PostRepository

	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// ListByThread returns posts in ascending creation order. When
	// includeModerated is false, soft-deleted and hidden posts are excluded.
	ListByThread(ctx context.Context, threadID string, includeModerated bool) ([]models.Post, error)
	UpdateContent(ctx context.Context, id, content string) error
	SoftDelete(ctx context.Context, id, deletedByID string) error
	SetHidden(ctx context.Context, id string, hidden bool, reason string) error
	CreateVersion(ctx context.Context, version *models.PostVersion) error
	ListVersions(ctx context.Context, postID string) ([]models.PostVersion, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	return &postRepository{db: tx}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, models.NewInternalError(err)
	}

	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", id).
		Count(&post.LikeCount).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListByThread(ctx context.Context, threadID string, includeModerated bool) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Preload("Author").
		Where("thread_id = ?", threadID)
	if !includeModerated {
		q = q.Where("is_deleted = ? AND is_hidden = ?", false, false)
	}

	var posts []models.Post
	if err := q.Order("created_at ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) UpdateContent(ctx context.Context, id, content string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":    content,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

func (r *postRepository) SoftDelete(ctx context.Context, id, deletedByID string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Post{}).
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
		return models.NewNotFoundError("post", id)
	}
	return nil
}

func (r *postRepository) SetHidden(ctx context.Context, id string, hidden bool, reason string) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_hidden":     hidden,
			"hidden_reason": reason,
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

// CreateVersion appends one row of edit history. Versions are never updated
// or deleted afterwards.
func (r *postRepository) CreateVersion(ctx context.Context, version *models.PostVersion) error {
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) ListVersions(ctx context.Context, postID string) ([]models.PostVersion, error) {
	var versions []models.PostVersion
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("edited_at ASC").
		Find(&versions).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return versions, nil
}
