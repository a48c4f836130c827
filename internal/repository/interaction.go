package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InteractionRepository covers likes, bookmarks and moderation flags.
type InteractionRepository interface {
	WithTx(tx *gorm.DB) InteractionRepository

	// Like inserts the (user, post) row, or returns the existing one when
	// the user already liked the post.
	Like(ctx context.Context, userID, postID string) (*models.Like, error)
	Unlike(ctx context.Context, userID, postID string) error
	GetLike(ctx context.Context, userID, postID string) (*models.Like, error)
	LikeCount(ctx context.Context, postID string) (int64, error)

	Bookmark(ctx context.Context, userID, threadID, notes string) (*models.Bookmark, error)
	Unbookmark(ctx context.Context, userID, threadID string) error
	ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)

	CreateFlag(ctx context.Context, flag *models.Flag) error
	GetFlag(ctx context.Context, id string) (*models.Flag, error)
	// ReviewFlag marks the flag reviewed exactly once; a second review
	// fails with AlreadyReviewedError.
	ReviewFlag(ctx context.Context, id, reviewerID string) (*models.Flag, error)
	ListOpenFlags(ctx context.Context, limit, offset int) ([]models.Flag, error)
}

type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository.
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) WithTx(tx *gorm.DB) InteractionRepository {
	return &interactionRepository{db: tx}
}

func (r *interactionRepository) Like(ctx context.Context, userID, postID string) (*models.Like, error) {
	like := &models.Like{UserID: userID, PostID: postID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var existing models.Like
	if err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND post_id = ?", userID, postID).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &existing, nil
}

func (r *interactionRepository) Unlike(ctx context.Context, userID, postID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("like", postID)
	}
	return nil
}

func (r *interactionRepository) GetLike(ctx context.Context, userID, postID string) (*models.Like, error) {
	var like models.Like
	err := r.db.WithContext(ctx).
		First(&like, "user_id = ? AND post_id = ?", userID, postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("like", postID)
		}
		return nil, models.NewInternalError(err)
	}
	return &like, nil
}

func (r *interactionRepository) LikeCount(ctx context.Context, postID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *interactionRepository) Bookmark(ctx context.Context, userID, threadID, notes string) (*models.Bookmark, error) {
	bookmark := &models.Bookmark{UserID: userID, ThreadID: threadID, Notes: notes}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(bookmark).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var existing models.Bookmark
	if err := r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND thread_id = ?", userID, threadID).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &existing, nil
}

func (r *interactionRepository) Unbookmark(ctx context.Context, userID, threadID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("bookmark", threadID)
	}
	return nil
}

func (r *interactionRepository) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Preload("Thread").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return bookmarks, nil
}

func (r *interactionRepository) CreateFlag(ctx context.Context, flag *models.Flag) error {
	if err := r.db.WithContext(ctx).Create(flag).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *interactionRepository) GetFlag(ctx context.Context, id string) (*models.Flag, error) {
	var flag models.Flag
	if err := r.db.WithContext(ctx).First(&flag, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("flag", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &flag, nil
}

func (r *interactionRepository) ReviewFlag(ctx context.Context, id, reviewerID string) (*models.Flag, error) {
	now := time.Now()
	// Guarded update: only an unreviewed flag transitions. RowsAffected
	// distinguishes "already reviewed" from "missing" afterwards.
	res := r.db.WithContext(ctx).Model(&models.Flag{}).
		Where("id = ? AND reviewed_at IS NULL", id).
		Updates(map[string]interface{}{
			"reviewed_at":    now,
			"reviewed_by_id": reviewerID,
		})
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		flag, err := r.GetFlag(ctx, id)
		if err != nil {
			return nil, err
		}
		if flag.Reviewed() {
			return nil, models.NewAlreadyReviewedError(id)
		}
		return nil, models.NewInternalError(errors.New("flag review updated no rows"))
	}

	return r.GetFlag(ctx, id)
}

func (r *interactionRepository) ListOpenFlags(ctx context.Context, limit, offset int) ([]models.Flag, error) {
	var flags []models.Flag
	err := r.db.WithContext(ctx).
		Where("reviewed_at IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&flags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return flags, nil
}
