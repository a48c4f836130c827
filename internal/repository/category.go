package repository

import (
	"context"
	"errors"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
	ListWithStats(ctx context.Context, activeOnly bool) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	SetActive(ctx context.Context, id string, active bool) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("category slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("category", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("category", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	var categories []models.Category
	q := r.db.WithContext(ctx).Order(`"order" ASC, name ASC`)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&categories).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

// ListWithStats lists categories with live thread and post counts computed
// through aggregation joins; soft-deleted content is excluded from both
// counters.
func (r *categoryRepository) ListWithStats(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	categories, err := r.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	for i := range categories {
		var threadCount int64
		if err := r.db.WithContext(ctx).Model(&models.Thread{}).
			Where("category_id = ? AND is_deleted = ?", categories[i].ID, false).
			Count(&threadCount).Error; err != nil {
			return nil, models.NewInternalError(err)
		}

		var postCount int64
		if err := r.db.WithContext(ctx).Model(&models.Post{}).
			Joins("JOIN threads ON threads.id = posts.thread_id").
			Where("threads.category_id = ? AND threads.is_deleted = ? AND posts.is_deleted = ?",
				categories[i].ID, false, false).
			Count(&postCount).Error; err != nil {
			return nil, models.NewInternalError(err)
		}

		categories[i].ThreadCount = threadCount
		categories[i].PostCount = postCount
	}

	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("category slug already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *categoryRepository) SetActive(ctx context.Context, id string, active bool) error {
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("category", id)
	}
	return nil
}
