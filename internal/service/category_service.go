package service

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"
)

// maxCategoryDepth bounds the ancestor walk; a chain this long is either a
// cycle that slipped past a concurrent update or a tree nobody can navigate.
const maxCategoryDepth = 32

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Name        string
	Description string
	ParentID    *string
	Order       int
	CreatedByID string
	Metadata    string
}

type UpdateCategoryInput struct {
	ID          string
	Name        *string
	Description *string
	Order       *int
	ParentID    *string
	ClearParent bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	slug := Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain at least one slug-safe character")
	}

	if in.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsActive {
			return nil, models.NewValidationError("Parent category is not active")
		}
	}

	category := &models.Category{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		ParentID:    in.ParentID,
		Order:       in.Order,
		IsActive:    true,
		CreatedByID: in.CreatedByID,
		Metadata:    in.Metadata,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Name is required")
		}
		// The slug stays stable on rename so existing links keep resolving.
		category.Name = *in.Name
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if in.Order != nil {
		category.Order = *in.Order
	}

	switch {
	case in.ClearParent:
		category.ParentID = nil
	case in.ParentID != nil:
		if *in.ParentID == category.ID {
			return nil, models.NewValidationError("Category cannot be its own parent")
		}
		parent, err := s.categoryRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if !parent.IsActive {
			return nil, models.NewValidationError("Parent category is not active")
		}
		if err := s.ensureNoCycle(ctx, category.ID, *in.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = in.ParentID
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// ensureNoCycle walks the ancestor chain from parentID and rejects the
// reparent when it would make categoryID its own ancestor.
func (s *CategoryService) ensureNoCycle(ctx context.Context, categoryID, parentID string) error {
	cur := parentID
	for depth := 0; depth < maxCategoryDepth; depth++ {
		if cur == categoryID {
			return models.NewValidationError("Category cannot be its own ancestor")
		}
		parent, err := s.categoryRepo.GetByID(ctx, cur)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		cur = *parent.ParentID
	}
	return models.NewValidationError("Category tree too deep")
}

// DeactivateCategory retires a category without deleting it; existing threads
// keep their reference and listings drop it.
func (s *CategoryService) DeactivateCategory(ctx context.Context, id string) error {
	return s.categoryRepo.SetActive(ctx, id, false)
}

func (s *CategoryService) ActivateCategory(ctx context.Context, id string) error {
	return s.categoryRepo.SetActive(ctx, id, true)
}

func (s *CategoryService) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.categoryRepo.List(ctx, activeOnly)
}

func (s *CategoryService) CategoriesWithStats(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	return s.categoryRepo.ListWithStats(ctx, activeOnly)
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.categoryRepo.GetBySlug(ctx, slug)
}

func (s *CategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}
