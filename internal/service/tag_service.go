package service

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"
)

type TagService struct {
	tagRepo repository.TagRepository
}

type CreateTagInput struct {
	Name        string
	Description string
	Color       string
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

func (s *TagService) CreateTag(ctx context.Context, in CreateTagInput) (*models.Tag, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	slug := Slugify(in.Name)
	if slug == "" {
		return nil, models.NewValidationError("Name must contain at least one slug-safe character")
	}

	tag := &models.Tag{
		Name:        in.Name,
		Slug:        slug,
		Description: in.Description,
		Color:       in.Color,
	}
	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tagRepo.List(ctx)
}

func (s *TagService) GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.tagRepo.GetBySlug(ctx, slug)
}
