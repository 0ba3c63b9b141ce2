package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrBadSlug          = errors.New("slug may only contain letters, digits, hyphens and underscores")
	ErrSlugInUse        = errors.New("slug already in use")
	ErrCategoryNotFound = errors.New("category not found")
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error)
	Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	repo *repository.CategoryRepo
}

func NewCategoryService(r *repository.CategoryRepo) CategoryService {
	return &categoryService{repo: r}
}

func (s *categoryService) GetAll(ctx context.Context, search string) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return nil, err
	}
	list := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		list = append(list, *dto.FromModelToCategoryResponse(&categories[i]))
	}
	return list, nil
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateCategoryDTO) (*dto.CategoryResponse, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrBadSlug
	}
	if _, err := s.repo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, ErrSlugInUse
	}

	category := &models.Category{
		Name: strings.TrimSpace(req.Name),
		Slug: req.Slug,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return dto.FromModelToCategoryResponse(category), nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
