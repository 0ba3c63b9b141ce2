package service

import (
	"context"
	"errors"
	"strings"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var ErrGenreNotFound = errors.New("genre not found")

type GenreService interface {
	GetAll(ctx context.Context, search string) ([]dto.GenreResponse, error)
	Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	repo *repository.GenreRepo
}

func NewGenreService(r *repository.GenreRepo) GenreService {
	return &genreService{repo: r}
}

func (s *genreService) GetAll(ctx context.Context, search string) ([]dto.GenreResponse, error) {
	genres, err := s.repo.GetAll(ctx, search)
	if err != nil {
		return nil, err
	}
	list := make([]dto.GenreResponse, 0, len(genres))
	for i := range genres {
		list = append(list, *dto.FromModelToGenreResponse(&genres[i]))
	}
	return list, nil
}

func (s *genreService) Create(ctx context.Context, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if !slugPattern.MatchString(req.Slug) {
		return nil, ErrBadSlug
	}
	if _, err := s.repo.GetBySlug(ctx, req.Slug); err == nil {
		return nil, ErrSlugInUse
	}

	genre := &models.Genre{
		Name: strings.TrimSpace(req.Name),
		Slug: req.Slug,
	}
	if err := s.repo.Create(ctx, genre); err != nil {
		return nil, err
	}
	return dto.FromModelToGenreResponse(genre), nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}
