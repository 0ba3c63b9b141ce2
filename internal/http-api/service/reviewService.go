package service

import (
	"context"
	"errors"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound   = errors.New("review not found")
	ErrScoreOutOfRange  = errors.New("score must be between 1 and 10")
	ErrDuplicateReview  = errors.New("you have already reviewed this title")
	ErrPermissionDenied = errors.New("you don't have permission to modify this resource")
)

// validateScore is the one place the score bounds live.
func validateScore(score int) error {
	if score < 1 || score > 10 {
		return ErrScoreOutOfRange
	}
	return nil
}

type ReviewService interface {
	GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, titleID int64, actor Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, titleID, reviewID int64, actor Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, titleID, reviewID int64, actor Actor) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// checkTitle 404s unknown parents before anything else is evaluated.
func (s *reviewService) checkTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(responses, total, page, pageSize), nil
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create adds a review with the author taken from the token, never the body.
// One review per (title, author).
func (s *reviewService) Create(ctx context.Context, titleID int64, actor Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := validateScore(req.Score); err != nil {
		return nil, err
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(ctx, titleID, actor.ID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.updateTitleRating(ctx, titleID); err != nil {
		return nil, err
	}

	// Reload with author data
	review, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, titleID, reviewID int64, actor Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if review.AuthorID != actor.ID && !actor.CanModerate() {
		return nil, ErrPermissionDenied
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	if err := s.updateTitleRating(ctx, titleID); err != nil {
		return nil, err
	}

	review, err = s.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, titleID, reviewID int64, actor Actor) error {
	if err := s.checkTitle(ctx, titleID); err != nil {
		return err
	}

	review, err := s.reviewRepo.GetByTitleAndID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}

	if review.AuthorID != actor.ID && !actor.CanModerate() {
		return ErrPermissionDenied
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}
	return s.updateTitleRating(ctx, titleID)
}

// updateTitleRating refreshes the stored aggregate on the parent title.
func (s *reviewService) updateTitleRating(ctx context.Context, titleID int64) error {
	avg, err := s.reviewRepo.AverageScore(ctx, titleID)
	if err != nil {
		return err
	}
	return s.titleRepo.UpdateRating(ctx, titleID, avg)
}
