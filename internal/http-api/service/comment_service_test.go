package service

import (
	"context"
	"testing"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, commentID int64) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByReviewAndID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReview(ctx context.Context, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(ctx, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

type commentServiceMocks struct {
	commentRepo *MockCommentRepository
	reviewRepo  *MockReviewRepository
	titleRepo   *MockTitleRepository
}

func newTestCommentService() (CommentService, commentServiceMocks) {
	mocks := commentServiceMocks{
		commentRepo: new(MockCommentRepository),
		reviewRepo:  new(MockReviewRepository),
		titleRepo:   new(MockTitleRepository),
	}
	return NewCommentService(mocks.commentRepo, mocks.reviewRepo, mocks.titleRepo), mocks
}

func (m commentServiceMocks) expectParents(titleID, reviewID int64) {
	m.titleRepo.On("GetByID", mock.Anything, titleID).Return(&models.Title{ID: titleID}, nil)
	m.reviewRepo.On("GetByTitleAndID", mock.Anything, titleID, reviewID).
		Return(&models.Review{ID: reviewID, TitleID: titleID}, nil)
}

func TestCommentCreate_Success(t *testing.T) {
	commentService, mocks := newTestCommentService()
	mocks.expectParents(7, 3)

	mocks.commentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = 21
	}).Return(nil)
	saved := &models.Comment{
		ID: 21, ReviewID: 3, AuthorID: "user-1", Text: "agreed",
		Author: models.User{ID: "user-1", Username: "alice"},
	}
	mocks.commentRepo.On("GetByReviewAndID", mock.Anything, int64(3), int64(21)).Return(saved, nil)

	actor := Actor{ID: "user-1", Username: "alice", Role: models.RoleUser}
	resp, err := commentService.Create(context.Background(), 7, 3, actor, dto.CreateCommentDTO{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, int64(21), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	mocks.commentRepo.AssertExpectations(t)
}

func TestCommentCreate_UnknownReview(t *testing.T) {
	commentService, mocks := newTestCommentService()

	mocks.titleRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Title{ID: 7}, nil)
	mocks.reviewRepo.On("GetByTitleAndID", mock.Anything, int64(7), int64(99)).Return(nil, gorm.ErrRecordNotFound)

	actor := Actor{ID: "user-1", Role: models.RoleUser}
	resp, err := commentService.Create(context.Background(), 7, 99, actor, dto.CreateCommentDTO{Text: "hi"})

	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.Nil(t, resp)
	mocks.commentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommentCreate_UnknownTitleBeforeReview(t *testing.T) {
	commentService, mocks := newTestCommentService()

	// the title is checked first; the review lookup never happens
	mocks.titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	actor := Actor{ID: "user-1", Role: models.RoleUser}
	resp, err := commentService.Create(context.Background(), 99, 3, actor, dto.CreateCommentDTO{Text: "hi"})

	assert.ErrorIs(t, err, ErrTitleNotFound)
	assert.Nil(t, resp)
	mocks.reviewRepo.AssertNotCalled(t, "GetByTitleAndID", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommentUpdate_NonAuthorDenied(t *testing.T) {
	commentService, mocks := newTestCommentService()
	mocks.expectParents(7, 3)

	comment := &models.Comment{ID: 21, ReviewID: 3, AuthorID: "user-1", Text: "original"}
	mocks.commentRepo.On("GetByReviewAndID", mock.Anything, int64(3), int64(21)).Return(comment, nil)

	actor := Actor{ID: "user-2", Role: models.RoleUser}
	resp, err := commentService.Update(context.Background(), 7, 3, 21, actor, dto.UpdateCommentDTO{Text: "hijack"})

	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Nil(t, resp)
	mocks.commentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestCommentDelete_ModeratorOverride(t *testing.T) {
	commentService, mocks := newTestCommentService()
	mocks.expectParents(7, 3)

	comment := &models.Comment{ID: 21, ReviewID: 3, AuthorID: "user-1", Text: "spam"}
	mocks.commentRepo.On("GetByReviewAndID", mock.Anything, int64(3), int64(21)).Return(comment, nil)
	mocks.commentRepo.On("Delete", mock.Anything, int64(21)).Return(nil)

	actor := Actor{ID: "mod-1", Role: models.RoleModerator}
	err := commentService.Delete(context.Background(), 7, 3, 21, actor)

	assert.NoError(t, err)
	mocks.commentRepo.AssertExpectations(t)
}

func TestCommentGetByID_NotFound(t *testing.T) {
	commentService, mocks := newTestCommentService()
	mocks.expectParents(7, 3)

	mocks.commentRepo.On("GetByReviewAndID", mock.Anything, int64(3), int64(404)).Return(nil, gorm.ErrRecordNotFound)

	resp, err := commentService.GetByID(context.Background(), 7, 3, 404)

	assert.ErrorIs(t, err, ErrCommentNotFound)
	assert.Nil(t, resp)
}
