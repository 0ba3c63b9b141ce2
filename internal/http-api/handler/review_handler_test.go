package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/http-api/dto"
	"reviewhub/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, titleID int64, actor service.Actor, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, titleID, reviewID int64, actor service.Actor, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, titleID, reviewID int64, actor service.Actor) error {
	args := m.Called(ctx, titleID, reviewID, actor)
	return args.Error(0)
}

// fakeAuth stores token claims the way AuthMiddleware does, without a real token.
func fakeAuth(userID, username, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", username)
		c.Set("role", role)
		c.Set("superuser", false)
		c.Next()
	}
}

func jsonBody(body any) *bytes.Reader {
	payload, _ := json.Marshal(body)
	return bytes.NewReader(payload)
}

func setupReviewRouter(reviewService service.ReviewService, authMW gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	NewReviewHandler(reviewService).RegisterRoutes(api, authMW)
	return r
}

func TestReviewList_Success(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	paginated := dto.NewPaginatedReviewResponse([]dto.ReviewResponse{
		{ID: 1, Author: "alice", Text: "great", Score: 9},
	}, 1, 1, 20)
	mockReviews.On("GetTitleReviews", mock.Anything, int64(7), 1, 20).Return(paginated, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/7/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.PaginatedReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, "alice", resp.Data[0].Author)
}

func TestReviewList_UnknownTitle(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	mockReviews.On("GetTitleReviews", mock.Anything, int64(99), 1, 20).Return(nil, service.ErrTitleNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/99/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewList_InvalidTitleID(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/titles/abc/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockReviews.AssertNotCalled(t, "GetTitleReviews", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewCreateHandler_Success(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	created := &dto.ReviewResponse{ID: 11, Author: "alice", Text: "great", Score: 8}
	mockReviews.On("Create", mock.Anything, int64(7),
		mock.MatchedBy(func(a service.Actor) bool { return a.ID == "user-1" && a.Username == "alice" }),
		dto.CreateReviewDTO{Text: "great", Score: 8}).Return(created, nil)

	w := postJSON(r, "/api/v1/titles/7/reviews", gin.H{"text": "great", "score": 8})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp dto.ReviewResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.ID)
	mockReviews.AssertExpectations(t)
}

func TestReviewCreateHandler_ScoreOutOfRange(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	mockReviews.On("Create", mock.Anything, int64(7), mock.Anything,
		dto.CreateReviewDTO{Text: "x", Score: 11}).Return(nil, service.ErrScoreOutOfRange)

	w := postJSON(r, "/api/v1/titles/7/reviews", gin.H{"text": "x", "score": 11})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "between 1 and 10")
}

func TestReviewCreateHandler_Duplicate(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	mockReviews.On("Create", mock.Anything, int64(7), mock.Anything,
		dto.CreateReviewDTO{Text: "again", Score: 5}).Return(nil, service.ErrDuplicateReview)

	w := postJSON(r, "/api/v1/titles/7/reviews", gin.H{"text": "again", "score": 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already reviewed")
}

func TestReviewUpdateHandler_Forbidden(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-2", "bob", "user"))

	text := "rewrite"
	mockReviews.On("Update", mock.Anything, int64(7), int64(3), mock.Anything,
		dto.UpdateReviewDTO{Text: &text}).Return(nil, service.ErrPermissionDenied)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/titles/7/reviews/3",
		jsonBody(gin.H{"text": "rewrite"}))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewDeleteHandler_Success(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	mockReviews.On("Delete", mock.Anything, int64(7), int64(3), mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/titles/7/reviews/3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockReviews.AssertExpectations(t)
}

func TestReviewDeleteHandler_NotFound(t *testing.T) {
	mockReviews := new(MockReviewService)
	r := setupReviewRouter(mockReviews, fakeAuth("user-1", "alice", "user"))

	mockReviews.On("Delete", mock.Anything, int64(7), int64(404), mock.Anything).Return(service.ErrReviewNotFound)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/titles/7/reviews/404", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
