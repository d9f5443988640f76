package show

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"theatre-production-manager/internal/errors"
	"theatre-production-manager/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateShow(ctx context.Context, userID uint64, plan string, show *Show) error {
	args := m.Called(ctx, userID, plan, show)
	return args.Error(0)
}

func (m *MockService) GetShow(ctx context.Context, showID string, userID uint64) (*Show, error) {
	args := m.Called(ctx, showID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Show), args.Error(1)
}

func (m *MockService) ListUserShows(ctx context.Context, userID uint64) ([]Show, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Show), args.Error(1)
}

func (m *MockService) UpdateShow(ctx context.Context, showID string, userID uint64, partial map[string]any) error {
	args := m.Called(ctx, showID, userID, partial)
	return args.Error(0)
}

func (m *MockService) DeleteShow(ctx context.Context, showID string, userID uint64) error {
	args := m.Called(ctx, showID, userID)
	return args.Error(0)
}

func (m *MockService) CanEdit(ctx context.Context, showID string, userID uint64) (bool, error) {
	args := m.Called(ctx, showID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) ListCollaborators(ctx context.Context, showID string, requesterID uint64) ([]Collaborator, error) {
	args := m.Called(ctx, showID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Collaborator), args.Error(1)
}

func (m *MockService) AddCollaborator(ctx context.Context, showID string, requesterID uint64, plan string, collab *Collaborator) error {
	args := m.Called(ctx, showID, requesterID, plan, collab)
	return args.Error(0)
}

func (m *MockService) ChangeCollaboratorRole(ctx context.Context, showID string, requesterID uint64, targetUserID uint64, role string) error {
	args := m.Called(ctx, showID, requesterID, targetUserID, role)
	return args.Error(0)
}

func (m *MockService) RemoveCollaborator(ctx context.Context, showID string, requesterID uint64, targetUserID uint64) error {
	args := m.Called(ctx, showID, requesterID, targetUserID)
	return args.Error(0)
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(testLogger()))
	return router
}

func withUser(userID uint64, plan string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_plan", plan)
		c.Next()
	}
}

func TestCreateShowHandler(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.POST("/shows", withUser(1, "free"), handler.Create)

	mockService.
		On("CreateShow", mock.Anything, uint64(1), "free", mock.AnythingOfType("*show.Show")).
		Run(func(args mock.Arguments) {
			args.Get(3).(*Show).ID = "show-1"
		}).
		Return(nil)

	body := bytes.NewBufferString(`{"name": "The Tempest", "venue": "Globe"}`)
	req := httptest.NewRequest(http.MethodPost, "/shows", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "show-1")
	assert.Contains(t, recorder.Body.String(), "The Tempest")
	mockService.AssertExpectations(t)
}

func TestCreateShowHandler_MissingName(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.POST("/shows", withUser(1, "free"), handler.Create)

	body := bytes.NewBufferString(`{"venue": "Globe"}`)
	req := httptest.NewRequest(http.MethodPost, "/shows", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	mockService.AssertNotCalled(t, "CreateShow")
}

func TestCreateShowHandler_QuotaExceeded(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.POST("/shows", withUser(1, "free"), handler.Create)

	mockService.
		On("CreateShow", mock.Anything, uint64(1), "free", mock.AnythingOfType("*show.Show")).
		Return(errors.QuotaExceeded("shows", 3))

	body := bytes.NewBufferString(`{"name": "One Too Many"}`)
	req := httptest.NewRequest(http.MethodPost, "/shows", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "3 shows")
	mockService.AssertExpectations(t)
}

func TestListShowsHandler_Paginates(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.GET("/shows", withUser(1, "free"), handler.List)

	shows := []Show{
		{ID: "show-1", Name: "Hamlet"},
		{ID: "show-2", Name: "Macbeth"},
		{ID: "show-3", Name: "Othello"},
	}
	mockService.On("ListUserShows", mock.Anything, uint64(1)).Return(shows, nil)

	req := httptest.NewRequest(http.MethodGet, "/shows?page=2&per_page=2", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Othello")
	assert.NotContains(t, recorder.Body.String(), "Hamlet")
	assert.Contains(t, recorder.Body.String(), `"total":3`)
	mockService.AssertExpectations(t)
}

func TestGetShowHandler_NotFound(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.GET("/shows/:id", withUser(1, "free"), handler.Get)

	mockService.
		On("GetShow", mock.Anything, "missing", uint64(1)).
		Return(nil, errors.NotFound("Show not found", nil))

	req := httptest.NewRequest(http.MethodGet, "/shows/missing", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	mockService.AssertExpectations(t)
}

func TestDeleteShowHandler(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.DELETE("/shows/:id", withUser(1, "free"), handler.Delete)

	mockService.On("DeleteShow", mock.Anything, "show-1", uint64(1)).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/shows/show-1", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	mockService.AssertExpectations(t)
}

func TestAddCollaboratorHandler_RejectsBadRole(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.POST("/shows/:id/collaborators", withUser(1, "standard"), handler.AddCollaborator)

	body := bytes.NewBufferString(`{"user_id": 2, "email": "crew@example.com", "role": "owner"}`)
	req := httptest.NewRequest(http.MethodPost, "/shows/show-1/collaborators", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	mockService.AssertNotCalled(t, "AddCollaborator")
}

func TestRemoveCollaboratorHandler_BadUserParam(t *testing.T) {
	mockService := new(MockService)
	handler := NewHandler(mockService)

	router := setupRouter()
	router.DELETE("/shows/:id/collaborators/:userId", withUser(1, "standard"), handler.RemoveCollaborator)

	req := httptest.NewRequest(http.MethodDelete, "/shows/show-1/collaborators/not-a-number", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	mockService.AssertNotCalled(t, "RemoveCollaborator")
}
