package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskpilot/internal/service"
)

// MockTaskService is a mock implementation of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]service.TaskView, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.TaskView), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, cmd service.CreateTaskCommand) (*service.TaskView, error) {
	args := m.Called(ctx, ownerID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskView), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID uuid.UUID, taskID string, cmd service.UpdateTaskCommand) (*service.TaskView, error) {
	args := m.Called(ctx, ownerID, taskID, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TaskView), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID uuid.UUID, taskID string) (string, error) {
	args := m.Called(ctx, ownerID, taskID)
	return args.String(0), args.Error(1)
}

func newTaskContext(method, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/api/tasks/abc", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("abc")
	c.Set("userID", userID)
	return c, rec
}

func TestTaskHandler_UpdatePassesPresentFieldsOnly(t *testing.T) {
	userID := uuid.New()
	svc := new(MockTaskService)
	want := service.UpdateTaskCommand{
		Status:   service.Some("completed"),
		Category: service.Null[string](),
	}
	svc.On("Update", mock.Anything, userID, "abc", want).Return(&service.TaskView{Title: "t", Status: "completed"}, nil)

	c, rec := newTaskContext(http.MethodPut, `{"status":"completed","category":null}`, userID)
	err := NewTaskHandler(svc).Update(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
	assert.Contains(t, rec.Body.String(), `"category":null`)
	svc.AssertExpectations(t)
}

func TestTaskHandler_MalformedBody(t *testing.T) {
	c, _ := newTaskContext(http.MethodPost, `{"title":`, uuid.New())

	err := NewTaskHandler(new(MockTaskService)).Create(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestTaskHandler_DeleteWithoutUser(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodDelete, "/api/tasks/abc", nil), httptest.NewRecorder())

	err := NewTaskHandler(new(MockTaskService)).Delete(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
