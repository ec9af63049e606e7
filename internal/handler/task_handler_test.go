package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "primetrade/internal/errors"
	"primetrade/internal/model"
	"primetrade/internal/service"
)

// MockTaskService is a mock implementation of TaskService.
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error) {
	args := m.Called(ctx, ownerID, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch service.TaskPatch) (*model.Task, error) {
	args := m.Called(ctx, ownerID, taskID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	args := m.Called(ctx, ownerID, taskID)
	return args.Error(0)
}

func withParamID(c echo.Context, id string) {
	c.SetPath("/api/tasks/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func TestTaskHandler_List(t *testing.T) {
	userID := uuid.New()

	t.Run("returns tasks", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("List", mock.Anything, userID).Return([]model.Task{
			{ID: uuid.New(), OwnerID: userID, Title: "one"},
		}, nil)

		h := NewTaskHandler(svc)
		c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/tasks", "", &userID)

		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var tasks []model.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
		require.Len(t, tasks, 1)
		assert.Equal(t, "one", tasks[0].Title)
	})

	t.Run("empty list is a JSON array, not null", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("List", mock.Anything, userID).Return(nil, nil)

		h := NewTaskHandler(svc)
		c, rec := newJSONContext(newTestEcho(), http.MethodGet, "/api/tasks", "", &userID)

		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestTaskHandler_Create(t *testing.T) {
	userID := uuid.New()

	t.Run("owner in the body is ignored", func(t *testing.T) {
		task := &model.Task{ID: uuid.New(), OwnerID: userID, Title: "Buy milk"}
		svc := new(MockTaskService)
		svc.On("Create", mock.Anything, userID, "Buy milk", "").Return(task, nil)

		h := NewTaskHandler(svc)
		// A spoofed owner field never reaches the service.
		c, rec := newJSONContext(newTestEcho(), http.MethodPost, "/api/tasks",
			`{"title":"Buy milk","owner":"`+uuid.New().String()+`"}`, &userID)

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var created model.Task
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, userID, created.OwnerID)
		assert.False(t, created.IsCompleted)
		svc.AssertExpectations(t)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		svc := new(MockTaskService)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodPost, "/api/tasks",
			`{"description":"no title"}`, &userID)

		err := h.Create(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskHandler_Get(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("invalid id", func(t *testing.T) {
		h := NewTaskHandler(new(MockTaskService))
		c, _ := newJSONContext(newTestEcho(), http.MethodGet, "/api/tasks/nope", "", &userID)
		withParamID(c, "nope")

		err := h.Get(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
	})

	t.Run("missing task maps to 404", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, userID, taskID).Return(nil, apperrors.ErrTaskNotFound)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodGet, "/api/tasks/"+taskID.String(), "", &userID)
		withParamID(c, taskID.String())

		err := h.Get(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})

	t.Run("someone else's task maps to 403", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Get", mock.Anything, userID, taskID).Return(nil, apperrors.ErrNotTaskOwner)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodGet, "/api/tasks/"+taskID.String(), "", &userID)
		withParamID(c, taskID.String())

		err := h.Get(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})
}

func TestTaskHandler_Update(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("explicit false is forwarded, absent fields are nil", func(t *testing.T) {
		task := &model.Task{ID: taskID, OwnerID: userID, Title: "kept", IsCompleted: false}
		svc := new(MockTaskService)
		svc.On("Update", mock.Anything, userID, taskID, mock.MatchedBy(func(patch service.TaskPatch) bool {
			return patch.Title == nil &&
				patch.Description == nil &&
				patch.IsCompleted != nil && !*patch.IsCompleted
		})).Return(task, nil)

		h := NewTaskHandler(svc)
		c, rec := newJSONContext(newTestEcho(), http.MethodPut, "/api/tasks/"+taskID.String(),
			`{"isCompleted":false}`, &userID)
		withParamID(c, taskID.String())

		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("empty title maps to 400", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Update", mock.Anything, userID, taskID, mock.MatchedBy(func(patch service.TaskPatch) bool {
			return patch.Title != nil && *patch.Title == ""
		})).Return(nil, apperrors.ErrTitleRequired)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodPut, "/api/tasks/"+taskID.String(),
			`{"title":""}`, &userID)
		withParamID(c, taskID.String())

		err := h.Update(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		svc.AssertExpectations(t)
	})

	t.Run("wrong owner maps to 403", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Update", mock.Anything, userID, taskID, mock.Anything).Return(nil, apperrors.ErrNotTaskOwner)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodPut, "/api/tasks/"+taskID.String(),
			`{"title":"stolen"}`, &userID)
		withParamID(c, taskID.String())

		err := h.Update(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
	})
}

func TestTaskHandler_Delete(t *testing.T) {
	userID := uuid.New()
	taskID := uuid.New()

	t.Run("success returns confirmation", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, userID, taskID).Return(nil)

		h := NewTaskHandler(svc)
		c, rec := newJSONContext(newTestEcho(), http.MethodDelete, "/api/tasks/"+taskID.String(), "", &userID)
		withParamID(c, taskID.String())

		require.NoError(t, h.Delete(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp MessageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "task removed", resp.Message)
	})

	t.Run("missing task maps to 404", func(t *testing.T) {
		svc := new(MockTaskService)
		svc.On("Delete", mock.Anything, userID, taskID).Return(apperrors.ErrTaskNotFound)

		h := NewTaskHandler(svc)
		c, _ := newJSONContext(newTestEcho(), http.MethodDelete, "/api/tasks/"+taskID.String(), "", &userID)
		withParamID(c, taskID.String())

		err := h.Delete(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusNotFound, he.Code)
	})
}
