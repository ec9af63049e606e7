package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"primetrade/internal/cache"
	apperrors "primetrade/internal/errors"
	"primetrade/internal/model"
)

// MockTaskRepository is a mock implementation of TaskRepository.
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, task *model.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func newTestTaskService(repo *MockTaskRepository) TaskService {
	// A cache with no redis client behind it always misses.
	return NewTaskService(repo, cache.NewTaskListCache(nil))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestTaskService_CreateForcesOwner(t *testing.T) {
	ownerID := uuid.New()

	repo := new(MockTaskRepository)
	var created *model.Task
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Task")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*model.Task)
	}).Return(nil)

	svc := newTestTaskService(repo)
	task, err := svc.Create(context.Background(), ownerID, "Buy milk", "2 liters")

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, "2 liters", task.Description)
	assert.False(t, task.IsCompleted)
	repo.AssertExpectations(t)
}

func TestTaskService_OwnershipChecks(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()
	taskID := uuid.New()

	owned := func() *model.Task {
		return &model.Task{ID: taskID, OwnerID: ownerID, Title: "mine"}
	}

	ops := []struct {
		name string
		call func(svc TaskService, actingID uuid.UUID) error
	}{
		{
			name: "get",
			call: func(svc TaskService, actingID uuid.UUID) error {
				_, err := svc.Get(context.Background(), actingID, taskID)
				return err
			},
		},
		{
			name: "update",
			call: func(svc TaskService, actingID uuid.UUID) error {
				_, err := svc.Update(context.Background(), actingID, taskID, TaskPatch{Title: strPtr("stolen")})
				return err
			},
		},
		{
			name: "delete",
			call: func(svc TaskService, actingID uuid.UUID) error {
				return svc.Delete(context.Background(), actingID, taskID)
			},
		},
	}

	for _, op := range ops {
		t.Run(op.name+" by non-owner fails", func(t *testing.T) {
			repo := new(MockTaskRepository)
			repo.On("FindByID", mock.Anything, taskID).Return(owned(), nil)

			err := op.call(newTestTaskService(repo), strangerID)
			assert.ErrorIs(t, err, apperrors.ErrNotTaskOwner)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})

		t.Run(op.name+" of missing task fails", func(t *testing.T) {
			repo := new(MockTaskRepository)
			repo.On("FindByID", mock.Anything, taskID).Return(nil, gorm.ErrRecordNotFound)

			err := op.call(newTestTaskService(repo), ownerID)
			assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
		})
	}
}

func TestTaskService_UpdatePatchSemantics(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	stored := func() *model.Task {
		return &model.Task{
			ID:          taskID,
			OwnerID:     ownerID,
			Title:       "original title",
			Description: "original description",
			IsCompleted: true,
		}
	}

	tests := []struct {
		name     string
		patch    TaskPatch
		expected model.Task
	}{
		{
			name:  "explicit false overwrites isCompleted",
			patch: TaskPatch{IsCompleted: boolPtr(false)},
			expected: model.Task{
				Title:       "original title",
				Description: "original description",
				IsCompleted: false,
			},
		},
		{
			name:  "absent fields stay untouched",
			patch: TaskPatch{Title: strPtr("new title")},
			expected: model.Task{
				Title:       "new title",
				Description: "original description",
				IsCompleted: true,
			},
		},
		{
			name:  "empty patch changes nothing",
			patch: TaskPatch{},
			expected: model.Task{
				Title:       "original title",
				Description: "original description",
				IsCompleted: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTaskRepository)
			repo.On("FindByID", mock.Anything, taskID).Return(stored(), nil)
			repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Task")).Return(nil)

			svc := newTestTaskService(repo)
			task, err := svc.Update(context.Background(), ownerID, taskID, tt.patch)

			require.NoError(t, err)
			assert.Equal(t, tt.expected.Title, task.Title)
			assert.Equal(t, tt.expected.Description, task.Description)
			assert.Equal(t, tt.expected.IsCompleted, task.IsCompleted)
			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_UpdateRejectsEmptyTitle(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	repo := new(MockTaskRepository)
	repo.On("FindByID", mock.Anything, taskID).Return(&model.Task{
		ID:      taskID,
		OwnerID: ownerID,
		Title:   "Buy milk",
	}, nil)

	svc := newTestTaskService(repo)
	_, err := svc.Update(context.Background(), ownerID, taskID, TaskPatch{Title: strPtr("")})

	assert.ErrorIs(t, err, apperrors.ErrTitleRequired)
	// Nothing may be written; a task never loses its title.
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTaskService_List(t *testing.T) {
	ownerID := uuid.New()
	stored := []model.Task{
		{ID: uuid.New(), OwnerID: ownerID, Title: "one"},
		{ID: uuid.New(), OwnerID: ownerID, Title: "two", IsCompleted: true},
	}

	repo := new(MockTaskRepository)
	repo.On("FindByOwner", mock.Anything, ownerID).Return(stored, nil)

	svc := newTestTaskService(repo)
	tasks, err := svc.List(context.Background(), ownerID)

	require.NoError(t, err)
	assert.Equal(t, stored, tasks)
	repo.AssertExpectations(t)
}

func TestTaskService_Delete(t *testing.T) {
	ownerID := uuid.New()
	taskID := uuid.New()

	repo := new(MockTaskRepository)
	repo.On("FindByID", mock.Anything, taskID).Return(&model.Task{ID: taskID, OwnerID: ownerID}, nil)
	repo.On("Delete", mock.Anything, taskID).Return(nil)

	svc := newTestTaskService(repo)
	require.NoError(t, svc.Delete(context.Background(), ownerID, taskID))
	repo.AssertExpectations(t)
}
