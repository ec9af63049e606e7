package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"primetrade/internal/cache"
	apperrors "primetrade/internal/errors"
	"primetrade/internal/model"
	"primetrade/internal/repository"
)

// TaskPatch carries the fields of a partial task update. Nil means "not
// provided"; a present false for IsCompleted still overwrites.
type TaskPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// TaskService handles task CRUD on behalf of an authenticated owner. Every
// method takes the acting user's id; ownership is enforced here, not in the
// handlers.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error)
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error)
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	taskRepo  repository.TaskRepository
	listCache *cache.TaskListCache
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, listCache *cache.TaskListCache) TaskService {
	return &taskService{
		taskRepo:  taskRepo,
		listCache: listCache,
	}
}

// List returns all of the owner's tasks, served from cache when possible.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Task, error) {
	if tasks, ok := s.listCache.Get(ctx, ownerID); ok {
		return tasks, nil
	}

	tasks, err := s.taskRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	s.listCache.Set(ctx, ownerID, tasks)
	return tasks, nil
}

// Get returns a single task after the existence and ownership checks.
func (s *taskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	return s.findOwned(ctx, ownerID, taskID)
}

// Create stores a new task. The owner is always the acting user; any owner
// supplied by the client never reaches this method.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*model.Task, error) {
	task := &model.Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.listCache.Invalidate(ctx, ownerID)
	return task, nil
}

// Update applies the present fields of patch to an owned task.
func (s *taskService) Update(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskPatch) (*model.Task, error) {
	task, err := s.findOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	// A present-but-empty title would strip the task of its required field;
	// absent stays "keep the current one".
	if patch.Title != nil && *patch.Title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.listCache.Invalidate(ctx, ownerID)
	return task, nil
}

// Delete removes an owned task.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	if _, err := s.findOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.listCache.Invalidate(ctx, ownerID)
	return nil
}

// findOwned loads a task and checks ownership. Existence is checked first,
// so a missing task is ErrTaskNotFound and someone else's task is
// ErrNotTaskOwner; the two are never conflated.
func (s *taskService) findOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}

	if task.OwnerID != ownerID {
		return nil, apperrors.ErrNotTaskOwner
	}

	return task, nil
}
