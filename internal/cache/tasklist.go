package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"primetrade/internal/model"
)

const (
	taskListKeyPrefix = "tasks:"
	taskListTTL       = 30 * time.Second
)

// TaskListCache keeps each user's task list in Redis for a short TTL. It is
// purely an optimization layer: every task write invalidates the owner's
// entry, and any cache failure falls through to the database.
type TaskListCache struct {
	cache *Client
}

// NewTaskListCache creates a new task list cache.
func NewTaskListCache(cache *Client) *TaskListCache {
	return &TaskListCache{cache: cache}
}

// Get returns the cached list for a user, or false on a miss.
func (c *TaskListCache) Get(ctx context.Context, ownerID uuid.UUID) ([]model.Task, bool) {
	key := taskListKeyPrefix + ownerID.String()
	data, err := c.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, false
	}
	return tasks, true
}

// Set stores a user's task list with the default TTL.
func (c *TaskListCache) Set(ctx context.Context, ownerID uuid.UUID, tasks []model.Task) {
	payload, err := json.Marshal(tasks)
	if err != nil {
		return
	}
	key := taskListKeyPrefix + ownerID.String()
	_ = c.cache.Set(ctx, key, payload, taskListTTL)
}

// Invalidate drops a user's cached list. Called on every task write.
func (c *TaskListCache) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	key := taskListKeyPrefix + ownerID.String()
	_ = c.cache.Delete(ctx, key)
}
