package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"primetrade/internal/model"
)

// Without a reachable redis the cache must behave like a permanent miss and
// never error; the task service relies on this to degrade gracefully.
func TestTaskListCache_FailsSafeWithoutRedis(t *testing.T) {
	c := NewTaskListCache(nil)
	ownerID := uuid.New()
	ctx := context.Background()

	_, ok := c.Get(ctx, ownerID)
	assert.False(t, ok)

	c.Set(ctx, ownerID, []model.Task{{ID: uuid.New(), OwnerID: ownerID, Title: "one"}})
	_, ok = c.Get(ctx, ownerID)
	assert.False(t, ok)

	c.Invalidate(ctx, ownerID)
}
