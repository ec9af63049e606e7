package client

import (
	"context"

	"github.com/google/uuid"
)

// Filter selects which tasks a view returns.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// TaskList is a local view of the user's tasks with optimistic mutations:
// each change is applied to the local slice first, the prior snapshot is
// retained, and the snapshot is restored if the server call fails. Between
// the local apply and the server's confirmation the view may show state the
// server has not accepted yet. Not safe for concurrent use.
type TaskList struct {
	api   *Client
	tasks []Task
}

// NewTaskList creates an empty view backed by the given client.
func NewTaskList(api *Client) *TaskList {
	return &TaskList{api: api}
}

// Load replaces the local view with the server's task list.
func (l *TaskList) Load(ctx context.Context) error {
	tasks, err := l.api.Tasks(ctx)
	if err != nil {
		return err
	}
	l.tasks = tasks
	return nil
}

// Tasks returns the local view, filtered client-side.
func (l *TaskList) Tasks(filter Filter) []Task {
	if filter == FilterAll {
		return l.tasks
	}

	out := make([]Task, 0, len(l.tasks))
	for _, t := range l.tasks {
		if (filter == FilterCompleted) == t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// Stats returns total, active and completed counts over the local view.
func (l *TaskList) Stats() (total, active, completed int) {
	total = len(l.tasks)
	for _, t := range l.tasks {
		if t.IsCompleted {
			completed++
		}
	}
	active = total - completed
	return total, active, completed
}

// Add appends a placeholder task locally, then creates it on the server.
// On success the placeholder is replaced with the server's record; on
// failure the list is rolled back.
func (l *TaskList) Add(ctx context.Context, title, description string) (*Task, error) {
	snapshot := l.snapshot()

	placeholder := Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
	}
	l.tasks = append(l.tasks, placeholder)

	created, err := l.api.CreateTask(ctx, title, description)
	if err != nil {
		l.tasks = snapshot
		return nil, err
	}

	l.tasks[len(l.tasks)-1] = *created
	return created, nil
}

// Toggle flips a task's completion locally, then confirms with the server.
func (l *TaskList) Toggle(ctx context.Context, id uuid.UUID) error {
	idx := l.index(id)
	if idx < 0 {
		return &APIError{Status: 404, Message: "task not found"}
	}

	snapshot := l.snapshot()

	next := !l.tasks[idx].IsCompleted
	l.tasks[idx].IsCompleted = next

	updated, err := l.api.UpdateTask(ctx, id, TaskPatch{IsCompleted: &next})
	if err != nil {
		l.tasks = snapshot
		return err
	}

	l.tasks[idx] = *updated
	return nil
}

// Remove deletes a task locally, then confirms with the server.
func (l *TaskList) Remove(ctx context.Context, id uuid.UUID) error {
	idx := l.index(id)
	if idx < 0 {
		return &APIError{Status: 404, Message: "task not found"}
	}

	snapshot := l.snapshot()
	l.tasks = append(l.tasks[:idx:idx], l.tasks[idx+1:]...)

	if err := l.api.DeleteTask(ctx, id); err != nil {
		l.tasks = snapshot
		return err
	}
	return nil
}

func (l *TaskList) index(id uuid.UUID) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *TaskList) snapshot() []Task {
	snap := make([]Task, len(l.tasks))
	copy(snap, l.tasks)
	return snap
}
