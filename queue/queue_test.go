package queue

import (
	"context"
	"testing"

	"github.com/pbanos/grove/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(id string) *Task {
	return &Task{Node: &tree.Node{ID: id}}
}

func TestMemQueueOrder(t *testing.T) {
	ctx := context.Background()
	q := New()
	for _, id := range []string{"1", "2", "3"} {
		require.NoError(t, q.Push(ctx, newTask(id)))
	}
	pending, running, err := q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, pending)
	assert.Equal(t, 0, running)

	task, tctx, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.NotNil(t, tctx)
	assert.Equal(t, "1", task.ID())

	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)
	assert.Equal(t, 1, running)

	require.NoError(t, q.Drop(ctx, "1"))
	task, _, err = q.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", task.ID())
	require.NoError(t, q.Complete(ctx, "2"))
	// dropping a completed task does nothing
	require.NoError(t, q.Drop(ctx, "2"))

	var ids []string
	for {
		task, _, err = q.Pull(ctx)
		require.NoError(t, err)
		if task == nil {
			break
		}
		ids = append(ids, task.ID())
		require.NoError(t, q.Complete(ctx, task.ID()))
	}
	assert.Equal(t, []string{"3", "1"}, ids)
	pending, running, err = q.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, pending+running)
}

func TestMemQueueStopCancelsTaskContexts(t *testing.T) {
	ctx := context.Background()
	q := New()
	require.NoError(t, q.Push(ctx, newTask("1")))
	_, tctx, err := q.Pull(ctx)
	require.NoError(t, err)
	require.NoError(t, q.Stop(ctx))
	assert.Error(t, tctx.Err())
}

func TestMemQueueCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q := New()
	assert.Error(t, q.Push(ctx, newTask("1")))
	_, _, err := q.Count(ctx)
	assert.Error(t, err)
}
