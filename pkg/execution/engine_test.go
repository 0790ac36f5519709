package execution

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"shardexec/pkg/config"
	"shardexec/pkg/datasource"
	"shardexec/pkg/route"
)

func TestExecutorEngine_RunsAllTasks(t *testing.T) {
	engine, err := NewExecutorEngine(4)
	require.NoError(t, err)
	defer engine.Release()
	assert.Equal(t, 4, engine.Size())

	var count atomic.Int32
	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = func(context.Context) error {
			count.Add(1)
			return nil
		}
	}

	require.NoError(t, engine.Execute(context.Background(), tasks, false))
	assert.Equal(t, int32(10), count.Load())
}

func TestExecutorEngine_FirstErrorCancelsOthers(t *testing.T) {
	engine, err := NewExecutorEngine(2)
	require.NoError(t, err)
	defer engine.Release()

	boom := errors.New("boom")
	tasks := []Task{
		func(context.Context) error { return boom },
		func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	}

	err = engine.Execute(context.Background(), tasks, false)
	assert.ErrorIs(t, err, boom)
}

func TestExecutorEngine_TaskContextOutlivesSuccess(t *testing.T) {
	engine, err := NewExecutorEngine(2)
	require.NoError(t, err)
	defer engine.Release()

	seen := make([]context.Context, 2)
	tasks := []Task{
		func(ctx context.Context) error { seen[0] = ctx; return nil },
		func(ctx context.Context) error { seen[1] = ctx; return nil },
	}
	require.NoError(t, engine.Execute(context.Background(), tasks, false))

	for i, ctx := range seen {
		require.NotNil(t, ctx, "task %d", i)
		assert.NoError(t, ctx.Err(), "task %d", i)
	}
}

func TestExecutorEngine_TaskContextFollowsParent(t *testing.T) {
	engine, err := NewExecutorEngine(2)
	require.NoError(t, err)
	defer engine.Release()

	parent, cancel := context.WithCancel(context.Background())
	var seen context.Context
	tasks := []Task{
		func(ctx context.Context) error { seen = ctx; return nil },
		func(context.Context) error { return nil },
	}
	require.NoError(t, engine.Execute(parent, tasks, false))
	require.NoError(t, seen.Err())

	cancel()
	assert.ErrorIs(t, seen.Err(), context.Canceled)
}

func TestExecutorEngine_SerialStopsAtFirstError(t *testing.T) {
	var order []int
	boom := errors.New("boom")
	tasks := []Task{
		func(context.Context) error { order = append(order, 1); return nil },
		func(context.Context) error { order = append(order, 2); return boom },
		func(context.Context) error { order = append(order, 3); return nil },
	}

	var engine *ExecutorEngine
	err := engine.Execute(context.Background(), tasks, true)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, order)
}

func TestExecutorEngine_PanicBecomesError(t *testing.T) {
	engine, err := NewExecutorEngine(2)
	require.NoError(t, err)
	defer engine.Release()

	tasks := []Task{
		func(context.Context) error { panic("bad unit") },
		func(context.Context) error { return nil },
	}
	err = engine.Execute(context.Background(), tasks, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad unit")
}

func TestNewContext(t *testing.T) {
	params := []any{int64(1), "a"}
	props := config.DefaultProps()
	props.MaxConnectionsSizePerQuery = 3

	ctx := NewContext("SELECT 1", params,
		WithRoute(route.Broadcast("ds_0")),
		WithDatabaseType(datasource.SQLite),
		WithProps(props),
		WithHoldTransaction(true),
		WithQueryID("q-1"),
	)
	params[0] = int64(99)

	assert.Equal(t, "q-1", ctx.QueryID())
	assert.Equal(t, "SELECT 1", ctx.SQL())
	assert.Equal(t, int64(1), ctx.Parameters()[0])
	assert.Equal(t, datasource.SQLite, ctx.DatabaseType())
	assert.Equal(t, 3, ctx.Props().MaxConnectionsSizePerQuery)
	assert.True(t, ctx.HoldTransaction())
	assert.Equal(t, []string{"ds_0"}, ctx.Route().DataSourceNames())

	p, err := ctx.Parameter(1)
	require.NoError(t, err)
	assert.Equal(t, "a", p)
	_, err = ctx.Parameter(2)
	assert.Error(t, err)

	assert.NotEmpty(t, NewContext("", nil).QueryID())
}
