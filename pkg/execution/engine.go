package execution

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
	"shardexec/pkg/logging"
)

// Task is one unit of scan work submitted to the engine.
type Task func(ctx context.Context) error

// ExecutorEngine runs scan tasks on a bounded goroutine pool sized by the
// executor-size property. One engine is shared by every query of a process.
type ExecutorEngine struct {
	pool *ants.Pool
}

// NewExecutorEngine creates an engine with size workers. A size of zero uses
// the number of CPUs.
func NewExecutorEngine(size int) (*ExecutorEngine, error) {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	pool, err := ants.NewPool(size, ants.WithPanicHandler(func(v interface{}) {
		logging.Error("executor task panicked", zap.Any("panic", v))
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create executor pool")
	}
	return &ExecutorEngine{pool: pool}, nil
}

// Size returns the worker capacity.
func (e *ExecutorEngine) Size() int {
	return e.pool.Cap()
}

// Execute runs every task and blocks until all of them return. With serial
// set, or without an engine, tasks run one after another on the calling
// goroutine and execution stops at the first error. Otherwise tasks run on the
// pool; the first failure cancels the context passed to the others and is the
// error returned.
//
// The task context stays live after a successful Execute: streamed cursors
// opened by the tasks are bound to it and are read after Execute returns.
func (e *ExecutorEngine) Execute(ctx context.Context, tasks []Task, serial bool) error {
	if len(tasks) == 0 {
		return nil
	}
	if serial || e == nil || len(tasks) == 1 {
		for _, task := range tasks {
			if err := runTask(ctx, task); err != nil {
				return err
			}
		}
		return nil
	}

	// cancelled only on failure; released with the parent otherwise
	ctx, cancel := context.WithCancel(ctx)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for _, task := range tasks {
		task := task
		wg.Add(1)
		if err := e.pool.Submit(func() {
			defer wg.Done()
			if err := runTask(ctx, task); err != nil {
				fail(err)
			}
		}); err != nil {
			wg.Done()
			fail(errors.Wrap(err, "submit executor task"))
			break
		}
	}

	wg.Wait()
	return firstErr
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("executor task panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	return task(ctx)
}

// Release stops the pool. Running tasks finish; new submissions fail.
func (e *ExecutorEngine) Release() {
	if e != nil {
		e.pool.Release()
	}
}

func (e *ExecutorEngine) String() string {
	return fmt.Sprintf("ExecutorEngine(size=%d)", e.Size())
}
