package iterator

import (
	"sync"
	"sync/atomic"

	dberror "shardexec/pkg/error"
)

// InitFunc is the operator-specific part of Init. It runs at most once.
type InitFunc func() error

// CloseFunc is the operator-specific part of Close. It runs at most once.
type CloseFunc func() error

// BaseOperator implements the once-only lifecycle shared by every operator:
// double-checked initialization (an atomic fast path, a mutex for the first
// caller), idempotent close and the default unsupported Reset.
type BaseOperator struct {
	name      string
	initFunc  InitFunc
	closeFunc CloseFunc

	initMu   sync.Mutex
	initDone atomic.Bool
	initErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewBaseOperator creates a lifecycle base. Either function may be nil.
func NewBaseOperator(name string, initFunc InitFunc, closeFunc CloseFunc) *BaseOperator {
	return &BaseOperator{
		name:      name,
		initFunc:  initFunc,
		closeFunc: closeFunc,
	}
}

// Name returns the operator name used in logs and errors.
func (b *BaseOperator) Name() string {
	return b.name
}

// Init runs the init hook exactly once. A failure is wrapped with the operator
// name, remembered, and returned to every later caller.
func (b *BaseOperator) Init() error {
	if b.initDone.Load() {
		return b.initErr
	}

	b.initMu.Lock()
	defer b.initMu.Unlock()

	if b.initDone.Load() {
		return b.initErr
	}

	if b.initFunc != nil {
		if err := b.initFunc(); err != nil {
			b.initErr = dberror.InitFailed(err, b.name)
		}
	}
	b.initDone.Store(true)
	return b.initErr
}

// Initialized reports whether Init has completed (successfully or not).
func (b *BaseOperator) Initialized() bool {
	return b.initDone.Load()
}

// Close runs the close hook exactly once and returns its result on every call.
func (b *BaseOperator) Close() error {
	b.closeOnce.Do(func() {
		if b.closeFunc != nil {
			b.closeErr = b.closeFunc()
		}
	})
	return b.closeErr
}

// Reset is unsupported unless an operator overrides it.
func (b *BaseOperator) Reset() error {
	return dberror.Unsupported("Reset", b.name)
}
