package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// ErrPanic wraps the value of a recovered panic.
var ErrPanic = errors.New("goroutine panicked")

// Manager runs functions in goroutines, at most limit at a time.
type Manager struct {
	mu   sync.Mutex
	errs []error
	wg   sync.WaitGroup
	sema chan struct{}
}

func NewManager(limit int) *Manager {
	if limit < 1 {
		limit = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, limit),
	}
}

// Go runs f once a slot is free. It blocks while the manager is full; if ctx
// ends first, f never runs and ctx.Err() is recorded instead.
func (m *Manager) Go(ctx context.Context, f func(ctx context.Context) error) {
	select {
	case m.sema <- struct{}{}:
	case <-ctx.Done():
		m.record(ctx.Err())
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() { <-m.sema }()
		defer func() {
			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in goroutine", "panic", rvr, "stack", string(debug.Stack()))
				m.record(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
		}()

		if err := f(ctx); err != nil {
			m.record(err)
		}
	}()
}

// Wait blocks until every started task returns and joins their errors.
func (m *Manager) Wait() error {
	m.wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	return errors.Join(m.errs...)
}

func (m *Manager) record(err error) {
	m.mu.Lock()
	m.errs = append(m.errs, err)
	m.mu.Unlock()
}
