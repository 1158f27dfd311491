// Package tracking records link clicks without ever holding up the visitor.
package tracking

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Incrementer atomically bumps a link's click counter.
type Incrementer interface {
	IncrementClicks(ctx context.Context, userID, linkID string) error
}

const DefaultTimeout = 5 * time.Second

// Async is a fire-and-forget tracker. Each click runs detached from the
// caller's context with its own timeout; failures are logged and dropped.
type Async struct {
	store   Incrementer
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(store Incrementer, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Async{store: store, timeout: timeout}
}

func (a *Async) TrackClick(ctx context.Context, userID, linkID string) {
	if userID == "" || linkID == "" {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.store.IncrementClicks(ctx, userID, linkID); err != nil {
			slog.Warn("Failed to track click", "user_id", userID, "link_id", linkID, "error", err)
		}
	}()
}

// Wait blocks until in-flight clicks settle. Used at shutdown.
func (a *Async) Wait() {
	a.wg.Wait()
}
