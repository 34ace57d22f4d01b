package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// KeyedLock implements ports.WalletLocker as an in-process table of
// per-wallet exclusive sections. Waiters for the same wallet are granted
// the section in FIFO order; sections for distinct wallets are fully
// independent. A configured timeout bounds every acquisition so a stuck
// holder cannot starve waiters indefinitely.
type KeyedLock struct {
	mu      sync.Mutex
	timeout time.Duration
	entries map[uuid.UUID]*entry
}

type entry struct {
	held  bool
	queue []*waiter
}

type waiter struct {
	ready chan struct{}
}

// New creates a KeyedLock. timeout <= 0 disables the acquisition bound
// (the caller's context still applies).
func New(timeout time.Duration) *KeyedLock {
	return &KeyedLock{
		timeout: timeout,
		entries: make(map[uuid.UUID]*entry),
	}
}

// Acquire blocks until the wallet's exclusive section is free, then returns
// the release function for it. If the context is cancelled or the timeout
// elapses first, the caller never enters the section and no release is due.
func (l *KeyedLock) Acquire(ctx context.Context, walletID uuid.UUID) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	l.mu.Lock()
	e := l.entries[walletID]
	if e == nil {
		e = &entry{}
		l.entries[walletID] = e
	}
	if !e.held {
		e.held = true
		l.mu.Unlock()
		return func() { l.release(walletID) }, nil
	}

	w := &waiter{ready: make(chan struct{})}
	e.queue = append(e.queue, w)
	l.mu.Unlock()

	select {
	case <-w.ready:
		return func() { l.release(walletID) }, nil
	case <-ctx.Done():
		l.mu.Lock()
		defer l.mu.Unlock()
		// The grant may have raced the cancellation; the handover happens
		// under l.mu, so re-checking here is safe.
		select {
		case <-w.ready:
			return func() { l.release(walletID) }, nil
		default:
		}
		for i, q := range e.queue {
			if q == w {
				e.queue = append(e.queue[:i], e.queue[i+1:]...)
				break
			}
		}
		return nil, ctx.Err()
	}
}

// release hands the section to the oldest waiter, or frees it.
func (l *KeyedLock) release(walletID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.entries[walletID]
	if e == nil {
		return
	}
	if len(e.queue) > 0 {
		next := e.queue[0]
		e.queue = e.queue[1:]
		close(next.ready) // section stays held, ownership transfers
		return
	}
	e.held = false
	delete(l.entries, walletID)
}
