// FILE: chesscore/internal/server/service/waiter.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// WaitTimeout is the maximum time a client can wait for notifications
	WaitTimeout = 25 * time.Second
)

// WaitRegistry manages long-polling clients waiting for game state changes
type WaitRegistry struct {
	mu       sync.Mutex
	waiters  map[string][]*waitRequest // gameID → waiting clients
	timeout  time.Duration
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// waitRequest is one parked client. Its channel is closed exactly once, on
// state change, timeout, game removal, client disconnect or shutdown.
type waitRequest struct {
	moveCount int
	notify    chan struct{}
	once      sync.Once
	timer     *time.Timer
}

func (r *waitRequest) fire() {
	r.once.Do(func() { close(r.notify) })
}

// NewWaitRegistry creates a new wait registry
func NewWaitRegistry(timeout time.Duration) *WaitRegistry {
	if timeout <= 0 {
		timeout = WaitTimeout
	}
	return &WaitRegistry{
		waiters:  make(map[string][]*waitRequest),
		timeout:  timeout,
		shutdown: make(chan struct{}),
	}
}

// RegisterWait parks a client until the game's move count differs from
// moveCount. The returned channel is closed when the client should re-read.
func (w *WaitRegistry) RegisterWait(ctx context.Context, gameID string, moveCount int) <-chan struct{} {
	req := &waitRequest{
		moveCount: moveCount,
		notify:    make(chan struct{}),
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		req.fire()
		return req.notify
	}
	w.waiters[gameID] = append(w.waiters[gameID], req)
	w.wg.Add(1)
	w.mu.Unlock()

	req.timer = time.AfterFunc(w.timeout, req.fire)

	go func() {
		defer w.wg.Done()
		select {
		case <-ctx.Done():
		case <-req.notify:
		case <-w.shutdown:
		}
		req.timer.Stop()
		req.fire()
		w.removeWaiter(gameID, req)
	}()

	return req.notify
}

// NotifyGame wakes every waiter whose known move count is stale
func (w *WaitRegistry) NotifyGame(gameID string, currentMoveCount int) {
	w.mu.Lock()
	waitList := append([]*waitRequest(nil), w.waiters[gameID]...)
	w.mu.Unlock()

	for _, req := range waitList {
		if req.moveCount != currentMoveCount {
			req.fire()
		}
	}
}

// RemoveGame wakes and drops all waiters for a game (called on game deletion)
func (w *WaitRegistry) RemoveGame(gameID string) {
	w.mu.Lock()
	waitList := w.waiters[gameID]
	delete(w.waiters, gameID)
	w.mu.Unlock()

	for _, req := range waitList {
		req.fire()
	}
}

// waiting returns the number of parked clients for a game
func (w *WaitRegistry) waiting(gameID string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waiters[gameID])
}

// Shutdown releases every waiter and waits for their goroutines
func (w *WaitRegistry) Shutdown(timeout time.Duration) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.shutdown)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("wait registry shutdown timed out after %s", timeout)
	}
}

func (w *WaitRegistry) removeWaiter(gameID string, req *waitRequest) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waitList := w.waiters[gameID]
	for i, waiter := range waitList {
		if waiter == req {
			w.waiters[gameID] = append(waitList[:i], waitList[i+1:]...)
			break
		}
	}

	if len(w.waiters[gameID]) == 0 {
		delete(w.waiters, gameID)
	}
}
