// Package scheduler tracks one cancellable background task per room. It
// replaces ad hoc global timer registries: the card caller owns a Scheduler
// instance and every running call loop is registered here under its room id.
package scheduler

import (
	"context"
	"sync"
)

// Scheduler maps room ids to cancellable task handles
type Scheduler struct {
	mu    sync.Mutex
	tasks map[string]context.CancelFunc
}

// New creates an empty Scheduler
func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]context.CancelFunc)}
}

// Register reserves a task slot for roomID and returns a context that is
// cancelled when the task is stopped. ok is false when a task is already
// registered for the room.
func (s *Scheduler) Register(roomID string) (ctx context.Context, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[roomID]; exists {
		return nil, false
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.tasks[roomID] = cancel
	return ctx, true
}

// Cancel stops and deregisters the task for roomID. A tick already in
// flight is not interrupted; it completes and observes the cancelled
// context afterwards. Returns false when no task was registered.
func (s *Scheduler) Cancel(roomID string) bool {
	s.mu.Lock()
	cancel, exists := s.tasks[roomID]
	if exists {
		delete(s.tasks, roomID)
	}
	s.mu.Unlock()

	if exists {
		cancel()
	}
	return exists
}

// Deregister frees the slot for a task that exited on its own (deck
// exhaustion). The stored cancel func is still called so the task's
// context is released. Safe to call for an already-removed room.
func (s *Scheduler) Deregister(roomID string) {
	s.mu.Lock()
	cancel, exists := s.tasks[roomID]
	if exists {
		delete(s.tasks, roomID)
	}
	s.mu.Unlock()

	if exists {
		cancel()
	}
}

// Has reports whether a task is registered for roomID
func (s *Scheduler) Has(roomID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.tasks[roomID]
	return exists
}

// CancelAll stops every registered task
func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(s.tasks))
	for id, cancel := range s.tasks {
		cancels = append(cancels, cancel)
		delete(s.tasks, id)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}
