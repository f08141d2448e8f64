package services

import "sync"

// roomLocks serializes operations per room id. Every room-scoped operation
// holds its room's lock for the whole read-modify-write cycle against the
// store, which prevents lost updates between overlapping commands and
// caller ticks. Operations on different rooms proceed independently.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*roomLock
}

type roomLock struct {
	mu   sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*roomLock)}
}

// lock acquires the mutex for roomID, creating it on first use
func (r *roomLocks) lock(roomID string) {
	r.mu.Lock()
	l, ok := r.locks[roomID]
	if !ok {
		l = &roomLock{}
		r.locks[roomID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
}

// unlock releases the mutex for roomID, dropping it once nobody waits
func (r *roomLocks) unlock(roomID string) {
	r.mu.Lock()
	l, ok := r.locks[roomID]
	if !ok {
		r.mu.Unlock()
		return
	}
	l.refs--
	if l.refs == 0 {
		delete(r.locks, roomID)
	}
	r.mu.Unlock()

	l.mu.Unlock()
}
