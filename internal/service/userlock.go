package service

import "sync"

// UserLocks hands out one advisory RWMutex per user. Sync holds the write
// side while mutating a user's index; search and clustering hold the read
// side so their batch computations never interleave with writes. Users are
// independent, cross-user concurrency is unconstrained.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.RWMutex)}
}

func (l *UserLocks) Get(userID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[userID]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[userID] = lock
	}
	return lock
}
