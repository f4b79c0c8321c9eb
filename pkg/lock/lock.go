// Package lock provides per-user locking for read-modify-write changes to a
// player's economy document.
package lock

import "sync"

type userMutex struct {
	mu       sync.Mutex
	refCount int
}

// UserLock hands out one mutex per user id. Entries are dropped once nobody
// holds or waits for them.
type UserLock struct {
	mu    sync.Mutex
	locks map[string]*userMutex
}

// NewUserLock creates a new UserLock instance
func NewUserLock() *UserLock {
	return &UserLock{locks: make(map[string]*userMutex)}
}

// Lock acquires the lock for a user
func (ul *UserLock) Lock(userID string) {
	ul.mu.Lock()
	lock, ok := ul.locks[userID]
	if !ok {
		lock = &userMutex{}
		ul.locks[userID] = lock
	}
	lock.refCount++
	ul.mu.Unlock()

	lock.mu.Lock()
}

// Unlock releases the lock for a user
func (ul *UserLock) Unlock(userID string) {
	ul.mu.Lock()
	defer ul.mu.Unlock()

	lock, ok := ul.locks[userID]
	if !ok {
		return
	}
	lock.refCount--
	if lock.refCount == 0 {
		delete(ul.locks, userID)
	}
	lock.mu.Unlock()
}

// WithLock executes fn while holding the user's lock
func (ul *UserLock) WithLock(userID string, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}

// Held returns how many users currently have a lock entry
func (ul *UserLock) Held() int {
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.locks)
}
