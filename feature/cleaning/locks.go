package cleaning

import (
	"sync"
)

// configLocks hands out non-blocking per-configuration locks so that a
// scheduled pass and a manual "sync now" never reconcile the same
// configuration concurrently. Contention is expected and benign; the loser
// reports "already in progress" instead of waiting.
type configLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newConfigLocks() *configLocks {
	return &configLocks{held: make(map[string]struct{})}
}

// TryLock acquires the lock for id, reporting false when it is already held.
func (l *configLocks) TryLock(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[id]; ok {
		return false
	}
	l.held[id] = struct{}{}
	return true
}

// Unlock releases the lock for id.
func (l *configLocks) Unlock(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, id)
}
