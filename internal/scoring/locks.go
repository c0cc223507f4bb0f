package scoring

import "sync"

// inningsLocks serializes mutating scoring calls per innings. Ball numbering
// is read-then-write (1 + current count), so two writers on the same innings
// must never interleave; the transaction alone doesn't order them.
type inningsLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newInningsLocks() *inningsLocks {
	return &inningsLocks{locks: make(map[uint]*sync.Mutex)}
}

// acquire locks the mutex for inningsID and returns its unlock func.
func (l *inningsLocks) acquire(inningsID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[inningsID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[inningsID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
