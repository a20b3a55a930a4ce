package pipeline

import "sync"

// chapterLocks serializes Segment and Generate runs on the same chapter.
// Locks are advisory and in-process; cross-chapter work stays concurrent.
type chapterLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newChapterLocks() *chapterLocks {
	return &chapterLocks{locks: make(map[int64]*sync.Mutex)}
}

// acquire locks the chapter and returns the release function.
func (l *chapterLocks) acquire(chapterID int64) func() {
	l.mu.Lock()
	lock, ok := l.locks[chapterID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[chapterID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
