package services

import "sync"

// ModelLock serializes GPU-bound model use. The LLM and the vision
// model share VRAM on a single local machine, so at most one of them
// may run at a time; callers acquire the lock around every inference
// call.
type ModelLock struct {
	mu sync.Mutex
}

func NewModelLock() *ModelLock {
	return &ModelLock{}
}

func (l *ModelLock) Acquire() {
	l.mu.Lock()
}

func (l *ModelLock) Release() {
	l.mu.Unlock()
}
