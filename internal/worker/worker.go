// Package worker provides concurrency primitives for batch probing.
package worker

import "context"

// Semaphore provides a counting semaphore for controlling concurrency.
// It limits the number of ffprobe processes in flight.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a new semaphore with the given number of permits.
func NewSemaphore(count int) *Semaphore {
	if count <= 0 {
		count = 1
	}
	s := &Semaphore{
		permits: make(chan struct{}, count),
	}
	for i := 0; i < count; i++ {
		s.permits <- struct{}{}
	}
	return s
}

// Acquire blocks until a permit is available or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case <-s.permits:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the semaphore.
func (s *Semaphore) Release() {
	select {
	case s.permits <- struct{}{}:
	default:
		// Semaphore is full, this shouldn't happen in normal use
	}
}

// Available returns the number of free permits.
func (s *Semaphore) Available() int {
	return len(s.permits)
}

// Progress represents batch progress information.
type Progress struct {
	FilesComplete int
	FilesFailed   int
	FilesTotal    int
}

// Done returns how many files have finished, successfully or not.
func (p Progress) Done() int {
	return p.FilesComplete + p.FilesFailed
}

// Percent returns the completion percentage.
func (p Progress) Percent() float64 {
	if p.FilesTotal == 0 {
		return 0
	}
	return float64(p.Done()) / float64(p.FilesTotal) * 100
}
