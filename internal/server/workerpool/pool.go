// Package workerpool runs blocking CPU-bound jobs on a bounded set of
// goroutines so request handlers only wait for a slot and the result.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"
)

var (
	ErrClosed = errors.New("worker pool closed")
	ErrPanic  = errors.New("worker job panicked")
)

// Pool bounds the number of jobs running at once.
type Pool struct {
	sem *semaphore.Weighted

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New returns a pool running at most size jobs concurrently. size < 1 is
// treated as 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Do submits fn and waits for its result. If ctx ends while waiting for a
// free slot, fn is not run and the context error is returned. Once fn starts
// it runs to completion. A panic in fn is returned as ErrPanic.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		p.sem.Release(1)
		return ErrClosed
	}
	p.wg.Add(1)
	p.mu.RUnlock()

	done := make(chan error, 1)
	go func() {
		defer p.wg.Done()
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()
		done <- fn()
	}()

	return <-done
}

// Close rejects new jobs and waits for running ones.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
