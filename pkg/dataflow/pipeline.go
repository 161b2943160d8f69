package dataflow

import (
	"context"
	"sync"
	"time"
)

// Stream is a read-only channel of items.
type Stream[T any] <-chan T

// From creates a stream from a slice of data.
func From[T any](ctx context.Context, items ...T) Stream[T] {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case out <- item:
			}
		}
	}()
	return out
}

// Batch groups consecutive items into slices of at most size items. The
// last batch may be shorter. Only WithBufferSize applies.
func Batch[T any](ctx context.Context, input Stream[T], size int, opts ...Option) Stream[[]T] {
	if size < 1 {
		size = 1
	}
	cfg := defaultConfig(opts)
	out := make(chan []T, cfg.bufferSize)
	go func() {
		defer close(out)
		batch := make([]T, 0, size)
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			select {
			case <-ctx.Done():
				return false
			case out <- batch:
				batch = make([]T, 0, size)
				return true
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case item, ok := <-input:
				if !ok {
					flush()
					return
				}
				batch = append(batch, item)
				if len(batch) == size && !flush() {
					return
				}
			}
		}
	}()
	return out
}

// Map transforms the stream using fn. Items whose error is not handled by
// WithErrorHandler are dropped. Output order is not preserved when more
// than one worker is used.
func Map[In, Out any](ctx context.Context, input Stream[In], fn func(In) (Out, error), opts ...Option) Stream[Out] {
	cfg := defaultConfig(opts)
	out := make(chan Out, cfg.bufferSize)

	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				var res Out
				err := withRetry(ctx, cfg, func() error {
					var err error
					res, err = fn(msg)
					return err
				})
				if err != nil {
					if cfg.errorHandler != nil {
						cfg.errorHandler(err)
					}
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- res:
				}
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// ForEach runs fn for every item and blocks until the stream is drained.
// The first unhandled error stops the workers and is returned; callers
// should then cancel the context the upstream stages were built with.
func ForEach[T any](ctx context.Context, input Stream[T], fn func(T) error, opts ...Option) error {
	cfg := defaultConfig(opts)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	worker := func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-input:
				if !ok {
					return
				}
				err := withRetry(ctx, cfg, func() error { return fn(msg) })
				if err == nil || (cfg.errorHandler != nil && cfg.errorHandler(err)) {
					continue
				}
				errOnce.Do(func() {
					firstErr = err
					cancel()
				})
				return
			}
		}
	}

	wg.Add(cfg.workers)
	for i := 0; i < cfg.workers; i++ {
		go worker()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

func withRetry(ctx context.Context, cfg *config, fn func() error) error {
	err := fn()
	for attempt := 1; err != nil && attempt <= cfg.maxRetries; attempt++ {
		if cfg.backoff != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cfg.backoff(attempt)):
			}
		}
		err = fn()
	}
	return err
}
