package stream

import (
	"io"
	"sync"
)

// AsyncStream acts as a wrapper for any Stream and allows objects to be
// read from it asynchronously.
//
// Most streams are synchronous by their nature, because the underlying
// source needs to be read sequentially, however once parsed its common
// that items can be processed independently.
//
// The wrapped stream is only ever touched by the AsyncStream's own
// goroutine. Consumers that stop reading before the channel is closed
// must call Stop, or that goroutine leaks.
type AsyncStream[T any] struct {
	stream Stream[T]
	result chan T
	done   chan struct{}
	once   sync.Once
	lock   sync.RWMutex
	err    error
}

func NewAsyncStream[T any](stream Stream[T]) *AsyncStream[T] {
	sd := &AsyncStream[T]{
		stream: stream,
		result: make(chan T),
		done:   make(chan struct{}),
	}

	go sd.run()

	return sd
}

func (sd *AsyncStream[T]) Stopped() bool {
	select {
	case <-sd.done:
		return true
	default:
		return false
	}
}

func (sd *AsyncStream[T]) run() {
	defer close(sd.result)

	// If the stream we've been given can be closed, we'll call that as
	// part of the shutdown.
	if closer, ok := sd.stream.(io.Closer); ok {
		defer closer.Close()
	}

	for {
		result, err := sd.stream.Next()
		if sd.Stopped() {
			return
		}
		if err != nil {
			if err != io.EOF {
				sd.lock.Lock()
				sd.err = err
				sd.lock.Unlock()
			}
			return
		}

		select {
		case sd.result <- result:
		case <-sd.done:
			return
		}
	}
}

// Stop ends the stream. Values produced after Stop are discarded, and
// the result channel is closed once the wrapped stream has been released.
func (sd *AsyncStream[T]) Stop() {
	sd.once.Do(func() {
		// Once this is closed, the run loop will ignore any further
		// values and will exit.
		close(sd.done)

		if canceler, ok := sd.stream.(Canceler); ok {
			canceler.Cancel()
		}
	})
}

// Next blocks for the next value. Once the stream is exhausted it returns
// the stream's error, or io.EOF if it ended cleanly.
func (sd *AsyncStream[T]) Next() (T, error) {
	v, ok := <-sd.result
	if !ok {
		if err := sd.Error(); err != nil {
			return v, err
		}
		return v, io.EOF
	}
	return v, nil
}

func (sd *AsyncStream[T]) ResultChan() <-chan T {
	return sd.result
}

func (sd *AsyncStream[T]) Error() error {
	sd.lock.RLock()
	defer sd.lock.RUnlock()

	return sd.err
}
