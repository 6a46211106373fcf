package stream

import (
	"io"
	"iter"
)

// PullStream is a Stream backed by an iterator.
type PullStream[T any] struct {
	next   func() (T, bool)
	stop   func()
	cancel func()
}

// Pull converts seq into a Stream. Close stops the iterator early, which
// runs any cleanup deferred inside seq. If cancel is not nil, Cancel
// calls it to interrupt a blocked Next.
//
// As with [iter.Pull], Next and Close must not be called concurrently.
func Pull[T any](seq iter.Seq[T], cancel func()) *PullStream[T] {
	next, stop := iter.Pull(seq)
	return &PullStream[T]{
		next:   next,
		stop:   stop,
		cancel: cancel,
	}
}

func (p *PullStream[T]) Next() (T, error) {
	v, ok := p.next()
	if !ok {
		return v, io.EOF
	}
	return v, nil
}

func (p *PullStream[T]) Close() error {
	p.stop()
	return nil
}

func (p *PullStream[T]) Cancel() {
	if p.cancel != nil {
		p.cancel()
	}
}
