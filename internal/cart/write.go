package cart

import "context"

// Write tracks one background persist. Callers may drop it.
type Write struct {
	done chan struct{}
	err  error
}

func newWrite() *Write { return &Write{done: make(chan struct{})} }

func (w *Write) finish(err error) {
	w.err = err
	close(w.done)
}

// Done is closed once the write has completed or failed.
func (w *Write) Done() <-chan struct{} { return w.done }

// Err returns the write's failure. It is nil while the write is pending.
func (w *Write) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx is done.
func (w *Write) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
