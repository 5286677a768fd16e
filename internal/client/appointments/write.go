package appointments

import "context"

// Write is the pending result of persisting one snapshot.
type Write struct {
	done chan struct{}
	err  error
}

func newWrite() *Write {
	return &Write{done: make(chan struct{})}
}

// resolvedWrite is a Write that needed no I/O.
func resolvedWrite() *Write {
	w := newWrite()
	w.finish(nil)
	return w
}

func (w *Write) finish(err error) {
	w.err = err
	close(w.done)
}

// Done is closed once the write has finished, successfully or not.
func (w *Write) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the write finishes or ctx ends.
func (w *Write) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the outcome of a finished write and nil while it is pending.
func (w *Write) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}
