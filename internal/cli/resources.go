package cli

import (
	"errors"
	"sync"
)

// Resources collects closers registered while a process starts up and
// closes them in reverse order on shutdown. A closer added after Close
// has run is closed immediately. Safe for concurrent use.
type Resources struct {
	mu      sync.Mutex
	closers []func() error
	closed  bool
}

func (r *Resources) Add(closer func() error) {
	r.mu.Lock()
	if !r.closed {
		r.closers = append(r.closers, closer)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	_ = closer()
}

// Close runs every registered closer once, last added first.
func (r *Resources) Close() error {
	r.mu.Lock()
	closers := r.closers
	r.closers = nil
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
