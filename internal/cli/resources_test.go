package cli

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResources_CloseReverseOrder(t *testing.T) {
	var r Resources
	var order []string
	for _, name := range []string{"store", "reminders", "client"} {
		name := name
		r.Add(func() error {
			order = append(order, name)
			return nil
		})
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	want := []string{"client", "reminders", "store"}
	if len(order) != len(want) {
		t.Fatalf("closed %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("closed %v, want %v", order, want)
			break
		}
	}

	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if len(order) != 3 {
		t.Errorf("second Close() ran closers again: %v", order)
	}
}

func TestResources_AddAfterCloseClosesImmediately(t *testing.T) {
	var r Resources
	r.Close()

	closed := false
	r.Add(func() error {
		closed = true
		return nil
	})
	if !closed {
		t.Error("closer added after Close was not run")
	}
}

func TestResources_JoinsErrors(t *testing.T) {
	var r Resources
	errA := errors.New("close client")
	errB := errors.New("close store")
	r.Add(func() error { return errB })
	r.Add(func() error { return errA })

	err := r.Close()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Close() error = %v, want both closer errors", err)
	}
}

func TestResources_ConcurrentAddAndClose(t *testing.T) {
	var r Resources
	var calls atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(func() error {
				calls.Add(1)
				return nil
			})
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.Close()
	}()
	wg.Wait()
	r.Close()

	if got := calls.Load(); got != 50 {
		t.Errorf("closers run = %d, want 50", got)
	}
}
