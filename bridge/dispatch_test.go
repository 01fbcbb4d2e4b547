package bridge

import (
	"sync"
	"testing"
)

func TestSerialDispatcherOrder(t *testing.T) {
	d := NewSerialDispatcher()
	defer d.Close()

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan struct{})
	for i := range 10 {
		d.Dispatch(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	d.Dispatch(func() { close(done) })
	<-done

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 10 {
		t.Fatalf("len = %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order = %v", got)
		}
	}
}

func TestSerialDispatcherDropsAfterClose(t *testing.T) {
	d := NewSerialDispatcher()
	d.Close()

	ran := make(chan struct{})
	d.Dispatch(func() { close(ran) })
	select {
	case <-ran:
		t.Error("dispatch after close must be dropped")
	default:
	}
}

func TestDirectDispatcher(t *testing.T) {
	var d DirectDispatcher
	ran := false
	d.Dispatch(func() { ran = true })
	if !ran {
		t.Error("direct dispatcher must run inline")
	}

	d.Close()
	d.Dispatch(func() { t.Error("dispatch after close must be dropped") })
}
