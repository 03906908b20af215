package placement

import (
	"slices"
	"sync"
	"testing"
)

func TestOutboxDeliversInPushOrder(t *testing.T) {
	var box outbox
	var got []int
	for i := 0; i < 3; i++ {
		box.push(func() { got = append(got, i) })
	}
	box.flush()
	if !slices.Equal(got, []int{0, 1, 2}) {
		t.Fatalf("unexpected order: %v", got)
	}
	box.flush()
	if len(got) != 3 {
		t.Fatalf("flush must not redeliver: %v", got)
	}
}

func TestOutboxReentrantPushRunsAfterCurrent(t *testing.T) {
	var box outbox
	var got []string
	box.push(func() {
		got = append(got, "outer")
		box.push(func() { got = append(got, "inner") })
		box.flush()
		got = append(got, "outer-done")
	})
	box.push(func() { got = append(got, "next") })
	box.flush()

	want := []string{"outer", "outer-done", "next", "inner"}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected order: got %v want %v", got, want)
	}
}

func TestOutboxConcurrentFlushDeliversEachOnce(t *testing.T) {
	var box outbox
	var mu sync.Mutex
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			box.push(func() {
				mu.Lock()
				count++
				mu.Unlock()
			})
			box.flush()
		}()
	}
	wg.Wait()
	box.flush()
	if count != 50 {
		t.Fatalf("expected 50 deliveries, got %d", count)
	}
}
