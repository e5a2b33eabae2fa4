package parallel

import (
	"sync/atomic"
	"testing"
)

func TestParallelizeCoversEveryIndexOnce(t *testing.T) {
	for _, items := range []int{1, 7, 64, 1001} {
		hits := make([]int32, items)
		Parallelize(items, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("items=%d: index %d visited %d times", items, i, h)
			}
		}
	}
}

func TestParallelizeZeroItems(t *testing.T) {
	called := false
	Parallelize(0, func(start, end int) { called = true })
	ParallelizeWithThreshold(0, 10, func(start, end int) { called = true })
	if called {
		t.Error("fn should not run for zero items")
	}
}

func TestParallelizeWithThresholdSequential(t *testing.T) {
	var calls int
	ParallelizeWithThreshold(50, 100, func(start, end int) {
		calls++
		if start != 0 || end != 50 {
			t.Errorf("got range [%d, %d), want [0, 50)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("expected a single sequential call, got %d", calls)
	}
}
