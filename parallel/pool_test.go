package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
)

func TestPool(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		t.Run(fmt.Sprint(workers), func(t *testing.T) {
			pool := Start(workers)
			var sum atomic.Int64
			for i := range 100 {
				pool.Do(func() error {
					sum.Add(int64(i))
					return nil
				})
			}
			if err := pool.Wait(); err != nil {
				t.Fatal(err)
			}
			if sum.Load() != 4950 {
				t.Errorf("sum = %d, want 4950", sum.Load())
			}
			if pool.Done() != 100 {
				t.Errorf("Done() = %d", pool.Done())
			}
		})
	}
}

func TestPoolErrors(t *testing.T) {
	errOdd := errors.New("odd")
	pool := Start(3)
	for i := range 10 {
		pool.Do(func() error {
			if i%2 == 1 {
				return fmt.Errorf("job %d: %w", i, errOdd)
			}
			return nil
		})
	}
	err := pool.Wait()
	if !errors.Is(err, errOdd) {
		t.Fatalf("Wait() = %v", err)
	}
	if n := len(err.(interface{ Unwrap() []error }).Unwrap()); n != 5 {
		t.Errorf("%d errors joined, want 5", n)
	}
}

func TestWaitTwice(t *testing.T) {
	pool := Start(2)
	pool.Do(func() error { return nil })
	if err := pool.Wait(); err != nil {
		t.Fatal(err)
	}
	if err := pool.Wait(); err != nil {
		t.Fatal(err)
	}
}
