package restclient

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPending_Resolves(t *testing.T) {
	release := make(chan struct{})
	p := startPending(func() (int, error) {
		<-release
		return 42, nil
	})

	select {
	case <-p.Done():
		t.Fatal("resolved before the work finished")
	default:
	}

	close(release)
	v, err := p.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("Wait() = %d, %v", v, err)
	}
	// Later waits see the same value.
	v, err = p.Wait(context.Background())
	if err != nil || v != 42 {
		t.Fatalf("second Wait() = %d, %v", v, err)
	}
}

func TestPending_Error(t *testing.T) {
	boom := errors.New("boom")
	p := startPending(func() (string, error) { return "", boom })
	if _, err := p.Wait(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}

func TestPending_WaitContextEnds(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := startPending(func() (int, error) {
		<-release
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	v, err := p.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) || v != 0 {
		t.Fatalf("Wait() = %d, %v; want deadline exceeded", v, err)
	}
}

func TestResolvedPending(t *testing.T) {
	p := resolvedPending(7, nil)
	select {
	case <-p.Done():
	default:
		t.Fatal("resolvedPending should be done")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// A resolved pending may still race a done ctx in select; retry until
	// the value wins at least once.
	for range 100 {
		if v, err := p.Wait(ctx); err == nil {
			if v != 7 {
				t.Fatalf("Wait() = %d", v)
			}
			return
		}
	}
	t.Fatal("resolved value never returned")
}
