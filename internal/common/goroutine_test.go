package common

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
)

func TestSafeGo_RunsFunction(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)
	ran := false

	SafeGo(arbor.NewLogger(), "test", func() {
		defer wg.Done()
		ran = true
	})

	wg.Wait()
	if !ran {
		t.Error("SafeGo did not run the given function")
	}
}

func TestSafeGo_RecoversPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	SafeGo(arbor.NewLogger(), "panicker", func() {
		defer wg.Done()
		panic("boom")
	})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SafeGo goroutine never completed after panic")
	}
}

func TestSafeGo_NilLoggerDoesNotPanic(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	SafeGo(nil, "panicker", func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()
}

func TestSafeGoWithContext_SkipsWhenAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := make(chan struct{}, 1)
	SafeGoWithContext(ctx, arbor.NewLogger(), "cancelled", func() {
		ran <- struct{}{}
	})

	select {
	case <-ran:
		t.Fatal("function ran despite context already cancelled")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSafeGoWithContext_RunsWhenNotCancelled(t *testing.T) {
	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)

	SafeGoWithContext(ctx, arbor.NewLogger(), "runner", func() {
		defer wg.Done()
	})
	wg.Wait()
}
