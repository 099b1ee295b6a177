package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestAllowWithinWindow(t *testing.T) {
	ctx := context.Background()
	l := New()
	rule := Rule{Name: "test", Max: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		if ok, _, err := l.Allow(ctx, rule, "1.2.3.4"); err != nil || !ok {
			t.Fatalf("request %d = %v, %v, want allowed", i+1, ok, err)
		}
	}

	ok, retry, err := l.Allow(ctx, rule, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if ok {
		t.Fatal("fourth request allowed, want rejected")
	}
	// Reset is reported in whole seconds
	if retry < 58*time.Second || retry > time.Minute {
		t.Errorf("retry = %v, want about 1m", retry)
	}
}

func TestAllowResetsAfterWindow(t *testing.T) {
	ctx := context.Background()
	l := New()
	rule := Rule{Name: "test", Max: 1, Window: 100 * time.Millisecond}

	l.Allow(ctx, rule, "k")
	if ok, _, _ := l.Allow(ctx, rule, "k"); ok {
		t.Fatal("second request allowed inside the window")
	}

	time.Sleep(150 * time.Millisecond)
	if ok, _, _ := l.Allow(ctx, rule, "k"); !ok {
		t.Error("Allow() rejected after window reset")
	}
}

func TestAllowSeparatesKeysAndRules(t *testing.T) {
	ctx := context.Background()
	l := New()
	a := Rule{Name: "a", Max: 1, Window: time.Minute}
	b := Rule{Name: "b", Max: 1, Window: time.Minute}

	l.Allow(ctx, a, "client")
	if ok, _, _ := l.Allow(ctx, a, "other"); !ok {
		t.Error("different key shares a window")
	}
	if ok, _, _ := l.Allow(ctx, b, "client"); !ok {
		t.Error("different rule shares a window")
	}
}

func TestRuleRate(t *testing.T) {
	rate := SimulatorAdvanced.rate()
	if rate.Limit != 10 || rate.Period != time.Minute {
		t.Errorf("rate() = %d per %v, want 10 per 1m", rate.Limit, rate.Period)
	}
}

func TestAllowConcurrent(t *testing.T) {
	ctx := context.Background()
	l := New()
	rule := Rule{Name: "test", Max: 50, Window: time.Hour}

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := l.Allow(ctx, rule, "k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 50 {
		t.Errorf("allowed = %d, want 50", allowed)
	}
}
