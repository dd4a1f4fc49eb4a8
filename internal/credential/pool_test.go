package credential

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNewPool(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		expected int
	}{
		{
			name:     "normal keys",
			keys:     []string{"key1", "key2", "key3"},
			expected: 3,
		},
		{
			name:     "empty slice",
			keys:     []string{},
			expected: 0,
		},
		{
			name:     "nil slice",
			keys:     nil,
			expected: 0,
		},
		{
			name:     "with duplicates",
			keys:     []string{"key1", "key2", "key1", "key3", "key2"},
			expected: 3,
		},
		{
			name:     "with empty strings",
			keys:     []string{"key1", "", "key2", ""},
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool("google", tt.keys)
			if got := p.LiveCount(); got != tt.expected {
				t.Errorf("LiveCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCheckout_FIFOOrder(t *testing.T) {
	keys := []string{"key1", "key2", "key3"}
	p := NewPool("mistral", keys)
	ctx := context.Background()

	for i, want := range keys {
		got, err := p.Checkout(ctx)
		if err != nil {
			t.Fatalf("Checkout() error = %v", err)
		}
		if got != want {
			t.Errorf("checkout %d: got %s, want %s", i, got, want)
		}
	}
}

func TestCheckout_ReleasedKeyGoesToBack(t *testing.T) {
	p := NewPool("groq", []string{"key1", "key2"})
	ctx := context.Background()

	k1, _ := p.Checkout(ctx)
	p.Release(k1)

	// key2 was queued before key1 was released, so it must come out first.
	got, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if got != "key2" {
		t.Errorf("Checkout() = %s, want key2", got)
	}
}

func TestCheckout_CapacityCeiling(t *testing.T) {
	p := NewPool("cohere", []string{"key1", "key2"}, WithCheckoutTimeout(50*time.Millisecond))
	ctx := context.Background()

	if _, err := p.Checkout(ctx); err != nil {
		t.Fatalf("first Checkout() error = %v", err)
	}
	if _, err := p.Checkout(ctx); err != nil {
		t.Fatalf("second Checkout() error = %v", err)
	}

	// Third caller must block and then time out.
	_, err := p.Checkout(ctx)
	if !IsCheckoutTimeout(err) {
		t.Errorf("third Checkout() error = %v, want CheckoutTimeoutError", err)
	}
}

func TestCheckout_BlockedCallerWakesOnRelease(t *testing.T) {
	p := NewPool("google", []string{"key1"}, WithCheckoutTimeout(2*time.Second))
	ctx := context.Background()

	key, _ := p.Checkout(ctx)

	got := make(chan string, 1)
	go func() {
		k, err := p.Checkout(ctx)
		if err != nil {
			t.Errorf("blocked Checkout() error = %v", err)
		}
		got <- k
	}()

	time.Sleep(20 * time.Millisecond)
	p.Release(key)

	select {
	case k := <-got:
		if k != "key1" {
			t.Errorf("blocked checkout got %s, want key1", k)
		}
	case <-time.After(time.Second):
		t.Fatal("blocked checkout did not wake after release")
	}
}

func TestCheckout_PoolEmpty_NoKeysConfigured(t *testing.T) {
	p := NewPool("cerebras", nil, WithCheckoutTimeout(time.Second))

	start := time.Now()
	_, err := p.Checkout(context.Background())
	elapsed := time.Since(start)

	if !IsPoolEmpty(err) {
		t.Errorf("Checkout() error = %v, want PoolEmptyError", err)
	}
	// Must fail fast, not wait out the timeout.
	if elapsed > 100*time.Millisecond {
		t.Errorf("empty-pool checkout took %v, want immediate return", elapsed)
	}
}

func TestCheckout_PoolEmpty_AllKeysRetired(t *testing.T) {
	p := NewPool("google", []string{"key1", "key2"}, WithCheckoutTimeout(time.Second))
	ctx := context.Background()

	k1, _ := p.Checkout(ctx)
	p.Retire(k1)
	k2, _ := p.Checkout(ctx)
	p.Retire(k2)

	_, err := p.Checkout(ctx)
	if !IsPoolEmpty(err) {
		t.Errorf("Checkout() error = %v, want PoolEmptyError after total retirement", err)
	}
	if IsCheckoutTimeout(err) {
		t.Error("total retirement must not be reported as a timeout")
	}
}

func TestCheckout_ContextCancelled(t *testing.T) {
	p := NewPool("mistral", []string{"key1"}, WithCheckoutTimeout(5*time.Second))
	ctx := context.Background()

	p.Checkout(ctx)

	cancelCtx, cancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() {
		_, err := p.Checkout(cancelCtx)
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != context.Canceled {
			t.Errorf("Checkout() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("cancelled checkout did not return")
	}
}

func TestRetire_NeverReissued(t *testing.T) {
	p := NewPool("groq", []string{"key1", "key2"}, WithCheckoutTimeout(50*time.Millisecond))
	ctx := context.Background()

	k, _ := p.Checkout(ctx)
	p.Retire(k)

	// Drain everything still issuable; the retired key must not appear.
	for {
		got, err := p.Checkout(ctx)
		if err != nil {
			break
		}
		if got == k {
			t.Fatalf("retired key %s was reissued", k)
		}
	}
}

func TestRetire_KeyRetiredWhileQueued(t *testing.T) {
	p := NewPool("google", []string{"key1", "key2"}, WithCheckoutTimeout(100*time.Millisecond))
	ctx := context.Background()

	// key1 sits at the front of the queue; retire it in place.
	p.Retire("key1")

	got, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if got != "key2" {
		t.Errorf("Checkout() = %s, want key2 (key1 retired in queue)", got)
	}
}

func TestRetire_Idempotent(t *testing.T) {
	p := NewPool("cohere", []string{"key1", "key2"})
	ctx := context.Background()

	k, _ := p.Checkout(ctx)
	p.Retire(k)
	p.Retire(k)
	p.Retire(k)

	if got := p.LiveCount(); got != 1 {
		t.Errorf("LiveCount() = %d, want 1 after repeated retirement", got)
	}
}

func TestRelease_AfterRetire_NoOp(t *testing.T) {
	p := NewPool("mistral", []string{"key1"}, WithCheckoutTimeout(50*time.Millisecond))
	ctx := context.Background()

	k, _ := p.Checkout(ctx)
	p.Retire(k)
	p.Release(k) // must not resurrect the key

	_, err := p.Checkout(ctx)
	if !IsPoolEmpty(err) {
		t.Errorf("Checkout() error = %v, want PoolEmptyError (release must not resurrect)", err)
	}
}

func TestRelease_NotCheckedOut_NoOp(t *testing.T) {
	p := NewPool("groq", []string{"key1"})
	ctx := context.Background()

	p.Release("bogus")
	p.Release("key1") // available, not checked out

	// Pool still behaves normally.
	got, err := p.Checkout(ctx)
	if err != nil {
		t.Fatalf("Checkout() error = %v", err)
	}
	if got != "key1" {
		t.Errorf("Checkout() = %s, want key1", got)
	}
}

func TestSnapshot_CountsSumToTotal(t *testing.T) {
	p := NewPool("google", []string{"key1", "key2", "key3"})
	ctx := context.Background()

	k1, _ := p.Checkout(ctx)
	k2, _ := p.Checkout(ctx)
	p.Retire(k2)
	_ = k1

	s := p.Snapshot()
	if s.Total != 3 {
		t.Errorf("Total = %d, want 3", s.Total)
	}
	if s.Available+s.CheckedOut+s.Retired != s.Total {
		t.Errorf("Available(%d)+CheckedOut(%d)+Retired(%d) != Total(%d)",
			s.Available, s.CheckedOut, s.Retired, s.Total)
	}
	if s.Retired != 1 {
		t.Errorf("Retired = %d, want 1", s.Retired)
	}
	if s.CheckedOut != 1 {
		t.Errorf("CheckedOut = %d, want 1", s.CheckedOut)
	}
}

func TestPool_ConcurrentCheckoutRelease(t *testing.T) {
	keys := []string{"key1", "key2", "key3"}
	p := NewPool("mistral", keys, WithCheckoutTimeout(5*time.Second))
	ctx := context.Background()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			key, err := p.Checkout(ctx)
			if err != nil {
				t.Errorf("Checkout() error = %v", err)
				return
			}

			mu.Lock()
			inFlight++
			if inFlight > maxInFlight {
				maxInFlight = inFlight
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inFlight--
			mu.Unlock()

			p.Release(key)
		}()
	}
	wg.Wait()

	if maxInFlight > len(keys) {
		t.Errorf("max concurrent holders = %d, want <= %d", maxInFlight, len(keys))
	}

	s := p.Snapshot()
	if s.Available != len(keys) {
		t.Errorf("Available = %d after drain, want %d", s.Available, len(keys))
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "abc", "***"},
		{"exactly eight", "12345678", "***"},
		{"long", "AIzaSyD-1234567890abcdef", "AIza...cdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.key); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
