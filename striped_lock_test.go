package shelfstore

import (
	"sync"
	"testing"
)

func TestStripedLocks_SameKeySerializes(t *testing.T) {
	sl := NewStripedLocks(16)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := sl.Lock("Cart:c1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("expected 100 increments under the lock, got %d", counter)
	}
}

func TestStripedLocks_StableStripe(t *testing.T) {
	sl := NewStripedLocks(8)

	// The same key always maps to the same stripe
	if sl.getStripeIndex("Cart:c1") != sl.getStripeIndex("Cart:c1") {
		t.Errorf("stripe index not stable")
	}
}

func TestStripedLocks_DefaultStripeCount(t *testing.T) {
	sl := NewStripedLocks(0)
	if sl.count != 32 {
		t.Errorf("expected default stripe count 32, got %d", sl.count)
	}

	unlock := sl.RLock("any")
	unlock()
}
