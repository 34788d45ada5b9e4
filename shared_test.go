package lattice

import (
	"sync"
	"testing"
)

// --- Upgrade / Release ---

func TestWeakUpgradeWhileOwned(t *testing.T) {
	s := NewShared(42)
	w := s.Downgrade()

	up, ok := w.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed while an owner exists")
	}
	if got := *up.RLock(); got != 42 {
		t.Errorf("value = %d, want 42", got)
	}
	up.RUnlock()
	up.Release()
	s.Release()
}

func TestWeakUpgradeAfterRelease(t *testing.T) {
	s := NewShared("gone")
	w := s.Downgrade()
	s.Release()

	if _, ok := w.Upgrade(); ok {
		t.Error("Upgrade succeeded after the last owner released")
	}
	if w.Alive() {
		t.Error("Alive() = true after the last owner released")
	}
}

func TestUpgradedHandleKeepsValueAlive(t *testing.T) {
	s := NewShared(7)
	w := s.Downgrade()

	up, ok := w.Upgrade()
	if !ok {
		t.Fatal("Upgrade failed")
	}
	// Dropping the original owner must not kill the cell while the
	// upgraded handle exists.
	s.Release()
	if !w.Alive() {
		t.Fatal("cell died while an upgraded handle exists")
	}
	up.Release()
	if w.Alive() {
		t.Error("cell alive after every owner released")
	}
}

func TestZeroWeakNeverUpgrades(t *testing.T) {
	var w Weak[int]
	if _, ok := w.Upgrade(); ok {
		t.Error("zero Weak upgraded")
	}
	if w.Alive() {
		t.Error("zero Weak reports alive")
	}
}

func TestCloneExtendsLifetime(t *testing.T) {
	s := NewShared(1)
	c := s.Clone()
	w := s.Downgrade()

	s.Release()
	if !w.Alive() {
		t.Fatal("cell died while a clone exists")
	}
	c.Release()
	if w.Alive() {
		t.Error("cell alive after all owners released")
	}
}

func TestDoubleReleaseIsNoOp(t *testing.T) {
	s := NewShared(1)
	c := s.Clone()
	s.Release()
	s.Release() // second release of the same handle must not steal c's count
	w := c.Downgrade()
	if !w.Alive() {
		t.Error("double release of one handle killed another owner's cell")
	}
	c.Release()
}

// --- Try locks ---

func TestTryLockContention(t *testing.T) {
	s := NewShared(0)

	p := s.Lock()
	*p = 5

	if _, ok := s.TryLock(); ok {
		t.Error("TryLock succeeded while write-locked")
	}
	if _, ok := s.TryRLock(); ok {
		t.Error("TryRLock succeeded while write-locked")
	}
	s.Unlock()

	rp := s.RLock()
	if *rp != 5 {
		t.Errorf("value = %d, want 5", *rp)
	}
	// Readers don't exclude readers, but they do exclude writers.
	if _, ok := s.TryRLock(); !ok {
		t.Error("TryRLock failed while read-locked")
	} else {
		s.RUnlock()
	}
	if _, ok := s.TryLock(); ok {
		t.Error("TryLock succeeded while read-locked")
	}
	s.RUnlock()
	s.Release()
}

func TestConcurrentUpgrades(t *testing.T) {
	s := NewShared(0)
	w := s.Downgrade()

	const n = 64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			up, ok := w.Upgrade()
			if !ok {
				t.Error("Upgrade failed under concurrency")
				return
			}
			p := up.Lock()
			*p++
			up.Unlock()
			up.Release()
		}()
	}
	wg.Wait()

	if got := *s.RLock(); got != n {
		t.Errorf("value = %d, want %d", got, n)
	}
	s.RUnlock()
	s.Release()
	if w.Alive() {
		t.Error("cell alive after all upgrades released and owner gone")
	}
}
