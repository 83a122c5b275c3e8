package cache

import "testing"

func TestNewResultCache_RejectsNonPositiveCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		if _, err := NewResultCache[int](capacity); err == nil {
			t.Errorf("capacity %d: expected error", capacity)
		}
	}
}

func TestResultCache_GetSet(t *testing.T) {
	c, err := NewResultCache[string](4)
	if err != nil {
		t.Fatalf("NewResultCache failed: %v", err)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache reported a hit")
	}

	c.Set("a", "alpha")
	got, ok := c.Get("a")
	if !ok || got != "alpha" {
		t.Errorf("Get(a) = %q, %v, want alpha, true", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewResultCache[int](2)
	if err != nil {
		t.Fatalf("NewResultCache failed: %v", err)
	}

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction victim.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("unexpected miss on a")
	}

	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("least-recently-used entry b survived eviction")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("recently-used entry a was evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newest entry c missing")
	}
}

func TestResultCache_Purge(t *testing.T) {
	c, err := NewResultCache[int](4)
	if err != nil {
		t.Fatalf("NewResultCache failed: %v", err)
	}

	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d, want 0", c.Len())
	}
}
