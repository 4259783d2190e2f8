package api

import (
	"fmt"
	"testing"

	"github.com/medmatch/medmatch/internal/matching"
)

func TestRunCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewRunCache(2)
	c.Put("a", &matching.Run{ID: "a"})
	c.Put("b", &matching.Run{ID: "b"})

	// Touch a so b becomes the oldest.
	if c.Get("a") == nil {
		t.Fatal("expected a to be cached")
	}
	c.Put("c", &matching.Run{ID: "c"})

	if c.Get("b") != nil {
		t.Error("expected b to be evicted")
	}
	if c.Get("a") == nil || c.Get("c") == nil {
		t.Error("expected a and c to be cached")
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
}

func TestRunCacheReplace(t *testing.T) {
	c := NewRunCache(2)
	c.Put("a", &matching.Run{Medicine: "old"})
	c.Put("a", &matching.Run{Medicine: "new"})

	if got := c.Get("a"); got == nil || got.Medicine != "new" {
		t.Errorf("expected replaced entry, got %+v", got)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
}

func TestRunCacheDefaultSize(t *testing.T) {
	c := NewRunCache(0)
	for i := 0; i < 200; i++ {
		c.Put(fmt.Sprintf("run-%d", i), &matching.Run{})
	}
	if c.Len() != 128 {
		t.Errorf("expected default capacity 128, got %d", c.Len())
	}
}
