package cache

import (
	"bytes"
	"fmt"
	"testing"
	"time"
)

func TestResultCache_GetPut(t *testing.T) {
	c := New(8)

	if _, ok := c.Get(Digest([]byte("req1"))); ok {
		t.Fatal("empty cache reported a hit")
	}

	key := Digest([]byte("req1"))
	c.Put(key, []byte("payload1"))

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if !bytes.Equal(got, []byte("payload1")) {
		t.Errorf("payload = %q, want %q", got, "payload1")
	}

	hits, misses, size := c.Stats()
	if hits != 1 || misses != 1 || size != 1 {
		t.Errorf("stats = (%d, %d, %d), want (1, 1, 1)", hits, misses, size)
	}
}

func TestResultCache_EvictsOldest(t *testing.T) {
	c := New(3)

	firstKey := Digest([]byte("first"))
	c.Put(firstKey, []byte("v"))
	time.Sleep(time.Millisecond) // make insertion order observable
	for i := 0; i < 3; i++ {
		c.Put(Digest([]byte(fmt.Sprintf("later-%d", i))), []byte("v"))
		time.Sleep(time.Millisecond)
	}

	if _, ok := c.Get(firstKey); ok {
		t.Error("oldest entry survived eviction")
	}

	_, _, size := c.Stats()
	if size != 3 {
		t.Errorf("size = %d, want 3", size)
	}
}

func TestResultCache_OverwriteDoesNotEvict(t *testing.T) {
	c := New(2)
	k1 := Digest([]byte("a"))
	k2 := Digest([]byte("b"))

	c.Put(k1, []byte("v1"))
	c.Put(k2, []byte("v2"))
	c.Put(k1, []byte("v1-updated"))

	if got, ok := c.Get(k2); !ok || !bytes.Equal(got, []byte("v2")) {
		t.Error("re-putting an existing key evicted a sibling")
	}
	if got, ok := c.Get(k1); !ok || !bytes.Equal(got, []byte("v1-updated")) {
		t.Errorf("overwrite lost: %q", got)
	}
}

func TestResultCache_Disabled(t *testing.T) {
	c := New(0)
	key := Digest([]byte("req"))
	c.Put(key, []byte("payload"))

	if _, ok := c.Get(key); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestDigestStability(t *testing.T) {
	a := Digest([]byte("same"))
	b := Digest([]byte("same"))
	other := Digest([]byte("different"))

	if a != b {
		t.Error("identical inputs produced different digests")
	}
	if a == other {
		t.Error("different inputs produced the same digest")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}
