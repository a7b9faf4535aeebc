package driver

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([]byte("doc"), "x86_64-pc-linux-gnu", "0")
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("empty cache hit: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, "; ir\n"); err != nil {
		t.Fatal(err)
	}
	ir, ok, err := c.Get(key)
	if err != nil || !ok || ir != "; ir\n" {
		t.Fatalf("Get = %q, %v, %v", ir, ok, err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Fatal("entry survived DropAll")
	}
}

func TestCacheKeySeparatesOptions(t *testing.T) {
	base := CacheKey([]byte("doc"), "a", "b")
	for _, other := range []uint64{
		CacheKey([]byte("doc"), "ab"),
		CacheKey([]byte("doc"), "a", "c"),
		CacheKey([]byte("doc2"), "a", "b"),
		CacheKey([]byte("doca"), "b"),
	} {
		if other == base {
			t.Fatal("distinct inputs share a key")
		}
	}
	if CacheKey([]byte("doc"), "a", "b") != base {
		t.Fatal("key is not stable")
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewDiskCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	key := CacheKey([]byte("x"))
	if err := os.WriteFile(c.pathFor(key), []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Fatalf("corrupt entry: ok=%v err=%v", ok, err)
	}
	if err := c.Put(key, "fresh"); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".mp" {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *DiskCache
	if err := c.Put(1, "x"); err != nil {
		t.Fatal(err)
	}
	if _, ok, err := c.Get(1); ok || err != nil {
		t.Fatalf("nil cache hit: ok=%v err=%v", ok, err)
	}
}

func TestDiskCacheConcurrentWriters(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Put(uint64(i%2), "ir"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	for k := range uint64(2) {
		if ir, ok, _ := c.Get(k); !ok || ir != "ir" {
			t.Fatalf("key %d: %q %v", k, ir, ok)
		}
	}
}
