package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileCacheSetGet(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "scene:abc", []byte("payload"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	data, ok, err := c.Get(ctx, "scene:abc")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() miss after Set()")
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want payload", data)
	}
}

func TestFileCacheMiss(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "scene:absent")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for absent key")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "scene:ttl", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	_, ok, err := c.Get(ctx, "scene:ttl")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for expired entry")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "scene:corrupt", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}

	// Overwrite the entry file with junk.
	fc := c.(*FileCache)
	if err := os.WriteFile(fc.path("scene:corrupt"), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, ok, err := c.Get(ctx, "scene:corrupt")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok {
		t.Error("Get() hit for corrupt entry")
	}
}

func TestFileCacheDelete(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	if err := c.Set(ctx, "scene:gone", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := c.Delete(ctx, "scene:gone"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "scene:gone"); ok {
		t.Error("Get() hit after Delete()")
	}
	if err := c.Delete(ctx, "scene:gone"); err != nil {
		t.Errorf("Delete() of missing key error = %v, want nil", err)
	}
}

func TestFileCachePathDistribution(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested", "cache"))
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()

	fc := c.(*FileCache)
	p := fc.path("scene:abc")
	rel, err := filepath.Rel(fc.dir, p)
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 {
		t.Errorf("path %q not sharded into 2-char subdirectory", rel)
	}
}

func TestNullCache(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = hit %v err %v, want miss", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.SceneKey("deadbeef"); got != "scene:deadbeef" {
		t.Errorf("SceneKey = %q", got)
	}

	a := k.DocumentKey("site-a")
	b := k.DocumentKey("site-b")
	if a == b {
		t.Error("distinct sites share a document key")
	}
	if !strings.HasPrefix(a, "doc:") {
		t.Errorf("DocumentKey = %q, want doc: prefix", a)
	}
	if a != k.DocumentKey("site-a") {
		t.Error("DocumentKey not deterministic")
	}
}

func TestHash(t *testing.T) {
	a := Hash([]byte("layout"))
	if len(a) != 64 {
		t.Errorf("hash length = %d, want 64", len(a))
	}
	if a != Hash([]byte("layout")) {
		t.Error("hash not deterministic")
	}
	if a == Hash([]byte("layout2")) {
		t.Error("distinct inputs share a hash")
	}
}
