package driver

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"linkdiag/internal/diag"
)

func TestDiskCachePutGet(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	diags := []diag.Diagnostic{
		diag.NewError("0711-317", "Undefined symbol: .nofun()"),
		diag.NewLowWarning("0711-345", "Use the -bloadmap option."),
	}
	key := NewCacheKey("xlc-linker", sha256.Sum256([]byte("content")))

	payload, err := diagsToPayload("xlc-linker", diags)
	if err != nil {
		t.Fatal(err)
	}
	if err := cache.Put(key, payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	got := payloadToDiags("xlc-linker", &out)
	if len(got) != 2 || got[0] != diags[0] || got[1] != diags[1] {
		t.Errorf("restored %+v, want %+v", got, diags)
	}
	if payloadToDiags("other", &out) != nil {
		t.Error("payload of another parser must not be reused")
	}

	entries, err := os.ReadDir(filepath.Join(cache.Dir(), "logs"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestDiskCacheMissAndDropAll(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	key := NewCacheKey("xlc-linker", [32]byte{1})
	var out DiskPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}

	payload, _ := diagsToPayload("xlc-linker", nil)
	if err := cache.Put(key, payload); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Error("entry survived DropAll")
	}
	if _, err := os.Stat(cache.Dir()); err != nil {
		t.Errorf("cache dir should be recreated: %v", err)
	}
}

func TestDiskCacheRejectsMalformedRecords(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	good := DiskRecord{Severity: uint8(diag.SevError), Category: "0711-317", Message: "Undefined symbol: x", FileName: diag.NoFile}

	tests := []struct {
		name string
		bad  DiskRecord
	}{
		{"severity out of range", DiskRecord{Severity: 9, Category: "0711-317", Message: "x", FileName: diag.NoFile}},
		{"empty category", DiskRecord{Severity: uint8(diag.SevError), Message: "x", FileName: diag.NoFile}},
		{"empty message", DiskRecord{Severity: uint8(diag.SevLowWarning), Category: "0711-345", FileName: diag.NoFile}},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewCacheKey("xlc-linker", [32]byte{byte(i + 1)})
			payload := &DiskPayload{
				Schema:  diskCacheSchemaVersion,
				Parser:  "xlc-linker",
				Records: []DiskRecord{good, tt.bad},
			}
			if err := cache.Put(key, payload); err != nil {
				t.Fatal(err)
			}

			var out DiskPayload
			if ok, err := cache.Get(key, &out); !ok || err != nil {
				t.Fatalf("Get = %v, %v", ok, err)
			}
			if got := payloadToDiags("xlc-linker", &out); got != nil {
				t.Fatalf("malformed payload restored as %+v", got)
			}

			caches := resultCaches{mem: NewMemCache(1), disk: cache}
			if _, hit := caches.lookup(key, "xlc-linker", nil, 0); hit {
				t.Fatal("malformed payload must be a cache miss")
			}
		})
	}
}

func TestNilDiskCache(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(CacheKey{}, &DiskPayload{}); err != nil {
		t.Error(err)
	}
	if ok, err := cache.Get(CacheKey{}, &DiskPayload{}); ok || err != nil {
		t.Errorf("nil Get = %v, %v", ok, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Error(err)
	}
}

func TestCacheKeyDependsOnParser(t *testing.T) {
	h := sha256.Sum256([]byte("x"))
	if NewCacheKey("a", h) == NewCacheKey("b", h) {
		t.Error("keys for different parsers collide")
	}
}
