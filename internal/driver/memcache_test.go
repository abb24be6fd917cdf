package driver_test

import (
	"testing"

	"linkdiag/internal/diag"
	"linkdiag/internal/driver"
)

func TestMemCache_HitMiss(t *testing.T) {
	c := driver.NewMemCache(16)
	k1 := driver.NewCacheKey("xlc-linker", [32]byte{1})
	k2 := driver.NewCacheKey("xlc-linker", [32]byte{2})

	c.Put(k1, []diag.Diagnostic{diag.NewError("0711-317", "boom")})

	if _, ok := c.Get(k2); ok {
		t.Fatal("expected miss on different content hash")
	}
	diags, ok := c.Get(k1)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(diags) != 1 || diags[0].Message != "boom" {
		t.Fatalf("unexpected entry %+v", diags)
	}
	if c.Len() != 1 {
		t.Fatalf("Len = %d", c.Len())
	}
}

func TestMemCache_Nil(t *testing.T) {
	var c *driver.MemCache
	c.Put(driver.CacheKey{}, nil)
	if _, ok := c.Get(driver.CacheKey{}); ok {
		t.Fatal("nil cache must miss")
	}
}
