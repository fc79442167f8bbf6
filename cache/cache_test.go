package cache_test

import (
	"testing"
	"time"

	"github.com/lxe/wllama/cache"
)

func Test_Results(t *testing.T) {
	t.Run("store and lookup", func(t *testing.T) {
		r, err := cache.NewResults(cache.Config{})
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		key := cache.Key("img_aabbccdd", "describe this")

		if _, found := r.Lookup(key); found {
			t.Fatal("expected a miss before storing")
		}

		r.Store(key, "a red square")

		text, found := r.Lookup(key)
		if !found {
			t.Fatal("expected a hit after storing")
		}

		if text != "a red square" {
			t.Fatalf("expected stored text, got %q", text)
		}
	})

	t.Run("clear drops results", func(t *testing.T) {
		r, err := cache.NewResults(cache.Config{MaxResults: 8, TTL: time.Minute})
		if err != nil {
			t.Fatalf("expected no error: %s", err)
		}

		key := cache.Key("img_0011", "p")
		r.Store(key, "text")
		r.Clear()

		if _, found := r.Lookup(key); found {
			t.Fatal("expected a miss after clearing")
		}
	})
}

func Test_Key(t *testing.T) {
	k1 := cache.Key("img_aa", "prompt one")
	k2 := cache.Key("img_aa", "prompt two")
	k3 := cache.Key("img_bb", "prompt one")

	if k1 == k2 {
		t.Fatal("expected different prompts to produce different keys")
	}

	if k1 == k3 {
		t.Fatal("expected different bitmaps to produce different keys")
	}

	if k1 != cache.Key("img_aa", "prompt one") {
		t.Fatal("expected key derivation to be deterministic")
	}
}
