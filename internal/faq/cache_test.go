package faq

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  What Are Your Hours? ", "what are your hours?"},
		{"hello   world", "hello world"},
		{"\tUPPER\ncase\t", "upper case"},
		{"", ""},
		{"   ", ""},
		{"already normal", "already normal"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCacheLookupHit(t *testing.T) {
	cache := NewCache(map[string]string{
		"what are your hours?": "9-5",
	})

	answer, ok := cache.Lookup("  What Are Your Hours? ")
	if !ok {
		t.Fatal("Lookup() should hit after normalization")
	}
	if answer != "9-5" {
		t.Errorf("Lookup() = %q, want %q", answer, "9-5")
	}
}

func TestCacheLookupMiss(t *testing.T) {
	cache := NewCache(map[string]string{
		"what are your hours?": "9-5",
	})

	answer, ok := cache.Lookup("unknown question")
	if ok {
		t.Errorf("Lookup() should miss, got %q", answer)
	}
	if answer != "" {
		t.Errorf("miss answer = %q, want empty", answer)
	}
}

func TestCacheKeysNormalizedOnInsert(t *testing.T) {
	cache := NewCache(map[string]string{
		"  HOW do I   Pay? ": "by card",
	})

	if answer, ok := cache.Lookup("how do i pay?"); !ok || answer != "by card" {
		t.Errorf("Lookup() = (%q, %v), want (\"by card\", true)", answer, ok)
	}
}

func TestCacheAdd(t *testing.T) {
	cache := NewCache(nil)
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cache.Len())
	}

	cache.Add("Refund Policy", "within 7 days")
	if answer, ok := cache.Lookup("refund   policy"); !ok || answer != "within 7 days" {
		t.Errorf("Lookup() after Add = (%q, %v), want (\"within 7 days\", true)", answer, ok)
	}
	if cache.Len() != 1 {
		t.Errorf("Len() = %d, want 1", cache.Len())
	}
}
