package sampler

import "testing"

func TestGetMissingSampleReturnsNotOK(t *testing.T) {
	b := NewBank(t.TempDir())
	_, ok := b.Get("nonexistent", 0)
	if ok {
		t.Fatalf("expected ok=false for missing sample")
	}
}

func TestGetMissingSampleWarnsOnlyOnce(t *testing.T) {
	b := NewBank(t.TempDir())
	b.Get("nope", 0)
	if !b.warned["nope:0"] {
		t.Fatalf("expected warned flag set after first miss")
	}
	// second call should not panic or re-decode; still not ok.
	_, ok := b.Get("nope", 0)
	if ok {
		t.Fatalf("expected ok=false on repeated miss")
	}
}
