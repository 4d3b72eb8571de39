package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("expected default, got %d", got)
	}
	if got := ParseIntDefault("12", 7); got != 12 {
		t.Fatalf("expected 12, got %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("expected default on invalid, got %d", got)
	}
}

func TestTruncateRunesShort(t *testing.T) {
	if got := TruncateRunes("hello", 300); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTruncateRunesLong(t *testing.T) {
	in := ""
	for i := 0; i < 150; i++ {
		in += "ab"
	}
	got := TruncateRunes(in+"overflow", 300)
	if RuneLen(got) != 300 {
		t.Fatalf("expected 300 chars, got %d", RuneLen(got))
	}
	if got[len(got)-3:] != "..." {
		t.Fatalf("expected ellipsis suffix, got %q", got[len(got)-3:])
	}
}

func TestTruncateRunesMultibyte(t *testing.T) {
	in := "📊📊📊📊📊"
	got := TruncateRunes(in, 4)
	if RuneLen(got) != 4 {
		t.Fatalf("expected 4 chars, got %d", RuneLen(got))
	}
}
