package voice

import "testing"

func TestWakeWordDetector(t *testing.T) {
	t.Parallel()
	d := NewWakeWordDetector("hey assistant", "okay helper")

	rest, ok := d.Detect("Hey Assistant, what's on today?")
	if !ok {
		t.Fatalf("want match")
	}
	if rest != "what's on today?" {
		t.Fatalf("rest: %q", rest)
	}

	rest, ok = d.Detect("well OKAY HELPER remind me")
	if !ok {
		t.Fatalf("want case-insensitive match")
	}
	if rest != "remind me" {
		t.Fatalf("rest: %q", rest)
	}

	if _, ok := d.Detect("nothing to see here"); ok {
		t.Fatalf("want no match")
	}
}

func TestWakeWordDetector_EmptyPhrases(t *testing.T) {
	t.Parallel()
	d := NewWakeWordDetector("", "   ")
	if _, ok := d.Detect("hey assistant"); ok {
		t.Fatalf("empty phrases must never match")
	}
}
