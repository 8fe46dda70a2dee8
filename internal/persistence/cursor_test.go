package persistence

import (
	"testing"
	"time"

	"example.com/habitkick/internal/domain"
)

func TestCursorRoundTrip(t *testing.T) {
	in := &domain.Cursor{At: time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC), ID: "entry-1"}
	token := EncodeCursor(in)
	if token == "" {
		t.Fatal("expected token")
	}
	out, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.At.Equal(in.At) || out.ID != in.ID {
		t.Fatalf("expected %+v, got %+v", in, out)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if c, err := DecodeCursor(""); err != nil || c != nil {
		t.Fatalf("empty token should decode to nil, got %v %v", c, err)
	}
	for _, token := range []string{"%%%", "bm8tc2VwYXJhdG9y", "bm90LWEtdGltZXxpZA"} {
		if _, err := DecodeCursor(token); err == nil {
			t.Fatalf("expected error for %q", token)
		}
	}
}
