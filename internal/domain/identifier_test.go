package domain

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseIDValid(t *testing.T) {
	want := primitive.NewObjectID()

	got, err := ParseID(want.Hex())
	if err != nil {
		t.Fatalf("ParseID(%q) failed: %v", want.Hex(), err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want.Hex(), got.Hex())
	}
}

func TestParseIDTrimsWhitespace(t *testing.T) {
	want := primitive.NewObjectID()

	got, err := ParseID("  " + want.Hex() + " ")
	if err != nil {
		t.Fatalf("ParseID failed: %v", err)
	}
	if got != want {
		t.Fatalf("expected %s, got %s", want.Hex(), got.Hex())
	}
}

func TestParseIDInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"not hex", "not-an-id"},
		{"too short", "abc123"},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaa"},
		{"non hex chars", "zzzzzzzzzzzzzzzzzzzzzzzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseID(tt.raw)
			if err == nil {
				t.Fatalf("expected error for %q", tt.raw)
			}
			if !errors.Is(err, ErrInvalidID) {
				t.Fatalf("expected ErrInvalidID, got %v", err)
			}
		})
	}
}
