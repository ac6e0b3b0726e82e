package testfixtures

import (
	"testing"

	"github.com/google/uuid"
)

func TestIDGenerator(t *testing.T) {
	gen := NewIDGenerator("meeting")
	if first, second := gen.Next(), gen.Next(); first != "meeting-001" || second != "meeting-002" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}

	if got := NewIDGenerator("").Next(); got != "id-001" {
		t.Fatalf("expected default prefix, got %q", got)
	}

	a := NewIDGenerator("v").NextUUID()
	b := NewIDGenerator("v").NextUUID()
	if a != b {
		t.Fatalf("expected repeatable uuids, got %q and %q", a, b)
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("expected a valid uuid: %v", err)
	}
}
