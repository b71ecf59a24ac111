package core

import (
	"strings"
	"testing"
)

func TestCreateGeneratesUniqueCodes(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		id := reg.Create()
		if len(id) != 6 {
			t.Fatalf("room code %q has wrong length", id)
		}
		for _, c := range id {
			if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", c) {
				t.Fatalf("room code %q contains invalid character %q", id, c)
			}
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate room code %q", id)
		}
		seen[id] = struct{}{}
	}
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	reg := NewRegistry()

	first := reg.GetOrCreate("R1")
	second := reg.GetOrCreate("R1")
	if first != second {
		t.Fatal("getOrCreate returned different rooms for the same id")
	}

	got, exists := reg.Get("R1")
	if !exists || got != first {
		t.Fatal("get did not return the created room")
	}
}

func TestGetAbsentAndRemoveNoop(t *testing.T) {
	reg := NewRegistry()

	if _, exists := reg.Get("ghost"); exists {
		t.Fatal("lookup of unknown room must be absent")
	}
	reg.Remove("ghost") // no-op

	reg.GetOrCreate("R1")
	reg.Remove("R1")
	if _, exists := reg.Get("R1"); exists {
		t.Fatal("room not removed")
	}
}

func TestRemoveIfEmptySweepsOnlyEmptyRooms(t *testing.T) {
	reg := NewRegistry()

	reg.GetOrCreate("empty1")
	reg.GetOrCreate("empty2")
	busy := reg.GetOrCreate("busy")
	busy.AddPlayer("alice")

	if removed := reg.RemoveIfEmpty(); removed != 2 {
		t.Fatalf("expected 2 rooms removed, got %d", removed)
	}
	if _, exists := reg.Get("busy"); !exists {
		t.Fatal("occupied room must survive")
	}
	if _, exists := reg.Get("empty1"); exists {
		t.Fatal("empty room survived sweep")
	}
}

func TestSnapshotCounts(t *testing.T) {
	reg := NewRegistry()

	r1 := reg.GetOrCreate("R1")
	r1.AddPlayer("alice")
	r1.AddPlayer("bob")
	r1.SetCanvas("data")
	r2 := reg.GetOrCreate("R2")
	r2.AddPlayer("carol")

	stats := reg.Snapshot()
	if len(stats.Rooms) != 2 {
		t.Fatalf("expected 2 rooms in snapshot, got %d", len(stats.Rooms))
	}
	if stats.TotalPlayers != 3 {
		t.Fatalf("expected 3 players total, got %d", stats.TotalPlayers)
	}
	if !stats.Rooms["R1"].HasCanvas {
		t.Fatal("R1 should report a canvas")
	}
	if stats.Rooms["R2"].HasCanvas {
		t.Fatal("R2 should not report a canvas")
	}
}
