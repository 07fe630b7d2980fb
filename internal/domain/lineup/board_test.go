package lineup

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
)

func testSquad(ids ...int64) []Player {
	out := make([]Player, 0, len(ids))
	for _, id := range ids {
		out = append(out, Player{ID: id, Name: "player", Position: "CM", Availability: AvailabilityAvailable, Number: int(id % 100)})
	}
	return out
}

func squadRange(from, to int64) []Player {
	ids := make([]int64, 0, to-from+1)
	for id := from; id <= to; id++ {
		ids = append(ids, id)
	}
	return testSquad(ids...)
}

func assertPartition(t *testing.T, b *Board) {
	t.Helper()

	counts := make(map[int64]int)
	for _, slot := range b.Slots() {
		if slot.Occupant != nil {
			counts[slot.Occupant.ID]++
		}
	}
	for _, p := range b.Bench() {
		counts[p.ID]++
	}
	for _, p := range b.UnassignedPool() {
		counts[p.ID]++
	}

	for _, p := range b.Squad() {
		if counts[p.ID] != 1 {
			t.Fatalf("player %d appears %d times across slots/bench/pool", p.ID, counts[p.ID])
		}
	}
	if len(counts) != len(b.Squad()) {
		t.Fatalf("partition holds %d players, squad has %d", len(counts), len(b.Squad()))
	}
}

func TestBoard_MoveBetweenSlots(t *testing.T) {
	b := NewBoard(testSquad(9, 10), formation.Code442)

	if err := b.AssignToSlot("st1", 9); err != nil {
		t.Fatalf("assign st1: %v", err)
	}
	if err := b.AssignToSlot("st2", 9); err != nil {
		t.Fatalf("assign st2: %v", err)
	}

	starters := b.Starters()
	if _, ok := starters["st1"]; ok {
		t.Fatalf("expected st1 empty after move, got %d", starters["st1"])
	}
	if starters["st2"] != 9 {
		t.Fatalf("expected st2 to hold player 9, got %d", starters["st2"])
	}
	assertPartition(t, b)
}

func TestBoard_AssignEvictsPreviousOccupantToPool(t *testing.T) {
	b := NewBoard(testSquad(1, 2), formation.Code433)

	_ = b.AssignToSlot("gk", 1)
	_ = b.AssignToSlot("gk", 2)

	placement, _ := b.Locate(1)
	if placement.Kind != PlacementPool {
		t.Fatalf("expected evicted player in pool, got %+v", placement)
	}
	if b.Starters()["gk"] != 2 {
		t.Fatalf("expected gk to hold player 2")
	}
	assertPartition(t, b)
}

func TestBoard_BenchIsIdempotentAndLeavesPitch(t *testing.T) {
	b := NewBoard(testSquad(5), formation.Code433)

	_ = b.AssignToSlot("cb1", 5)
	_ = b.AssignToBench(5)
	_ = b.AssignToBench(5)

	if len(b.Bench()) != 1 {
		t.Fatalf("expected single bench entry, got %d", len(b.Bench()))
	}
	if len(b.Starters()) != 0 {
		t.Fatalf("expected pitch empty after benching")
	}

	_ = b.AssignToSlot("cb2", 5)
	if len(b.Bench()) != 0 {
		t.Fatalf("expected bench emptied when player moves to a slot")
	}
	assertPartition(t, b)
}

func TestBoard_RemoveFromSlotReturnsToPool(t *testing.T) {
	b := NewBoard(testSquad(7), formation.Code433)
	_ = b.AssignToSlot("rw", 7)

	if err := b.RemoveFromSlot("rw"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	placement, _ := b.Locate(7)
	if placement.Kind != PlacementPool {
		t.Fatalf("expected pool after removal, got %+v", placement)
	}
}

func TestBoard_UnknownSlotOrPlayerLeavesStateUntouched(t *testing.T) {
	b := NewBoard(testSquad(1), formation.Code433)
	_ = b.AssignToSlot("gk", 1)

	if err := b.AssignToSlot("st1", 1); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot, got %v", err)
	}
	if b.Starters()["gk"] != 1 {
		t.Fatalf("failed assignment must not move the player")
	}
	if err := b.AssignToSlot("st", 99); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}
	if err := b.AssignToBench(99); !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer for bench, got %v", err)
	}
	if err := b.RemoveFromSlot("nope"); !errors.Is(err, ErrUnknownSlot) {
		t.Fatalf("expected ErrUnknownSlot on remove, got %v", err)
	}
}

func TestBoard_ResetClearsSlotsAndBench(t *testing.T) {
	b := NewBoard(squadRange(1, 15), formation.Code433)
	for i, slot := range formation.MustTemplate(formation.Code433).Slots {
		_ = b.AssignToSlot(slot.SlotID, int64(i+1))
	}
	_ = b.AssignToBench(12)
	_ = b.AssignToBench(13)

	b.Reset(formation.Code352)

	if b.Formation() != formation.Code352 {
		t.Fatalf("unexpected formation %s", b.Formation())
	}
	for _, slot := range b.Slots() {
		if slot.Occupant != nil {
			t.Fatalf("slot %s still occupied after reset", slot.SlotID)
		}
	}
	if len(b.Bench()) != 0 {
		t.Fatalf("bench not cleared")
	}
	if len(b.UnassignedPool()) != 15 {
		t.Fatalf("expected whole squad unassigned, got %d", len(b.UnassignedPool()))
	}
}

func TestBoard_SetSquadPrunesDepartedPlayers(t *testing.T) {
	b := NewBoard(testSquad(1, 2, 3), formation.Code433)
	_ = b.AssignToSlot("gk", 1)
	_ = b.AssignToBench(2)

	b.SetSquad(testSquad(3, 4))

	if len(b.Starters()) != 0 || len(b.Bench()) != 0 {
		t.Fatalf("expected departed players pruned, starters=%v bench=%v", b.Starters(), b.Bench())
	}
	assertPartition(t, b)
}

func TestBoard_PartitionHoldsForRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	squad := squadRange(1, 18)

	for _, code := range []formation.Code{formation.Code433, formation.Code442, formation.Code4231, formation.Code352} {
		b := NewBoard(squad, code)
		slots := formation.MustTemplate(code).Slots

		for step := 0; step < 500; step++ {
			playerID := squad[rng.IntN(len(squad))].ID
			switch rng.IntN(4) {
			case 0:
				_ = b.AssignToSlot(slots[rng.IntN(len(slots))].SlotID, playerID)
			case 1:
				_ = b.AssignToBench(playerID)
			case 2:
				_ = b.RemoveFromSlot(slots[rng.IntN(len(slots))].SlotID)
			case 3:
				_ = b.RemoveFromBench(playerID)
			}
			assertPartition(t, b)
		}
	}
}
