package lineup

import (
	"errors"
	"fmt"
	"slices"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
)

var (
	ErrUnknownSlot   = errors.New("unknown pitch slot")
	ErrUnknownPlayer = errors.New("player is not in the squad")
)

// PitchSlot is a runtime slot of the selected formation.
type PitchSlot struct {
	SlotID   string
	X        float64
	Y        float64
	Occupant *Player
}

type PlacementKind string

const (
	PlacementPool  PlacementKind = "pool"
	PlacementSlot  PlacementKind = "slot"
	PlacementBench PlacementKind = "bench"
)

// Placement says where a squad player currently is.
type Placement struct {
	Kind   PlacementKind
	SlotID string
}

// Snapshot is a detached copy of the board, safe to hand to other goroutines.
type Snapshot struct {
	Formation  formation.Code
	Slots      []PitchSlot
	Bench      []Player
	Unassigned []Player
}

type slotState struct {
	tpl      formation.SlotTemplate
	occupant int64
	filled   bool
}

// Board is the in-memory assignment state of one editing session. Every squad
// player is on exactly one slot, on the bench, or in the unassigned pool; each
// mutation keeps that partition by construction. Board is not safe for
// concurrent use.
type Board struct {
	code      formation.Code
	slots     []slotState
	squad     []Player
	squadByID map[int64]int
	bench     []int64
}

// NewBoard builds an empty board for code. Duplicate player ids in squad are
// collapsed to their first occurrence.
func NewBoard(squad []Player, code formation.Code) *Board {
	b := &Board{}
	b.setSquad(squad)
	b.Reset(code)
	return b
}

func (b *Board) Formation() formation.Code {
	return b.code
}

// Reset reinitializes every slot empty from the template for code and clears
// the bench. It panics on an unknown code.
func (b *Board) Reset(code formation.Code) {
	tpl := formation.MustTemplate(code)

	b.code = code
	b.slots = make([]slotState, 0, len(tpl.Slots))
	for _, slot := range tpl.Slots {
		b.slots = append(b.slots, slotState{tpl: slot})
	}
	b.bench = nil
}

// AssignToSlot moves the player into slotID. The player leaves wherever it
// was; the slot's previous occupant drops to the unassigned pool.
func (b *Board) AssignToSlot(slotID string, playerID int64) error {
	idx := b.slotIndex(slotID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
	}
	if !b.inSquad(playerID) {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}

	b.detach(playerID)
	b.slots[idx].occupant = playerID
	b.slots[idx].filled = true
	return nil
}

// AssignToBench moves the player off the pitch and onto the bench. Assigning
// a player already on the bench is a no-op.
func (b *Board) AssignToBench(playerID int64) error {
	if !b.inSquad(playerID) {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}

	b.clearSlotsOf(playerID)
	if !slices.Contains(b.bench, playerID) {
		b.bench = append(b.bench, playerID)
	}
	return nil
}

// RemoveFromSlot empties slotID. Its occupant returns to the pool, not the bench.
func (b *Board) RemoveFromSlot(slotID string) error {
	idx := b.slotIndex(slotID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSlot, slotID)
	}

	b.slots[idx].occupant = 0
	b.slots[idx].filled = false
	return nil
}

// RemoveFromBench returns a benched player to the pool.
func (b *Board) RemoveFromBench(playerID int64) error {
	if !b.inSquad(playerID) {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, playerID)
	}

	b.bench = slices.DeleteFunc(b.bench, func(id int64) bool { return id == playerID })
	return nil
}

// SetSquad replaces the squad. Players that are no longer part of it lose
// their slot or bench place.
func (b *Board) SetSquad(squad []Player) {
	b.setSquad(squad)

	for i := range b.slots {
		if b.slots[i].filled && !b.inSquad(b.slots[i].occupant) {
			b.slots[i].occupant = 0
			b.slots[i].filled = false
		}
	}
	b.bench = slices.DeleteFunc(b.bench, func(id int64) bool { return !b.inSquad(id) })
}

func (b *Board) Squad() []Player {
	return append([]Player(nil), b.squad...)
}

func (b *Board) Slots() []PitchSlot {
	out := make([]PitchSlot, 0, len(b.slots))
	for _, s := range b.slots {
		slot := PitchSlot{SlotID: s.tpl.SlotID, X: s.tpl.X, Y: s.tpl.Y}
		if s.filled {
			p := b.squad[b.squadByID[s.occupant]]
			slot.Occupant = &p
		}
		out = append(out, slot)
	}
	return out
}

func (b *Board) Bench() []Player {
	out := make([]Player, 0, len(b.bench))
	for _, id := range b.bench {
		out = append(out, b.squad[b.squadByID[id]])
	}
	return out
}

// UnassignedPool is the squad minus slot occupants minus bench, recomputed on
// every call.
func (b *Board) UnassignedPool() []Player {
	assigned := make(map[int64]struct{}, len(b.slots)+len(b.bench))
	for _, s := range b.slots {
		if s.filled {
			assigned[s.occupant] = struct{}{}
		}
	}
	for _, id := range b.bench {
		assigned[id] = struct{}{}
	}

	out := make([]Player, 0, len(b.squad))
	for _, p := range b.squad {
		if _, ok := assigned[p.ID]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Starters returns slot id -> player id for every occupied slot.
func (b *Board) Starters() map[string]int64 {
	out := make(map[string]int64, len(b.slots))
	for _, s := range b.slots {
		if s.filled {
			out[s.tpl.SlotID] = s.occupant
		}
	}
	return out
}

// Locate reports where playerID currently is. ok is false for players outside
// the squad.
func (b *Board) Locate(playerID int64) (Placement, bool) {
	if !b.inSquad(playerID) {
		return Placement{}, false
	}
	for _, s := range b.slots {
		if s.filled && s.occupant == playerID {
			return Placement{Kind: PlacementSlot, SlotID: s.tpl.SlotID}, true
		}
	}
	if slices.Contains(b.bench, playerID) {
		return Placement{Kind: PlacementBench}, true
	}
	return Placement{Kind: PlacementPool}, true
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Formation:  b.code,
		Slots:      b.Slots(),
		Bench:      b.Bench(),
		Unassigned: b.UnassignedPool(),
	}
}

func (b *Board) detach(playerID int64) {
	b.clearSlotsOf(playerID)
	b.bench = slices.DeleteFunc(b.bench, func(id int64) bool { return id == playerID })
}

func (b *Board) clearSlotsOf(playerID int64) {
	for i := range b.slots {
		if b.slots[i].filled && b.slots[i].occupant == playerID {
			b.slots[i].occupant = 0
			b.slots[i].filled = false
		}
	}
}

func (b *Board) slotIndex(slotID string) int {
	for i, s := range b.slots {
		if s.tpl.SlotID == slotID {
			return i
		}
	}
	return -1
}

func (b *Board) inSquad(playerID int64) bool {
	_, ok := b.squadByID[playerID]
	return ok
}

func (b *Board) setSquad(squad []Player) {
	b.squad = make([]Player, 0, len(squad))
	b.squadByID = make(map[int64]int, len(squad))
	for _, p := range squad {
		if _, dup := b.squadByID[p.ID]; dup {
			continue
		}
		b.squadByID[p.ID] = len(b.squad)
		b.squad = append(b.squad, p)
	}
}
