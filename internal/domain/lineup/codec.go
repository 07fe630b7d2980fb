package lineup

import (
	"errors"
	"fmt"
	"sort"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
)

var ErrUnmappedSlot = errors.New("pitch slot has no tactical role")

// EncodeStarters translates occupied slots into role assignments ordered by
// role. Bench players are not part of the result.
func EncodeStarters(b *Board, roles *formation.RoleTable) ([]RoleAssignment, error) {
	out := make([]RoleAssignment, 0, formation.StartingSlots)
	for _, slot := range b.Slots() {
		if slot.Occupant == nil {
			continue
		}
		role, ok := roles.RoleOf(b.Formation(), slot.SlotID)
		if !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnmappedSlot, b.Formation(), slot.SlotID)
		}
		out = append(out, RoleAssignment{
			Role:         role,
			PlayerID:     slot.Occupant.ID,
			JerseyNumber: slot.Occupant.Number,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

// ApplyAssignments resets the board to code and places each assignment on the
// slot its role maps to. Assignments whose role has no slot in code, or whose
// player is not in the squad, are skipped and returned.
func ApplyAssignments(b *Board, roles *formation.RoleTable, code formation.Code, assignments []RoleAssignment) []RoleAssignment {
	b.Reset(code)

	var dropped []RoleAssignment
	for _, a := range assignments {
		slotID, ok := roles.SlotFor(code, a.Role)
		if !ok {
			dropped = append(dropped, a)
			continue
		}
		if err := b.AssignToSlot(slotID, a.PlayerID); err != nil {
			dropped = append(dropped, a)
		}
	}
	return dropped
}
