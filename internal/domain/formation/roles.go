package formation

import (
	"errors"
	"fmt"
)

const (
	MinRole = 1
	MaxRole = 11
)

var ErrInvalidRoleTable = errors.New("invalid role table")

// RoleEntry binds one slot of one formation to a tactical role number.
type RoleEntry struct {
	Formation Code
	SlotID    string
	Role      int
}

// RoleTable translates between slot ids and tactical role numbers. The
// persistence layer keys saved lineups by role, so the table must be injective
// per formation.
type RoleTable struct {
	bySlot map[Code]map[string]int
	byRole map[Code]map[int]string
}

// NewRoleTable validates entries against the catalog: roles in range, slots
// known, no duplicate slot or role within a formation, and every slot of every
// template covered.
func NewRoleTable(entries []RoleEntry) (*RoleTable, error) {
	t := &RoleTable{
		bySlot: make(map[Code]map[string]int),
		byRole: make(map[Code]map[int]string),
	}

	for _, e := range entries {
		tpl, ok := Lookup(e.Formation)
		if !ok {
			return nil, fmt.Errorf("%w: unknown formation %q", ErrInvalidRoleTable, e.Formation)
		}
		if !tpl.HasSlot(e.SlotID) {
			return nil, fmt.Errorf("%w: formation %s has no slot %q", ErrInvalidRoleTable, e.Formation, e.SlotID)
		}
		if e.Role < MinRole || e.Role > MaxRole {
			return nil, fmt.Errorf("%w: role %d for %s/%s out of range", ErrInvalidRoleTable, e.Role, e.Formation, e.SlotID)
		}

		slots := t.bySlot[e.Formation]
		if slots == nil {
			slots = make(map[string]int)
			t.bySlot[e.Formation] = slots
		}
		roles := t.byRole[e.Formation]
		if roles == nil {
			roles = make(map[int]string)
			t.byRole[e.Formation] = roles
		}

		if _, dup := slots[e.SlotID]; dup {
			return nil, fmt.Errorf("%w: slot %s/%s mapped twice", ErrInvalidRoleTable, e.Formation, e.SlotID)
		}
		if other, dup := roles[e.Role]; dup {
			return nil, fmt.Errorf("%w: role %d used by both %s and %s in %s", ErrInvalidRoleTable, e.Role, other, e.SlotID, e.Formation)
		}
		slots[e.SlotID] = e.Role
		roles[e.Role] = e.SlotID
	}

	for _, code := range Codes() {
		tpl := MustTemplate(code)
		for _, slot := range tpl.Slots {
			if _, ok := t.bySlot[code][slot.SlotID]; !ok {
				return nil, fmt.Errorf("%w: slot %s/%s has no role", ErrInvalidRoleTable, code, slot.SlotID)
			}
		}
	}

	return t, nil
}

// RoleOf resolves the save direction.
func (t *RoleTable) RoleOf(code Code, slotID string) (int, bool) {
	role, ok := t.bySlot[code][slotID]
	return role, ok
}

// SlotFor resolves the load direction.
func (t *RoleTable) SlotFor(code Code, role int) (string, bool) {
	slotID, ok := t.byRole[code][role]
	return slotID, ok
}

var defaultRoleEntries = []RoleEntry{
	{Code433, "gk", 1}, {Code433, "rb", 2}, {Code433, "lb", 3}, {Code433, "cb1", 4}, {Code433, "cb2", 5},
	{Code433, "cm1", 6}, {Code433, "rw", 7}, {Code433, "cm2", 8}, {Code433, "st", 9}, {Code433, "cm3", 10},
	{Code433, "lw", 11},

	{Code442, "gk", 1}, {Code442, "rb", 2}, {Code442, "lb", 3}, {Code442, "cb1", 4}, {Code442, "cb2", 5},
	{Code442, "cm1", 6}, {Code442, "rm", 7}, {Code442, "cm2", 8}, {Code442, "st1", 9}, {Code442, "st2", 10},
	{Code442, "lm", 11},

	{Code4231, "gk", 1}, {Code4231, "rb", 2}, {Code4231, "lb", 3}, {Code4231, "cb1", 4}, {Code4231, "cb2", 5},
	{Code4231, "cdm1", 6}, {Code4231, "ram", 7}, {Code4231, "cdm2", 8}, {Code4231, "st", 9}, {Code4231, "cam", 10},
	{Code4231, "lam", 11},

	{Code352, "gk", 1}, {Code352, "rwb", 2}, {Code352, "lwb", 3}, {Code352, "cb1", 4}, {Code352, "cb2", 5},
	{Code352, "cb3", 6}, {Code352, "cm3", 7}, {Code352, "cm1", 8}, {Code352, "st1", 9}, {Code352, "cm2", 10},
	{Code352, "st2", 11},

	{Code343, "gk", 1}, {Code343, "rm", 2}, {Code343, "lm", 3}, {Code343, "cb1", 4}, {Code343, "cb2", 5},
	{Code343, "cb3", 6}, {Code343, "rw", 7}, {Code343, "cm1", 8}, {Code343, "st", 9}, {Code343, "cm2", 10},
	{Code343, "lw", 11},

	{Code532, "gk", 1}, {Code532, "rwb", 2}, {Code532, "lwb", 3}, {Code532, "cb1", 4}, {Code532, "cb2", 5},
	{Code532, "cb3", 6}, {Code532, "cm3", 7}, {Code532, "cm1", 8}, {Code532, "st1", 9}, {Code532, "cm2", 10},
	{Code532, "st2", 11},
}

var defaultRoleTable = mustRoleTable(defaultRoleEntries)

// DefaultRoleTable returns the built-in table. It is immutable and safe to share.
func DefaultRoleTable() *RoleTable {
	return defaultRoleTable
}

// DefaultRoleEntries returns a copy of the built-in entries.
func DefaultRoleEntries() []RoleEntry {
	return append([]RoleEntry(nil), defaultRoleEntries...)
}

func mustRoleTable(entries []RoleEntry) *RoleTable {
	t, err := NewRoleTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}
