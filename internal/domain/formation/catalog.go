package formation

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownFormation = errors.New("unknown formation")

// Code identifies a tactical shape.
type Code string

const (
	Code433    Code = "4-3-3"
	Code442    Code = "4-4-2"
	Code4231   Code = "4-2-3-1"
	Code352    Code = "3-5-2"
	Code343    Code = "3-4-3"
	Code532    Code = "5-3-2"
	CodeCustom Code = "custom"
)

// StartingSlots is the slot count of every non-custom template.
const StartingSlots = 11

// SlotTemplate is one named position of a formation. X and Y are layout
// percentages in [0,100] with Y growing towards the own goal.
type SlotTemplate struct {
	SlotID string
	X      float64
	Y      float64
}

// Template is the ordered slot layout of one formation.
type Template struct {
	Code  Code
	Slots []SlotTemplate
}

func (t Template) HasSlot(slotID string) bool {
	for _, slot := range t.Slots {
		if slot.SlotID == slotID {
			return true
		}
	}
	return false
}

var templates = map[Code][]SlotTemplate{
	Code433: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "lb", X: 20, Y: 70},
		{SlotID: "cb1", X: 40, Y: 70},
		{SlotID: "cb2", X: 60, Y: 70},
		{SlotID: "rb", X: 80, Y: 70},
		{SlotID: "cm1", X: 30, Y: 50},
		{SlotID: "cm2", X: 50, Y: 50},
		{SlotID: "cm3", X: 70, Y: 50},
		{SlotID: "lw", X: 20, Y: 25},
		{SlotID: "st", X: 50, Y: 20},
		{SlotID: "rw", X: 80, Y: 25},
	},
	Code4231: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "lb", X: 20, Y: 70},
		{SlotID: "cb1", X: 40, Y: 70},
		{SlotID: "cb2", X: 60, Y: 70},
		{SlotID: "rb", X: 80, Y: 70},
		{SlotID: "cdm1", X: 35, Y: 55},
		{SlotID: "cdm2", X: 65, Y: 55},
		{SlotID: "lam", X: 25, Y: 38},
		{SlotID: "cam", X: 50, Y: 35},
		{SlotID: "ram", X: 75, Y: 38},
		{SlotID: "st", X: 50, Y: 18},
	},
	Code352: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "cb1", X: 30, Y: 70},
		{SlotID: "cb2", X: 50, Y: 70},
		{SlotID: "cb3", X: 70, Y: 70},
		{SlotID: "lwb", X: 15, Y: 50},
		{SlotID: "cm1", X: 35, Y: 50},
		{SlotID: "cm2", X: 50, Y: 48},
		{SlotID: "cm3", X: 65, Y: 50},
		{SlotID: "rwb", X: 85, Y: 50},
		{SlotID: "st1", X: 40, Y: 20},
		{SlotID: "st2", X: 60, Y: 20},
	},
	Code442: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "lb", X: 20, Y: 70},
		{SlotID: "cb1", X: 40, Y: 70},
		{SlotID: "cb2", X: 60, Y: 70},
		{SlotID: "rb", X: 80, Y: 70},
		{SlotID: "lm", X: 20, Y: 45},
		{SlotID: "cm1", X: 40, Y: 48},
		{SlotID: "cm2", X: 60, Y: 48},
		{SlotID: "rm", X: 80, Y: 45},
		{SlotID: "st1", X: 40, Y: 20},
		{SlotID: "st2", X: 60, Y: 20},
	},
	Code343: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "cb1", X: 30, Y: 70},
		{SlotID: "cb2", X: 50, Y: 70},
		{SlotID: "cb3", X: 70, Y: 70},
		{SlotID: "lm", X: 15, Y: 48},
		{SlotID: "cm1", X: 40, Y: 50},
		{SlotID: "cm2", X: 60, Y: 50},
		{SlotID: "rm", X: 85, Y: 48},
		{SlotID: "lw", X: 22, Y: 25},
		{SlotID: "st", X: 50, Y: 18},
		{SlotID: "rw", X: 78, Y: 25},
	},
	Code532: {
		{SlotID: "gk", X: 50, Y: 90},
		{SlotID: "lwb", X: 12, Y: 62},
		{SlotID: "cb1", X: 32, Y: 72},
		{SlotID: "cb2", X: 50, Y: 74},
		{SlotID: "cb3", X: 68, Y: 72},
		{SlotID: "rwb", X: 88, Y: 62},
		{SlotID: "cm1", X: 30, Y: 48},
		{SlotID: "cm2", X: 50, Y: 46},
		{SlotID: "cm3", X: 70, Y: 48},
		{SlotID: "st1", X: 40, Y: 20},
		{SlotID: "st2", X: 60, Y: 20},
	},
	CodeCustom: {},
}

var orderedCodes = []Code{Code433, Code442, Code4231, Code352, Code343, Code532, CodeCustom}

// Codes lists every known formation code in display order.
func Codes() []Code {
	return append([]Code(nil), orderedCodes...)
}

// Lookup returns a copy of the template for code.
func Lookup(code Code) (Template, bool) {
	slots, ok := templates[code]
	if !ok {
		return Template{}, false
	}
	return Template{Code: code, Slots: append([]SlotTemplate(nil), slots...)}, true
}

// MustTemplate is Lookup for codes that were already validated. The code set is
// closed, so an unknown code here is a programming error.
func MustTemplate(code Code) Template {
	tpl, ok := Lookup(code)
	if !ok {
		panic(fmt.Sprintf("formation: unknown code %q", code))
	}
	return tpl
}

// ParseCode validates untrusted input such as request payloads.
func ParseCode(raw string) (Code, error) {
	code := Code(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := templates[code]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormation, raw)
	}
	return code, nil
}
