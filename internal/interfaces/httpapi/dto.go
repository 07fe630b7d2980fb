package httpapi

import (
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

type openSessionRequest struct {
	Formation string `json:"formation" validate:"required"`
}

type selectionRequest struct {
	MatchID   int64  `json:"match_id" validate:"gte=0"`
	Formation string `json:"formation" validate:"required"`
}

type assignSlotRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type healthDTO struct {
	Status         string      `json:"status"`
	Backend        string      `json:"backend"`
	ActiveSessions int         `json:"active_sessions"`
	Circuit        *circuitDTO `json:"circuit,omitempty"`
}

type circuitDTO struct {
	State               string `json:"state"`
	ConsecutiveFailures int    `json:"consecutive_failures"`
	Trips               int64  `json:"trips"`
	Rejected            int64  `json:"rejected"`
	OpenedAtUTC         string `json:"opened_at_utc,omitempty"`
}

type formationDTO struct {
	Code     string             `json:"code"`
	ServerID int64              `json:"server_id,omitempty"`
	Name     string             `json:"name,omitempty"`
	Slots    []formationSlotDTO `json:"slots"`
}

type formationSlotDTO struct {
	SlotID string  `json:"slot_id"`
	Role   int     `json:"role,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type playerDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Availability string `json:"availability"`
	Number       int    `json:"number"`
}

type matchDTO struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	OpponentName string `json:"opponent_name"`
	Venue        string `json:"venue"`
	KickoffAtUTC string `json:"kickoff_at_utc,omitempty"`
	Result       string `json:"result,omitempty"`
}

type formationRefDTO struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

type editorContextDTO struct {
	Squad      []playerDTO       `json:"squad"`
	Matches    []matchDTO        `json:"matches"`
	Formations []formationRefDTO `json:"formations"`
	Warnings   []string          `json:"warnings,omitempty"`
}

type roleAssignmentDTO struct {
	Role         int   `json:"role"`
	PlayerID     int64 `json:"player_id"`
	JerseyNumber int   `json:"jersey_number,omitempty"`
	Captain      bool  `json:"captain,omitempty"`
}

type lineupRecordDTO struct {
	ID            int64               `json:"id"`
	MatchID       int64               `json:"match_id"`
	TeamID        int64               `json:"team_id"`
	FormationID   int64               `json:"formation_id"`
	FormationCode string              `json:"formation_code,omitempty"`
	IsStarting    bool                `json:"is_starting"`
	MinuteApplied int                 `json:"minute_applied"`
	MatchName     string              `json:"match_name,omitempty"`
	MatchDate     string              `json:"match_date,omitempty"`
	Assignments   []roleAssignmentDTO `json:"assignments,omitempty"`
}

type pitchSlotDTO struct {
	SlotID   string     `json:"slot_id"`
	Role     int        `json:"role,omitempty"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Occupant *playerDTO `json:"occupant"`
}

type sessionDTO struct {
	ID           string         `json:"id"`
	Formation    string         `json:"formation"`
	MatchID      int64          `json:"match_id,omitempty"`
	Slots        []pitchSlotDTO `json:"slots"`
	Bench        []playerDTO    `json:"bench"`
	Unassigned   []playerDTO    `json:"unassigned"`
	Saving       bool           `json:"saving"`
	UpdatedAtUTC string         `json:"updated_at_utc"`
}

type selectionDTO struct {
	Session    sessionDTO `json:"session"`
	LineupID   int64      `json:"lineup_id,omitempty"`
	Dropped    int        `json:"dropped"`
	Superseded bool       `json:"superseded"`
}

type saveDTO struct {
	LineupID    int64               `json:"lineup_id"`
	MatchID     int64               `json:"match_id"`
	FormationID int64               `json:"formation_id"`
	Formation   string              `json:"formation"`
	Assignments []roleAssignmentDTO `json:"assignments"`
}

func circuitToDTO(stats resilience.CircuitStats) *circuitDTO {
	out := &circuitDTO{
		State:               string(stats.State),
		ConsecutiveFailures: stats.ConsecutiveFailures,
		Trips:               stats.Trips,
		Rejected:            stats.Rejected,
	}
	if stats.OpenedAt != nil {
		out.OpenedAtUTC = stats.OpenedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func formationToDTO(tpl formation.Template, roles *formation.RoleTable, ref lineup.FormationRef) formationDTO {
	slots := make([]formationSlotDTO, 0, len(tpl.Slots))
	for _, slot := range tpl.Slots {
		role, _ := roles.RoleOf(tpl.Code, slot.SlotID)
		slots = append(slots, formationSlotDTO{
			SlotID: slot.SlotID,
			Role:   role,
			X:      slot.X,
			Y:      slot.Y,
		})
	}

	return formationDTO{
		Code:     string(tpl.Code),
		ServerID: ref.ID,
		Name:     ref.Name,
		Slots:    slots,
	}
}

func playerToDTO(p lineup.Player) playerDTO {
	return playerDTO{
		ID:           p.ID,
		Name:         p.Name,
		Position:     p.Position,
		Availability: string(p.Availability),
		Number:       p.Number,
	}
}

func playersToDTO(items []lineup.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func matchToDTO(m lineup.Match) matchDTO {
	out := matchDTO{
		ID:           m.ID,
		Name:         m.Name,
		OpponentName: m.OpponentName,
		Venue:        m.Venue,
		Result:       m.Result,
	}
	if !m.KickoffAt.IsZero() {
		out.KickoffAtUTC = m.KickoffAt.UTC().Format(time.RFC3339)
	}
	return out
}

func editorContextToDTO(v usecase.EditorContext) editorContextDTO {
	matches := make([]matchDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		matches = append(matches, matchToDTO(m))
	}
	refs := make([]formationRefDTO, 0, len(v.Formations))
	for _, ref := range v.Formations {
		refs = append(refs, formationRefDTO{ID: ref.ID, Code: string(ref.Code), Name: ref.Name})
	}

	return editorContextDTO{
		Squad:      playersToDTO(v.Squad),
		Matches:    matches,
		Formations: refs,
	}
}

func assignmentsToDTO(items []lineup.RoleAssignment) []roleAssignmentDTO {
	out := make([]roleAssignmentDTO, 0, len(items))
	for _, a := range items {
		out = append(out, roleAssignmentDTO{
			Role:         a.Role,
			PlayerID:     a.PlayerID,
			JerseyNumber: a.JerseyNumber,
			Captain:      a.Captain,
		})
	}
	return out
}

func lineupRecordToDTO(v lineup.Record) lineupRecordDTO {
	out := lineupRecordDTO{
		ID:            v.ID,
		MatchID:       v.MatchID,
		TeamID:        v.TeamID,
		FormationID:   v.FormationID,
		FormationCode: string(v.FormationCode),
		IsStarting:    v.IsStarting,
		MinuteApplied: v.MinuteApplied,
		MatchName:     v.MatchName,
	}
	if !v.MatchDate.IsZero() {
		out.MatchDate = v.MatchDate.UTC().Format(time.DateOnly)
	}
	if v.Assignments != nil {
		out.Assignments = assignmentsToDTO(v.Assignments)
	}
	return out
}

func sessionToDTO(v usecase.SessionView) sessionDTO {
	slots := make([]pitchSlotDTO, 0, len(v.Board.Slots))
	for _, slot := range v.Board.Slots {
		item := pitchSlotDTO{
			SlotID: slot.SlotID,
			Role:   v.Roles[slot.SlotID],
			X:      slot.X,
			Y:      slot.Y,
		}
		if slot.Occupant != nil {
			occupant := playerToDTO(*slot.Occupant)
			item.Occupant = &occupant
		}
		slots = append(slots, item)
	}

	return sessionDTO{
		ID:           v.ID,
		Formation:    string(v.Board.Formation),
		MatchID:      v.MatchID,
		Slots:        slots,
		Bench:        playersToDTO(v.Board.Bench),
		Unassigned:   playersToDTO(v.Board.Unassigned),
		Saving:       v.Saving,
		UpdatedAtUTC: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func saveToDTO(v usecase.SaveResult) saveDTO {
	return saveDTO{
		LineupID:    v.LineupID,
		MatchID:     v.MatchID,
		FormationID: v.FormationID,
		Formation:   string(v.Formation),
		Assignments: assignmentsToDTO(v.Assignments),
	}
}
