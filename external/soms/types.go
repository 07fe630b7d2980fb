package soms

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
)

// flexBool accepts true/false, 0/1 and their string forms. The club backend
// stores booleans as TINYINT and returns them as numbers.
type flexBool bool

func (b *flexBool) UnmarshalJSON(raw []byte) error {
	value := strings.ToLower(strings.Trim(string(bytes.TrimSpace(raw)), `"`))
	switch value {
	case "1", "true", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// flexInt accepts numbers and numeric strings; anything else decodes as zero.
type flexInt int64

func (n *flexInt) UnmarshalJSON(raw []byte) error {
	value := strings.Trim(string(bytes.TrimSpace(raw)), `"`)
	if value == "" || value == "null" {
		*n = 0
		return nil
	}
	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		*n = flexInt(parsed)
		return nil
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		*n = flexInt(int64(parsed))
		return nil
	}
	*n = 0
	return nil
}

type listEnvelope[T any] struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   []T    `json:"data"`
}

type itemEnvelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

type errorEnvelope struct {
	Detail any `json:"detail"`
}

type playerRow struct {
	PlayerID   flexInt  `json:"player_id"`
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name"`
	LastName   string   `json:"last_name"`
	Positions  string   `json:"positions"`
	IsActive   flexBool `json:"is_active"`
	IsInjured  flexBool `json:"is_injured"`
	Jersey     flexInt  `json:"jersey_number"`
}

type matchRow struct {
	MatchID      flexInt `json:"match_id"`
	Name         string  `json:"name"`
	Venue        string  `json:"venue"`
	MatchTime    string  `json:"match_time"`
	OpponentTeam string  `json:"opponent_team"`
	MatchDate    string  `json:"match_date"`
	Result       string  `json:"result"`
}

type formationRow struct {
	FormationID flexInt `json:"formation_id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
}

type lineupRow struct {
	LineupID      flexInt  `json:"lineup_id"`
	MatchID       flexInt  `json:"match_id"`
	TeamID        flexInt  `json:"team_id"`
	FormationID   flexInt  `json:"formation_id"`
	IsStarting    flexBool `json:"is_starting"`
	MinuteApplied flexInt  `json:"minute_applied"`
	FormationCode string   `json:"formation_code"`
	MatchName     string   `json:"match_name"`
	MatchDate     string   `json:"match_date"`
}

type lineupDetailRow struct {
	lineupRow
	Slots []slotRow `json:"slots"`
}

type slotRow struct {
	SlotNo       flexInt  `json:"slot_no"`
	PlayerID     flexInt  `json:"player_id"`
	JerseyNumber flexInt  `json:"jersey_number"`
	Captain      flexBool `json:"captain"`
}

type createLineupRequest struct {
	MatchID       int64             `json:"match_id"`
	TeamID        int64             `json:"team_id"`
	FormationID   int64             `json:"formation_id"`
	IsStarting    bool              `json:"is_starting"`
	MinuteApplied int               `json:"minute_applied"`
	Slots         []createSlotEntry `json:"slots"`
}

type createSlotEntry struct {
	SlotNo       int   `json:"slot_no"`
	PlayerID     int64 `json:"player_id"`
	JerseyNumber *int  `json:"jersey_number,omitempty"`
	Captain      bool  `json:"captain"`
}

// createLineupResponse tolerates lineup_id at the top level or under data.
type createLineupResponse struct {
	Status   string  `json:"status"`
	LineupID flexInt `json:"lineup_id"`
	Data     *struct {
		LineupID flexInt `json:"lineup_id"`
	} `json:"data"`
}

func (r createLineupResponse) lineupID() int64 {
	if r.LineupID > 0 {
		return int64(r.LineupID)
	}
	if r.Data != nil {
		return int64(r.Data.LineupID)
	}
	return 0
}

func (r playerRow) toDomain() lineup.Player {
	availability := lineup.AvailabilityAvailable
	switch {
	case bool(r.IsInjured):
		availability = lineup.AvailabilityInjured
	case !bool(r.IsActive):
		availability = lineup.AvailabilityDoubtful
	}

	return lineup.Player{
		ID:           int64(r.PlayerID),
		Name:         joinName(r.FirstName, r.MiddleName, r.LastName),
		Position:     strings.TrimSpace(r.Positions),
		Availability: availability,
		Number:       int(r.Jersey),
	}
}

func (r matchRow) toDomain() lineup.Match {
	return lineup.Match{
		ID:           int64(r.MatchID),
		Name:         strings.TrimSpace(r.Name),
		OpponentName: strings.TrimSpace(r.OpponentTeam),
		Venue:        strings.TrimSpace(r.Venue),
		KickoffAt:    parseKickoff(r.MatchDate, r.MatchTime),
		Result:       strings.TrimSpace(r.Result),
	}
}

func (r formationRow) toDomain() lineup.FormationRef {
	return lineup.FormationRef{
		ID:   int64(r.FormationID),
		Code: formation.Code(strings.ToLower(strings.TrimSpace(r.Code))),
		Name: strings.TrimSpace(r.Name),
	}
}

func (r lineupRow) toDomain() lineup.Record {
	return lineup.Record{
		ID:            int64(r.LineupID),
		MatchID:       int64(r.MatchID),
		TeamID:        int64(r.TeamID),
		FormationID:   int64(r.FormationID),
		FormationCode: formation.Code(strings.ToLower(strings.TrimSpace(r.FormationCode))),
		IsStarting:    bool(r.IsStarting),
		MinuteApplied: int(r.MinuteApplied),
		MatchName:     strings.TrimSpace(r.MatchName),
		MatchDate:     parseKickoff(r.MatchDate, ""),
	}
}

func (r slotRow) toDomain() lineup.RoleAssignment {
	return lineup.RoleAssignment{
		Role:         int(r.SlotNo),
		PlayerID:     int64(r.PlayerID),
		JerseyNumber: int(r.JerseyNumber),
		Captain:      bool(r.Captain),
	}
}

func newCreateLineupRequest(input lineup.CreateLineupInput) createLineupRequest {
	slots := make([]createSlotEntry, 0, len(input.Assignments))
	for _, a := range input.Assignments {
		entry := createSlotEntry{
			SlotNo:   a.Role,
			PlayerID: a.PlayerID,
			Captain:  a.Captain,
		}
		if a.JerseyNumber > 0 {
			jersey := a.JerseyNumber
			entry.JerseyNumber = &jersey
		}
		slots = append(slots, entry)
	}

	return createLineupRequest{
		MatchID:     input.MatchID,
		TeamID:      input.TeamID,
		FormationID: input.FormationID,
		IsStarting:  input.IsStarting,
		Slots:       slots,
	}
}

func joinName(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, " ")
}

// parseKickoff combines the backend's separate DATE and TIME columns. A time
// is optional; the result is UTC.
func parseKickoff(rawDate, rawTime string) time.Time {
	rawDate = strings.TrimSpace(rawDate)
	if rawDate == "" {
		return time.Time{}
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, rawDate); err == nil {
			return parsed.UTC()
		}
	}

	day, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return time.Time{}
	}

	rawTime = strings.TrimSpace(rawTime)
	if rawTime == "" {
		return day.UTC()
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if clock, err := time.Parse(layout, rawTime); err == nil {
			return day.Add(time.Duration(clock.Hour())*time.Hour +
				time.Duration(clock.Minute())*time.Minute +
				time.Duration(clock.Second())*time.Second).UTC()
		}
	}
	// MySQL TIME columns serialize durations such as "1 day, 3:00:00".
	if idx := strings.LastIndex(rawTime, ", "); idx >= 0 {
		return parseKickoff(rawDate, rawTime[idx+2:])
	}
	return day.UTC()
}
