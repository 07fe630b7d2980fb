package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	PlayerID     int64          `db:"player_id"`
	TeamID       int64          `db:"team_id"`
	FirstName    string         `db:"first_name"`
	MiddleName   sql.NullString `db:"middle_name"`
	LastName     string         `db:"last_name"`
	Positions    string         `db:"positions"`
	JerseyNumber sql.NullInt64  `db:"jersey_number"`
	IsActive     bool           `db:"is_active"`
	IsInjured    bool           `db:"is_injured"`
}

type matchTableModel struct {
	MatchID      int64          `db:"match_id"`
	TeamID       int64          `db:"team_id"`
	Name         string         `db:"name"`
	Venue        string         `db:"venue"`
	MatchDate    time.Time      `db:"match_date"`
	MatchTime    sql.NullString `db:"match_time"`
	OpponentTeam string         `db:"opponent_team"`
	Result       sql.NullString `db:"result"`
}

type formationTableModel struct {
	FormationID int64  `db:"formation_id"`
	Code        string `db:"code"`
	Name        string `db:"name"`
}

// lineupListModel is a match_lineup row joined with its formation and match.
type lineupListModel struct {
	LineupID      int64          `db:"lineup_id"`
	MatchID       int64          `db:"match_id"`
	TeamID        int64          `db:"team_id"`
	FormationID   int64          `db:"formation_id"`
	IsStarting    bool           `db:"is_starting"`
	MinuteApplied int            `db:"minute_applied"`
	FormationCode sql.NullString `db:"formation_code"`
	MatchName     sql.NullString `db:"match_name"`
	MatchDate     sql.NullTime   `db:"match_date"`
}

type lineupSlotTableModel struct {
	LineupID     int64         `db:"lineup_id"`
	SlotNo       int           `db:"slot_no"`
	PlayerID     int64         `db:"player_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	Captain      bool          `db:"captain"`
}

type lineupInsertModel struct {
	MatchID       int64 `db:"match_id"`
	TeamID        int64 `db:"team_id"`
	FormationID   int64 `db:"formation_id"`
	IsStarting    bool  `db:"is_starting"`
	MinuteApplied int   `db:"minute_applied"`
}
