package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	qb "github.com/riskibarqy/squad-lineup/internal/platform/querybuilder"
)

// LineupRepository serves the lineup backend straight from the club database.
type LineupRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

var _ lineup.Backend = (*LineupRepository)(nil)

func NewLineupRepository(db *sqlx.DB) *LineupRepository {
	return &LineupRepository{db: db, now: time.Now}
}

func (r *LineupRepository) FetchSquad(ctx context.Context) ([]lineup.Player, error) {
	query, args, err := qb.Select(
		"player_id", "team_id", "first_name", "middle_name", "last_name",
		"positions", "jersey_number", "is_active", "is_injured",
	).
		From("player").
		OrderBy("last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]lineup.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *LineupRepository) FetchUpcomingMatches(ctx context.Context) ([]lineup.Match, error) {
	today := r.now().UTC().Format("2006-01-02")
	query, args, err := matchBaseSelectBuilder().
		Where(qb.Gte("match_date", today)).
		OrderBy("match_date ASC", "match_time ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming matches query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.fetchUpcomingMatchesLiteral(ctx)
		}
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}

	return matchesFromRows(rows), nil
}

func (r *LineupRepository) fetchUpcomingMatchesLiteral(ctx context.Context) ([]lineup.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(qb.Expr("match_date >= CURRENT_DATE")).
		OrderBy("match_date ASC", "match_time ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming matches literal fallback query: %w", err)
	}

	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming matches literal fallback: %w", err)
	}
	return matchesFromRows(rows), nil
}

func (r *LineupRepository) FetchFormations(ctx context.Context) ([]lineup.FormationRef, error) {
	query, args, err := qb.Select("formation_id", "code", "name").
		From("formation").
		OrderBy("formation_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list formations query: %w", err)
	}

	var rows []formationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list formations: %w", err)
	}

	out := make([]lineup.FormationRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.FormationRef{
			ID:   row.FormationID,
			Code: formation.Code(strings.ToLower(strings.TrimSpace(row.Code))),
			Name: row.Name,
		})
	}
	return out, nil
}

func (r *LineupRepository) FetchLineups(ctx context.Context) ([]lineup.Record, error) {
	query, args, err := lineupBaseSelectBuilder().
		OrderBy("ml.lineup_id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineups query: %w", err)
	}

	var rows []lineupListModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineups: %w", err)
	}

	out := make([]lineup.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineupFromRow(row))
	}
	return out, nil
}

func (r *LineupRepository) FetchLineupDetail(ctx context.Context, lineupID int64) ([]lineup.RoleAssignment, error) {
	query, args, err := qb.Select("lineup_id").
		From("match_lineup").
		Where(qb.Eq("lineup_id", lineupID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build get lineup query: %w", err)
	}

	var found int64
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: lineup id=%d", lineup.ErrRecordNotFound, lineupID)
		}
		return nil, fmt.Errorf("get lineup id=%d: %w", lineupID, err)
	}

	query, args, err = qb.Select("lineup_id", "slot_no", "player_id", "jersey_number", "captain").
		From("match_lineup_slot").
		Where(qb.Eq("lineup_id", lineupID)).
		OrderBy("slot_no").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list lineup slots query: %w", err)
	}

	var rows []lineupSlotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list lineup slots id=%d: %w", lineupID, err)
	}

	out := make([]lineup.RoleAssignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.RoleAssignment{
			Role:         row.SlotNo,
			PlayerID:     row.PlayerID,
			JerseyNumber: nullInt64ToInt(row.JerseyNumber),
			Captain:      row.Captain,
		})
	}
	return out, nil
}

// CreateLineup writes the header and its slots in one transaction.
func (r *LineupRepository) CreateLineup(ctx context.Context, input lineup.CreateLineupInput) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create lineup tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("match_lineup", lineupInsertModel{
		MatchID:     input.MatchID,
		TeamID:      input.TeamID,
		FormationID: input.FormationID,
		IsStarting:  input.IsStarting,
	}, "RETURNING lineup_id")
	if err != nil {
		return 0, fmt.Errorf("build insert lineup query: %w", err)
	}

	var lineupID int64
	if err := tx.QueryRowxContext(ctx, query, args...).Scan(&lineupID); err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%w: match id=%d formation id=%d", lineup.ErrRecordNotFound, input.MatchID, input.FormationID)
		}
		return 0, fmt.Errorf("insert lineup: %w", err)
	}

	if len(input.Assignments) > 0 {
		insert := qb.InsertInto("match_lineup_slot").
			Columns("lineup_id", "slot_no", "player_id", "jersey_number", "captain")
		for _, a := range input.Assignments {
			insert.Values(lineupID, a.Role, a.PlayerID, positiveNullInt64(a.JerseyNumber), a.Captain)
		}
		query, args, err = insert.ToSQL()
		if err != nil {
			return 0, fmt.Errorf("build insert lineup slots query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			if isForeignKeyViolation(err) {
				return 0, fmt.Errorf("%w: unknown player in lineup slots", lineup.ErrRecordNotFound)
			}
			return 0, fmt.Errorf("insert lineup slots: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create lineup tx: %w", err)
	}
	return lineupID, nil
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"match_id", "team_id", "name", "venue", "match_date",
		"match_time::text AS match_time", "opponent_team", "result",
	).From("match_table")
}

func lineupBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"ml.lineup_id", "ml.match_id", "ml.team_id", "ml.formation_id",
		"ml.is_starting", "ml.minute_applied",
		"f.code AS formation_code", "m.name AS match_name", "m.match_date",
	).
		From("match_lineup ml").
		Join("formation f", "f.formation_id = ml.formation_id").
		LeftJoin("match_table m", "m.match_id = ml.match_id")
}

func playerFromRow(row playerTableModel) lineup.Player {
	availability := lineup.AvailabilityAvailable
	switch {
	case row.IsInjured:
		availability = lineup.AvailabilityInjured
	case !row.IsActive:
		availability = lineup.AvailabilityDoubtful
	}

	parts := make([]string, 0, 3)
	for _, part := range []string{row.FirstName, row.MiddleName.String, row.LastName} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return lineup.Player{
		ID:           row.PlayerID,
		Name:         strings.Join(parts, " "),
		Position:     strings.TrimSpace(row.Positions),
		Availability: availability,
		Number:       nullInt64ToInt(row.JerseyNumber),
	}
}

func matchesFromRows(rows []matchTableModel) []lineup.Match {
	out := make([]lineup.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, lineup.Match{
			ID:           row.MatchID,
			Name:         row.Name,
			OpponentName: row.OpponentTeam,
			Venue:        row.Venue,
			KickoffAt:    combineDateTime(row.MatchDate, row.MatchTime),
			Result:       row.Result.String,
		})
	}
	return out
}

func lineupFromRow(row lineupListModel) lineup.Record {
	record := lineup.Record{
		ID:            row.LineupID,
		MatchID:       row.MatchID,
		TeamID:        row.TeamID,
		FormationID:   row.FormationID,
		FormationCode: formation.Code(strings.ToLower(strings.TrimSpace(row.FormationCode.String))),
		IsStarting:    row.IsStarting,
		MinuteApplied: row.MinuteApplied,
		MatchName:     row.MatchName.String,
	}
	if row.MatchDate.Valid {
		record.MatchDate = row.MatchDate.Time.UTC()
	}
	return record
}
