package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the development team, squad and matches into an empty
// database. Formations are seeded by the migrations.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM player`); err != nil {
		return fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sqlQuery, args, err := sqlx.Named(`
INSERT INTO team (team_id, name, league, stadium)
VALUES (:team_id, :name, :league, :stadium)
ON CONFLICT (team_id) DO NOTHING`, map[string]any{
		"team_id": memory.DefaultTeamID,
		"name":    "My Team",
		"league":  "Premier League",
		"stadium": "Home Stadium",
	})
	if err != nil {
		return fmt.Errorf("bind seed team query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
		return fmt.Errorf("seed team: %w", err)
	}

	for _, p := range memory.SeedPlayers() {
		first, last := splitName(p.Name)
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO player (player_id, team_id, first_name, last_name, positions, jersey_number, is_active, is_injured)
VALUES (:player_id, :team_id, :first_name, :last_name, :positions, :jersey_number, :is_active, :is_injured)
ON CONFLICT (player_id) DO NOTHING`, map[string]any{
			"player_id":     p.ID,
			"team_id":       memory.DefaultTeamID,
			"first_name":    first,
			"last_name":     last,
			"positions":     p.Position,
			"jersey_number": positiveNullInt64(p.Number),
			"is_active":     p.Availability != lineup.AvailabilityDoubtful,
			"is_injured":    p.Availability == lineup.AvailabilityInjured,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %d query: %w", p.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed player %d: %w", p.ID, err)
		}
	}

	for _, m := range memory.SeedMatches(time.Now()) {
		kickoff := m.KickoffAt.UTC()
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO match_table (match_id, team_id, name, venue, match_date, match_time, opponent_team, result)
VALUES (:match_id, :team_id, :name, :venue, :match_date, :match_time, :opponent_team, :result)
ON CONFLICT (match_id) DO NOTHING`, map[string]any{
			"match_id":      m.ID,
			"team_id":       memory.DefaultTeamID,
			"name":          m.Name,
			"venue":         m.Venue,
			"match_date":    kickoff.Format("2006-01-02"),
			"match_time":    kickoff.Format("15:04:05"),
			"opponent_team": m.OpponentName,
			"result":        m.Result,
		})
		if err != nil {
			return fmt.Errorf("bind seed match %d query: %w", m.ID, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed match %d: %w", m.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
SELECT setval(pg_get_serial_sequence('match_table', 'match_id'), GREATEST((SELECT MAX(match_id) FROM match_table), 1))`); err != nil {
		return fmt.Errorf("advance match sequence: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
SELECT setval(pg_get_serial_sequence('player', 'player_id'), GREATEST((SELECT MAX(player_id) FROM player), 1))`); err != nil {
		return fmt.Errorf("advance player sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}

func splitName(full string) (string, string) {
	full = strings.TrimSpace(full)
	idx := strings.IndexByte(full, ' ')
	if idx < 0 {
		return full, ""
	}
	return full[:idx], strings.TrimSpace(full[idx+1:])
}
