package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("lineup_id", "slot_no").
		From("match_lineup_slot").
		Where(Eq("lineup_id", int64(5)), Gte("slot_no", 1)).
		OrderBy("slot_no").
		Limit(11).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT lineup_id, slot_no FROM match_lineup_slot WHERE lineup_id = $1 AND slot_no >= $2 ORDER BY slot_no LIMIT 11"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(5) || args[1] != 1 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilderJoins(t *testing.T) {
	query, args, err := Select("ml.lineup_id", "f.code").
		From("match_lineup ml").
		Join("formation f", "f.formation_id = ml.formation_id").
		LeftJoin("match_table m", "m.match_id = ml.match_id").
		Where(Expr("m.match_date <= ?::date", "2026-03-14")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT ml.lineup_id, f.code FROM match_lineup ml JOIN formation f ON f.formation_id = ml.formation_id " +
		"LEFT JOIN match_table m ON m.match_id = ml.match_id WHERE m.match_date <= $1::date"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "2026-03-14" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("match_lineup_slot").
		Columns("lineup_id", "slot_no", "player_id").
		Values(int64(5), 6, int64(101)).
		Values(int64(5), 9, int64(205)).
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO match_lineup_slot (lineup_id, slot_no, player_id) VALUES ($1, $2, $3), ($4, $5, $6)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 || args[1] != 6 || args[5] != int64(205) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilderRejectsShortRow(t *testing.T) {
	_, _, err := InsertInto("match_lineup_slot").
		Columns("lineup_id", "slot_no").
		Values(int64(5)).
		ToSQL()
	if err == nil {
		t.Fatalf("expected error for row with missing values")
	}
}

func TestExprKeepsSurplusPlaceholders(t *testing.T) {
	query, args, err := Select("match_id").
		From("match_table").
		Where(Eq("team_id", int64(1)), Expr("opponent_name LIKE ? OR venue = ?", "%United%")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT match_id FROM match_table WHERE team_id = $1 AND opponent_name LIKE $2 OR venue = ?"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[1] != "%United%" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		MatchID     int64 `db:"match_id"`
		FormationID int64 `db:"formation_id"`
		Ignored     string
		skipped     int
	}

	query, args, err := InsertModel("match_lineup", row{MatchID: 7, FormationID: 1, skipped: 3}, "RETURNING lineup_id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}

	wantQuery := "INSERT INTO match_lineup (match_id, formation_id) VALUES ($1, $2) RETURNING lineup_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(7) || args[1] != int64(1) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
