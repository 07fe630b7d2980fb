package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

func TestWriteFormations(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFormations(&buf, formation.DefaultRoleTable()); err != nil {
		t.Fatalf("write formations: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"4-3-3", "gk=1", "st=9", "5-3-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWriteLineups(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	records := []lineup.Record{
		{ID: 5, MatchID: 2, FormationCode: formation.Code433, MatchName: "League Round 12", MatchDate: now.Add(-72 * time.Hour), Assignments: make([]lineup.RoleAssignment, 11)},
		{ID: 4, MatchID: 3, FormationID: 9},
	}

	var buf bytes.Buffer
	if err := writeLineups(&buf, records, now); err != nil {
		t.Fatalf("write lineups: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"League Round 12", "3 days ago", "11", "#3", "id 9", "date unknown"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := writeLineups(&buf, nil, now); err != nil || !strings.Contains(buf.String(), "no lineups saved") {
		t.Fatalf("unexpected empty output %q err=%v", buf.String(), err)
	}
}

func TestWriteLineup(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	roles := formation.DefaultRoleTable()
	board := lineup.NewBoard(memory.SeedPlayers(), formation.Code433)
	if err := board.AssignToSlot("gk", 1); err != nil {
		t.Fatalf("assign gk: %v", err)
	}

	loaded := usecase.LoadedLineup{
		MatchID:     2,
		Formation:   formation.Code433,
		Record:      &lineup.Record{ID: 5, MatchID: 2, MatchName: "League Round 12", MatchDate: now.Add(48 * time.Hour)},
		Assignments: []lineup.RoleAssignment{{Role: 1, PlayerID: 1}, {Role: 9, PlayerID: 99}},
	}

	var buf bytes.Buffer
	if err := writeLineup(&buf, loaded, board.Snapshot(), roles, now); err != nil {
		t.Fatalf("write lineup: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"lineup 5 for League Round 12", "2 days from now", "John Keeper", "1 assignment could not be placed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := writeLineup(&buf, usecase.LoadedLineup{MatchID: 7, Formation: formation.Code442}, board.Snapshot(), roles, now); err != nil {
		t.Fatalf("write empty lineup: %v", err)
	}
	if !strings.Contains(buf.String(), "no saved lineup for match 7 with 4-4-2") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
