package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

func writeFormations(w io.Writer, roles *formation.RoleTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, code := range formation.Codes() {
		tpl, _ := formation.Lookup(code)
		if len(tpl.Slots) == 0 {
			fmt.Fprintf(tw, "%s\t(free layout)\n", code)
			continue
		}
		fmt.Fprintf(tw, "%s\t", code)
		for i, slot := range tpl.Slots {
			role, _ := roles.RoleOf(code, slot.SlotID)
			if i > 0 {
				fmt.Fprint(tw, " ")
			}
			fmt.Fprintf(tw, "%s=%d", slot.SlotID, role)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeLineups(w io.Writer, records []lineup.Record, now time.Time) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no lineups saved")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMATCH\tFORMATION\tDATE\tSTARTERS")
	for _, record := range records {
		starters := "-"
		if record.Assignments != nil {
			starters = strconv.Itoa(len(record.Assignments))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			record.ID,
			matchLabel(record),
			formationLabel(record),
			relativeDate(record.MatchDate, now),
			starters,
		)
	}
	return tw.Flush()
}

func writeLineup(w io.Writer, loaded usecase.LoadedLineup, snapshot lineup.Snapshot, roles *formation.RoleTable, now time.Time) error {
	if loaded.Record == nil {
		_, err := fmt.Fprintf(w, "no saved lineup for match %d with %s\n", loaded.MatchID, loaded.Formation)
		return err
	}

	record := loaded.Record
	fmt.Fprintf(w, "lineup %d for %s (%s), %s\n", record.ID, matchLabel(*record), snapshot.Formation, relativeDate(record.MatchDate, now))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tSLOT\tPLAYER\tAVAILABILITY")
	for _, slot := range snapshot.Slots {
		role, _ := roles.RoleOf(snapshot.Formation, slot.SlotID)
		name, availability := "-", "-"
		if slot.Occupant != nil {
			name = slot.Occupant.Name
			availability = string(slot.Occupant.Availability)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", role, slot.SlotID, name, availability)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if dropped := len(loaded.Assignments) - countOccupied(snapshot); dropped > 0 {
		_, err := fmt.Fprintf(w, "%s could not be placed\n", humanizeCount(dropped, "assignment"))
		return err
	}
	return nil
}

func matchLabel(record lineup.Record) string {
	if record.MatchName != "" {
		return record.MatchName
	}
	return "#" + strconv.FormatInt(record.MatchID, 10)
}

func formationLabel(record lineup.Record) string {
	if record.FormationCode != "" {
		return string(record.FormationCode)
	}
	return "id " + strconv.FormatInt(record.FormationID, 10)
}

func relativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "date unknown"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func humanizeCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

func countOccupied(snapshot lineup.Snapshot) int {
	n := 0
	for _, slot := range snapshot.Slots {
		if slot.Occupant != nil {
			n++
		}
	}
	return n
}
