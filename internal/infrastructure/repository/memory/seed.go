package memory

import (
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
)

const DefaultTeamID int64 = 1

func SeedPlayers() []lineup.Player {
	return []lineup.Player{
		{ID: 1, Name: "John Keeper", Position: "GK", Availability: lineup.AvailabilityAvailable, Number: 1},
		{ID: 2, Name: "Alex Silva", Position: "CB", Availability: lineup.AvailabilityAvailable, Number: 4},
		{ID: 3, Name: "Tom White", Position: "CB", Availability: lineup.AvailabilityAvailable, Number: 5},
		{ID: 4, Name: "Mike Brown", Position: "LB", Availability: lineup.AvailabilityAvailable, Number: 3},
		{ID: 5, Name: "Chris Johnson", Position: "RB", Availability: lineup.AvailabilityAvailable, Number: 2},
		{ID: 6, Name: "David Lee", Position: "CDM", Availability: lineup.AvailabilityDoubtful, Number: 6},
		{ID: 7, Name: "Paul Martinez", Position: "CM", Availability: lineup.AvailabilityAvailable, Number: 8},
		{ID: 8, Name: "James Wilson", Position: "CM", Availability: lineup.AvailabilityDoubtful, Number: 10},
		{ID: 9, Name: "Marcus Silva", Position: "LW", Availability: lineup.AvailabilityInjured, Number: 11},
		{ID: 10, Name: "Ryan Taylor", Position: "RW", Availability: lineup.AvailabilityAvailable, Number: 7},
		{ID: 11, Name: "Lucas Garcia", Position: "ST", Availability: lineup.AvailabilityAvailable, Number: 9},
		{ID: 12, Name: "Tom Anderson", Position: "ST", Availability: lineup.AvailabilityAvailable, Number: 19},
		{ID: 13, Name: "Ben Roberts", Position: "GK", Availability: lineup.AvailabilityAvailable, Number: 13},
		{ID: 14, Name: "Sam Davis", Position: "CB", Availability: lineup.AvailabilityAvailable, Number: 15},
		{ID: 15, Name: "Jack Miller", Position: "CM", Availability: lineup.AvailabilityAvailable, Number: 16},
	}
}

func SeedMatches(now time.Time) []lineup.Match {
	day := now.UTC().Truncate(24 * time.Hour)
	return []lineup.Match{
		{ID: 1, Name: "Training Match", OpponentName: "TBD", Venue: "Home", KickoffAt: day.Add(15 * time.Hour), Result: "TBD"},
		{ID: 2, Name: "League Round 12", OpponentName: "Riverside FC", Venue: "Away", KickoffAt: day.Add(7*24*time.Hour + 19*time.Hour)},
		{ID: 3, Name: "Cup Quarter Final", OpponentName: "Northbridge United", Venue: "Home", KickoffAt: day.Add(11*24*time.Hour + 20*time.Hour)},
	}
}

// SeedFormations mirrors the backend's formation table. The custom code has
// no server id.
func SeedFormations() []lineup.FormationRef {
	return []lineup.FormationRef{
		{ID: 1, Code: formation.Code433, Name: "Four-Three-Three"},
		{ID: 2, Code: formation.Code4231, Name: "Four-Two-Three-One"},
		{ID: 3, Code: formation.Code352, Name: "Three-Five-Two"},
		{ID: 4, Code: formation.Code442, Name: "Four-Four-Two"},
		{ID: 5, Code: formation.Code343, Name: "Three-Four-Three"},
		{ID: 6, Code: formation.Code532, Name: "Five-Three-Two"},
	}
}
