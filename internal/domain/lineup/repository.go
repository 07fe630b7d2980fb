package lineup

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned by Backend implementations for unknown ids.
var ErrRecordNotFound = errors.New("record not found")

// Backend exposes the club backend operations the lineup engine consumes.
type Backend interface {
	FetchSquad(ctx context.Context) ([]Player, error)
	FetchUpcomingMatches(ctx context.Context) ([]Match, error)
	FetchFormations(ctx context.Context) ([]FormationRef, error)
	FetchLineups(ctx context.Context) ([]Record, error)
	FetchLineupDetail(ctx context.Context, lineupID int64) ([]RoleAssignment, error)
	CreateLineup(ctx context.Context, input CreateLineupInput) (int64, error)
}
