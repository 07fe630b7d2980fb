package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	basecache "github.com/riskibarqy/squad-lineup/internal/platform/cache"
)

const (
	formationListKey   = "formation:list"
	lineupDetailPrefix = "lineup:detail:"
)

// Backend caches the slow-changing parts of a lineup.Backend: the formation
// list and saved lineup details, which are never edited once created. Squad,
// matches and the lineup list always go to the next backend.
type Backend struct {
	next  lineup.Backend
	cache *basecache.Store
}

func NewBackend(next lineup.Backend, cache *basecache.Store) *Backend {
	return &Backend{next: next, cache: cache}
}

func (b *Backend) FetchSquad(ctx context.Context) ([]lineup.Player, error) {
	return b.next.FetchSquad(ctx)
}

func (b *Backend) FetchUpcomingMatches(ctx context.Context) ([]lineup.Match, error) {
	return b.next.FetchUpcomingMatches(ctx)
}

func (b *Backend) FetchFormations(ctx context.Context) ([]lineup.FormationRef, error) {
	v, err := b.cache.GetOrLoad(ctx, formationListKey, func(ctx context.Context) (any, error) {
		items, err := b.next.FetchFormations(ctx)
		if err != nil {
			return nil, err
		}
		return append([]lineup.FormationRef(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]lineup.FormationRef)
	return append([]lineup.FormationRef(nil), items...), nil
}

func (b *Backend) FetchLineups(ctx context.Context) ([]lineup.Record, error) {
	return b.next.FetchLineups(ctx)
}

func (b *Backend) FetchLineupDetail(ctx context.Context, lineupID int64) ([]lineup.RoleAssignment, error) {
	key := lineupDetailPrefix + strconv.FormatInt(lineupID, 10)
	v, err := b.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := b.next.FetchLineupDetail(ctx, lineupID)
		if err != nil {
			return nil, err
		}
		return append([]lineup.RoleAssignment(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]lineup.RoleAssignment)
	return append([]lineup.RoleAssignment(nil), items...), nil
}

func (b *Backend) CreateLineup(ctx context.Context, input lineup.CreateLineupInput) (int64, error) {
	return b.next.CreateLineup(ctx, input)
}
