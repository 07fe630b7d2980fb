package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
)

type Backend struct {
	mu         sync.RWMutex
	teamID     int64
	players    []lineup.Player
	matches    []lineup.Match
	formations []lineup.FormationRef
	lineups    map[int64]lineup.Record
	nextID     int64
	now        func() time.Time
}

func NewBackend(players []lineup.Player, matches []lineup.Match, formations []lineup.FormationRef) *Backend {
	return &Backend{
		teamID:     DefaultTeamID,
		players:    append([]lineup.Player(nil), players...),
		matches:    append([]lineup.Match(nil), matches...),
		formations: append([]lineup.FormationRef(nil), formations...),
		lineups:    make(map[int64]lineup.Record),
		nextID:     1,
		now:        time.Now,
	}
}

// NewSeededBackend returns a backend preloaded with the development squad,
// matches and formations.
func NewSeededBackend() *Backend {
	return NewBackend(SeedPlayers(), SeedMatches(time.Now()), SeedFormations())
}

func (b *Backend) FetchSquad(_ context.Context) ([]lineup.Player, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]lineup.Player(nil), b.players...), nil
}

func (b *Backend) FetchUpcomingMatches(_ context.Context) ([]lineup.Match, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := append([]lineup.Match(nil), b.matches...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].KickoffAt.Before(out[j].KickoffAt)
	})
	return out, nil
}

func (b *Backend) FetchFormations(_ context.Context) ([]lineup.FormationRef, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]lineup.FormationRef(nil), b.formations...), nil
}

func (b *Backend) FetchLineups(_ context.Context) ([]lineup.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]lineup.Record, 0, len(b.lineups))
	for _, item := range b.lineups {
		item.Assignments = nil
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (b *Backend) FetchLineupDetail(_ context.Context, lineupID int64) ([]lineup.RoleAssignment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	item, ok := b.lineups[lineupID]
	if !ok {
		return nil, fmt.Errorf("%w: lineup id=%d", lineup.ErrRecordNotFound, lineupID)
	}
	return append([]lineup.RoleAssignment(nil), item.Assignments...), nil
}

func (b *Backend) CreateLineup(_ context.Context, input lineup.CreateLineupInput) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	match, ok := b.matchByID(input.MatchID)
	if !ok {
		return 0, fmt.Errorf("%w: match id=%d", lineup.ErrRecordNotFound, input.MatchID)
	}
	ref, ok := b.formationByID(input.FormationID)
	if !ok {
		return 0, fmt.Errorf("%w: formation id=%d", lineup.ErrRecordNotFound, input.FormationID)
	}

	teamID := input.TeamID
	if teamID <= 0 {
		teamID = b.teamID
	}

	id := b.nextID
	b.nextID++
	b.lineups[id] = lineup.Record{
		ID:            id,
		MatchID:       match.ID,
		TeamID:        teamID,
		FormationID:   ref.ID,
		FormationCode: ref.Code,
		IsStarting:    input.IsStarting,
		MatchName:     match.Name,
		MatchDate:     match.KickoffAt,
		Assignments:   append([]lineup.RoleAssignment(nil), input.Assignments...),
	}
	return id, nil
}

// SetSquad replaces the squad, as if the roster changed upstream.
func (b *Backend) SetSquad(players []lineup.Player) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.players = append([]lineup.Player(nil), players...)
}

func (b *Backend) matchByID(id int64) (lineup.Match, bool) {
	for _, m := range b.matches {
		if m.ID == id {
			return m, true
		}
	}
	return lineup.Match{}, false
}

func (b *Backend) formationByID(id int64) (lineup.FormationRef, bool) {
	for _, f := range b.formations {
		if f.ID == id {
			return f, true
		}
	}
	return lineup.FormationRef{}, false
}
