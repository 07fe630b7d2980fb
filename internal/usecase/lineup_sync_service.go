package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const (
	knownLineupsCacheKey = "lineups:known"
	defaultDetailWorkers = 4
)

// LineupCache holds the known-lineups list between reads.
type LineupCache interface {
	GetOrLoad(ctx context.Context, key string, loader func(context.Context) ([]lineup.Record, error)) ([]lineup.Record, error)
	Delete(ctx context.Context, key string)
}

type LineupSyncConfig struct {
	TeamID int64
	// FallbackFormationID is submitted when the selected formation has no
	// server id. Zero disables the fallback.
	FallbackFormationID int64
	DetailWorkers       int
}

// LoadedLineup is the result of the fetch half of a load. Record is nil when
// no saved lineup matched.
type LoadedLineup struct {
	MatchID     int64
	Formation   formation.Code
	Record      *lineup.Record
	Assignments []lineup.RoleAssignment
}

type SaveResult struct {
	LineupID    int64
	MatchID     int64
	FormationID int64
	Formation   formation.Code
	Assignments []lineup.RoleAssignment
}

type EditorContext struct {
	Squad      []lineup.Player
	Matches    []lineup.Match
	Formations []lineup.FormationRef
}

type LineupSyncService struct {
	backend lineup.Backend
	roles   *formation.RoleTable
	cache   LineupCache
	cfg     LineupSyncConfig
	logger  *logging.Logger
}

func NewLineupSyncService(
	backend lineup.Backend,
	roles *formation.RoleTable,
	cache LineupCache,
	cfg LineupSyncConfig,
	logger *logging.Logger,
) *LineupSyncService {
	if roles == nil {
		roles = formation.DefaultRoleTable()
	}
	if cache == nil {
		cache = passthroughLineupCache{}
	}
	if cfg.DetailWorkers <= 0 {
		cfg.DetailWorkers = defaultDetailWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &LineupSyncService{
		backend: backend,
		roles:   roles,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}
}

func (s *LineupSyncService) Roles() *formation.RoleTable {
	return s.roles
}

func (s *LineupSyncService) FetchSquad(ctx context.Context) ([]lineup.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.FetchSquad")
	defer span.End()

	players, err := s.backend.FetchSquad(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch squad: %w", err)
	}
	return players, nil
}

// LoadEditorContext fetches squad, upcoming matches and formations in
// parallel. Whatever succeeded is returned alongside the joined error.
func (s *LineupSyncService) LoadEditorContext(ctx context.Context) (EditorContext, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.LoadEditorContext")
	defer span.End()

	var (
		mu  sync.Mutex
		out EditorContext
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		players, err := s.backend.FetchSquad(ctx)
		if err != nil {
			return fmt.Errorf("fetch squad: %w", err)
		}
		mu.Lock()
		out.Squad = players
		mu.Unlock()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		matches, err := s.backend.FetchUpcomingMatches(ctx)
		if err != nil {
			return fmt.Errorf("fetch upcoming matches: %w", err)
		}
		mu.Lock()
		out.Matches = matches
		mu.Unlock()
		return nil
	})
	p.Go(func(ctx context.Context) error {
		refs, err := s.backend.FetchFormations(ctx)
		if err != nil {
			return fmt.Errorf("fetch formations: %w", err)
		}
		mu.Lock()
		out.Formations = refs
		mu.Unlock()
		return nil
	})

	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "editor context partially loaded", "error", err)
		return out, err
	}
	return out, nil
}

// Formations returns the backend's formation ids keyed by catalog code. Codes
// the catalog does not know are skipped.
func (s *LineupSyncService) Formations(ctx context.Context) (map[formation.Code]lineup.FormationRef, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.Formations")
	defer span.End()

	refs, err := s.backend.FetchFormations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch formations: %w", err)
	}

	out := make(map[formation.Code]lineup.FormationRef, len(refs))
	for _, ref := range refs {
		if _, ok := formation.Lookup(ref.Code); !ok || ref.ID <= 0 {
			continue
		}
		if _, seen := out[ref.Code]; !seen {
			out[ref.Code] = ref
		}
	}
	return out, nil
}

// ResolveFormationID maps a catalog code to the backend's formation id.
func (s *LineupSyncService) ResolveFormationID(ctx context.Context, code formation.Code) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.ResolveFormationID", formationAttr(string(code)))
	defer span.End()

	refs, err := s.backend.FetchFormations(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch formations: %w", err)
	}

	id, ok := formationIDFor(refs, code)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrFormationUnresolved, code)
	}
	return id, nil
}

// ListLineups returns the known lineups, newest first. With assignments set,
// each record's detail is fetched on a bounded worker pool.
func (s *LineupSyncService) ListLineups(ctx context.Context, withAssignments bool) ([]lineup.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.ListLineups")
	defer span.End()

	records, err := s.knownLineups(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]lineup.Record, len(records))
	copy(out, records)
	if !withAssignments || len(out) == 0 {
		return out, nil
	}

	if err := s.hydrateAssignments(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// RefreshLineups drops the cached list and loads it again from the backend.
func (s *LineupSyncService) RefreshLineups(ctx context.Context) ([]lineup.Record, error) {
	s.cache.Delete(ctx, knownLineupsCacheKey)
	return s.knownLineups(ctx)
}

// FetchForMatchAndFormation finds the newest saved lineup for the pair and
// fetches its assignments. It never touches a board.
func (s *LineupSyncService) FetchForMatchAndFormation(ctx context.Context, matchID int64, code formation.Code) (LoadedLineup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.FetchForMatchAndFormation",
		matchAttr(matchID), formationAttr(string(code)))
	defer span.End()

	if _, ok := formation.Lookup(code); !ok {
		return LoadedLineup{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, formation.ErrUnknownFormation, code)
	}

	loaded := LoadedLineup{MatchID: matchID, Formation: code}
	if matchID <= 0 {
		return loaded, nil
	}

	refs, err := s.backend.FetchFormations(ctx)
	if err != nil {
		return LoadedLineup{}, fmt.Errorf("fetch formations: %w", err)
	}
	formationID, resolved := formationIDFor(refs, code)

	records, err := s.knownLineups(ctx)
	if err != nil {
		return LoadedLineup{}, err
	}

	record, found := newestMatching(records, matchID, code, formationID, resolved)
	if !found {
		return loaded, nil
	}

	assignments, err := s.backend.FetchLineupDetail(ctx, record.ID)
	if err != nil {
		return LoadedLineup{}, fmt.Errorf("fetch lineup detail id=%d: %w", record.ID, err)
	}

	record.Assignments = assignments
	loaded.Record = &record
	loaded.Assignments = assignments
	return loaded, nil
}

// Apply resets the board to the loaded formation and places every assignment
// it can. Unplaceable assignments are dropped and returned.
func (s *LineupSyncService) Apply(ctx context.Context, board *lineup.Board, loaded LoadedLineup) []lineup.RoleAssignment {
	if loaded.Record == nil {
		board.Reset(loaded.Formation)
		return nil
	}

	dropped := lineup.ApplyAssignments(board, s.roles, loaded.Formation, loaded.Assignments)
	if len(dropped) > 0 {
		s.logger.DebugContext(ctx, "dropped lineup assignments on load",
			"lineup_id", loaded.Record.ID,
			"formation", string(loaded.Formation),
			"dropped", len(dropped),
		)
	}
	return dropped
}

// LoadForMatchAndFormation fetches then applies. The board is left untouched
// when the fetch fails.
func (s *LineupSyncService) LoadForMatchAndFormation(ctx context.Context, board *lineup.Board, matchID int64, code formation.Code) (LoadedLineup, error) {
	loaded, err := s.FetchForMatchAndFormation(ctx, matchID, code)
	if err != nil {
		return LoadedLineup{}, err
	}
	s.Apply(ctx, board, loaded)
	return loaded, nil
}

// Save submits the board's starting eleven for the match. The board is only
// read.
func (s *LineupSyncService) Save(ctx context.Context, board *lineup.Board, matchID int64, code formation.Code) (SaveResult, error) {
	if matchID <= 0 {
		return SaveResult{}, ErrNoMatchSelected
	}
	if board.Formation() != code {
		return SaveResult{}, fmt.Errorf("%w: board formation %s does not match %s", ErrInvalidInput, board.Formation(), code)
	}

	assignments, err := lineup.EncodeStarters(board, s.roles)
	if err != nil {
		return SaveResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.SaveAssignments(ctx, matchID, code, assignments)
}

// SaveAssignments is Save for a payload already encoded from a board.
func (s *LineupSyncService) SaveAssignments(ctx context.Context, matchID int64, code formation.Code, assignments []lineup.RoleAssignment) (SaveResult, error) {
	if matchID <= 0 {
		return SaveResult{}, ErrNoMatchSelected
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.LineupSyncService.SaveAssignments",
		matchAttr(matchID), formationAttr(string(code)))
	defer span.End()

	if _, ok := formation.Lookup(code); !ok {
		return SaveResult{}, fmt.Errorf("%w: %w: %s", ErrInvalidInput, formation.ErrUnknownFormation, code)
	}

	formationID, err := s.ResolveFormationID(ctx, code)
	if err != nil {
		if !errors.Is(err, ErrFormationUnresolved) || s.cfg.FallbackFormationID <= 0 {
			return SaveResult{}, err
		}
		s.logger.WarnContext(ctx, "formation id unresolved, using fallback",
			"formation", string(code),
			"fallback_formation_id", s.cfg.FallbackFormationID,
		)
		formationID = s.cfg.FallbackFormationID
	}

	lineupID, err := s.backend.CreateLineup(ctx, lineup.CreateLineupInput{
		MatchID:     matchID,
		TeamID:      s.cfg.TeamID,
		FormationID: formationID,
		IsStarting:  true,
		Assignments: assignments,
	})
	if err != nil {
		return SaveResult{}, fmt.Errorf("create lineup: %w", err)
	}

	if _, err := s.RefreshLineups(ctx); err != nil {
		s.logger.WarnContext(ctx, "refresh known lineups after save failed",
			"lineup_id", lineupID,
			"error", err,
		)
	}

	s.logger.InfoContext(ctx, "lineup saved",
		"lineup_id", lineupID,
		"match_id", matchID,
		"formation", string(code),
		"starters", len(assignments),
	)

	return SaveResult{
		LineupID:    lineupID,
		MatchID:     matchID,
		FormationID: formationID,
		Formation:   code,
		Assignments: assignments,
	}, nil
}

func (s *LineupSyncService) knownLineups(ctx context.Context) ([]lineup.Record, error) {
	records, err := s.cache.GetOrLoad(ctx, knownLineupsCacheKey, func(ctx context.Context) ([]lineup.Record, error) {
		items, err := s.backend.FetchLineups(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID > items[j].ID
		})
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch known lineups: %w", err)
	}
	return records, nil
}

func (s *LineupSyncService) hydrateAssignments(ctx context.Context, records []lineup.Record) error {
	workers := s.cfg.DetailWorkers
	if workers > len(records) {
		workers = len(records)
	}

	p, err := ants.NewPool(workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer p.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i := range records {
		idx := i
		wg.Add(1)
		if err := p.Submit(func() {
			defer wg.Done()

			assignments, err := s.backend.FetchLineupDetail(ctx, records[idx].ID)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("fetch lineup detail id=%d: %w", records[idx].ID, err))
				mu.Unlock()
				return
			}
			records[idx].Assignments = assignments
		}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit detail fetch to worker pool: %w", err)
		}
	}
	wg.Wait()

	return errors.Join(errs...)
}

func formationIDFor(refs []lineup.FormationRef, code formation.Code) (int64, bool) {
	for _, ref := range refs {
		if ref.Code == code && ref.ID > 0 {
			return ref.ID, true
		}
	}
	return 0, false
}

// newestMatching expects records sorted by id descending.
func newestMatching(records []lineup.Record, matchID int64, code formation.Code, formationID int64, resolved bool) (lineup.Record, bool) {
	for _, record := range records {
		if record.MatchID != matchID {
			continue
		}
		if resolved && record.FormationID == formationID {
			return record, true
		}
		if !resolved && record.FormationCode == code {
			return record, true
		}
	}
	return lineup.Record{}, false
}

type passthroughLineupCache struct{}

func (passthroughLineupCache) GetOrLoad(ctx context.Context, _ string, loader func(context.Context) ([]lineup.Record, error)) ([]lineup.Record, error) {
	return loader(ctx)
}

func (passthroughLineupCache) Delete(context.Context, string) {}
