package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	idgen "github.com/riskibarqy/squad-lineup/internal/platform/id"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
)

const (
	defaultSessionTTL  = 2 * time.Hour
	defaultMaxSessions = 256
)

type EditorConfig struct {
	SessionTTL  time.Duration
	MaxSessions int
}

// SessionView is a detached copy of one editing session.
type SessionView struct {
	ID        string
	MatchID   int64
	Board     lineup.Snapshot
	Roles     map[string]int
	Saving    bool
	UpdatedAt time.Time
}

type SelectResult struct {
	Session SessionView
	// LineupID is the saved lineup that was loaded, zero when none matched.
	LineupID int64
	Dropped  int
	// Superseded is set when a newer selection started while this one was
	// loading; its result was discarded.
	Superseded bool
}

type editorSession struct {
	mu        sync.Mutex
	id        string
	board     *lineup.Board
	matchID   int64
	loadGen   uint64
	saving    bool
	updatedAt time.Time
	lastSeen  time.Time
}

type EditorService struct {
	sync   *LineupSyncService
	idGen  idgen.Generator
	cfg    EditorConfig
	logger *logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*editorSession
}

func NewEditorService(
	syncService *LineupSyncService,
	idGen idgen.Generator,
	cfg EditorConfig,
	logger *logging.Logger,
) *EditorService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = defaultMaxSessions
	}
	if idGen == nil {
		idGen = idgen.NewUUIDGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &EditorService{
		sync:     syncService,
		idGen:    idGen,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*editorSession),
	}
}

// Open starts a session with the current squad and an empty board for code.
func (s *EditorService) Open(ctx context.Context, code formation.Code) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EditorService.Open", formationAttr(string(code)))
	defer span.End()

	if err := validateFormation(code); err != nil {
		return SessionView{}, err
	}

	squad, err := s.sync.FetchSquad(ctx)
	if err != nil {
		return SessionView{}, err
	}

	sessionID, err := s.idGen.NewID()
	if err != nil {
		return SessionView{}, fmt.Errorf("generate session id: %w", err)
	}

	now := s.now()
	session := &editorSession{
		id:        sessionID,
		board:     lineup.NewBoard(squad, code),
		updatedAt: now,
		lastSeen:  now,
	}

	s.mu.Lock()
	s.evictExpiredLocked(now)
	if len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return SessionView{}, ErrTooManySessions
	}
	s.sessions[sessionID] = session
	active := len(s.sessions)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "editor session opened",
		"session_id", sessionID,
		"formation", string(code),
		"squad_size", len(squad),
		"active_sessions", active,
	)

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.viewLocked(session), nil
}

func (s *EditorService) Get(_ context.Context, sessionID string) (SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	return s.viewLocked(session), nil
}

func (s *EditorService) Close(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)

	s.mu.Lock()
	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.logger.InfoContext(ctx, "editor session closed", "session_id", sessionID)
	return nil
}

// Select changes the match and formation selection. Switching formation
// clears the board immediately; a selected match then triggers a load of the
// newest saved lineup for the pair. When several selections overlap only the
// most recently started one is applied.
func (s *EditorService) Select(ctx context.Context, sessionID string, matchID int64, code formation.Code) (SelectResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EditorService.Select",
		sessionAttr(sessionID), matchAttr(matchID), formationAttr(string(code)))
	defer span.End()

	if matchID < 0 {
		return SelectResult{}, fmt.Errorf("%w: match_id must be >= 0", ErrInvalidInput)
	}
	if err := validateFormation(code); err != nil {
		return SelectResult{}, err
	}

	session, err := s.lookup(sessionID)
	if err != nil {
		return SelectResult{}, err
	}

	session.mu.Lock()
	session.loadGen++
	gen := session.loadGen
	session.matchID = matchID
	if session.board.Formation() != code || matchID == 0 {
		session.board.Reset(code)
	}
	session.updatedAt = s.now()
	if matchID == 0 {
		view := s.viewLocked(session)
		session.mu.Unlock()
		return SelectResult{Session: view}, nil
	}
	session.mu.Unlock()

	loaded, fetchErr := s.sync.FetchForMatchAndFormation(ctx, matchID, code)

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.loadGen != gen {
		s.logger.DebugContext(ctx, "discarding superseded lineup load",
			"session_id", session.id,
			"match_id", matchID,
			"formation", string(code),
		)
		return SelectResult{Session: s.viewLocked(session), Superseded: true}, nil
	}
	if fetchErr != nil {
		return SelectResult{}, fetchErr
	}

	dropped := s.sync.Apply(ctx, session.board, loaded)
	session.updatedAt = s.now()

	result := SelectResult{
		Session: s.viewLocked(session),
		Dropped: len(dropped),
	}
	if loaded.Record != nil {
		result.LineupID = loaded.Record.ID
	}
	return result, nil
}

func (s *EditorService) AssignToSlot(_ context.Context, sessionID, slotID string, playerID int64) (SessionView, error) {
	return s.mutate(sessionID, func(board *lineup.Board) error {
		return board.AssignToSlot(strings.TrimSpace(slotID), playerID)
	})
}

func (s *EditorService) AssignToBench(_ context.Context, sessionID string, playerID int64) (SessionView, error) {
	return s.mutate(sessionID, func(board *lineup.Board) error {
		return board.AssignToBench(playerID)
	})
}

func (s *EditorService) RemoveFromSlot(_ context.Context, sessionID, slotID string) (SessionView, error) {
	return s.mutate(sessionID, func(board *lineup.Board) error {
		return board.RemoveFromSlot(strings.TrimSpace(slotID))
	})
}

func (s *EditorService) RemoveFromBench(_ context.Context, sessionID string, playerID int64) (SessionView, error) {
	return s.mutate(sessionID, func(board *lineup.Board) error {
		return board.RemoveFromBench(playerID)
	})
}

// Reset clears the board for the currently selected formation and cancels any
// pending load.
func (s *EditorService) Reset(_ context.Context, sessionID string) (SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.loadGen++
	session.board.Reset(session.board.Formation())
	session.updatedAt = s.now()
	return s.viewLocked(session), nil
}

// RefreshSquad reloads the squad and drops assignments of players that left
// it.
func (s *EditorService) RefreshSquad(ctx context.Context, sessionID string) (SessionView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EditorService.RefreshSquad", sessionAttr(sessionID))
	defer span.End()

	session, err := s.lookup(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	squad, err := s.sync.FetchSquad(ctx)
	if err != nil {
		return SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.board.SetSquad(squad)
	session.updatedAt = s.now()
	return s.viewLocked(session), nil
}

// Save persists the session's starting eleven for the selected match. Only
// one save per session may be in flight.
func (s *EditorService) Save(ctx context.Context, sessionID string) (SaveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EditorService.Save", sessionAttr(sessionID))
	defer span.End()

	session, err := s.lookup(sessionID)
	if err != nil {
		return SaveResult{}, err
	}

	session.mu.Lock()
	if session.saving {
		session.mu.Unlock()
		return SaveResult{}, ErrSaveInProgress
	}
	if session.matchID <= 0 {
		session.mu.Unlock()
		return SaveResult{}, ErrNoMatchSelected
	}
	matchID := session.matchID
	code := session.board.Formation()
	assignments, err := lineup.EncodeStarters(session.board, s.sync.Roles())
	if err != nil {
		session.mu.Unlock()
		return SaveResult{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	session.saving = true
	session.mu.Unlock()

	defer func() {
		session.mu.Lock()
		session.saving = false
		session.mu.Unlock()
	}()

	result, err := s.sync.SaveAssignments(ctx, matchID, code, assignments)
	if err != nil {
		s.logger.WarnContext(ctx, "save lineup failed",
			"session_id", session.id,
			"match_id", matchID,
			"error", err,
		)
		return SaveResult{}, err
	}
	return result, nil
}

// ActiveSessions reports how many unexpired sessions are held.
func (s *EditorService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked(s.now())
	return len(s.sessions)
}

func (s *EditorService) mutate(sessionID string, fn func(board *lineup.Board) error) (SessionView, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return SessionView{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := fn(session.board); err != nil {
		return SessionView{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	session.updatedAt = s.now()
	return s.viewLocked(session), nil
}

func (s *EditorService) lookup(sessionID string) (*editorSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if now.Sub(session.lastSeen) > s.cfg.SessionTTL {
		delete(s.sessions, sessionID)
		return nil, ErrSessionNotFound
	}
	session.lastSeen = now
	return session, nil
}

// evictExpiredLocked must be called with s.mu held. lastSeen is only written
// under s.mu.
func (s *EditorService) evictExpiredLocked(now time.Time) {
	for key, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.cfg.SessionTTL {
			delete(s.sessions, key)
		}
	}
}

// viewLocked must be called with session.mu held.
func (s *EditorService) viewLocked(session *editorSession) SessionView {
	snapshot := session.board.Snapshot()

	roles := make(map[string]int, len(snapshot.Slots))
	for _, slot := range snapshot.Slots {
		if role, ok := s.sync.Roles().RoleOf(snapshot.Formation, slot.SlotID); ok {
			roles[slot.SlotID] = role
		}
	}

	return SessionView{
		ID:        session.id,
		MatchID:   session.matchID,
		Board:     snapshot,
		Roles:     roles,
		Saving:    session.saving,
		UpdatedAt: session.updatedAt,
	}
}

func validateFormation(code formation.Code) error {
	if _, ok := formation.Lookup(code); !ok {
		return fmt.Errorf("%w: %w: %q (known: %s)", ErrInvalidInput, formation.ErrUnknownFormation, code, knownCodes())
	}
	return nil
}

func knownCodes() string {
	codes := formation.Codes()
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, string(c))
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
