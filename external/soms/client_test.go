package soms

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int, breaker resilience.CircuitBreakerConfig) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		HTTPClient:     server.Client(),
		BaseURL:        server.URL,
		MaxRetries:     maxRetries,
		RetryBackoff:   time.Millisecond,
		Logger:         logging.NewNop(),
		CircuitBreaker: breaker,
	})
}

func writeBody(w http.ResponseWriter, status int, body string) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestClient_FetchSquad_NormalizesRows(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/players" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		writeBody(w, http.StatusOK, `{"status":"success","count":3,"data":[
			{"player_id":6,"first_name":"David","middle_name":null,"last_name":"Lee","positions":"CDM","is_active":1,"is_injured":0},
			{"player_id":"9","first_name":"Marcus","middle_name":"A.","last_name":"Silva","positions":"LW","is_active":1,"is_injured":1},
			{"player_id":0,"first_name":"Ghost"}
		]}`)
	}), 0, resilience.CircuitBreakerConfig{})

	players, err := client.FetchSquad(context.Background())
	if err != nil {
		t.Fatalf("fetch squad: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected rows without id dropped, got %d", len(players))
	}
	if players[0].Name != "David Lee" || players[0].Availability != lineup.AvailabilityAvailable {
		t.Fatalf("unexpected first player %+v", players[0])
	}
	if players[1].ID != 9 || players[1].Name != "Marcus A. Silva" || players[1].Availability != lineup.AvailabilityInjured {
		t.Fatalf("unexpected second player %+v", players[1])
	}
}

func TestClient_SharedFetchSurvivesFirstCallerCancel(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	entered := make(chan struct{})
	release := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(entered)
		}
		<-release
		writeBody(w, http.StatusOK, `{"status":"success","count":1,"data":[{"player_id":6,"first_name":"David","last_name":"Lee","is_active":1}]}`)
	}), 0, resilience.CircuitBreakerConfig{})
	releaseOnce := sync.OnceFunc(func() { close(release) })
	t.Cleanup(releaseOnce)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan error, 1)
	go func() {
		_, err := client.FetchSquad(firstCtx)
		firstDone <- err
	}()

	<-entered
	cancelFirst()
	if err := <-firstDone; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected first caller to see its own cancel, got %v", err)
	}

	secondDone := make(chan error, 1)
	var players []lineup.Player
	go func() {
		var err error
		players, err = client.FetchSquad(context.Background())
		secondDone <- err
	}()

	releaseOnce()
	if err := <-secondDone; err != nil {
		t.Fatalf("second caller: %v", err)
	}
	if len(players) != 1 || players[0].ID != 6 {
		t.Fatalf("unexpected players %+v", players)
	}
	if hits.Load() != 1 {
		t.Fatalf("expected one shared request, got %d", hits.Load())
	}
}

func TestClient_FetchUpcomingMatches_CombinesDateAndTime(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"status":"success","count":2,"data":[
			{"match_id":1,"name":"Training Match","venue":"Home","match_time":"15:00:00","opponent_team":"TBD","match_date":"2026-03-14","result":"TBD"},
			{"match_id":2,"name":"Cup","venue":"Away","match_time":"9:30:00","opponent_team":"Riverside","match_date":"2026-03-20","result":null}
		]}`)
	}), 0, resilience.CircuitBreakerConfig{})

	matches, err := client.FetchUpcomingMatches(context.Background())
	if err != nil {
		t.Fatalf("fetch matches: %v", err)
	}
	want := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	if !matches[0].KickoffAt.Equal(want) {
		t.Fatalf("expected kickoff %s, got %s", want, matches[0].KickoffAt)
	}
	if !matches[1].KickoffAt.Equal(time.Date(2026, 3, 20, 9, 30, 0, 0, time.UTC)) {
		t.Fatalf("unexpected second kickoff %s", matches[1].KickoffAt)
	}
	if matches[1].OpponentName != "Riverside" {
		t.Fatalf("unexpected opponent %q", matches[1].OpponentName)
	}
}

func TestClient_FetchLineupsAndDetail(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /lineups", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"status":"success","count":1,"data":[
			{"lineup_id":5,"match_id":7,"team_id":1,"formation_id":1,"is_starting":1,"minute_applied":0,"formation_code":"4-3-3","match_name":"Training Match","match_date":"2026-03-14","team_name":"My Team"}
		]}`)
	})
	mux.HandleFunc("GET /lineups/5", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusOK, `{"status":"success","data":{"lineup_id":5,"match_id":7,"slots":[
			{"slot_no":6,"player_id":101,"jersey_number":8,"captain":0},
			{"slot_no":9,"player_id":205,"jersey_number":null,"captain":1}
		]}}`)
	})
	mux.HandleFunc("GET /lineups/6", func(w http.ResponseWriter, _ *http.Request) {
		writeBody(w, http.StatusNotFound, `{"detail":"Lineup not found"}`)
	})
	client := newTestClient(t, mux, 0, resilience.CircuitBreakerConfig{})

	records, err := client.FetchLineups(context.Background())
	if err != nil {
		t.Fatalf("fetch lineups: %v", err)
	}
	if len(records) != 1 || records[0].FormationCode != formation.Code433 || !records[0].IsStarting {
		t.Fatalf("unexpected records %+v", records)
	}

	detail, err := client.FetchLineupDetail(context.Background(), 5)
	if err != nil {
		t.Fatalf("fetch detail: %v", err)
	}
	if len(detail) != 2 || detail[0].Role != 6 || detail[0].JerseyNumber != 8 || !detail[1].Captain {
		t.Fatalf("unexpected detail %+v", detail)
	}

	_, err = client.FetchLineupDetail(context.Background(), 6)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_CreateLineup(t *testing.T) {
	t.Parallel()

	var received createLineupRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/lineup/create" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(raw, &received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeBody(w, http.StatusCreated, `{"status":"success","data":{"lineup_id":42}}`)
	}), 0, resilience.CircuitBreakerConfig{})

	id, err := client.CreateLineup(context.Background(), lineup.CreateLineupInput{
		MatchID:     7,
		TeamID:      1,
		FormationID: 1,
		IsStarting:  true,
		Assignments: []lineup.RoleAssignment{{Role: 6, PlayerID: 101, JerseyNumber: 8}, {Role: 9, PlayerID: 205}},
	})
	if err != nil {
		t.Fatalf("create lineup: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected lineup id from nested data, got %d", id)
	}
	if received.MatchID != 7 || !received.IsStarting || len(received.Slots) != 2 {
		t.Fatalf("unexpected request body %+v", received)
	}
	if received.Slots[0].SlotNo != 6 || received.Slots[0].JerseyNumber == nil || *received.Slots[0].JerseyNumber != 8 {
		t.Fatalf("unexpected first slot %+v", received.Slots[0])
	}
	if received.Slots[1].JerseyNumber != nil {
		t.Fatalf("expected missing jersey to be omitted")
	}
}

func TestClient_CreateLineupIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeBody(w, http.StatusBadGateway, `{"detail":"upstream"}`)
	}), 3, resilience.CircuitBreakerConfig{})

	_, err := client.CreateLineup(context.Background(), lineup.CreateLineupInput{MatchID: 1, FormationID: 1})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			writeBody(w, http.StatusServiceUnavailable, `{"detail":"busy"}`)
			return
		}
		writeBody(w, http.StatusOK, `{"status":"success","count":1,"data":[{"formation_id":1,"code":"4-3-3","name":"Four-Three-Three"}]}`)
	}), 2, resilience.CircuitBreakerConfig{})

	refs, err := client.FetchFormations(context.Background())
	if err != nil {
		t.Fatalf("fetch formations: %v", err)
	}
	if len(refs) != 1 || refs[0].Code != formation.Code433 {
		t.Fatalf("unexpected refs %+v", refs)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeBody(w, http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","match_id"],"msg":"field required"}]}`)
	}), 3, resilience.CircuitBreakerConfig{})

	_, err := client.FetchSquad(context.Background())
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestClient_CircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeBody(w, http.StatusInternalServerError, `{"detail":"db down"}`)
	}), 0, resilience.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		OpenTimeout:      time.Minute,
		HalfOpenMaxReq:   1,
	})

	for i := 0; i < 2; i++ {
		if _, err := client.FetchSquad(context.Background()); !errors.Is(err, usecase.ErrDependencyUnavailable) {
			t.Fatalf("attempt %d: expected ErrDependencyUnavailable, got %v", i, err)
		}
	}

	_, err := client.FetchSquad(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected circuit to short-circuit third call, server saw %d", calls.Load())
	}
}
