package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
	"github.com/riskibarqy/squad-lineup/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/squad-lineup/internal/platform/cache"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

type testEnvelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

type fakeBreaker struct {
	stats   resilience.CircuitStats
	enabled bool
}

func (f fakeBreaker) BreakerStats() (resilience.CircuitStats, bool) {
	return f.stats, f.enabled
}

func newTestRouter(t *testing.T, breaker BreakerReporter) http.Handler {
	t.Helper()

	backend := memory.NewSeededBackend()
	syncService := usecase.NewLineupSyncService(
		backend,
		formation.DefaultRoleTable(),
		cache.NewTyped[[]lineup.Record](cache.NewStore(time.Minute)),
		usecase.LineupSyncConfig{TeamID: memory.DefaultTeamID},
		logging.NewNop(),
	)
	editorService := usecase.NewEditorService(syncService, nil, usecase.EditorConfig{}, logging.NewNop())
	handler := NewHandler(syncService, editorService, "memory", breaker, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), nil)
}

func doJSON[T any](t *testing.T, router http.Handler, method, path, body string, wantStatus int) testEnvelope[T] {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d, got %d body=%s", method, path, wantStatus, rec.Code, rec.Body.String())
	}

	var out testEnvelope[T]
	if err := sonic.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: unmarshal response: %v", method, path, err)
	}
	if out.APIVersion != googleAPIVersion {
		t.Fatalf("%s %s: unexpected apiVersion %q", method, path, out.APIVersion)
	}
	return out
}

func TestHandler_Healthz(t *testing.T) {
	router := newTestRouter(t, nil)

	resp := doJSON[healthDTO](t, router, http.MethodGet, "/healthz", "", http.StatusOK)
	if resp.Data.Status != "ok" || resp.Data.Backend != "memory" || resp.Data.Circuit != nil {
		t.Fatalf("unexpected health %+v", resp.Data)
	}
}

func TestHandler_HealthzReportsOpenCircuit(t *testing.T) {
	openedAt := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	router := newTestRouter(t, fakeBreaker{
		enabled: true,
		stats:   resilience.CircuitStats{State: resilience.CircuitStateOpen, Trips: 2, OpenedAt: &openedAt},
	})

	resp := doJSON[healthDTO](t, router, http.MethodGet, "/healthz", "", http.StatusOK)
	if resp.Data.Status != "degraded" {
		t.Fatalf("expected degraded status, got %q", resp.Data.Status)
	}
	if resp.Data.Circuit == nil || resp.Data.Circuit.Trips != 2 || resp.Data.Circuit.OpenedAtUTC != "2026-03-14T15:00:00Z" {
		t.Fatalf("unexpected circuit %+v", resp.Data.Circuit)
	}
}

func TestHandler_ListFormations(t *testing.T) {
	router := newTestRouter(t, nil)

	resp := doJSON[[]formationDTO](t, router, http.MethodGet, "/v1/formations", "", http.StatusOK)
	if len(resp.Data) != len(formation.Codes()) {
		t.Fatalf("expected %d formations, got %d", len(formation.Codes()), len(resp.Data))
	}

	var found bool
	for _, item := range resp.Data {
		if item.Code != string(formation.Code433) {
			continue
		}
		found = true
		if item.ServerID != 1 || len(item.Slots) != formation.StartingSlots {
			t.Fatalf("unexpected 4-3-3 entry %+v", item)
		}
		for _, slot := range item.Slots {
			if slot.SlotID == "gk" && slot.Role != 1 {
				t.Fatalf("expected gk role 1, got %d", slot.Role)
			}
		}
	}
	if !found {
		t.Fatalf("4-3-3 missing from catalog")
	}
}

func TestHandler_GetEditorContext(t *testing.T) {
	router := newTestRouter(t, nil)

	resp := doJSON[editorContextDTO](t, router, http.MethodGet, "/v1/editor/context", "", http.StatusOK)
	if len(resp.Data.Squad) != len(memory.SeedPlayers()) || len(resp.Data.Matches) == 0 || len(resp.Data.Formations) == 0 {
		t.Fatalf("unexpected editor context %+v", resp.Data)
	}
	if len(resp.Data.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", resp.Data.Warnings)
	}
}

func TestHandler_EditorSaveAndReload(t *testing.T) {
	router := newTestRouter(t, nil)

	opened := doJSON[sessionDTO](t, router, http.MethodPost, "/v1/editor/sessions", `{"formation":"4-3-3"}`, http.StatusCreated)
	sessionPath := "/v1/editor/sessions/" + opened.Data.ID
	if len(opened.Data.Slots) != formation.StartingSlots || len(opened.Data.Unassigned) != len(memory.SeedPlayers()) {
		t.Fatalf("unexpected opened session %+v", opened.Data)
	}

	doJSON[selectionDTO](t, router, http.MethodPut, sessionPath+"/selection", `{"match_id":2,"formation":"4-3-3"}`, http.StatusOK)

	squad := memory.SeedPlayers()
	for i, slot := range opened.Data.Slots {
		body := `{"player_id":` + strconv.FormatInt(squad[i].ID, 10) + `}`
		doJSON[sessionDTO](t, router, http.MethodPut, sessionPath+"/slots/"+slot.SlotID, body, http.StatusOK)
	}
	benched := doJSON[sessionDTO](t, router, http.MethodPut, sessionPath+"/bench/13", "", http.StatusOK)
	if len(benched.Data.Bench) != 1 || benched.Data.Bench[0].ID != 13 {
		t.Fatalf("unexpected bench %+v", benched.Data.Bench)
	}

	saved := doJSON[saveDTO](t, router, http.MethodPost, sessionPath+"/save", "", http.StatusCreated)
	if saved.Data.LineupID <= 0 || saved.Data.FormationID != 1 || len(saved.Data.Assignments) != formation.StartingSlots {
		t.Fatalf("unexpected save result %+v", saved.Data)
	}

	lineups := doJSON[[]lineupRecordDTO](t, router, http.MethodGet, "/v1/lineups?include=assignments", "", http.StatusOK)
	if len(lineups.Data) != 1 || lineups.Data[0].MatchID != 2 || len(lineups.Data[0].Assignments) != formation.StartingSlots {
		t.Fatalf("unexpected lineups %+v", lineups.Data)
	}

	second := doJSON[sessionDTO](t, router, http.MethodPost, "/v1/editor/sessions", `{"formation":"4-3-3"}`, http.StatusCreated)
	selected := doJSON[selectionDTO](t, router, http.MethodPut, "/v1/editor/sessions/"+second.Data.ID+"/selection", `{"match_id":2,"formation":"4-3-3"}`, http.StatusOK)
	if selected.Data.LineupID != saved.Data.LineupID || selected.Data.Dropped != 0 {
		t.Fatalf("unexpected selection %+v", selected.Data)
	}
	for i, slot := range selected.Data.Session.Slots {
		if slot.Occupant == nil || slot.Occupant.ID != squad[i].ID {
			t.Fatalf("slot %s not restored: %+v", slot.SlotID, slot.Occupant)
		}
	}
	if len(selected.Data.Session.Bench) != 0 {
		t.Fatalf("bench is not persisted, got %+v", selected.Data.Session.Bench)
	}

	doJSON[map[string]string](t, router, http.MethodDelete, sessionPath, "", http.StatusOK)
	doJSON[sessionDTO](t, router, http.MethodGet, sessionPath, "", http.StatusNotFound)
}

func TestHandler_EditorErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	opened := doJSON[sessionDTO](t, router, http.MethodPost, "/v1/editor/sessions", `{"formation":"4-4-2"}`, http.StatusCreated)
	sessionPath := "/v1/editor/sessions/" + opened.Data.ID

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "unknown formation", method: http.MethodPost, path: "/v1/editor/sessions", body: `{"formation":"2-3-5"}`, wantStatus: http.StatusBadRequest, wantReason: "unknownFormation"},
		{name: "missing formation", method: http.MethodPost, path: "/v1/editor/sessions", body: `{}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "unknown field", method: http.MethodPost, path: "/v1/editor/sessions", body: `{"formation":"4-4-2","team":1}`, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "unknown slot", method: http.MethodPut, path: sessionPath + "/slots/lw", body: `{"player_id":1}`, wantStatus: http.StatusBadRequest, wantReason: "invalidPlacement"},
		{name: "unknown player", method: http.MethodPut, path: sessionPath + "/slots/gk", body: `{"player_id":999}`, wantStatus: http.StatusBadRequest, wantReason: "invalidPlacement"},
		{name: "bad bench id", method: http.MethodPut, path: sessionPath + "/bench/abc", wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "save without match", method: http.MethodPost, path: sessionPath + "/save", wantStatus: http.StatusBadRequest, wantReason: "noMatchSelected"},
		{name: "unknown session", method: http.MethodPost, path: "/v1/editor/sessions/missing/reset", wantStatus: http.StatusNotFound, wantReason: "notFound"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON[any](t, router, tt.method, tt.path, tt.body, tt.wantStatus)
			if resp.Error == nil || len(resp.Error.Errors) != 1 || resp.Error.Errors[0].Reason != tt.wantReason {
				t.Fatalf("unexpected error body %+v", resp.Error)
			}
		})
	}

	after := doJSON[sessionDTO](t, router, http.MethodGet, sessionPath, "", http.StatusOK)
	for _, slot := range after.Data.Slots {
		if slot.Occupant != nil {
			t.Fatalf("failed placement changed slot %s", slot.SlotID)
		}
	}
}

func TestHandler_ClearSlotAndReset(t *testing.T) {
	router := newTestRouter(t, nil)

	opened := doJSON[sessionDTO](t, router, http.MethodPost, "/v1/editor/sessions", `{"formation":"4-3-3"}`, http.StatusCreated)
	sessionPath := "/v1/editor/sessions/" + opened.Data.ID

	doJSON[sessionDTO](t, router, http.MethodPut, sessionPath+"/slots/gk", `{"player_id":1}`, http.StatusOK)
	doJSON[sessionDTO](t, router, http.MethodPut, sessionPath+"/slots/st", `{"player_id":11}`, http.StatusOK)
	cleared := doJSON[sessionDTO](t, router, http.MethodDelete, sessionPath+"/slots/gk", "", http.StatusOK)
	if occupied := countOccupied(cleared.Data); occupied != 1 {
		t.Fatalf("expected one occupied slot, got %d", occupied)
	}

	doJSON[sessionDTO](t, router, http.MethodPut, sessionPath+"/bench/1", "", http.StatusOK)
	unbenched := doJSON[sessionDTO](t, router, http.MethodDelete, sessionPath+"/bench/1", "", http.StatusOK)
	if len(unbenched.Data.Bench) != 0 {
		t.Fatalf("expected empty bench, got %+v", unbenched.Data.Bench)
	}

	reset := doJSON[sessionDTO](t, router, http.MethodPost, sessionPath+"/reset", "", http.StatusOK)
	if countOccupied(reset.Data) != 0 || len(reset.Data.Unassigned) != len(memory.SeedPlayers()) {
		t.Fatalf("unexpected reset session %+v", reset.Data)
	}

	refreshed := doJSON[sessionDTO](t, router, http.MethodPost, sessionPath+"/squad/refresh", "", http.StatusOK)
	if len(refreshed.Data.Unassigned) != len(memory.SeedPlayers()) {
		t.Fatalf("unexpected refreshed squad %+v", refreshed.Data.Unassigned)
	}
}

func countOccupied(v sessionDTO) int {
	n := 0
	for _, slot := range v.Slots {
		if slot.Occupant != nil {
			n++
		}
	}
	return n
}
