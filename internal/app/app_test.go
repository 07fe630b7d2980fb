package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/squad-lineup/internal/config"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
)

func testConfig(backend string) config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		ServiceName:             "squad-lineup-api",
		HTTPAddr:                ":0",
		ReadTimeout:             time.Second,
		WriteTimeout:            time.Second,
		LineupBackend:           backend,
		SOMSBaseURL:             "http://soms.invalid",
		SOMSTimeout:             time.Second,
		SOMSCircuitEnabled:      true,
		SOMSCircuitFailureCount: 3,
		SOMSCircuitOpenTimeout:  time.Second,
		SOMSCircuitHalfOpenMax:  1,
		CacheEnabled:            true,
		CacheTTL:                time.Minute,
		LineupTeamID:            1,
		LineupDetailWorkers:     2,
		EditorSessionTTL:        time.Hour,
		EditorMaxSessions:       4,
	}
}

func TestNewRuntime_MemoryBackendServesRoutes(t *testing.T) {
	rt, err := NewRuntime(context.Background(), testConfig(config.BackendMemory), logging.NewNop())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			t.Fatalf("close runtime: %v", err)
		}
	}()

	for _, path := range []string{"/healthz", "/v1/formations", "/v1/lineups"} {
		rec := httptest.NewRecorder()
		rt.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d body=%s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestNewRuntime_RESTBackendReportsCircuit(t *testing.T) {
	rt, err := NewRuntime(context.Background(), testConfig(config.BackendREST), logging.NewNop())
	if err != nil {
		t.Fatalf("new runtime: %v", err)
	}

	rec := httptest.NewRecorder()
	rt.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"backend":"rest"`) || !strings.Contains(body, `"state":"closed"`) {
		t.Fatalf("unexpected health body %s", body)
	}
}

func TestNewRuntime_RejectsEmptyAddr(t *testing.T) {
	cfg := testConfig(config.BackendMemory)
	cfg.HTTPAddr = ""
	if _, err := NewRuntime(context.Background(), cfg, logging.NewNop()); err == nil {
		t.Fatalf("expected error for empty http addr")
	}
}

func TestRuntimeClose_JoinsErrorsInReverseOrder(t *testing.T) {
	var order []int
	rt := &Runtime{closers: []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return context.Canceled },
	}}

	err := rt.Close()
	if err == nil || !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Fatalf("expected joined close error, got %v", err)
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected close order %v", order)
	}
}
