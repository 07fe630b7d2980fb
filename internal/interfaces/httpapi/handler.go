package httpapi

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/squad-lineup/internal/platform/logging"
	"github.com/riskibarqy/squad-lineup/internal/platform/resilience"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

// BreakerReporter exposes the circuit guarding a remote backend.
type BreakerReporter interface {
	BreakerStats() (resilience.CircuitStats, bool)
}

type Handler struct {
	syncService   *usecase.LineupSyncService
	editorService *usecase.EditorService
	backendName   string
	breaker       BreakerReporter
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	syncService *usecase.LineupSyncService,
	editorService *usecase.EditorService,
	backendName string,
	breaker BreakerReporter,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		syncService:   syncService,
		editorService: editorService,
		backendName:   backendName,
		breaker:       breaker,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.Healthz")
	defer span.End()

	resp := healthDTO{
		Status:         "ok",
		Backend:        h.backendName,
		ActiveSessions: h.editorService.ActiveSessions(),
	}
	if h.breaker != nil {
		if stats, ok := h.breaker.BreakerStats(); ok {
			resp.Circuit = circuitToDTO(stats)
			if stats.State == resilience.CircuitStateOpen {
				resp.Status = "degraded"
			}
		}
	}

	writeSuccess(ctx, w, http.StatusOK, resp)
}

// decodeRequest reads a JSON body into payload. An empty body is accepted so
// routes without required fields can be called bare.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeRequest")
	defer span.End()

	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil && err != io.EOF {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return h.validateRequest(ctx, payload)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
