package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/usecase"
)

func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.OpenSession")
	defer span.End()

	var req openSessionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	code, err := formation.ParseCode(req.Formation)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.editorService.Open(ctx, code)
	if err != nil {
		h.logger.WarnContext(ctx, "open editor session failed", "formation", req.Formation, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, sessionToDTO(view))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.GetSession")
	defer span.End()

	view, err := h.editorService.Get(ctx, r.PathValue("sessionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.CloseSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if err := h.editorService.Close(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": sessionID, "status": "closed"})
}

func (h *Handler) SelectMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.SelectMatch")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	var req selectionRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	code, err := formation.ParseCode(req.Formation)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.editorService.Select(ctx, sessionID, req.MatchID, code)
	if err != nil {
		h.logger.WarnContext(ctx, "select lineup failed",
			"session_id", sessionID,
			"match_id", req.MatchID,
			"formation", string(code),
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, selectionDTO{
		Session:    sessionToDTO(result.Session),
		LineupID:   result.LineupID,
		Dropped:    result.Dropped,
		Superseded: result.Superseded,
	})
}

func (h *Handler) AssignSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.AssignSlot")
	defer span.End()

	var req assignSlotRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.editorService.AssignToSlot(ctx, r.PathValue("sessionID"), r.PathValue("slotID"), req.PlayerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) ClearSlot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.ClearSlot")
	defer span.End()

	view, err := h.editorService.RemoveFromSlot(ctx, r.PathValue("sessionID"), r.PathValue("slotID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) AddToBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.AddToBench")
	defer span.End()

	playerID, err := parsePlayerID(r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.editorService.AssignToBench(ctx, r.PathValue("sessionID"), playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) RemoveFromBench(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.RemoveFromBench")
	defer span.End()

	playerID, err := parsePlayerID(r.PathValue("playerID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.editorService.RemoveFromBench(ctx, r.PathValue("sessionID"), playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.ResetSession")
	defer span.End()

	view, err := h.editorService.Reset(ctx, r.PathValue("sessionID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) RefreshSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.RefreshSquad")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	view, err := h.editorService.RefreshSquad(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh squad failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sessionToDTO(view))
}

func (h *Handler) SaveSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.SaveSession")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	result, err := h.editorService.Save(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "save lineup failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, saveToDTO(result))
}

func parsePlayerID(raw string) (int64, error) {
	playerID, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || playerID <= 0 {
		return 0, fmt.Errorf("%w: player id must be a positive integer", usecase.ErrInvalidInput)
	}
	return playerID, nil
}
