package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/squad-lineup/internal/domain/formation"
	"github.com/riskibarqy/squad-lineup/internal/domain/lineup"
)

func (h *Handler) ListFormations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.ListFormations")
	defer span.End()

	refs, err := h.syncService.Formations(ctx)
	if err != nil {
		// The catalog is still usable without server ids.
		h.logger.WarnContext(ctx, "list backend formations failed", "error", err)
	}

	roles := h.syncService.Roles()
	items := make([]formationDTO, 0, len(formation.Codes()))
	for _, code := range formation.Codes() {
		tpl, _ := formation.Lookup(code)
		items = append(items, formationToDTO(tpl, roles, refs[code]))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetEditorContext(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.GetEditorContext")
	defer span.End()

	editorCtx, err := h.syncService.LoadEditorContext(ctx)
	if err != nil && len(editorCtx.Squad) == 0 && len(editorCtx.Matches) == 0 && len(editorCtx.Formations) == 0 {
		h.logger.ErrorContext(ctx, "load editor context failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	resp := editorContextToDTO(editorCtx)
	if err != nil {
		resp.Warnings = []string{err.Error()}
	}
	writeSuccess(ctx, w, http.StatusOK, resp)
}

func (h *Handler) ListLineups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startRequestSpan(r, "httpapi.Handler.ListLineups")
	defer span.End()

	query := r.URL.Query()
	withAssignments := strings.EqualFold(strings.TrimSpace(query.Get("include")), "assignments")

	var (
		records []lineup.Record
		err     error
	)
	if strings.EqualFold(strings.TrimSpace(query.Get("refresh")), "true") {
		records, err = h.syncService.RefreshLineups(ctx)
		if err == nil && withAssignments {
			records, err = h.syncService.ListLineups(ctx, true)
		}
	} else {
		records, err = h.syncService.ListLineups(ctx, withAssignments)
	}
	if err != nil {
		h.logger.WarnContext(ctx, "list lineups failed", "include_assignments", withAssignments, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]lineupRecordDTO, 0, len(records))
	for _, record := range records {
		items = append(items, lineupRecordToDTO(record))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
