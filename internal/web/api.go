package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// maxRequestBody caps the POST /api/drafts payload.
const maxRequestBody = 64 << 10

// createDraftRequest is the JSON body of POST /api/drafts.
type createDraftRequest struct {
	Idea string `json:"idea"`
}

// draftResponse is the JSON response for a draft request.
type draftResponse struct {
	ID     string       `json:"id"`
	Status draft.Status `json:"status"`
	Draft  string       `json:"draft,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func (h *Handlers) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	id := uuid.NewString()
	capture := &draft.Capture{}
	orch, err := h.factory.New(capture.UI())
	if err != nil {
		h.logger.Error("creating orchestrator", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	err = orch.Generate(r.Context(), req.Idea)
	resp := draftResponse{ID: id, Status: orch.Status()}

	switch {
	case err == nil:
		resp.Draft = capture.Output
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, draft.ErrEmptyInput):
		resp.Error = capture.LastError()
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, draft.ErrEmptyResult):
		resp.Error = capture.LastError()
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case r.Context().Err() != nil:
		// The timeout middleware answers 504; a gone client needs no reply.
		h.logger.Warn("draft request abandoned", zap.String("id", id), zap.Error(r.Context().Err()))
	default:
		resp.Error = capture.LastError()
		writeJSON(w, http.StatusBadGateway, resp)
	}
}
