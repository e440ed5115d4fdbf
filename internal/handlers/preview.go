package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/meridian-market/boardroom/internal/metrics"
	"github.com/meridian-market/boardroom/route"
)

// PreviewRequest represents the enrichment preview request body.
type PreviewRequest struct {
	Message          string                 `json:"message"`
	ConversationType route.ConversationType `json:"conversation_type"`
	Participants     []route.Participant    `json:"participants,omitempty"`
	Restricted       []string               `json:"restricted,omitempty"`
}

// PreviewMessage returns the full enrichment bundle for a draft message.
// The UI calls this (debounced) while the user types; classification is
// deterministic and local, so the endpoint never touches the network.
func (h *Handler) PreviewMessage(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Message == "" {
		h.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.ConversationType == "" {
		req.ConversationType = route.TypeSmallGroup
	}

	bundle := h.orch.Enrich(req.Message, req.Participants, req.ConversationType, req.Restricted)
	metrics.TopicDetections.WithLabelValues(bundle.Routing.Topic).Inc()

	h.JSON(w, http.StatusOK, bundle)
}
