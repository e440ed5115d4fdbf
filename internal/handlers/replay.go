package handlers

import (
	"net/http"

	"github.com/meridian-market/boardroom/queue"
	"github.com/meridian-market/boardroom/replay"
)

// ReplayResponse reports the outcome of a triggered replay pass.
type ReplayResponse struct {
	Started bool `json:"started"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Pending int  `json:"pending"`
}

// TriggerReplay runs one replay pass against the upstream send endpoint.
// The pass runs synchronously so the response carries the aggregate
// counts; an overlapping trigger reports started=false and does nothing.
func (h *Handler) TriggerReplay(w http.ResponseWriter, r *http.Request) {
	if h.send == nil {
		h.Error(w, http.StatusServiceUnavailable, "no upstream configured")
		return
	}

	var result replay.Result
	started := h.engine.Replay(r.Context(), h.send,
		func(msg queue.QueuedMessage) {
			h.logger.Info().
				Str("id", msg.ID).
				Str("conversation_id", msg.ConversationID).
				Msg("queued message delivered")
		},
		func(res replay.Result) {
			result = res
		},
	)

	pending, err := h.store.PendingCount(r.Context())
	if err != nil {
		pending = 0
	}

	h.JSON(w, http.StatusOK, ReplayResponse{
		Started: started,
		Sent:    result.Sent,
		Failed:  result.Failed,
		Pending: pending,
	})
}
