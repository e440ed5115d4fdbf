package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meridian-market/boardroom/queue"
)

const maxContentLength = 4000

// EnqueueRequest represents the enqueue request body.
type EnqueueRequest struct {
	ConversationID string          `json:"conversation_id"`
	Content        string          `json:"content"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// QueueResponse represents the pending-queue listing.
type QueueResponse struct {
	Messages []queue.QueuedMessage `json:"messages"`
	Count    int                   `json:"count"`
}

// CountResponse represents the pending-count response.
type CountResponse struct {
	Count int `json:"count"`
}

// ListQueue returns pending messages for UI badges.
func (h *Handler) ListQueue(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.store.Pending(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "queue unavailable")
		return
	}
	if msgs == nil {
		msgs = []queue.QueuedMessage{}
	}
	h.JSON(w, http.StatusOK, QueueResponse{Messages: msgs, Count: len(msgs)})
}

// QueueCount returns the pending-message count.
func (h *Handler) QueueCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.PendingCount(r.Context())
	if err != nil {
		h.Error(w, http.StatusInternalServerError, "queue unavailable")
		return
	}
	h.JSON(w, http.StatusOK, CountResponse{Count: count})
}

// EnqueueMessage queues a message for later delivery.
func (h *Handler) EnqueueMessage(w http.ResponseWriter, r *http.Request) {
	var req EnqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if _, err := uuid.Parse(req.ConversationID); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid conversation ID format")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		h.Error(w, http.StatusBadRequest, "content is required")
		return
	}
	if len(req.Content) > maxContentLength {
		h.Error(w, http.StatusBadRequest, "content too long")
		return
	}

	payload := req.Payload
	if len(payload) == 0 {
		// The queue owns the full request body; default to the minimal
		// send shape when the caller supplied none.
		payload, _ = json.Marshal(map[string]string{"content": req.Content})
	}

	msg := h.store.Enqueue(r.Context(), req.ConversationID, req.Content, payload)
	h.JSON(w, http.StatusCreated, msg)
}

// DequeueMessage removes a single message by ID.
func (h *Handler) DequeueMessage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.Error(w, http.StatusBadRequest, "message ID is required")
		return
	}

	if err := h.store.Dequeue(r.Context(), id); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to remove message")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ClearQueue removes every queued message.
func (h *Handler) ClearQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.store.ClearAll(r.Context()); err != nil {
		h.Error(w, http.StatusInternalServerError, "failed to clear queue")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
