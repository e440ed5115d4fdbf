package handlers

import "net/http"

// PreloadContext fetches and caches a fresh cognitive-metadata snapshot,
// typically on conversation open.
func (h *Handler) PreloadContext(w http.ResponseWriter, r *http.Request) {
	snap := h.cache.Preload(r.Context())
	if snap == nil {
		h.JSON(w, http.StatusOK, map[string]interface{}{"loaded": false})
		return
	}
	h.JSON(w, http.StatusOK, map[string]interface{}{"loaded": true, "context": snap})
}

// ClearContext drops the cached snapshot, typically on conversation switch
// so stale trust data never leaks into a new conversation's bundles.
func (h *Handler) ClearContext(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear()
	h.JSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
