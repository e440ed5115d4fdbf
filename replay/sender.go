package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"
)

// NewHTTPSender returns a SendFunc that forwards queued payloads to the
// upstream chat endpoint as JSON. The sidecar daemon uses it; library
// consumers supply their own SendFunc.
func NewHTTPSender(upstreamURL string, client *http.Client) SendFunc {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	return func(ctx context.Context, conversationID string, payload json.RawMessage) (bool, error) {
		body, err := json.Marshal(struct {
			ConversationID string          `json:"conversation_id"`
			Payload        json.RawMessage `json:"payload"`
		}{conversationID, payload})
		if err != nil {
			return false, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, upstreamURL, bytes.NewReader(body))
		if err != nil {
			return false, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			return false, err
		}
		defer resp.Body.Close()
		io.Copy(io.Discard, resp.Body)

		return resp.StatusCode < 400, nil
	}
}
