// Package boardroom provides a client for the boardroom sidecar API.
package boardroom

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a boardroom sidecar API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new sidecar client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8090"
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("boardroom error %d: %s", resp.StatusCode, errResp.Error)
	}

	return respBody, nil
}

// QueuedMessage mirrors one pending message in sidecar responses.
type QueuedMessage struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	Content        string          `json:"content"`
	Payload        json.RawMessage `json:"payload"`
	QueuedAt       time.Time       `json:"queued_at"`
	Attempts       int             `json:"attempts"`
	LastError      string          `json:"last_error,omitempty"`
	Status         string          `json:"status"`
}

// QueueResponse is the response from listing the queue.
type QueueResponse struct {
	Messages []QueuedMessage `json:"messages"`
	Count    int             `json:"count"`
}

// Queue lists pending messages.
func (c *Client) Queue() (*QueueResponse, error) {
	respBody, err := c.doRequest("GET", "/queue", nil)
	if err != nil {
		return nil, err
	}

	var resp QueueResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueueCount returns the pending-message count.
func (c *Client) QueueCount() (int, error) {
	respBody, err := c.doRequest("GET", "/queue/count", nil)
	if err != nil {
		return 0, err
	}

	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// EnqueueRequest is the request body for queuing a message.
type EnqueueRequest struct {
	ConversationID string          `json:"conversation_id"`
	Content        string          `json:"content"`
	Payload        json.RawMessage `json:"payload,omitempty"`
}

// Enqueue queues a message for later delivery.
func (c *Client) Enqueue(conversationID, content string, payload json.RawMessage) (*QueuedMessage, error) {
	body, _ := json.Marshal(EnqueueRequest{ConversationID: conversationID, Content: content, Payload: payload})

	respBody, err := c.doRequest("POST", "/queue", body)
	if err != nil {
		return nil, err
	}

	var msg QueuedMessage
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReplayResponse is the response from triggering a replay pass.
type ReplayResponse struct {
	Started bool `json:"started"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Pending int  `json:"pending"`
}

// Replay triggers a replay pass.
func (c *Client) Replay() (*ReplayResponse, error) {
	respBody, err := c.doRequest("POST", "/replay", nil)
	if err != nil {
		return nil, err
	}

	var resp ReplayResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Participant is one roster entry for preview requests.
type Participant struct {
	Slug      string   `json:"slug"`
	Name      string   `json:"name"`
	Expertise []string `json:"expertise,omitempty"`
}

// PreviewRequest is the request body for an enrichment preview.
type PreviewRequest struct {
	Message          string        `json:"message"`
	ConversationType string        `json:"conversation_type"`
	Participants     []Participant `json:"participants,omitempty"`
	Restricted       []string      `json:"restricted,omitempty"`
}

// RoutingPreview is the routing part of a preview response.
type RoutingPreview struct {
	PrimarySlug   string   `json:"primary_slug,omitempty"`
	PrimaryName   string   `json:"primary_name,omitempty"`
	Topic         string   `json:"topic"`
	Confidence    float64  `json:"confidence"`
	Supporting    []string `json:"supporting,omitempty"`
	Justification string   `json:"justification"`
}

// PreviewResponse is the enrichment bundle for a draft message.
type PreviewResponse struct {
	Energy struct {
		Level string  `json:"level"`
		Score float64 `json:"score"`
	} `json:"energy"`
	Routing RoutingPreview `json:"routing"`
	Room    struct {
		MessagesPerMinute float64 `json:"messages_per_minute"`
		SecondsSinceLast  float64 `json:"seconds_since_last"`
		Sampled           int     `json:"sampled"`
	} `json:"room"`
	Device struct {
		Class     string    `json:"class"`
		Online    bool      `json:"online"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"device"`
}

// Preview returns the enrichment bundle for a draft message.
func (c *Client) Preview(req PreviewRequest) (*PreviewResponse, error) {
	body, _ := json.Marshal(req)

	respBody, err := c.doRequest("POST", "/preview", body)
	if err != nil {
		return nil, err
	}

	var resp PreviewResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the response from the health endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	Online    bool   `json:"online"`
	Replaying bool   `json:"replaying"`
	Timestamp string `json:"timestamp"`
}

// Health checks sidecar health.
func (c *Client) Health() (*HealthResponse, error) {
	respBody, err := c.doRequest("GET", "/health", nil)
	if err != nil {
		return nil, err
	}

	var resp HealthResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
