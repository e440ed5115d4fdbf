package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meridian-market/boardroom/cogctx"
	"github.com/meridian-market/boardroom/enrich"
	"github.com/meridian-market/boardroom/internal/api"
	"github.com/meridian-market/boardroom/internal/handlers"
	"github.com/meridian-market/boardroom/netwatch"
	"github.com/meridian-market/boardroom/queue"
	"github.com/meridian-market/boardroom/replay"
	"github.com/meridian-market/boardroom/route"
)

const testConversationID = "7f8a1c2e-3b4d-4e5f-8a6b-9c0d1e2f3a4b"

func newTestServer(t *testing.T, send replay.SendFunc) (*httptest.Server, queue.Store) {
	t.Helper()
	logger := zerolog.Nop()

	store := queue.NewFileStore(filepath.Join(t.TempDir(), "queue.json"), logger)
	monitor := netwatch.NewMonitor(nil, time.Second, logger)
	engine := replay.NewEngine(store, monitor, logger, replay.WithBaseDelay(time.Millisecond))
	cache := cogctx.NewCache(func(ctx context.Context) (*cogctx.Context, error) {
		return &cogctx.Context{RecentTopics: []string{"finance"}}, nil
	}, logger)
	orch := enrich.NewOrchestrator(cache, monitor)

	h := handlers.NewHandler(store, engine, orch, cache, monitor, send, logger)
	srv := httptest.NewServer(api.NewRouter(logger, h))
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestEnqueueAndList(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/queue", handlers.EnqueueRequest{
		ConversationID: testConversationID,
		Content:        "hold this until we're back online",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var msg queue.QueuedMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		t.Fatal(err)
	}
	if msg.ID == "" || msg.Status != queue.StatusQueued {
		t.Fatalf("unexpected message %+v", msg)
	}

	listResp, err := http.Get(srv.URL + "/queue")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()

	var list handlers.QueueResponse
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Messages[0].ID != msg.ID {
		t.Fatalf("unexpected listing %+v", list)
	}
}

func TestEnqueueValidation(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	cases := []struct {
		name string
		req  handlers.EnqueueRequest
	}{
		{"bad conversation id", handlers.EnqueueRequest{ConversationID: "not-a-uuid", Content: "x"}},
		{"empty content", handlers.EnqueueRequest{ConversationID: testConversationID, Content: "   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/queue", tc.req)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestTriggerReplayDrainsQueue(t *testing.T) {
	sent := 0
	send := func(ctx context.Context, conversationID string, payload json.RawMessage) (bool, error) {
		sent++
		return true, nil
	}
	srv, store := newTestServer(t, send)

	store.Enqueue(context.Background(), testConversationID, "offline draft", nil)

	resp := postJSON(t, srv.URL+"/replay", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var rr handlers.ReplayResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		t.Fatal(err)
	}
	if !rr.Started || rr.Sent != 1 || rr.Pending != 0 {
		t.Fatalf("unexpected replay outcome %+v", rr)
	}
	if sent != 1 {
		t.Fatalf("expected 1 upstream send, got %d", sent)
	}
}

func TestTriggerReplayWithoutUpstream(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/replay", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestPreviewRouting(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/preview", handlers.PreviewRequest{
		Message: "revenue and pricing margin review",
		Participants: []route.Participant{
			{Slug: "cfo", Name: "Marcus Webb"},
			{Slug: "chief-of-staff", Name: "Jordan Lee"},
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var bundle enrich.Bundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		t.Fatal(err)
	}
	if bundle.Routing.PrimarySlug != "cfo" {
		t.Fatalf("expected cfo, got %q", bundle.Routing.PrimarySlug)
	}
	if bundle.Routing.Topic != "finance" {
		t.Fatalf("expected finance, got %q", bundle.Routing.Topic)
	}
}

func TestContextLifecycle(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/context/preload", nil)
	defer resp.Body.Close()

	var preload struct {
		Loaded bool `json:"loaded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&preload); err != nil {
		t.Fatal(err)
	}
	if !preload.Loaded {
		t.Fatal("expected context to load")
	}

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/context", nil)
	clearResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer clearResp.Body.Close()
	if clearResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", clearResp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var health handlers.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "healthy" || !health.Online {
		t.Fatalf("unexpected health %+v", health)
	}
}
