package replay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSenderForwardsPayload(t *testing.T) {
	var got struct {
		ConversationID string          `json:"conversation_id"`
		Payload        json.RawMessage `json:"payload"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	send := NewHTTPSender(srv.URL, srv.Client())
	ok, err := send(context.Background(), "conv-1", json.RawMessage(`{"content":"hi"}`))
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("2xx should count as delivered")
	}
	if got.ConversationID != "conv-1" {
		t.Fatalf("unexpected conversation id %q", got.ConversationID)
	}
	if string(got.Payload) != `{"content":"hi"}` {
		t.Fatalf("unexpected payload %s", got.Payload)
	}
}

func TestHTTPSenderRejectedByUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	send := NewHTTPSender(srv.URL, srv.Client())
	ok, err := send(context.Background(), "conv-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("4xx/5xx must count as a failed attempt")
	}
}

func TestHTTPSenderUnreachable(t *testing.T) {
	send := NewHTTPSender("http://127.0.0.1:1", nil)
	ok, err := send(context.Background(), "conv-1", nil)
	if ok || err == nil {
		t.Fatal("unreachable upstream must fail the attempt")
	}
}
