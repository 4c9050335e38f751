package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm_backend/platform/config"
	"crm_backend/platform/logger"
)

func TestNilClientEchoesLocalMessageID(t *testing.T) {
	var c *Client

	id, err := c.SendSessionMessage(context.Background(), "+919876543210", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(id, "local_") {
		t.Fatalf("expected local_ prefixed message id, got %q", id)
	}
}

func TestNewClientDisabledWithoutBaseURL(t *testing.T) {
	cfg := &config.Config{WatiAPIKey: "key"}
	if NewClient(cfg, logger.New("test")) != nil {
		t.Fatal("expected nil client when the base url is missing")
	}
}

func TestSendSessionMessageHitsGateway(t *testing.T) {
	var gotPath, gotAuth, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotText = r.URL.Query().Get("messageText")
		w.Write([]byte(`{"result": true, "messageId": "wamid.42"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{WatiBaseURL: srv.URL, WatiAPIKey: "secret"}
	c := NewClient(cfg, logger.New("test"))

	id, err := c.SendSessionMessage(context.Background(), "+91 98765 43210", "estimate ready & waiting")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if id != "wamid.42" {
		t.Fatalf("expected gateway message id, got %q", id)
	}
	if gotPath != "/api/v1/sendSessionMessage/919876543210" {
		t.Fatalf("expected phone digits in path, got %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotText != "estimate ready & waiting" {
		t.Fatalf("expected query-escaped message round trip, got %q", gotText)
	}
}

func TestSendSessionMessageRejectedResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": false, "info": "no open session"}`))
	}))
	defer srv.Close()

	cfg := &config.Config{WatiBaseURL: srv.URL, WatiAPIKey: "secret"}
	c := NewClient(cfg, logger.New("test"))

	_, err := c.SendSessionMessage(context.Background(), "+919876543210", "hello")
	if err == nil {
		t.Fatal("expected an error when the gateway rejects the message")
	}
}
