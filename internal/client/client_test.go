package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"anon-board/internal/board"
)

func TestHTTPClientList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/messages" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id":"a","message":"iso","createdAt":"2024-05-01T10:00:00Z"},
			{"id":"b","message":"epoch","createdAt":{"_seconds":1714557600,"_nanoseconds":0}},
			{"id":"c","message":"missing"}
		]`)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/")
	messages, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].CreatedAt.Kind != board.TimestampISO8601 ||
		messages[1].CreatedAt.Kind != board.TimestampEpochSeconds ||
		messages[2].CreatedAt.Kind != board.TimestampMissing {
		t.Fatalf("unexpected timestamp kinds: %+v", messages)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if got := messages[1].CreatedAt.Instant(time.Now()); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestHTTPClientList_EmptyArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	messages, err := NewHTTPClient(srv.URL).List(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if messages == nil || len(messages) != 0 {
		t.Fatalf("expected empty list, got %+v", messages)
	}
}

func TestHTTPClientList_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"success":false,"error":"could not load messages"}`)
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Error() != "could not load messages" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestHTTPClientCreate(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"id":"new-id"}`)
	}))
	defer srv.Close()

	id, err := NewHTTPClient(srv.URL).Create(context.Background(), "hola")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != "new-id" || got["message"] != "hola" {
		t.Fatalf("unexpected result id=%q body=%+v", id, got)
	}
}

func TestHTTPClientCreate_RateLimitedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, "Too many requests. Please try again later.")
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Create(context.Background(), "hola")
	if err == nil || err.Error() != "Too many requests. Please try again later." {
		t.Fatalf("expected rate limit text, got %v", err)
	}
}

func TestHTTPClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPClient(url).List(context.Background()); err == nil {
		t.Fatalf("expected transport error")
	}
}
