package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"anon-board/internal/domain"
	"anon-board/internal/service"
)

type mockMessageRepo struct {
	created   []domain.Message
	createErr error
	listData  []domain.Message
	listErr   error
}

func (m *mockMessageRepo) Create(_ context.Context, text, ip string) (domain.Message, error) {
	if m.createErr != nil {
		return domain.Message{}, m.createErr
	}
	msg := domain.Message{ID: "msg-1", Message: text, IP: ip, CreatedAt: time.Now().UTC()}
	m.created = append(m.created, msg)
	return msg, nil
}

func (m *mockMessageRepo) ListRecent(_ context.Context, limit int) ([]domain.Message, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if len(m.listData) > limit {
		return m.listData[:limit], nil
	}
	return m.listData, nil
}

type mockLimiter struct {
	allow bool
	keys  []string
}

func (m *mockLimiter) Allow(_ context.Context, key string) bool {
	m.keys = append(m.keys, key)
	return m.allow
}

func setupRouter(repo *mockMessageRepo, limiter service.RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMessageHandler(zap.NewNop(), service.NewMessageService(repo))
	return NewRouter(zap.NewNop(), RouterOptions{
		AllowedOrigins:   []string{"https://board.example"},
		Limiter:          limiter,
		RateLimitMessage: "slow down",
	}, h)
}

func performRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateMessage_Success(t *testing.T) {
	repo := &mockMessageRepo{}
	r := setupRouter(repo, nil)

	rec := performRequest(r, http.MethodPost, "/api/messages", map[string]string{"message": "  hola  "}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["id"] != "msg-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if len(repo.created) != 1 || repo.created[0].Message != "hola" {
		t.Fatalf("expected trimmed message stored, got %+v", repo.created)
	}
	if repo.created[0].IP != "192.0.2.1" {
		t.Fatalf("expected client ip captured, got %q", repo.created[0].IP)
	}
}

func TestCreateMessage_ValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		body any
	}{
		{name: "empty", body: map[string]string{"message": ""}},
		{name: "whitespace", body: map[string]string{"message": "   \n"}},
		{name: "too long", body: map[string]string{"message": strings.Repeat("a", 501)}},
		{name: "not text", body: map[string]any{"message": 42}},
		{name: "missing field", body: map[string]any{}},
		{name: "malformed json", body: "{\"message\":"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockMessageRepo{}
			r := setupRouter(repo, nil)

			rec := performRequest(r, http.MethodPost, "/api/messages", tc.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", rec.Code)
			}
			body := decodeBody(t, rec)
			if body["success"] != false || body["error"] == "" {
				t.Fatalf("unexpected body: %+v", body)
			}
			if len(repo.created) != 0 {
				t.Fatalf("expected no store write, got %d", len(repo.created))
			}
		})
	}
}

func TestCreateMessage_RequiresJSONContentType(t *testing.T) {
	repo := &mockMessageRepo{}
	r := setupRouter(repo, nil)

	rec := performRequest(r, http.MethodPost, "/api/messages", `{"message":"hola"}`, map[string]string{
		"Content-Type": "text/plain",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no store write")
	}
}

func TestCreateMessage_StoreFailure(t *testing.T) {
	repo := &mockMessageRepo{createErr: errors.New("db down")}
	r := setupRouter(repo, nil)

	rec := performRequest(r, http.MethodPost, "/api/messages", map[string]string{"message": "hola"}, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Fatalf("unexpected body: %+v", body)
	}
	if strings.Contains(rec.Body.String(), "db down") {
		t.Fatalf("store error details must not leak: %s", rec.Body.String())
	}
}

func TestListMessages_EmptyStore(t *testing.T) {
	r := setupRouter(&mockMessageRepo{}, nil)

	rec := performRequest(r, http.MethodGet, "/api/messages", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %s", rec.Body.String())
	}
}

func TestListMessages_NeverExposesIP(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	repo := &mockMessageRepo{listData: []domain.Message{
		{ID: "b", Message: "world", CreatedAt: created.Add(time.Minute), IP: "10.0.0.9"},
		{ID: "a", Message: "hello", CreatedAt: created, IP: "10.0.0.8"},
	}}
	r := setupRouter(repo, nil)

	rec := performRequest(r, http.MethodGet, "/api/messages", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "10.0.0.") || strings.Contains(rec.Body.String(), `"ip"`) {
		t.Fatalf("ip leaked in response: %s", rec.Body.String())
	}

	var out []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0]["id"] != "b" || out[0]["createdAt"] != "2024-05-01T10:01:00Z" {
		t.Fatalf("unexpected list: %+v", out)
	}
}

func TestListMessages_StoreFailure(t *testing.T) {
	r := setupRouter(&mockMessageRepo{listErr: errors.New("timeout")}, nil)

	rec := performRequest(r, http.MethodGet, "/api/messages", nil, nil)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["success"] != false || body["error"] == nil {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestHealth(t *testing.T) {
	r := setupRouter(&mockMessageRepo{}, nil)

	rec := performRequest(r, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "OK" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if _, err := time.Parse(time.RFC3339, body["timestamp"].(string)); err != nil {
		t.Fatalf("expected RFC3339 timestamp, got %v", body["timestamp"])
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
}

func TestRateLimit_RejectsWithFixedMessage(t *testing.T) {
	repo := &mockMessageRepo{}
	limiter := &mockLimiter{allow: false}
	r := setupRouter(repo, limiter)

	rec := performRequest(r, http.MethodPost, "/api/messages", map[string]string{"message": "hola"}, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rec.Code)
	}
	if rec.Body.String() != "slow down" {
		t.Fatalf("expected fixed text message, got %q", rec.Body.String())
	}
	if len(repo.created) != 0 {
		t.Fatalf("rate limited request must not reach the store")
	}
	if len(limiter.keys) != 1 || limiter.keys[0] != "192.0.2.1" {
		t.Fatalf("expected limiter keyed by client ip, got %+v", limiter.keys)
	}
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	r := setupRouter(&mockMessageRepo{}, &mockLimiter{allow: true})

	rec := performRequest(r, http.MethodGet, "/api/messages", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestCORS_AllowList(t *testing.T) {
	r := setupRouter(&mockMessageRepo{}, nil)

	rec := performRequest(r, http.MethodGet, "/api/messages", nil, map[string]string{"Origin": "https://board.example"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://board.example" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	rec = performRequest(r, http.MethodGet, "/api/messages", nil, map[string]string{"Origin": "https://evil.example"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403 for unknown origin, got %d", rec.Code)
	}
}
