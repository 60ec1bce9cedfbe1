package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"anon-board/internal/board"
)

// APIError representa una respuesta no exitosa del servidor.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// HTTPClient habla con /api/messages. Implementa board.API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient construye un cliente apuntando a la URL base del tablero.
func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

var _ board.API = (*HTTPClient)(nil)

func (c *HTTPClient) List(ctx context.Context) ([]board.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/messages", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, http.StatusOK, "Failed to load messages")
	if err != nil {
		return nil, err
	}

	var messages []board.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}
	if messages == nil {
		messages = []board.Message{}
	}
	return messages, nil
}

func (c *HTTPClient) Create(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, http.StatusCreated, "Failed to send message")
	if err != nil {
		return "", err
	}

	var out struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.ID, nil
}

// do ejecuta la request y traduce cualquier status distinto de want en *APIError.
func (c *HTTPClient) do(req *http.Request, want int, fallback string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != want {
		apiErr := &APIError{Status: resp.StatusCode, Message: fallback}
		var errBody struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errBody) == nil && errBody.Error != "" {
			apiErr.Message = errBody.Error
		} else if text := strings.TrimSpace(string(body)); text != "" && resp.StatusCode == http.StatusTooManyRequests {
			apiErr.Message = text
		}
		return nil, apiErr
	}
	return body, nil
}
