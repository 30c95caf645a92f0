// Package api — HTTP-клиент к серверу LendIt.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"LendIt/internal/handlers"
)

// Client обращается к /api сервера с Bearer-токеном.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// APIError — ответ сервера с кодом ошибки.
type APIError struct {
	Status int
	Body   handlers.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body.Message)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(body, &apiErr.Body)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// Health проверяет доступность сервера.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/healthz", nil)
}

// ListItems запрашивает GET /api/items с фильтром, сортировкой и поиском.
func (c *Client) ListItems(ctx context.Context, filter, sortBy, search string) ([]handlers.ItemDTO, error) {
	q := url.Values{}
	if filter != "" {
		q.Set("filter", filter)
	}
	if sortBy != "" {
		q.Set("sort", sortBy)
	}
	if search != "" {
		q.Set("q", search)
	}
	path := "/api/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var items []handlers.ItemDTO
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}
