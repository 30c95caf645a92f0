package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestListItems_SendsTokenAndQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Fatalf("Authorization header: %q", got)
		}
		if r.URL.Path != "/api/items" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("filter") != "overdue" || r.URL.Query().Get("sort") != "dueDate" || r.URL.Query().Get("q") != "bo" {
			t.Fatalf("query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"1","itemName":"Book","status":"overdue"}]`))
	}))
	defer ts.Close()

	items, err := NewClient(ts.URL+"/", "tok123").ListItems(context.Background(), "overdue", "dueDate", "bo")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ItemName != "Book" || items[0].Status != "overdue" {
		t.Fatalf("unexpected items: %#v", items)
	}
}

func TestListItems_ErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"ValidationError","message":"validation failed","fields":{"sortBy":"unknown"}}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "").ListItems(context.Background(), "", "price", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Body.Fields["sortBy"] == "" {
		t.Fatalf("unexpected error: %#v", apiErr)
	}
}

func TestHealth(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/healthz" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer ts.Close()

	if err := NewClient(ts.URL, "").Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
	ts.Close()
	if err := NewClient(ts.URL, "").Health(context.Background()); err == nil {
		t.Fatalf("expected error after server close")
	}
}
