package httpgateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mdc-go/internal/config"
	"mdc-go/internal/mdcerrors"
)

func testConfig() *config.NetworkConfig {
	return &config.NetworkConfig{
		Timeout:   2 * time.Second,
		Retries:   2,
		VerifySSL: true,
	}
}

func TestGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	c, err := New(testConfig(), 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer c.Close()

	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if body != "hello world" {
		t.Errorf("body = %q, want %q", body, "hello world")
	}
}

func TestGetReturnsNotFoundKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, err := New(testConfig(), 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer c.Close()

	_, err = c.Get(context.Background(), srv.URL)
	if !mdcerrors.Is(err, mdcerrors.NotFound) {
		t.Errorf("expected NotFound kind, got %v", err)
	}
}

func TestGetRetriesOnRetryableStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Retries = 3
	c, err := New(cfg, 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer c.Close()

	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q, want %q", body, "ok")
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestUserAgentRotation(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := New(testConfig(), 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer c.Close()
	c.userAgents = []string{"agent-a", "agent-b"}

	for i := 0; i < 4; i++ {
		if _, err := c.Get(context.Background(), srv.URL); err != nil {
			t.Fatalf("Get returned error: %v", err)
		}
	}

	want := []string{"agent-a", "agent-b", "agent-a", "agent-b"}
	for i, ua := range want {
		if seen[i] != ua {
			t.Errorf("request %d User-Agent = %q, want %q", i, seen[i], ua)
		}
	}
}

func TestSetCookieAppliesToRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("over18")
		if err != nil || cookie.Value != "1" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := New(testConfig(), 0)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	defer c.Close()

	u, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	c.SetCookie(u.URL, &http.Cookie{Name: "over18", Value: "1"})

	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if body != "ok" {
		t.Errorf("body = %q, want ok", body)
	}
}
