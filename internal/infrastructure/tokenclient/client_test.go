package tokenclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/token" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("room"); got != "salon-call-123" {
			t.Errorf("unexpected room %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"jwt-abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	token, err := c.Token(context.Background(), "salon-call-123")
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("expected jwt-abc, got %q", token)
	}
}

func TestTokenAcceptsAny2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"jwt-abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	token, err := c.Token(context.Background(), "salon-call-123")
	if err != nil {
		t.Fatalf("Token failed on 201: %v", err)
	}
	if token != "jwt-abc" {
		t.Errorf("expected jwt-abc, got %q", token)
	}
}

func TestTokenServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	_, err := c.Token(context.Background(), "salon-call-123")
	if err == nil {
		t.Fatal("expected error on 500")
	}
	if !strings.Contains(err.Error(), "is the salon backend running") {
		t.Errorf("error must point at the backend: %v", err)
	}
}

func TestTokenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(nil))
	srv.Close() // closed on purpose

	c := New(srv.URL, zerolog.Nop())
	_, err := c.Token(context.Background(), "salon-call-123")
	if err == nil {
		t.Fatal("expected error when backend is down")
	}
	if !strings.Contains(err.Error(), "is the salon backend running") {
		t.Errorf("error must point at the backend: %v", err)
	}
}

func TestTokenMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, zerolog.Nop())
	if _, err := c.Token(context.Background(), "salon-call-123"); err == nil {
		t.Fatal("expected error on missing token field")
	}
}
