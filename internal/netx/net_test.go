package netx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type echo struct {
	Name string `json:"name"`
}

func TestPostJSON(t *testing.T) {
	t.Run("success decodes body", func(t *testing.T) {
		var gotMethod, gotCT string
		var gotBody echo

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"name":"pong"}`))
		}))
		defer ts.Close()

		var out echo
		if err := PostJSON(context.Background(), ts.Client(), ts.URL, echo{Name: "ping"}, &out); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPost {
			t.Fatalf("method = %q, want POST", gotMethod)
		}
		if gotCT != "application/json" {
			t.Fatalf("Content-Type = %q, want application/json", gotCT)
		}
		if gotBody.Name != "ping" {
			t.Fatalf("server got %q, want ping", gotBody.Name)
		}
		if out.Name != "pong" {
			t.Fatalf("decoded %q, want pong", out.Name)
		}
	})

	t.Run("non-200 wraps ErrUnexpectedStatus", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
		}))
		defer ts.Close()

		err := PostJSON(context.Background(), ts.Client(), ts.URL, echo{}, nil)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
		}
		if !strings.Contains(err.Error(), "slow down") {
			t.Fatalf("error should include body, got %v", err)
		}
	})

	t.Run("malformed JSON response", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}))
		defer ts.Close()

		var out echo
		err := PostJSON(context.Background(), ts.Client(), ts.URL, echo{}, &out)
		if err == nil || !strings.Contains(err.Error(), "decode response") {
			t.Fatalf("expected decode error, got %v", err)
		}
	})

	t.Run("context deadline", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer ts.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := PostJSON(ctx, ts.Client(), ts.URL, echo{}, nil)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline exceeded, got %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		err := PostJSON(context.Background(), nil, "://bad", echo{}, nil)
		if err == nil {
			t.Fatal("expected error for bad url")
		}
	})
}
