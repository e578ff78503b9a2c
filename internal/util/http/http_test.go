package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchSetsUserAgent(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	data, err := Fetch(context.Background(), server.URL, FetchOptions{})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Fetch() = %q, want ok", data)
	}
	if !strings.HasPrefix(gotUA, UserAgentName+"/") {
		t.Errorf("User-Agent = %q, want prefix %s/", gotUA, UserAgentName)
	}
}

func TestPost(t *testing.T) {
	var gotBody, gotType, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotType = r.Header.Get("Content-Type")
		gotHeader = r.Header.Get("X-Test")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	data, err := Post(context.Background(), server.URL, "application/json", strings.NewReader(`{"a":1}`), FetchOptions{
		Headers: map[string]string{"X-Test": "yes"},
	})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("Post() = %s", data)
	}
	if gotBody != `{"a":1}` || gotType != "application/json" || gotHeader != "yes" {
		t.Errorf("server saw body=%q type=%q header=%q", gotBody, gotType, gotHeader)
	}
}

func TestPostErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Post(context.Background(), server.URL, "image/jpeg", strings.NewReader("x"), FetchOptions{})
	if err == nil {
		t.Fatal("Post() expected error for 503")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("Post() error = %v, want status and body", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	}))
	defer server.Close()

	if _, err := Fetch(context.Background(), server.URL, FetchOptions{Timeout: 20 * time.Millisecond}); err == nil {
		t.Error("Fetch() expected timeout error")
	}
}
