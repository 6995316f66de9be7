package fetch

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchReturnsBody(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>events</body></html>"))
	}))
	defer server.Close()

	body, err := New().Fetch(server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(body, "events") {
		t.Errorf("body = %q, want page content", body)
	}
	if gotUA != UserAgent {
		t.Errorf("User-Agent = %q, want %q", gotUA, UserAgent)
	}
}

func TestFetchNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := New().Fetch(server.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	f := NewWithTimeout(20 * time.Millisecond)
	if _, err := f.Fetch(server.URL); err == nil {
		t.Error("expected timeout error")
	}
}

func TestFetchBadURL(t *testing.T) {
	if _, err := New().Fetch("http://127.0.0.1:1/nope"); err == nil {
		t.Error("expected connection error")
	}
}
