package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewChatServer starts a fake model service whose /api/chat endpoint returns
// a single blocking reply.
func NewChatServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{"models":[]}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": reply},
			"done":    true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewStreamServer starts a fake model service that streams the given
// fragments as newline-delimited JSON chunks.
func NewStreamServer(t *testing.T, fragments []string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		enc := json.NewEncoder(w)
		for i, fragment := range fragments {
			_ = enc.Encode(map[string]interface{}{
				"message": map[string]string{"role": "assistant", "content": fragment},
				"done":    i == len(fragments)-1,
			})
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewErrorServer starts a fake model service that always fails with the
// given status and body.
func NewErrorServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// RequestRecorder captures the JSON bodies of requests to a fake service.
type RequestRecorder struct {
	Bodies []map[string]interface{}
}

// NewRecordingChatServer starts a fake model service that records request
// payloads and answers every chat with the same reply.
func NewRecordingChatServer(t *testing.T, reply string) (*httptest.Server, *RequestRecorder) {
	t.Helper()
	rec := &RequestRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			rec.Bodies = append(rec.Bodies, body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": reply},
			"done":    true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}
