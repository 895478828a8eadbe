// Package providertest provides a mock backend server and fixture helpers
// shared by the client, fallback, and health tests.
package providertest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"sightline-hq/beacon/pkg/catalog"
	"sightline-hq/beacon/pkg/providers"
)

// Response configures what the mock server answers on one path.
type Response struct {
	// StatusCode defaults to 200.
	StatusCode int

	// Body is written as-is for string/[]byte, JSON-encoded otherwise.
	Body any

	// Delay is applied before answering, for latency and timeout tests.
	Delay time.Duration

	// Headers are set on the response.
	Headers map[string]string
}

// Server is a scripted mock backend. Responses are keyed by URL path; paths
// with no script get a 404.
type Server struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]Response
	requests  []RecordedRequest
}

// RecordedRequest captures one request the mock received.
type RecordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// NewServer starts a mock backend. Callers must Close it.
func NewServer() *Server {
	s := &Server{responses: make(map[string]Response)}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the mock's base URL.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the mock down.
func (s *Server) Close() {
	s.server.Close()
}

// Respond scripts the answer for a path.
func (s *Server) Respond(path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = resp
}

// RequestCount reports how many requests the mock has received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of every recorded request in arrival order.
func (s *Server) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent recorded request.
func (s *Server) LastRequest() (RecordedRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return RecordedRequest{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	resp, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	switch v := resp.Body.(type) {
	case nil:
		w.WriteHeader(status)
	case string:
		w.WriteHeader(status)
		_, _ = w.Write([]byte(v))
	case []byte:
		w.WriteHeader(status)
		_, _ = w.Write(v)
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

// StandardInstance builds an enabled standard-family instance pointed at the
// given base URL.
func StandardInstance(id, baseURL string) providers.Instance {
	return providers.Instance{
		Definition: catalog.Definition{
			ID:           id,
			DisplayName:  id,
			Endpoint:     baseURL,
			Family:       catalog.FamilyStandard,
			Tier:         catalog.TierPaid,
			DefaultModel: "test-model",
			RequiresKey:  true,
		},
		APIKey:  "test-key",
		Model:   "test-model",
		Enabled: true,
	}
}

// MessagesInstance builds an enabled messages-family instance pointed at the
// given base URL.
func MessagesInstance(id, baseURL string) providers.Instance {
	return providers.Instance{
		Definition: catalog.Definition{
			ID:           id,
			DisplayName:  id,
			Endpoint:     baseURL,
			Family:       catalog.FamilyMessages,
			Tier:         catalog.TierPaid,
			DefaultModel: "test-model",
			RequiresKey:  true,
		},
		APIKey:  "test-key",
		Model:   "test-model",
		Enabled: true,
	}
}

// LocalInstance builds an enabled local-tier standard-family instance that
// does not require a credential.
func LocalInstance(id, baseURL string) providers.Instance {
	return providers.Instance{
		Definition: catalog.Definition{
			ID:           id,
			DisplayName:  id,
			Endpoint:     baseURL,
			Family:       catalog.FamilyStandard,
			Tier:         catalog.TierLocal,
			DefaultModel: "test-model",
			RequiresKey:  false,
		},
		Model:   "test-model",
		Enabled: true,
	}
}

// ChatBody returns a minimal valid chat/completions response body.
func ChatBody(id, content string) map[string]any {
	return map[string]any{
		"id":    id,
		"model": "test-model",
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role":    "assistant",
				"content": content,
			},
			"finish_reason": "stop",
		}},
		"usage": map[string]any{
			"prompt_tokens":     3,
			"completion_tokens": 1,
			"total_tokens":      4,
		},
	}
}

// UserMessage builds a plain user message.
func UserMessage(content string) []providers.Message {
	return []providers.Message{{Role: providers.RoleUser, Content: content}}
}
