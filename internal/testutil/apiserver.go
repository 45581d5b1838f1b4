package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// APIServer is a fake provider API. Routes are matched on the exact request
// path; unknown paths answer 404. Every request is counted per path.
type APIServer struct {
	*httptest.Server

	t      *testing.T
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
}

// NewAPIServer starts a fake API that is closed when the test completes.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	s := &APIServer{
		t:      t,
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for path.
func (s *APIServer) Handle(path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[path] = h
}

// HandleJSON answers path with body encoded as JSON.
func (s *APIServer) HandleJSON(path string, body any) {
	s.HandleStatus(path, http.StatusOK, body)
}

// HandleStatus answers path with the given status and JSON body.
func (s *APIServer) HandleStatus(path string, status int, body any) {
	s.Handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body == nil {
			return
		}
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.t.Errorf("encode response for %s: %v", path, err)
		}
	})
}

// Hits returns how many requests path received.
func (s *APIServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// TotalHits returns the number of requests across all paths.
func (s *APIServer) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}

func (s *APIServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	h, ok := s.routes[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}
