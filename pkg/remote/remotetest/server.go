// Package remotetest provides an in-memory stand-in for the remote store,
// served over httptest, for use in tests.
package remotetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"tableflip.dev/wherein/pkg/remote"
)

// Server is a fake remote store. Fail* fields force the matching endpoint to
// answer with that status until cleared.
type Server struct {
	*httptest.Server

	mu     sync.Mutex
	saved  []string
	counts map[string]int
	users  []remote.User
	calls  map[string]int
	fail   map[string]int
}

// NewServer starts a fake store seeded with saved names.
func NewServer(saved ...string) *Server {
	s := &Server{
		saved:  append([]string(nil), saved...),
		counts: make(map[string]int),
		calls:  make(map[string]int),
		fail:   make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc(remote.PathListSaved, s.handleList)
	mux.HandleFunc(remote.PathSave, s.handleSave)
	mux.HandleFunc(remote.PathUnsave, s.handleUnsave)
	mux.HandleFunc(remote.PathIncrement, s.handleIncrement)
	mux.HandleFunc(remote.PathNewestUser, s.handleNewest)
	mux.HandleFunc(remote.PathAddUser, s.handleAddUser)
	s.Server = httptest.NewServer(mux)
	return s
}

// Fail makes path answer with status. A zero status clears the failure.
func (s *Server) Fail(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.fail, path)
		return
	}
	s.fail[path] = status
}

// Saved returns the store's saved names.
func (s *Server) Saved() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.saved...)
}

// SetSaved replaces the saved names, as another client would.
func (s *Server) SetSaved(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append([]string(nil), names...)
}

// SetCount sets the stored view count for name.
func (s *Server) SetCount(name string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[name] = n
}

// Calls returns how many requests path received.
func (s *Server) Calls(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[path]
}

// Users returns the stored profiles, oldest first.
func (s *Server) Users() []remote.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]remote.User(nil), s.users...)
}

func (s *Server) begin(w http.ResponseWriter, r *http.Request, method string) bool {
	s.mu.Lock()
	s.calls[r.URL.Path]++
	status := s.fail[r.URL.Path]
	s.mu.Unlock()
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if status != 0 {
		http.Error(w, "forced failure", status)
		return false
	}
	return true
}

func (s *Server) decodeRef(w http.ResponseWriter, r *http.Request) (string, bool) {
	var ref remote.CountryRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil || ref.CountryName == "" {
		http.Error(w, "country_name required", http.StatusBadRequest)
		return "", false
	}
	return ref.CountryName, true
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodGet) {
		return
	}
	s.mu.Lock()
	refs := make([]remote.CountryRef, 0, len(s.saved))
	for _, name := range s.saved {
		refs = append(refs, remote.CountryRef{CountryName: name})
	}
	s.mu.Unlock()
	writeJSON(w, refs)
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodPost) {
		return
	}
	name, ok := s.decodeRef(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	present := false
	for _, n := range s.saved {
		if n == name {
			present = true
			break
		}
	}
	if !present {
		s.saved = append(s.saved, name)
	}
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUnsave(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodPost) {
		return
	}
	name, ok := s.decodeRef(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	kept := s.saved[:0]
	for _, n := range s.saved {
		if n != name {
			kept = append(kept, n)
		}
	}
	s.saved = kept
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleIncrement(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodPost) {
		return
	}
	name, ok := s.decodeRef(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	s.counts[name]++
	n := s.counts[name]
	s.mu.Unlock()
	writeJSON(w, map[string]int{"count": n})
}

func (s *Server) handleNewest(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodGet) {
		return
	}
	s.mu.Lock()
	var newest *remote.User
	if len(s.users) > 0 {
		u := s.users[len(s.users)-1]
		newest = &u
	}
	s.mu.Unlock()
	if newest == nil {
		writeJSON(w, []remote.User{})
		return
	}
	writeJSON(w, []remote.User{*newest})
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	if !s.begin(w, r, http.MethodPost) {
		return
	}
	var u remote.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid user", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.users = append(s.users, u)
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("User added"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
