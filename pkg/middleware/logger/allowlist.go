package logger

import (
	"net/http"
	"strings"
	"sync"
)

type bodyAllowlist struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

func newBodyAllowlist(paths ...string) *bodyAllowlist {
	a := &bodyAllowlist{paths: map[string]struct{}{}}
	a.add(paths...)
	return a
}

func (a *bodyAllowlist) add(paths ...string) {
	a.mu.Lock()
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			a.paths[p] = struct{}{}
		}
	}
	a.mu.Unlock()
}

// maxLoggedBody caps request bodies copied into the access log.
const maxLoggedBody = 1 << 16

// wants reports whether r's body may be logged at all: a JSON write to an
// allowlisted path.
func (a *bodyAllowlist) wants(r *http.Request) bool {
	if r.Body == nil || r.Body == http.NoBody {
		return false
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	a.mu.RLock()
	_, ok := a.paths[r.URL.Path]
	a.mu.RUnlock()
	return ok
}
