package auth

import (
	"sync"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

var (
	sharedMu sync.RWMutex
	shared   = New(Options{})
)

// SetShared replaces the process-wide middleware behind RequireAuth and
// RequireAdmin. nil is ignored.
func SetShared(m *Middleware) {
	if m == nil {
		return
	}
	sharedMu.Lock()
	shared = m
	sharedMu.Unlock()
}

func Shared() *Middleware {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return shared
}

// RequireAuth runs the shared middleware's RequireAuth. Route files
// reference it from init(), before configuration is loaded.
func RequireAuth(c *event.Context) error { return Shared().RequireAuth(c) }

// RequireAdmin runs the shared middleware's RequireAdmin.
func RequireAdmin(c *event.Context) error { return Shared().RequireAdmin(c) }
