// manifest/module.go
package manifest

import (
	"errors"
	"fmt"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

// Module is what a route source file exports.
type Module struct {
	// Handlers holds verb-named exports (GET, POST, ...).
	Handlers map[convention.Method]event.Handler
	// Default is used for any verb without its own handler.
	Default event.Handler
	// Handler is the export a module proxy file provides.
	Handler event.Handler

	OnRequest        []event.RequestHook
	OnBeforeResponse []event.ResponseHook
	OnError          []event.ErrorHook
}

// Middleware returns the module's hooks as one set.
func (m *Module) Middleware() event.MiddlewareSet {
	return event.MiddlewareSet{
		OnRequest:        m.OnRequest,
		OnBeforeResponse: m.OnBeforeResponse,
		OnError:          m.OnError,
	}
}

// For returns the handler bound for verb: the verb's own export, else Default.
func (m *Module) For(verb convention.Method) event.Handler {
	if h := m.Handlers[verb]; h != nil {
		return h
	}
	return m.Default
}

// Verbs lists the verbs with their own export, in canonical order.
func (m *Module) Verbs() []convention.Method {
	var out []convention.Method
	for _, v := range convention.Methods {
		if m.Handlers[v] != nil {
			out = append(out, v)
		}
	}
	return out
}

var ErrNothingExported = errors.New("module exports no handler")

// Validate rejects modules with nothing callable and handler keys outside
// the known verbs.
func (m *Module) Validate() error {
	for verb := range m.Handlers {
		if _, ok := convention.ParseMethod(string(verb)); !ok {
			return fmt.Errorf("handler for unknown method %q", verb)
		}
	}
	if m.Default == nil && m.Handler == nil && len(m.Verbs()) == 0 {
		return ErrNothingExported
	}
	return nil
}
