package event

// Handler produces the substantive response for a route. A nil result
// means the handler already wrote to c.Response (or has nothing to send).
type Handler func(c *Context) (any, error)

// RequestHook runs before the handler; returning an error aborts.
type RequestHook func(c *Context) error

// ResponseHook receives the current result and may replace it. Returning
// nil keeps the current result.
type ResponseHook func(c *Context, result any) (any, error)

// ErrorHook may translate an error into a payload. A nil or empty payload
// means "not handled"; a returned error is logged and treated the same way.
type ErrorHook func(c *Context, err error) (*ErrorPayload, error)

// MiddlewareSet is the ordered hook lists attached to one route.
type MiddlewareSet struct {
	OnRequest        []RequestHook
	OnBeforeResponse []ResponseHook
	OnError          []ErrorHook
}

// Empty reports whether no hook is declared.
func (s MiddlewareSet) Empty() bool {
	return len(s.OnRequest) == 0 && len(s.OnBeforeResponse) == 0 && len(s.OnError) == 0
}

// Combine concatenates sets, preserving order within each stage.
func Combine(sets ...MiddlewareSet) MiddlewareSet {
	var out MiddlewareSet
	for _, s := range sets {
		out.OnRequest = append(out.OnRequest, s.OnRequest...)
		out.OnBeforeResponse = append(out.OnBeforeResponse, s.OnBeforeResponse...)
		out.OnError = append(out.OnError, s.OnError...)
	}
	return out
}
