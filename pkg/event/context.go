package event

import (
	"context"
	"net"
	"net/http"
	"net/url"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

// Context is created fresh for every request and never shared.
type Context struct {
	Method   string
	Path     string
	Query    url.Values
	Params   map[string]string
	Body     any
	Request  *http.Request
	Response httpx.ResponseWriter

	// Set by the module proxy.
	ModuleName    string
	RemainingPath string
	BasePath      string

	status int
	locals map[string]any
}

// NewContext builds the per-request context from the substrate's handles.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return &Context{
		Method:   r.Method,
		Path:     r.URL.Path,
		Query:    r.URL.Query(),
		Params:   httpx.Params(r),
		Body:     httpx.BodyFrom(r),
		Request:  r,
		Response: httpx.Wrap(w, r),
	}
}

// Context returns the request's context.Context.
func (c *Context) Context() context.Context { return c.Request.Context() }

// Set stores a request-local value for later stages.
func (c *Context) Set(key string, v any) {
	if c.locals == nil {
		c.locals = map[string]any{}
	}
	c.locals[key] = v
}

func (c *Context) Get(key string) (any, bool) {
	v, ok := c.locals[key]
	return v, ok
}

// SetStatus sets the status used when the pipeline serialises a result.
func (c *Context) SetStatus(code int) { c.status = code }

// Written reports whether a response has already been sent.
func (c *Context) Written() bool { return httpx.Written(c.Response) }

// JSON sends v as the response body.
func (c *Context) JSON(status int, v any) error {
	return httpx.WriteJSON(c.Response, status, v)
}

// ClientIP is the host part of the remote address.
func (c *Context) ClientIP() string {
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

func (c *Context) successStatus() int {
	if c.status > 0 {
		return c.status
	}
	return http.StatusOK
}
