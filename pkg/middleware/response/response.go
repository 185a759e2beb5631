// Package response holds onBeforeResponse and onError hooks that shape
// route results.
package response

import (
	"net/http"
	"reflect"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/codec"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

// Meta is added under "meta" by AddMetadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Path      string `json:"path"`
	Method    string `json:"method"`
}

// AddTimestamp adds an RFC 3339 "timestamp" field to object results.
func AddTimestamp(_ *event.Context, result any) (any, error) {
	return merge(result, "timestamp", time.Now().UTC().Format(time.RFC3339Nano))
}

// AddMetadata adds request metadata to object results. The request id is
// the one chi assigned, or a fresh UUID.
func AddMetadata(c *event.Context, result any) (any, error) {
	id := chimd.GetReqID(c.Context())
	if id == "" {
		id = uuid.NewString()
	}
	return merge(result, "meta", Meta{RequestID: id, Path: c.Path, Method: c.Method})
}

// merge returns result as a map with key set. Results that do not encode
// to a JSON object are left alone (nil means "no change").
func merge(result any, key string, v any) (any, error) {
	if result == nil {
		return nil, nil
	}
	if m, ok := result.(map[string]any); ok {
		out := make(map[string]any, len(m)+1)
		for k, x := range m {
			out[k] = x
		}
		out[key] = v
		return out, nil
	}
	if !objectLike(result) {
		return nil, nil
	}

	raw, err := codec.JSON.Marshal(result)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := codec.JSON.Unmarshal(raw, &m); err != nil || m == nil {
		return nil, nil
	}
	m[key] = v
	return m, nil
}

func objectLike(v any) bool {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct || t.Kind() == reflect.Map
}

// ErrorHandler normalises auth and rate limit failures. Other errors are
// left to the default handling.
func ErrorHandler(_ *event.Context, err error) (*event.ErrorPayload, error) {
	switch event.StatusOf(err) {
	case http.StatusUnauthorized:
		return &event.ErrorPayload{
			Status:  http.StatusUnauthorized,
			Error:   "Unauthorized",
			Message: "Authentication token is invalid or missing",
			Code:    "AUTH_REQUIRED",
		}, nil
	case http.StatusForbidden:
		return &event.ErrorPayload{
			Status:  http.StatusForbidden,
			Error:   "Forbidden",
			Message: "You do not have permission to access this resource",
			Code:    "FORBIDDEN",
		}, nil
	case http.StatusTooManyRequests:
		return &event.ErrorPayload{
			Status:  http.StatusTooManyRequests,
			Error:   "Too Many Requests",
			Message: "Request rate limit exceeded",
			Code:    "RATE_LIMIT_EXCEEDED",
		}, nil
	}
	return nil, nil
}
