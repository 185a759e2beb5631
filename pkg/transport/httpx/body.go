package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/codec"
)

// DefaultMaxBody caps JSON request bodies.
const DefaultMaxBody = 1 << 20

type bodyKey struct{}

// ParseJSON decodes application/json request bodies once and stores the
// value on the request context. The raw bytes are restored so downstream
// handlers can still read them.
func ParseJSON(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBody
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
				next.ServeHTTP(w, r)
				return
			}

			data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
			r.Body.Close()
			if err != nil {
				_ = WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
				return
			}
			if int64(len(data)) > maxBytes {
				_ = WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(data))

			if len(bytes.TrimSpace(data)) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			var v any
			if err := codec.JSON.Unmarshal(data, &v); err != nil {
				_ = WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyKey{}, v)))
		})
	}
}

// BodyFrom returns the decoded JSON body, or nil.
func BodyFrom(r *http.Request) any {
	return r.Context().Value(bodyKey{})
}

// WithBody attaches an already decoded body; used by tests and adapters.
func WithBody(r *http.Request, v any) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), bodyKey{}, v))
}
