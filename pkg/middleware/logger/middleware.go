package logger

import (
	"bytes"
	"io"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/transport/httpx"
)

// Middleware writes one access log line per request.
type Middleware struct {
	log  *zap.Logger
	body *bodyAllowlist
}

func NewMiddleware(access *zap.Logger, bodyPaths ...string) *Middleware {
	if access == nil {
		access = zap.NewNop()
	}
	return &Middleware{log: access, body: newBodyAllowlist(bodyPaths...)}
}

// AddBodyLogPaths extends the set of paths whose JSON bodies are logged.
func (m *Middleware) AddBodyLogPaths(paths ...string) { m.body.add(paths...) }

// Middleware logs every request after it is served. The line is written at
// error level for 5xx, warn for 4xx and info otherwise. Bodies are only
// buffered for allowlisted routes, and only up to maxLoggedBody.
func (m *Middleware) Middleware(ca *auth.Middleware) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := httpx.Wrap(w, r)
			body := m.peekBody(r)
			start := time.Now()

			defer func() {
				status := ww.Status()
				fields := append(callerFields(ca, r),
					zap.String("dateTime", start.UTC().Format(time.RFC1123)),
					zap.String("requestId", chimd.GetReqID(r.Context())),
					zap.String("httpScheme", scheme(r)),
					zap.String("httpProto", r.Proto),
					zap.String("httpMethod", r.Method),
					zap.String("remoteAddr", r.RemoteAddr),
					zap.String("uri", r.URL.Path),
					zap.String("route", httpx.RoutePattern(r)),
					zap.Duration("lat", time.Since(start)),
					zap.Int("responseSize", ww.BytesWritten()),
					zap.Int("status", status),
				)
				if body != nil {
					fields = append(fields, zap.ByteString("requestData", body))
				}
				if ce := m.log.Check(levelFor(status), ""); ce != nil {
					ce.Write(fields...)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// peekBody copies a loggable body and puts the full stream back on r. It
// returns nil when the body must not be logged.
func (m *Middleware) peekBody(r *http.Request) []byte {
	if !m.body.wants(r) {
		return nil
	}
	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody+1))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil || len(head) == 0 || len(head) > maxLoggedBody {
		return nil
	}
	return head
}

func callerFields(ca *auth.Middleware, r *http.Request) []zap.Field {
	if ca == nil {
		return []zap.Field{zap.Bool("isAuthenticated", false)}
	}
	u := ca.GetUser(r.Context())
	return []zap.Field{
		zap.Bool("isAuthenticated", ca.IsAuthenticated(r.Context())),
		zap.String("username", u.Username),
		zap.String("role", u.Role.Name),
		zap.String("authenticationProvider", u.AuthenticationSource.Provider),
	}
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
