package event

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Outcomes reported on the pipeline's terminal log line.
const (
	OutcomeOK      = "200"
	OutcomeError   = "ERROR"
	OutcomeHandled = "ERROR (handled)"
)

const tracerName = "steeze-fsrouter"

// Observer receives one call per finished pipeline run.
type Observer interface {
	ObservePipeline(method, route, outcome string, elapsed time.Duration)
}

// Pipeline wraps route handlers. It is handed to the registrar explicitly.
type Pipeline struct {
	Log      *zap.Logger
	Tracer   trace.Tracer
	Observer Observer
}

// NewPipeline uses the global OpenTelemetry tracer provider.
func NewPipeline(log *zap.Logger, obs Observer) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{Log: log, Tracer: otel.Tracer(tracerName), Observer: obs}
}

// Wrap returns the callable registered for route. Each request gets a
// fresh Context; stages of one request never overlap.
func (p *Pipeline) Wrap(route string, h Handler, set MiddlewareSet) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx, span := p.tracer().Start(r.Context(), r.Method+" "+route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()

		c := NewContext(w, r.WithContext(ctx))
		result, err := p.run(c, h, set)

		outcome := OutcomeOK
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			outcome = p.fail(c, set.OnError, err, start)
		} else {
			p.respond(c, result, start)
		}
		span.SetAttributes(attribute.String("steeze.outcome", outcome))

		if p.Observer != nil {
			p.Observer.ObservePipeline(r.Method, route, outcome, time.Since(start))
		}
	})
}

func (p *Pipeline) run(c *Context, h Handler, set MiddlewareSet) (any, error) {
	for _, fn := range set.OnRequest {
		if err := call(func() error { return fn(c) }); err != nil {
			return nil, err
		}
	}

	var result any
	err := call(func() error {
		var herr error
		result, herr = h(c)
		return herr
	})
	if err != nil {
		return nil, err
	}

	for _, fn := range set.OnBeforeResponse {
		var next any
		err := call(func() error {
			var herr error
			next, herr = fn(c, result)
			return herr
		})
		if err != nil {
			return nil, err
		}
		if next != nil {
			result = next
		}
	}
	return result, nil
}

func (p *Pipeline) respond(c *Context, result any, start time.Time) {
	p.line(c, start, OutcomeOK).Info(summary(c, start, OutcomeOK))
	if result == nil {
		return
	}
	if c.Written() {
		p.Log.Warn("response already sent, result dropped",
			zap.String("method", c.Method), zap.String("path", c.Path))
		return
	}
	if err := c.JSON(c.successStatus(), result); err != nil {
		p.Log.Error("response write failed", zap.String("path", c.Path), zap.Error(err))
	}
}

func (p *Pipeline) fail(c *Context, hooks []ErrorHook, err error, start time.Time) string {
	if handled := p.handleError(c, hooks, err); handled != nil {
		p.line(c, start, OutcomeHandled).Error(summary(c, start, OutcomeHandled), zap.Error(err))
		status := handled.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		p.send(c, status, handled)
		return OutcomeHandled
	}

	status := StatusOf(err)
	fields := []zap.Field{zap.Error(err), zap.Int("status", status)}
	var pe *PanicError
	switch {
	case errors.As(err, &pe):
		fields = append(fields, zap.ByteString("stack", pe.Stack))
	case status >= http.StatusInternalServerError:
		fields = append(fields, zap.Stack("stack"))
	}
	p.line(c, start, OutcomeError).Error(summary(c, start, OutcomeError), fields...)
	p.send(c, status, genericBody(err))
	return OutcomeError
}

// handleError tries each hook until one returns a non-empty payload. A
// failing hook is logged and skipped.
func (p *Pipeline) handleError(c *Context, hooks []ErrorHook, cause error) *ErrorPayload {
	for i, fn := range hooks {
		var payload *ErrorPayload
		err := call(func() error {
			var herr error
			payload, herr = fn(c, cause)
			return herr
		})
		if err != nil {
			p.Log.Error("onError middleware failed",
				zap.Int("index", i), zap.String("path", c.Path), zap.Error(err))
			continue
		}
		if !payload.Empty() {
			return payload
		}
	}
	return nil
}

func (p *Pipeline) send(c *Context, status int, body any) {
	if c.Written() {
		p.Log.Warn("response already sent, error body dropped",
			zap.String("method", c.Method), zap.String("path", c.Path), zap.Int("status", status))
		return
	}
	if err := c.JSON(status, body); err != nil {
		p.Log.Error("error response write failed", zap.String("path", c.Path), zap.Error(err))
	}
}

func (p *Pipeline) line(c *Context, start time.Time, outcome string) *zap.Logger {
	return p.Log.With(
		zap.String("method", c.Method),
		zap.String("path", c.Path),
		zap.Int64("durationMs", time.Since(start).Milliseconds()),
		zap.String("outcome", outcome),
	)
}

func (p *Pipeline) tracer() trace.Tracer {
	if p.Tracer == nil {
		return otel.Tracer(tracerName)
	}
	return p.Tracer
}

func summary(c *Context, start time.Time, outcome string) string {
	return fmt.Sprintf("%s %s - %dms - %s", c.Method, c.Path, time.Since(start).Milliseconds(), outcome)
}

// call runs fn, turning a panic into a *PanicError.
func call(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return fn()
}
