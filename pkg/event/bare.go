package event

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Bare binds a handler without any pipeline stages. Used for modules that
// declare no hooks. Panics are recovered into the generic JSON error body
// and server errors are logged with their stack.
func Bare(h Handler, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := NewContext(w, r)
		var result any
		err := call(func() error {
			var herr error
			result, herr = h(c)
			return herr
		})

		if err != nil {
			status := StatusOf(err)
			if status >= http.StatusInternalServerError {
				fields := []zap.Field{
					zap.String("method", c.Method),
					zap.String("path", c.Path),
					zap.Int("status", status),
					zap.Error(err),
				}
				var pe *PanicError
				if errors.As(err, &pe) {
					fields = append(fields, zap.ByteString("stack", pe.Stack))
				} else {
					fields = append(fields, zap.Stack("stack"))
				}
				log.Error("handler failed", fields...)
			}
			if c.Written() {
				log.Warn("response already sent, error body dropped",
					zap.String("method", c.Method), zap.String("path", c.Path), zap.Int("status", status))
				return
			}
			_ = c.JSON(status, genericBody(err))
			return
		}

		if c.Written() {
			return
		}
		if result != nil {
			_ = c.JSON(c.successStatus(), result)
		}
	})
}
