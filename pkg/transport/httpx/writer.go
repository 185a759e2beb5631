package httpx

import (
	"net/http"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/codec"
)

// ResponseWriter tracks whether a response has started.
type ResponseWriter = chimd.WrapResponseWriter

// Wrap returns w as a ResponseWriter, wrapping it only when needed.
func Wrap(w http.ResponseWriter, r *http.Request) ResponseWriter {
	if ww, ok := w.(ResponseWriter); ok {
		return ww
	}
	return chimd.NewWrapResponseWriter(w, r.ProtoMajor)
}

// Written reports whether a status line has been sent.
func Written(w ResponseWriter) bool { return w.Status() != 0 }

// WriteJSON encodes v with the JSON codec and sends it with status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := codec.JSON.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"response encoding failed"}`))
		return err
	}
	w.Header().Set("Content-Type", codec.JSON.ContentType())
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}
