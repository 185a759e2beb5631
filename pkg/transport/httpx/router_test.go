package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToChi(t *testing.T) {
	assert.Equal(t, "/items/{id}", ToChi("/items/:id"))
	assert.Equal(t, "/{org}/repos/*", ToChi("/:org/repos/*"))
	assert.Equal(t, "/api/mount/{module}/*", ToChi("/api/mount/:module/*"))
	assert.Equal(t, "/plain", ToChi("/plain"))
}

func TestChiRouterParamsAndWildcard(t *testing.T) {
	r := NewChi()
	var got map[string]string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { got = Params(r) })

	require.NoError(t, r.Handle(http.MethodGet, "/items/:id", h))
	require.NoError(t, r.HandleAll("/files/*", h))

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, map[string]string{"id": "42"}, got)

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/files/a/b.txt", nil))
	assert.Equal(t, "a/b.txt", got["*"])
}

func TestChiRouterRegistrationPanicsBecomeErrors(t *testing.T) {
	r := NewChi()
	h := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	err := r.Handle("BREW", "/coffee", h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BREW /coffee")

	err = r.Handle(http.MethodGet, "no-leading-slash", h)
	require.Error(t, err)

	// the router keeps working after a rejected registration
	require.NoError(t, r.Handle(http.MethodGet, "/ok", h))
}

func TestParseJSON(t *testing.T) {
	var body any
	h := ParseJSON(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body = BodyFrom(r)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.IsType(t, map[string]any{}, body)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid JSON body"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"aaaaaaaaaaaaaaaaaaaa":1}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestWrapAndWritten(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ww := Wrap(rec, req)
	assert.False(t, Written(ww))
	assert.Same(t, ww, Wrap(ww, req))

	require.NoError(t, WriteJSON(ww, http.StatusCreated, map[string]int{"n": 1}))
	assert.True(t, Written(ww))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
