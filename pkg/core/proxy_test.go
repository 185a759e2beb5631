package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/manifest"
)

func echoModule(c *event.Context) (any, error) {
	return map[string]string{
		"module":    c.ModuleName,
		"remaining": c.RemainingPath,
		"base":      c.BasePath,
		"param":     c.Params["module"],
	}, nil
}

func proxyFixture(t *testing.T, file string, m manifest.Module) (*fixture, Report) {
	t.Helper()
	f := newFixture(t)
	touch(t, f.root, "modules/billing/routes/invoices.get.go")
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "modules", "inventory"), 0o755))
	f.add(t, file, m)

	rep := f.g.RegisterTree(f.global())
	require.NoError(t, rep.Err)
	return f, rep
}

func TestProxyDispatchesToExistingModule(t *testing.T) {
	f, rep := proxyFixture(t, "routes/api/mount/[module].go", manifest.Module{Handler: echoModule})
	require.Len(t, rep.Routes, 1)
	assert.Equal(t, RegisteredRoute{
		Method:  convention.MethodAll,
		Pattern: "/api/mount/:module/*",
		File:    "routes/api/mount/[module].go",
		Tree:    GlobalTree,
		Proxy:   true,
	}, rep.Routes[0])

	rec := f.do(http.MethodPost, "/api/mount/billing/invoices/7")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"module": "billing",
		"remaining": "/invoices/7",
		"base": "/api/mount",
		"param": "billing"
	}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/mount/inventory/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"remaining":"/"`)
}

func TestProxyUnknownModuleListsAvailable(t *testing.T) {
	f, _ := proxyFixture(t, "routes/api/mount/[module].go", manifest.Module{Default: echoModule})

	rec := f.do(http.MethodGet, "/api/mount/ghost/x")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{
		"success": false,
		"message": "Module 'ghost' not found",
		"availableModules": ["billing", "inventory"]
	}`, rec.Body.String())

	// the module list is read at request time
	require.NoError(t, os.MkdirAll(filepath.Join(f.g.ModulesRoot, "ghost"), 0o755))
	rec = f.do(http.MethodGet, "/api/mount/ghost/x")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProxyRequiresModuleName(t *testing.T) {
	p := &Proxy{BasePath: "/api/mount", ModulesRoot: t.TempDir(), Handler: echoModule}
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/mount/", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Module name is required"}`, rec.Body.String())
}

func TestProxyHandlerErrors(t *testing.T) {
	f, _ := proxyFixture(t, "routes/[module].go", manifest.Module{Handler: func(c *event.Context) (any, error) {
		switch c.ModuleName {
		case "billing":
			return nil, event.NotFound("invoice not found").WithDetails(map[string]string{"id": "7"})
		default:
			panic("module exploded")
		}
	}})

	rec := f.do(http.MethodGet, "/billing/invoices/7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"invoice not found","details":{"id":"7"}}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/inventory/x")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body, "details")
}

func TestProxyDoesNotWriteTwice(t *testing.T) {
	f, _ := proxyFixture(t, "routes/api/[module].go", manifest.Module{Handler: func(c *event.Context) (any, error) {
		c.Response.Header().Set("Content-Type", "text/plain")
		c.Response.WriteHeader(http.StatusAccepted)
		_, _ = c.Response.Write([]byte("streamed"))
		return map[string]string{"ignored": "yes"}, nil
	}})

	rec := f.do(http.MethodGet, "/api/billing/x")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "streamed", rec.Body.String())
}

func TestProxyVerbSuffix(t *testing.T) {
	f, rep := proxyFixture(t, "routes/api/mount/[module].post.go", manifest.Module{Handler: echoModule})
	require.Len(t, rep.Routes, 1)
	assert.Equal(t, convention.MethodPost, rep.Routes[0].Method)

	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/api/mount/billing/a").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, f.do(http.MethodGet, "/api/mount/billing/a").Code)
}

func TestProxyWithoutHandlerIsALoadFailure(t *testing.T) {
	f := newFixture(t)
	f.add(t, "routes/[module].go", manifest.Module{
		Handlers: map[convention.Method]event.Handler{convention.MethodGet: echoModule},
	})

	rep := f.g.RegisterTree(f.global())
	assert.Empty(t, rep.Routes)
	assert.Equal(t, 1, rep.Failures)
	assert.ErrorIs(t, rep.Err, errNoProxyHandler)
}
