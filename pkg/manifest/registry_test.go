package manifest

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"github.com/joeydtaylor/steeze-fsrouter/pkg/event"
)

func okHandler(*event.Context) (any, error) { return "ok", nil }

func TestRegistryLoad(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("routes/health.get.go", Module{Default: okHandler}))

	m, err := r.Load("routes/health.get.go")
	require.NoError(t, err)
	assert.NotNil(t, m.Default)

	// keys are normalised
	assert.True(t, r.Has("/routes/./health.get.go"))
	assert.True(t, r.Has(`routes\health.get.go`))
}

func TestRegistryDuplicateKey(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("routes/a.go", Module{Default: okHandler}))
	err := r.Register("routes//a.go", Module{Default: okHandler})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistryMissingKey(t *testing.T) {
	r := NewRegistry()
	_, err := r.Load("routes/ghost.go")

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "routes/ghost.go", le.Key)
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestRegistryFactoryFailures(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("syntax error")
	require.NoError(t, r.RegisterFunc("routes/bad.go", func() (Module, error) { return Module{}, boom }))
	require.NoError(t, r.RegisterFunc("routes/panics.go", func() (Module, error) { panic("top-level throw") }))
	require.NoError(t, r.Register("routes/empty.go", Module{}))

	_, err := r.Load("routes/bad.go")
	assert.ErrorIs(t, err, boom)

	_, err = r.Load("routes/panics.go")
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Err.Error(), "top-level throw")

	_, err = r.Load("routes/empty.go")
	assert.ErrorIs(t, err, ErrNothingExported)
}

func TestRegistryFactoryRunsOnce(t *testing.T) {
	r := NewRegistry()
	var calls int32
	require.NoError(t, r.RegisterFunc("routes/x.go", func() (Module, error) {
		atomic.AddInt32(&calls, 1)
		return Module{Default: okHandler}, nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Load("routes/x.go")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, calls)
}

func TestRegistryKeysSorted(t *testing.T) {
	r := NewRegistry()
	for _, k := range []string{"routes/b.go", "modules/x/routes/a.go", "routes/a.go"} {
		require.NoError(t, r.Register(k, Module{Default: okHandler}))
	}
	assert.Equal(t, []string{"modules/x/routes/a.go", "routes/a.go", "routes/b.go"}, r.Keys())
}

func TestModuleBinding(t *testing.T) {
	get := func(*event.Context) (any, error) { return "get", nil }
	m := Module{
		Handlers: map[convention.Method]event.Handler{convention.MethodPost: okHandler, convention.MethodGet: get},
		Default:  okHandler,
	}
	require.NoError(t, m.Validate())
	assert.Equal(t, []convention.Method{convention.MethodGet, convention.MethodPost}, m.Verbs())

	out, _ := m.For(convention.MethodGet)(nil)
	assert.Equal(t, "get", out)
	out, _ = m.For(convention.MethodDelete)(nil)
	assert.Equal(t, "ok", out)

	bad := Module{Handlers: map[convention.Method]event.Handler{"BREW": okHandler}}
	assert.Error(t, bad.Validate())

	assert.True(t, (&Module{}).Middleware().Empty())
	withHooks := Module{Default: okHandler, OnRequest: []event.RequestHook{func(*event.Context) error { return nil }}}
	assert.Len(t, withHooks.Middleware().OnRequest, 1)
}
