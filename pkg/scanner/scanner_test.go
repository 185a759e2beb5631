package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func touch(t *testing.T, root string, rel ...string) {
	t.Helper()
	for _, r := range rel {
		p := filepath.Join(root, filepath.FromSlash(r))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("package x\n"), 0o644))
	}
}

func TestScanOrderAndBaseURL(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"health.get.go",
		"about.go",
		"README.md",
		"health_test.go",
		"users/[id].get.go",
		"users/index.go",
		"index/home.go",
		"[org]/repos.get.go",
	)

	s := New([]string{".go"}, []string{"_test.go"}, nil)
	got, err := s.Scan(Tree{Name: "global", Root: root})
	require.NoError(t, err)

	var names []string
	var bases []string
	for _, c := range got {
		names = append(names, filepath.ToSlash(mustRel(t, root, c.FullPath)))
		bases = append(bases, c.BaseURL)
		assert.Equal(t, "global", c.Tree)
		assert.Equal(t, ".go", c.Ext)
	}

	assert.Equal(t, []string{
		"[org]/repos.get.go",
		"index/home.go",
		"users/[id].get.go",
		"users/index.go",
		"about.go",
		"health.get.go",
	}, names)
	assert.Equal(t, []string{"/:org", "", "/users", "/users", "", ""}, bases)
	assert.Equal(t, "[id].get", got[2].Stem())
}

func TestScanMissingTree(t *testing.T) {
	s := New([]string{".go"}, nil, nil)
	_, err := s.Scan(Tree{Name: "global", Root: filepath.Join(t.TempDir(), "nope")})
	require.ErrorIs(t, err, ErrTreeMissing)
}

func TestScanBaseURLPrefix(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "invoices.get.go")

	s := New([]string{".go"}, nil, nil)
	got, err := s.Scan(Tree{Name: "billing", Root: root, BaseURL: "/api/billing"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/api/billing", got[0].BaseURL)
	assert.Equal(t, "billing", got[0].Tree)
}

func TestModuleTrees(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"billing/routes/invoices.get.go",
		"inventory/service.go",
		"shipping/routes/index.go",
		"stray.go",
	)

	core, logs := observer.New(zap.InfoLevel)
	s := New([]string{".go"}, nil, zap.New(core))

	trees, err := s.ModuleTrees(root, "/api")
	require.NoError(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, Tree{Name: "billing", Root: filepath.Join(root, "billing", "routes"), BaseURL: "/api/billing"}, trees[0])
	assert.Equal(t, "/api/shipping", trees[1].BaseURL)

	skipped := logs.FilterMessage("module has no routes directory, skipping").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, "inventory", skipped[0].ContextMap()["module"])
}

func TestModuleTreesMissingRoot(t *testing.T) {
	s := New([]string{".go"}, nil, nil)
	_, err := s.ModuleTrees(filepath.Join(t.TempDir(), "modules"), "/api")
	assert.ErrorIs(t, err, ErrTreeMissing)
}

func TestListModulesAndExists(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "beta/x.go", "alpha/y.go", "file.go")

	assert.Equal(t, []string{"alpha", "beta"}, ListModules(root))
	assert.Equal(t, []string{}, ListModules(filepath.Join(root, "missing")))

	assert.True(t, ModuleExists(root, "alpha"))
	assert.False(t, ModuleExists(root, "ghost"))
	assert.False(t, ModuleExists(root, "file.go"))
	assert.False(t, ModuleExists(root, ".."))
	assert.False(t, ModuleExists(root, "alpha/../beta"))
}

func mustRel(t *testing.T, base, p string) string {
	t.Helper()
	r, err := filepath.Rel(base, p)
	require.NoError(t, err)
	return r
}

func TestScanSkipsSymlinkLoops(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "health.get.go", "users/[id].get.go", "shared/list.get.go")
	if err := os.Symlink(root, filepath.Join(root, "users", "back")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "users"), filepath.Join(root, "users", "self")))
	require.NoError(t, os.Symlink(filepath.Join(root, "shared"), filepath.Join(root, "linked")))

	core, logs := observer.New(zap.WarnLevel)
	s := New([]string{".go"}, nil, zap.New(core))
	got, err := s.Scan(Tree{Name: "global", Root: root})
	require.NoError(t, err)

	var names []string
	for _, c := range got {
		names = append(names, filepath.ToSlash(mustRel(t, root, c.FullPath)))
	}
	assert.Equal(t, []string{
		"linked/list.get.go",
		"shared/list.get.go",
		"users/[id].get.go",
		"health.get.go",
	}, names, "a linked directory outside the current branch is still scanned")
	assert.Equal(t, 2, logs.FilterMessage("symlink loop in route tree, skipping").Len())
}
