package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// RoutesDir is the sub-directory of a module that holds its route tree.
const RoutesDir = "routes"

// ModuleTrees lists the module-scoped trees under modulesRoot. Each module
// directory with a routes/ sub-directory is mounted at mount/<name>;
// directories without one are logged and skipped.
func (s *Scanner) ModuleTrees(modulesRoot, mount string) ([]Tree, error) {
	entries, err := os.ReadDir(modulesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTreeMissing, modulesRoot)
		}
		return nil, err
	}

	var trees []Tree
	for _, e := range entries {
		if !isDir(modulesRoot, e) {
			continue
		}
		routes := filepath.Join(modulesRoot, e.Name(), RoutesDir)
		if info, err := os.Stat(routes); err != nil || !info.IsDir() {
			s.Log.Info("module has no routes directory, skipping", zap.String("module", e.Name()))
			continue
		}
		trees = append(trees, Tree{
			Name:    e.Name(),
			Root:    routes,
			BaseURL: path.Join("/", mount, e.Name()),
		})
	}
	return trees, nil
}

// ListModules returns the module directory names under root, sorted. A
// missing or unreadable root yields an empty list.
func ListModules(root string) []string {
	entries, err := os.ReadDir(root)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDir(root, e) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// ModuleExists reports whether root/name is a directory. Names that could
// escape root are never resolved.
func ModuleExists(root, name string) bool {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return false
	}
	info, err := os.Stat(filepath.Join(root, name))
	return err == nil && info.IsDir()
}
