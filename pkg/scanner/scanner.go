// pkg/scanner/scanner.go
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/steeze-fsrouter/pkg/convention"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// ErrTreeMissing is returned when a tree root does not exist. Callers log
// it and move on.
var ErrTreeMissing = errors.New("route tree missing")

// Tree is one logical route tree mounted under BaseURL.
type Tree struct {
	Name    string // "global" or the module directory name
	Root    string
	BaseURL string
}

// Candidate is a discovered route file.
type Candidate struct {
	FullPath string
	BaseURL  string
	FileName string
	Ext      string
	Tree     string
}

// Stem is the file name without its route extension.
func (c Candidate) Stem() string { return strings.TrimSuffix(c.FileName, c.Ext) }

// Scanner walks route trees. It never writes to the file system.
type Scanner struct {
	Extensions []string
	Exclude    []string
	Log        *zap.Logger
}

func New(exts, exclude []string, log *zap.Logger) *Scanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{Extensions: exts, Exclude: exclude, Log: log}
}

// Scan returns the route files of a tree. Within each directory entries are
// visited in lexical order, sub-directories before files. An unreadable
// sub-directory is reported in the returned error while the rest of the
// tree is still returned.
func (s *Scanner) Scan(t Tree) ([]Candidate, error) {
	info, err := os.Stat(t.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTreeMissing, t.Root)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrTreeMissing, t.Root)
	}

	var out []Candidate
	err = s.walk(t, t.Root, t.BaseURL, map[string]struct{}{}, &out)
	return out, err
}

// walk scans dir. ancestors holds the resolved paths of the directories
// above it, so a symlink pointing back up the tree is skipped.
func (s *Scanner) walk(t Tree, dir, base string, ancestors map[string]struct{}, out *[]Candidate) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	if _, loop := ancestors[real]; loop {
		s.Log.Warn("symlink loop in route tree, skipping",
			zap.String("tree", t.Name), zap.String("dir", dir), zap.String("target", real))
		return nil
	}
	ancestors[real] = struct{}{}
	defer delete(ancestors, real)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	var errs error
	var files []fs.DirEntry
	for _, e := range entries {
		if !isDir(dir, e) {
			files = append(files, e)
			continue
		}
		next := base
		if seg := convention.SegmentFor(e.Name()); seg != "" {
			next = base + "/" + seg
		}
		errs = multierr.Append(errs, s.walk(t, filepath.Join(dir, e.Name()), next, ancestors, out))
	}

	for _, f := range files {
		ext, ok := s.match(f.Name())
		if !ok {
			continue
		}
		*out = append(*out, Candidate{
			FullPath: filepath.Join(dir, f.Name()),
			BaseURL:  base,
			FileName: f.Name(),
			Ext:      ext,
			Tree:     t.Name,
		})
	}
	return errs
}

func (s *Scanner) match(name string) (string, bool) {
	for _, x := range s.Exclude {
		if x != "" && strings.HasSuffix(name, x) {
			return "", false
		}
	}
	for _, ext := range s.Extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return ext, true
		}
	}
	return "", false
}

// isDir follows symlinks so linked sub-trees are scanned too.
func isDir(parent string, e fs.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}
