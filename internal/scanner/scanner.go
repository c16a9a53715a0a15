// Package scanner discovers keymap layout files under a keyboards directory.
//
// Layout files live at keyboards/<keyboard path>/keymaps/<keymap>/<file>.
// The scanner walks the tree, skips VCS, dependency and hidden directories as
// well as anything the root's .gitignore excludes, and turns every matching
// file into a types.KeymapInfo. Results are sorted by path so repeated scans
// of an unchanged tree are identical.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	kerrors "github.com/conneroisu/keymapdoc/internal/errors"
	"github.com/conneroisu/keymapdoc/internal/logging"
	"github.com/conneroisu/keymapdoc/internal/types"
)

// Path segments that anchor a layout file.
const (
	KeyboardsSegment = "keyboards"
	KeymapsSegment   = "keymaps"
)

// DefaultLayoutFiles are the file names treated as layout files.
var DefaultLayoutFiles = []string{"layout.yaml", "keymap.yaml"}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"__pycache__":  {},
	".venv":        {},
	"venv":         {},
}

// Options configure a KeymapScanner.
type Options struct {
	// Root is the keyboards directory to walk.
	Root string
	// LayoutFiles lists accepted file names. Empty means DefaultLayoutFiles.
	LayoutFiles []string
	// RespectGitignore skips paths matched by Root/.gitignore.
	RespectGitignore bool
	Logger           logging.Logger
}

// KeymapScanner finds layout files.
type KeymapScanner struct {
	root        string
	layoutFiles map[string]struct{}
	gitignore   bool
	logger      logging.Logger
}

// NewKeymapScanner creates a scanner for opts.
func NewKeymapScanner(opts Options) *KeymapScanner {
	names := opts.LayoutFiles
	if len(names) == 0 {
		names = DefaultLayoutFiles
	}
	files := make(map[string]struct{}, len(names))
	for _, n := range names {
		files[n] = struct{}{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &KeymapScanner{
		root:        opts.Root,
		layoutFiles: files,
		gitignore:   opts.RespectGitignore,
		logger:      logger.WithComponent("scanner"),
	}
}

// Root returns the directory the scanner walks.
func (s *KeymapScanner) Root() string {
	return s.root
}

// IsLayoutFile reports whether path has one of the accepted file names.
func (s *KeymapScanner) IsLayoutFile(path string) bool {
	_, ok := s.layoutFiles[filepath.Base(path)]
	return ok
}

// ScanDirectory walks the root and returns every keymap found, sorted by
// path. A layout file outside the keyboards/.../keymaps/<name>/ structure
// fails the whole scan.
func (s *KeymapScanner) ScanDirectory(ctx context.Context) ([]types.KeymapInfo, error) {
	if _, err := os.Stat(s.root); err != nil {
		return nil, kerrors.NewIOError(kerrors.ErrCodeFileRead, "cannot open keyboards directory", err).
			WithFile(s.root)
	}

	var gi *ignore.GitIgnore
	if s.gitignore {
		gi = loadGitignore(s.root)
	}

	var files []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(relative(s.root, path)+"/") {
				s.logger.Debug(ctx, "Skipping ignored directory", "path", path)
				return filepath.SkipDir
			}
			return nil
		}

		if !s.IsLayoutFile(path) {
			return nil
		}
		if gi != nil && gi.MatchesPath(relative(s.root, path)) {
			s.logger.Debug(ctx, "Skipping ignored layout file", "path", path)
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)

	infos := make([]types.KeymapInfo, 0, len(files))
	for _, f := range files {
		info, err := ParsePath(f)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}

	s.logger.Debug(ctx, "Discovered keymaps", "root", s.root, "count", len(infos))
	return infos, nil
}

// ScanFile identifies a single layout file.
func (s *KeymapScanner) ScanFile(path string) (types.KeymapInfo, error) {
	if !s.IsLayoutFile(path) {
		return types.KeymapInfo{}, kerrors.ErrMalformedPath(path, "not a layout file")
	}
	return ParsePath(path)
}

// ParsePath derives the keymap identity from a layout file path such as
// keyboards/ferris/sweep/keymaps/qwerty/layout.yaml, which yields id
// "ferris-sweep-qwerty", keyboard "ferris/sweep" and keymap "qwerty".
func ParsePath(path string) (types.KeymapInfo, error) {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")

	kb := slices.Index(parts, KeyboardsSegment)
	if kb == -1 {
		return types.KeymapInfo{}, kerrors.ErrMalformedPath(path, "no 'keyboards' directory found")
	}

	km := slices.Index(parts[kb+1:], KeymapsSegment)
	if km == -1 {
		return types.KeymapInfo{}, kerrors.ErrMalformedPath(path, "no 'keymaps' directory found")
	}
	km += kb + 1

	keyboard := parts[kb+1 : km]
	if len(keyboard) == 0 {
		return types.KeymapInfo{}, kerrors.ErrMalformedPath(path, "no keyboard between 'keyboards' and 'keymaps'")
	}
	// The keymap directory must sit between "keymaps" and the file name.
	if km+2 >= len(parts) {
		return types.KeymapInfo{}, kerrors.ErrMalformedPath(path, "no keymap directory after 'keymaps'")
	}
	keymapName := parts[km+1]

	return types.KeymapInfo{
		ID:       strings.Join(append(slices.Clone(keyboard), keymapName), "-"),
		Keyboard: strings.Join(keyboard, "/"),
		Keymap:   keymapName,
		Path:     path,
	}, nil
}

func relative(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
