// Package paths locates the world a command operates on. A world is any
// directory holding a .narrata marker directory with the config and the
// database inside it.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/narrata/pkg/types"
)

// Names inside a world.
const (
	MarkerDirName  = ".narrata"
	ConfigFileName = "config.yaml"
	EnvFileName    = ".env"
)

// EnvWorld overrides discovery from the working directory.
const EnvWorld = "NARRATA_WORLD"

// workingDir can be overridden in tests.
var workingDir = os.Getwd

// World is a resolved world root and the files inside it.
type World struct {
	Root       string // directory containing .narrata
	Dir        string // the .narrata directory
	ConfigPath string
	EnvPath    string
}

// New returns the layout of the world rooted at root. Nothing is checked
// on disk.
func New(root string) (World, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return World{}, err
	}
	dir := filepath.Join(abs, MarkerDirName)
	return World{
		Root:       abs,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, ConfigFileName),
		EnvPath:    filepath.Join(abs, EnvFileName),
	}, nil
}

// DatabasePath resolves the configured database file. Relative names are
// taken relative to the .narrata directory.
func (w World) DatabasePath(name string) string {
	if name == "" {
		name = types.DefaultDatabase
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.Dir, name)
}

// Find resolves the world following the precedence chain:
// flag > NARRATA_WORLD env > nearest ancestor of the working directory
// holding .narrata. Explicit roots must already be initialized.
func Find(flag string) (World, error) {
	if flag != "" {
		return existing(flag)
	}
	if env := os.Getenv(EnvWorld); env != "" {
		return existing(env)
	}
	cwd, err := workingDir()
	if err != nil {
		return World{}, fmt.Errorf("reading working directory: %w", err)
	}
	return FindFrom(cwd)
}

// FindFrom walks up from start to the first directory holding .narrata.
func FindFrom(start string) (World, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return World{}, err
	}
	for {
		if isDir(filepath.Join(dir, MarkerDirName)) {
			return New(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return World{}, types.ErrNotInProject
		}
		dir = parent
	}
}

// Target returns the root init should use: the flag, then NARRATA_WORLD,
// then the working directory. It does not require the world to exist.
func Target(flag string) (World, error) {
	if flag != "" {
		return New(flag)
	}
	if env := os.Getenv(EnvWorld); env != "" {
		return New(env)
	}
	cwd, err := workingDir()
	if err != nil {
		return World{}, fmt.Errorf("reading working directory: %w", err)
	}
	return New(cwd)
}

func existing(root string) (World, error) {
	w, err := New(root)
	if err != nil {
		return World{}, err
	}
	if !isDir(w.Dir) {
		return World{}, fmt.Errorf("%s: %w", w.Root, types.ErrNotInProject)
	}
	return w, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
