package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DirStatus describes a directory fuzzword wants to keep its config in.
type DirStatus struct {
	Exists   bool
	Writable bool
	Error    error
}

// FileExists reports whether path exists, file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WriteTOMLFile encodes v next to path and renames it into place, so readers
// never see a half written config.
func WriteTOMLFile(v any, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".fuzzword-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// AbsPath returns path made absolute, or "unknown" for an empty path.
func AbsPath(path string) string {
	if path == "" {
		return "unknown"
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func testWriteAccess(dir string) bool {
	f, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		log.Debugf("Directory %s is not writable: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// GetExecutableDir returns the directory holding the running binary. It is the
// last place fuzzword looks for a config directory.
func GetExecutableDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(execPath), nil
}

// CheckDirStatus creates dir when missing and reports whether config files can
// be written there.
func CheckDirStatus(dir string) DirStatus {
	if err := EnsureDir(dir); err != nil {
		log.Debugf("Cannot create directory %s: %v", dir, err)
		return DirStatus{Error: err}
	}
	return DirStatus{Exists: true, Writable: testWriteAccess(dir)}
}
