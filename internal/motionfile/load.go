package motionfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse decodes and validates a motion file. JSON documents are accepted too.
func Parse[T any](data []byte) (*MotionFile[T], error) {
	var mf MotionFile[T]
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, err
	}
	if err := mf.Validate(); err != nil {
		return nil, err
	}
	return &mf, nil
}

// Load reads a single motion file from disk.
func Load[T any](path string) (*MotionFile[T], error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("motion file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read motion file %s: %w", path, err)
	}

	mf, err := Parse[T](data)
	if err != nil {
		return nil, fmt.Errorf("parse motion file %s: %w", path, err)
	}
	mf.Source = path
	return mf, nil
}

// List returns the paths of the motion files in dir, sorted. Subdirectories
// are skipped and a missing directory yields no paths.
func List(dir string) ([]string, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read motion dir %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !IsMotionFile(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// IsMotionFile reports whether path has a motion file extension.
func IsMotionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}
