package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ttsdumper/internal/asset"
)

// Layout is the output tree of a dump: a root directory holding one
// subdirectory per asset kind.
type Layout struct {
	root string
}

// NewLayout returns a Layout rooted at root. Nothing is created until Ensure
// or Write is called.
func NewLayout(root string) (*Layout, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("storage: output root is required")
	}
	return &Layout{root: filepath.Clean(root)}, nil
}

// Root returns the output root.
func (l *Layout) Root() string {
	if l == nil {
		return ""
	}
	return l.root
}

// Ensure creates the root and every kind subdirectory. It is idempotent.
func (l *Layout) Ensure() error {
	for _, kind := range asset.Kinds {
		dir := filepath.Join(l.root, kind.Dir())
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: ensure %s: %w", dir, err)
		}
	}
	return nil
}

// Path returns where the task's payload is stored.
func (l *Layout) Path(task asset.Task) string {
	return filepath.Join(l.root, task.Kind.Dir(), task.LocalName)
}

// Exists reports whether a regular file is already stored for the task.
func (l *Layout) Exists(task asset.Task) (bool, error) {
	info, err := os.Stat(l.Path(task))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat: %w", err)
	}
	return info.Mode().IsRegular(), nil
}

// Write stores data for the task, replacing any existing file.
func (l *Layout) Write(ctx context.Context, task asset.Task, data []byte) error {
	if l == nil {
		return errors.New("storage: no layout configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkName(task); err != nil {
		return err
	}
	full := l.Path(task)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("storage: write file: %w", err)
	}
	return nil
}

// checkName keeps writes inside the kind directory.
func checkName(task asset.Task) error {
	if !task.Kind.Valid() {
		return fmt.Errorf("storage: invalid asset kind %d", int(task.Kind))
	}
	name := task.LocalName
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("storage: invalid file name %q", name)
	}
	return nil
}
