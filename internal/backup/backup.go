// Package backup copies the live data file to and from a directory of
// timestamped snapshots. Copies are whole-file: the store is closed for the
// duration and reopened afterwards, always — a failed copy must never leave
// the application without its store.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Reopener is the slice of the store a Manager needs around a copy.
type Reopener interface {
	Close() error
	Reopen() error
}

type Manager struct {
	dataPath string
	dir      string
	store    Reopener
	now      func() time.Time
}

func NewManager(dataPath, dir string, store Reopener) *Manager {
	return &Manager{dataPath: dataPath, dir: dir, store: store, now: time.Now}
}

// Create writes a timestamped copy of the data file into the backup
// directory and returns its path. Backup names follow
// <base>_<YYYYMMDDHHMMSS><ext>.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}
	base := filepath.Base(m.dataPath)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s_%s%s", strings.TrimSuffix(base, ext), m.now().Format("20060102150405"), ext)
	target := filepath.Join(m.dir, name)

	if err := m.store.Close(); err != nil {
		return "", fmt.Errorf("close store for backup: %w", err)
	}
	copyErr := copyFile(m.dataPath, target)
	if err := m.store.Reopen(); err != nil {
		return "", fmt.Errorf("reopen store after backup: %w", err)
	}
	if copyErr != nil {
		return "", fmt.Errorf("copy data file: %w", copyErr)
	}
	slog.InfoContext(ctx, "Backup created", "path", target)
	return target, nil
}

// List returns backup file names, newest first. A missing backup directory
// means no backups.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}
	ext := filepath.Ext(m.dataPath)
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, e.Name())
	}
	// Timestamped names sort lexically; reverse gives newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// Restore overwrites the live data file with the named backup. The store is
// reopened even when the copy fails so the application stays usable.
func (m *Manager) Restore(ctx context.Context, name string) error {
	src := filepath.Join(m.dir, name)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("backup %s: %w", name, err)
	}
	if err := m.store.Close(); err != nil {
		return fmt.Errorf("close store for restore: %w", err)
	}
	copyErr := copyFile(src, m.dataPath)
	if err := m.store.Reopen(); err != nil {
		return fmt.Errorf("reopen store after restore: %w", err)
	}
	if copyErr != nil {
		return fmt.Errorf("restore data file: %w", copyErr)
	}
	slog.InfoContext(ctx, "Backup restored", "name", name)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
