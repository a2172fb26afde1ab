package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/clock"
	"github.com/existflow/paperclip/internal/config"
	"github.com/existflow/paperclip/internal/db"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/storage"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
)

// session is one load, mutate, save cycle against the configured backend
type session struct {
	cfg     *config.Config
	backend storage.Storage
	store   *workspace.Store
	clock   clock.Clock
}

// openStorage opens the backend selected by cfg.Storage
func openStorage(cfg *config.Config) (storage.Storage, error) {
	path := cfg.DataPath()
	if cfg.Storage == config.StorageJSON {
		return storage.OpenJSON(path)
	}
	return db.Open(path)
}

// appClock returns the system clock unless PAPERCLIP_NOW pins the time
func appClock() clock.Clock {
	if v := os.Getenv("PAPERCLIP_NOW"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return clock.Fixed{T: t}
		}
		logger.Warn("Ignoring malformed PAPERCLIP_NOW", logger.F("value", v))
	}
	return clock.System{}
}

func openSession(ctx context.Context) (*session, error) {
	backend, err := openStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	snap, err := backend.Load(ctx)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	c := appClock()
	store := workspace.New(workspace.WithHistorySize(cfg.HistorySize), workspace.WithClock(c))
	if err := store.Restore(snap); err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	if store.Len() == 0 && cfg.DefaultWorkspace != "" {
		if _, err := store.Create(cfg.DefaultWorkspace, ""); err != nil {
			logger.Warn("Invalid default workspace", logger.F("name", cfg.DefaultWorkspace), logger.F("error", err))
		}
	}
	store.EnsureDefault()

	if workspaceFlag != "" {
		if err := store.SetActive(workspaceFlag); err != nil {
			backend.Close()
			return nil, err
		}
	}

	logger.Debug("Session opened",
		logger.F("storage", cfg.Storage),
		logger.F("workspaces", store.Len()),
		logger.F("active", store.Active().Name))
	return &session{cfg: cfg, backend: backend, store: store, clock: c}, nil
}

// withSession runs fn and saves afterwards when fn reports a change
func withSession(ctx context.Context, fn func(s *session) (bool, error)) error {
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.backend.Close()

	changed, err := fn(s)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(ctx)
}

func (s *session) save(ctx context.Context) error {
	if err := s.backend.Save(ctx, s.store.Snapshot()); err != nil {
		logger.Error("Failed to save data", logger.F("error", err))
		return fmt.Errorf("failed to save data: %w", err)
	}
	return nil
}

func (s *session) workspace() *workspace.Workspace {
	return s.store.Active()
}

func (s *session) tree() *tree.Tree {
	return s.store.Active().Tree()
}

func (s *session) now() time.Time {
	return s.clock.Now()
}

// resolve turns a full or abbreviated ID, or an exact description, into a
// todo ID
func (s *session) resolve(ref string) (string, error) {
	t := s.tree()
	id, err := t.Resolve(ref)
	if err == nil || !errors.Is(err, tree.ErrNotFound) {
		return id, err
	}

	var matches []string
	for row := range t.Walk("") {
		if td, _ := t.Get(row.ID); strings.EqualFold(td.Description, strings.TrimSpace(ref)) {
			matches = append(matches, row.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", err
	}
	return "", fmt.Errorf("%w: %d todos named %q, use an ID", tree.ErrNotFound, len(matches), ref)
}
