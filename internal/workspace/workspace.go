// Package workspace keeps named, independent todo trees. Each workspace has
// its own command engine, so undo history never crosses workspaces.
package workspace

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/existflow/paperclip/internal/clock"
	"github.com/existflow/paperclip/internal/command"
	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/google/uuid"
)

var (
	ErrDuplicateName = errors.New("workspace name already exists")
	ErrNotFound      = errors.New("workspace not found")
	ErrEmptyName     = errors.New("workspace name is empty")
	ErrLastWorkspace = errors.New("cannot delete the only workspace")
)

// Workspace is one named tree together with its undo history
type Workspace struct {
	model.Workspace
	engine *command.Engine
}

// Engine returns the workspace's command engine
func (w *Workspace) Engine() *command.Engine { return w.engine }

// Tree returns the workspace's tree for read-only use
func (w *Workspace) Tree() *tree.Tree { return w.engine.Tree() }

// Store is the ordered set of workspaces and the active selection
type Store struct {
	workspaces  []*Workspace
	active      string // workspace ID
	historySize int
	clock       clock.Clock
	newID       func() string
	treeOpts    []tree.Option
}

// Option configures a Store
type Option func(*Store)

// WithHistorySize sets the per-workspace undo capacity
func WithHistorySize(n int) Option {
	return func(s *Store) { s.historySize = n }
}

// WithClock sets the clock used for creation timestamps
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the workspace ID generator
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithTreeOptions is passed to every tree the store creates
func WithTreeOptions(opts ...tree.Option) Option {
	return func(s *Store) { s.treeOpts = opts }
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		historySize: command.DefaultCapacity,
		clock:       clock.System{},
		newID:       func() string { return "ws_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds an empty workspace. The first workspace becomes active.
func (s *Store) Create(name, description string) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if s.find(name) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	w := &Workspace{
		Workspace: model.Workspace{
			ID:          s.newID(),
			Name:        name,
			Description: description,
			Color:       model.WorkspaceColors[len(s.workspaces)%len(model.WorkspaceColors)],
			CreatedAt:   s.clock.Now(),
		},
		engine: command.NewEngine(tree.New(s.treeOpts...), s.historySize),
	}
	s.workspaces = append(s.workspaces, w)
	if s.active == "" {
		s.active = w.ID
	}

	logger.Debug("Workspace created", logger.F("workspace", name), logger.F("id", w.ID))
	return w, nil
}

// Delete removes a workspace and its todos. Deleting the active workspace
// activates its neighbour. The last remaining workspace cannot be deleted.
func (s *Store) Delete(name string) error {
	i := s.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if len(s.workspaces) == 1 {
		return ErrLastWorkspace
	}

	removed := s.workspaces[i]
	s.workspaces = slices.Delete(s.workspaces, i, i+1)
	if s.active == removed.ID {
		s.active = s.workspaces[max(i-1, 0)].ID
	}

	logger.Debug("Workspace deleted", logger.F("workspace", removed.Name))
	return nil
}

// Rename changes a workspace's name
func (s *Store) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	i := s.find(oldName)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if j := s.find(newName); j >= 0 && j != i {
		return fmt.Errorf("%w: %s", ErrDuplicateName, newName)
	}
	s.workspaces[i].Name = newName
	return nil
}

// Get finds a workspace by case-insensitive name
func (s *Store) Get(name string) (*Workspace, error) {
	i := s.find(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.workspaces[i], nil
}

// List returns workspaces in creation order
func (s *Store) List() []*Workspace {
	return slices.Clone(s.workspaces)
}

// Len returns the number of workspaces
func (s *Store) Len() int {
	return len(s.workspaces)
}

// Active returns the active workspace, or nil when the store is empty
func (s *Store) Active() *Workspace {
	for _, w := range s.workspaces {
		if w.ID == s.active {
			return w
		}
	}
	return nil
}

// SetActive selects which workspace commands target
func (s *Store) SetActive(name string) error {
	i := s.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	s.active = s.workspaces[i].ID
	return nil
}

// Next activates the workspace after the active one, wrapping around
func (s *Store) Next() *Workspace {
	if len(s.workspaces) == 0 {
		return nil
	}
	i := slices.IndexFunc(s.workspaces, func(w *Workspace) bool { return w.ID == s.active })
	w := s.workspaces[(i+1)%len(s.workspaces)]
	s.active = w.ID
	return w
}

// EnsureDefault creates the default workspace when the store is empty
func (s *Store) EnsureDefault() *Workspace {
	if len(s.workspaces) > 0 {
		return s.Active()
	}
	w, _ := s.Create(model.DefaultWorkspaceName, "Default workspace")
	return w
}

// Match is a search hit in some workspace
type Match struct {
	Workspace string
	TodoID    string
}

// Search looks for text in every workspace, active one first
func (s *Store) Search(text string) []Match {
	ordered := s.List()
	if a := s.Active(); a != nil {
		ordered = slices.DeleteFunc(ordered, func(w *Workspace) bool { return w.ID == a.ID })
		ordered = append([]*Workspace{a}, ordered...)
	}
	var out []Match
	for _, w := range ordered {
		for _, id := range w.Tree().Search(text) {
			out = append(out, Match{Workspace: w.Name, TodoID: id})
		}
	}
	return out
}

func (s *Store) find(name string) int {
	name = strings.TrimSpace(name)
	return slices.IndexFunc(s.workspaces, func(w *Workspace) bool {
		return strings.EqualFold(w.Name, name)
	})
}
