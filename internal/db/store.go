package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/existflow/paperclip/internal/logger"
	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
	"github.com/existflow/paperclip/internal/workspace"
)

const (
	metaActive  = "active_workspace"
	metaVersion = "snapshot_version"
)

// Save replaces the stored workspaces with snap in one transaction
func (db *DB) Save(ctx context.Context, snap *workspace.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM time_entries", "DELETE FROM todos", "DELETE FROM workspaces"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to clear tables: %w", err)
		}
	}

	for i, ws := range snap.Workspaces {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO workspaces (id, name, description, color, position, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			ws.ID, ws.Name, ws.Description, ws.Color, i, formatTime(ws.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to save workspace %s: %w", ws.Name, err)
		}
		if err := saveTree(ctx, tx, ws.ID, ws.Tree); err != nil {
			return fmt.Errorf("failed to save workspace %s: %w", ws.Name, err)
		}
	}

	for key, value := range map[string]string{
		metaActive:  snap.Active,
		metaVersion: fmt.Sprint(snap.Version),
	} {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			key, value)
		if err != nil {
			return fmt.Errorf("failed to save meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	logger.Debug("Saved database", logger.F("path", db.path), logger.F("workspaces", len(snap.Workspaces)))
	return nil
}

func saveTree(ctx context.Context, tx *sql.Tx, workspaceID string, ts tree.Snapshot) error {
	positions := make(map[string]int, len(ts.Todos))
	for i, id := range ts.Roots {
		positions[id] = i
	}
	for _, td := range ts.Todos {
		for i, c := range td.Children {
			positions[c] = i
		}
	}

	for _, td := range ts.Todos {
		tags, err := json.Marshal(nonNil(td.Tags))
		if err != nil {
			return err
		}
		contexts, err := json.Marshal(nonNil(td.Contexts))
		if err != nil {
			return err
		}
		var recKind sql.NullString
		var recInterval int
		if td.Recurrence != nil {
			recKind = sql.NullString{String: string(td.Recurrence.Kind), Valid: true}
			recInterval = td.Recurrence.Interval
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO todos (
				id, workspace_id, parent_id, position, description, raw_description,
				done, completed_at, priority, tags, contexts, due_date,
				recurrence_kind, recurrence_interval, note, tracked_ns, running_since,
				expanded, template_id, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			td.ID, workspaceID, nullString(td.ParentID), positions[td.ID], td.Description, td.Raw,
			td.Done, nullTime(td.CompletedAt), td.Priority, string(tags), string(contexts), nullTime(td.DueDate),
			recKind, recInterval, td.Note, int64(td.Timer.Tracked), nullTime(td.Timer.RunningSince),
			td.Expanded, td.TemplateID, formatTime(td.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("todo %s: %w", td.ID, err)
		}

		for i, e := range td.Timer.Entries {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO time_entries (todo_id, position, started_at, ended_at) VALUES (?, ?, ?, ?)`,
				td.ID, i, formatTime(e.Start), formatTime(e.End))
			if err != nil {
				return fmt.Errorf("time entry for %s: %w", td.ID, err)
			}
		}
	}
	return nil
}

// Load reads every workspace back into a snapshot. Todos come out in walk
// order so the result matches what was saved.
func (db *DB) Load(ctx context.Context) (*workspace.Snapshot, error) {
	snap := &workspace.Snapshot{Version: workspace.SnapshotVersion}

	rows, err := db.QueryContext(ctx,
		`SELECT id, name, description, color, created_at FROM workspaces ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workspaces: %w", err)
	}
	for rows.Next() {
		var ws workspace.WorkspaceSnapshot
		var created string
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.Color, &created); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan workspace: %w", err)
		}
		if ws.CreatedAt, err = parseTime(created); err != nil {
			rows.Close()
			return nil, err
		}
		snap.Workspaces = append(snap.Workspaces, ws)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := db.loadEntries(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Workspaces {
		ts, err := db.loadTree(ctx, snap.Workspaces[i].ID, entries)
		if err != nil {
			return nil, fmt.Errorf("workspace %s: %w", snap.Workspaces[i].Name, err)
		}
		snap.Workspaces[i].Tree = ts
	}

	var active sql.NullString
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, metaActive).Scan(&active)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read active workspace: %w", err)
	}
	snap.Active = active.String

	logger.Debug("Loaded database", logger.F("path", db.path), logger.F("workspaces", len(snap.Workspaces)))
	return snap, nil
}

func (db *DB) loadEntries(ctx context.Context) (map[string][]model.TimeEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT todo_id, started_at, ended_at FROM time_entries ORDER BY todo_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.TimeEntry)
	for rows.Next() {
		var id, start, end string
		if err := rows.Scan(&id, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		var e model.TimeEntry
		if e.Start, err = parseTime(start); err != nil {
			return nil, err
		}
		if e.End, err = parseTime(end); err != nil {
			return nil, err
		}
		out[id] = append(out[id], e)
	}
	return out, rows.Err()
}

func (db *DB) loadTree(ctx context.Context, workspaceID string, entries map[string][]model.TimeEntry) (tree.Snapshot, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, parent_id, description, raw_description, done, completed_at, priority,
			tags, contexts, due_date, recurrence_kind, recurrence_interval, note,
			tracked_ns, running_since, expanded, template_id, created_at
		FROM todos WHERE workspace_id = ? ORDER BY position`, workspaceID)
	if err != nil {
		return tree.Snapshot{}, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.Todo)
	var order []string
	roots := []string{}
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return tree.Snapshot{}, err
		}
		td.Timer.Entries = entries[td.ID]
		byID[td.ID] = &td
		order = append(order, td.ID)
	}
	if err := rows.Err(); err != nil {
		return tree.Snapshot{}, err
	}

	// rows are sorted by position, so appending keeps sibling order
	for _, id := range order {
		td := byID[id]
		if td.ParentID == "" {
			roots = append(roots, id)
			continue
		}
		if parent, ok := byID[td.ParentID]; ok {
			parent.Children = append(parent.Children, id)
		}
	}

	ts := tree.Snapshot{Roots: roots, Todos: make([]model.Todo, 0, len(order))}
	var walk func(id string)
	walk = func(id string) {
		td := byID[id]
		ts.Todos = append(ts.Todos, *td)
		for _, c := range td.Children {
			walk(c)
		}
	}
	for _, r := range roots {
		walk(r)
	}
	if len(ts.Todos) != len(order) {
		return tree.Snapshot{}, fmt.Errorf("%w: %d todos unreachable", tree.ErrCorruptSnapshot, len(order)-len(ts.Todos))
	}
	return ts, nil
}

func scanTodo(rows *sql.Rows) (model.Todo, error) {
	var (
		td                                   model.Todo
		parent, completed, due, recKind, run sql.NullString
		tags, contexts, created              string
		recInterval                          int
		tracked                              int64
	)
	err := rows.Scan(&td.ID, &parent, &td.Description, &td.Raw, &td.Done, &completed, &td.Priority,
		&tags, &contexts, &due, &recKind, &recInterval, &td.Note,
		&tracked, &run, &td.Expanded, &td.TemplateID, &created)
	if err != nil {
		return td, fmt.Errorf("failed to scan todo: %w", err)
	}

	td.ParentID = parent.String
	td.Children = []string{}
	td.Timer.Tracked = time.Duration(tracked)
	if err := json.Unmarshal([]byte(tags), &td.Tags); err != nil {
		return td, fmt.Errorf("todo %s tags: %w", td.ID, err)
	}
	if err := json.Unmarshal([]byte(contexts), &td.Contexts); err != nil {
		return td, fmt.Errorf("todo %s contexts: %w", td.ID, err)
	}
	if recKind.Valid {
		td.Recurrence = &model.Recurrence{Kind: model.RecurrenceKind(recKind.String), Interval: recInterval}
	}
	if td.CreatedAt, err = parseTime(created); err != nil {
		return td, err
	}
	for _, f := range []struct {
		src sql.NullString
		dst **time.Time
	}{
		{completed, &td.CompletedAt},
		{due, &td.DueDate},
		{run, &td.Timer.RunningSince},
	} {
		if !f.src.Valid {
			continue
		}
		t, err := parseTime(f.src.String)
		if err != nil {
			return td, err
		}
		*f.dst = &t
	}
	return td, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
