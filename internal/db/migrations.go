package db

import "fmt"

// migrate runs all database migrations
func (db *DB) migrate() error {
	migrations := []string{
		migrationCreateWorkspaces,
		migrationCreateTodos,
		migrationCreateTimeEntries,
		migrationCreateMeta,
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

const migrationCreateWorkspaces = `
CREATE TABLE IF NOT EXISTS workspaces (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE COLLATE NOCASE,
    description TEXT NOT NULL DEFAULT '',
    color TEXT NOT NULL DEFAULT '',
    position INTEGER NOT NULL,
    created_at TEXT NOT NULL
);
`

const migrationCreateTodos = `
CREATE TABLE IF NOT EXISTS todos (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    parent_id TEXT,
    position INTEGER NOT NULL,
    description TEXT NOT NULL,
    raw_description TEXT NOT NULL DEFAULT '',
    done INTEGER NOT NULL DEFAULT 0,
    completed_at TEXT,
    priority INTEGER NOT NULL DEFAULT 0,
    tags TEXT NOT NULL DEFAULT '[]',
    contexts TEXT NOT NULL DEFAULT '[]',
    due_date TEXT,
    recurrence_kind TEXT,
    recurrence_interval INTEGER NOT NULL DEFAULT 0,
    note TEXT NOT NULL DEFAULT '',
    tracked_ns INTEGER NOT NULL DEFAULT 0,
    running_since TEXT,
    expanded INTEGER NOT NULL DEFAULT 1,
    template_id TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    FOREIGN KEY (workspace_id) REFERENCES workspaces(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_todos_workspace ON todos(workspace_id);
CREATE INDEX IF NOT EXISTS idx_todos_parent ON todos(parent_id);
`

const migrationCreateTimeEntries = `
CREATE TABLE IF NOT EXISTS time_entries (
    todo_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    started_at TEXT NOT NULL,
    ended_at TEXT NOT NULL,
    PRIMARY KEY (todo_id, position),
    FOREIGN KEY (todo_id) REFERENCES todos(id) ON DELETE CASCADE
);
`

const migrationCreateMeta = `
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT
);
`
