package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/workspace"
	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"paperclip": func() int {
			if err := Execute(); err != nil {
				return 1
			}
			return 0
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			home := filepath.Join(env.WorkDir, "home")
			if err := os.MkdirAll(home, 0o755); err != nil {
				return err
			}
			env.Setenv("PAPERCLIP_HOME", home)
			env.Setenv("PAPERCLIP_NOW", "2024-06-10T09:00:00Z")
			return nil
		},
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"todoid": cmdTodoID,
		},
	})
}

// cmdTodoID finds a todo by description in an export file and stores its ID
// prefix in an env var
func cmdTodoID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("todoid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: todoid FILE DESCRIPTION VAR")
	}
	var snap workspace.Snapshot
	if err := json.Unmarshal([]byte(ts.ReadFile(args[0])), &snap); err != nil {
		ts.Fatalf("parse export: %v", err)
	}
	for _, ws := range snap.Workspaces {
		for _, td := range ws.Tree.Todos {
			if td.Description == args[1] {
				ts.Setenv(args[2], shortID(td.ID))
				return
			}
		}
	}
	ts.Fatalf("todo %q not found", args[1])
}

func TestAsk(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			assert.Equal(t, tt.want, ask(strings.NewReader(tt.input), &out, "Delete?"))
			assert.Contains(t, out.String(), "Are you sure? [y/N]")
		})
	}
}

func TestTodoLine(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 11, 23, 59, 59, 0, time.UTC)

	td := model.NewTodo("0123456789abcdef", "Buy milk", now)
	td.Tags = []string{"home"}
	td.Contexts = []string{"errands"}
	td.Priority = 3
	td.DueDate = &due

	line := todoLine(td, 0, now)
	assert.True(t, strings.HasPrefix(line, "  [ ]  01234567  Buy milk"))
	assert.Contains(t, line, "#home @errands  tomorrow  !3")

	child := todoLine(td, 2, now)
	assert.Contains(t, child, "01234567      Buy milk")

	td.Description = strings.Repeat("long ", 20)
	assert.Contains(t, todoLine(td, 0, now), "...")
}

func TestDueLabelOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	due := time.Date(2024, 6, 8, 23, 59, 59, 0, time.UTC)
	td := model.NewTodo("x", "Late", now)
	td.DueDate = &due
	assert.Equal(t, "Jun 8 (overdue)", dueLabel(td, now))
}
