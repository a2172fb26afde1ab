package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{in: "DEBUG", want: DEBUG},
		{in: "debug", want: DEBUG},
		{in: "warning", want: WARN},
		{in: "Error", want: ERROR},
		{in: "bogus", want: INFO},
		{in: "", want: INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, WARN, "text")

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown", F("todo", "t1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "todo=t1")
}

func TestJSONFormatWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, DEBUG, "json").WithFields(F("workspace", "Personal"))
	l.Info("saved", F("todos", 3))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved", entry["msg"])
	assert.Equal(t, "Personal", entry["workspace"])
	assert.EqualValues(t, 3, entry["todos"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestFileRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	l, err := New(Config{
		Level:      DEBUG,
		FilePath:   path,
		MaxSize:    200,
		MaxBackups: 2,
	})
	require.NoError(t, err)
	defer l.Close()

	for i := range 20 {
		l.Info(fmt.Sprintf("entry %d %s", i, strings.Repeat("x", 40)))
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".2")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "entry 19")
}
