package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBlank(t *testing.T) {
	assert.Equal(t, "", Render("", 80, 0))
	assert.Equal(t, "", Render(" \n\n", 80, 2))
}

func TestRenderKeepsText(t *testing.T) {
	out := Render("Steps to reproduce:\n\n- open app\n- click save", 60, 0)
	assert.Contains(t, out, "Steps to reproduce:")
	assert.Contains(t, out, "open app")
	assert.Contains(t, out, "click save")
}

func TestRenderIndents(t *testing.T) {
	out := Render("hello world", 40, 4)
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) != "" {
			assert.True(t, strings.HasPrefix(line, "    "), "line %q", line)
		}
	}
}

func TestRenderWraps(t *testing.T) {
	long := strings.Repeat("word ", 40)
	out := Render(long, 30, 0)
	assert.Greater(t, strings.Count(out, "\n"), 3)
}
