package model

import "strings"

// Template presets metadata for newly added todos
type Template struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Tags       []string    `json:"tags"`
	Contexts   []string    `json:"contexts"`
	Priority   int         `json:"priority"`
	Recurrence *Recurrence `json:"recurrence,omitempty"`
	Note       string      `json:"note,omitempty"`
}

// BuiltinTemplates returns the templates shipped with the app, sorted by name
func BuiltinTemplates() []Template {
	return []Template{
		{
			ID:       "builtin-bug-report",
			Name:     "Bug Report",
			Tags:     []string{"bug"},
			Contexts: []string{"development"},
			Priority: 4,
			Note:     "Steps to reproduce:\n1. \n2. \n3. \n\nExpected behavior:\n\nActual behavior:\n\nPossible fix:",
		},
		{
			ID:       "builtin-meeting-notes",
			Name:     "Meeting Notes",
			Tags:     []string{"meeting"},
			Contexts: []string{"meetings"},
			Priority: 1,
			Note:     "Agenda:\n- \n- \n\nNotes:\n- \n\nAction items:\n- ",
		},
		{
			ID:       "builtin-personal-task",
			Name:     "Personal Task",
			Tags:     []string{"life"},
			Contexts: []string{"personal"},
			Priority: 1,
		},
		{
			ID:       "builtin-work-task",
			Name:     "Work Task",
			Tags:     []string{"task"},
			Contexts: []string{"work"},
			Priority: 2,
		},
	}
}

// FindTemplate looks a builtin template up by ID or case-insensitive name
func FindTemplate(key string) (Template, bool) {
	key = strings.TrimSpace(key)
	for _, t := range BuiltinTemplates() {
		if t.ID == key || strings.EqualFold(t.Name, key) {
			return t, true
		}
	}
	return Template{}, false
}
