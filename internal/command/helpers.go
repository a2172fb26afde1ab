package command

import (
	"fmt"
	"time"

	"github.com/existflow/paperclip/internal/model"
	"github.com/existflow/paperclip/internal/tree"
)

// ToggleTimer builds an Edit that starts id's timer, or stops it if running
func ToggleTimer(t *tree.Tree, id string, now time.Time) (*Edit, error) {
	td, ok := t.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tree.ErrNotFound, id)
	}
	label := "start timer"
	next := td.Timer.Start(now)
	if td.Timer.Running() {
		label = "stop timer"
		next = td.Timer.Stop(now)
	}
	return &Edit{ID: id, Changes: []Change{{Field: tree.FieldTimer, Value: next}}, Label: label}, nil
}

// ToggleExpanded builds an Edit that flips id's expansion flag
func ToggleExpanded(t *tree.Tree, id string) (*Edit, error) {
	td, ok := t.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", tree.ErrNotFound, id)
	}
	label := "expand"
	if td.Expanded {
		label = "collapse"
	}
	return &Edit{ID: id, Changes: []Change{{Field: tree.FieldExpanded, Value: !td.Expanded}}, Label: label}, nil
}

// Reparse builds an Edit that replaces description, labels, priority and due
// date from a freshly parsed line
func Reparse(id string, in tree.Input) *Edit {
	return &Edit{
		ID: id,
		Changes: []Change{
			{Field: tree.FieldDescription, Value: in.Description},
			{Field: tree.FieldRaw, Value: in.Raw},
			{Field: tree.FieldTags, Value: in.Tags},
			{Field: tree.FieldContexts, Value: in.Contexts},
			{Field: tree.FieldPriority, Value: in.Priority},
			{Field: tree.FieldDueDate, Value: in.DueDate},
		},
		Label: fmt.Sprintf("edit %q", in.Description),
	}
}

// Indent makes id the last child of its previous sibling
func Indent(t *tree.Tree, id string) (*Move, error) {
	parent, idx, err := t.Position(id)
	if err != nil {
		return nil, err
	}
	if idx == 0 {
		return nil, fmt.Errorf("%w: no previous sibling to indent under", tree.ErrInvalidParent)
	}
	seq, err := t.ChildrenOf(parent)
	if err != nil {
		return nil, err
	}
	var prev string
	i := 0
	for c := range seq {
		if i == idx-1 {
			prev = c
			break
		}
		i++
	}
	return &Move{ID: id, Parent: prev, Index: -1}, nil
}

// Outdent moves id out of its parent to sit right after it
func Outdent(t *tree.Tree, id string) (*Move, error) {
	parent, _, err := t.Position(id)
	if err != nil {
		return nil, err
	}
	if parent == "" {
		return nil, fmt.Errorf("%w: already at top level", tree.ErrInvalidParent)
	}
	grand, pidx, err := t.Position(parent)
	if err != nil {
		return nil, err
	}
	return &Move{ID: id, Parent: grand, Index: pidx + 1}, nil
}

// FromTemplate fills an Input with a template's defaults; values already set
// on in win
func FromTemplate(in tree.Input, tpl model.Template) tree.Input {
	if in.Priority == 0 {
		in.Priority = tpl.Priority
	}
	in.Tags = append(append([]string{}, tpl.Tags...), in.Tags...)
	in.Contexts = append(append([]string{}, tpl.Contexts...), in.Contexts...)
	if in.Recurrence == nil && tpl.Recurrence != nil {
		r := *tpl.Recurrence
		in.Recurrence = &r
	}
	if in.Note == "" {
		in.Note = tpl.Note
	}
	in.TemplateID = tpl.ID
	return in
}
