package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/existflow/paperclip/internal/model"
)

// Field names a mutable todo attribute
type Field int

const (
	FieldDescription Field = iota // string, non-empty
	FieldRaw                      // string
	FieldDueDate                  // *time.Time, nil clears
	FieldPriority                 // int, clamped to 0-5
	FieldTags                     // []string, normalized
	FieldContexts                 // []string, normalized
	FieldNote                     // string
	FieldRecurrence               // *model.Recurrence, nil clears
	FieldTimer                    // model.Timer
	FieldExpanded                 // bool
)

var fieldNames = map[Field]string{
	FieldDescription: "description",
	FieldRaw:         "raw",
	FieldDueDate:     "due",
	FieldPriority:    "priority",
	FieldTags:        "tags",
	FieldContexts:    "contexts",
	FieldNote:        "note",
	FieldRecurrence:  "recurrence",
	FieldTimer:       "timer",
	FieldExpanded:    "expanded",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("field(%d)", int(f))
}

// SetField replaces one attribute of id. The value's type must match the
// field; a mismatch fails with ErrInvalidValue and changes nothing.
func (t *Tree) SetField(id string, f Field, value any) error {
	td, ok := t.todos[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	bad := func() error {
		return fmt.Errorf("%w: %T for %s", ErrInvalidValue, value, f)
	}

	switch f {
	case FieldDescription:
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return bad()
		}
		td.Description = s
	case FieldRaw:
		s, ok := value.(string)
		if !ok {
			return bad()
		}
		td.Raw = s
	case FieldDueDate:
		switch v := value.(type) {
		case nil:
			td.DueDate = nil
		case *time.Time:
			td.DueDate = nil
			if v != nil {
				due := *v
				td.DueDate = &due
			}
		case time.Time:
			td.DueDate = &v
		default:
			return bad()
		}
	case FieldPriority:
		p, ok := value.(int)
		if !ok {
			return bad()
		}
		td.Priority = model.ClampPriority(p)
	case FieldTags, FieldContexts:
		labels, ok := value.([]string)
		if !ok && value != nil {
			return bad()
		}
		if f == FieldTags {
			td.Tags = model.NormalizeLabels(labels)
		} else {
			td.Contexts = model.NormalizeLabels(labels)
		}
	case FieldNote:
		s, ok := value.(string)
		if !ok {
			return bad()
		}
		td.Note = s
	case FieldRecurrence:
		switch v := value.(type) {
		case nil:
			td.Recurrence = nil
		case *model.Recurrence:
			if v != nil && !v.IsValid() {
				return bad()
			}
			td.Recurrence = nil
			if v != nil && v.Kind != model.RecurNone {
				r := *v
				td.Recurrence = &r
			}
		case model.Recurrence:
			if !v.IsValid() {
				return bad()
			}
			td.Recurrence = nil
			if v.Kind != model.RecurNone {
				td.Recurrence = &v
			}
		default:
			return bad()
		}
	case FieldTimer:
		tm, ok := value.(model.Timer)
		if !ok {
			return bad()
		}
		td.Timer = tm.Clone()
	case FieldExpanded:
		b, ok := value.(bool)
		if !ok {
			return bad()
		}
		td.Expanded = b
	default:
		return fmt.Errorf("%w: unknown field %s", ErrInvalidValue, f)
	}
	return nil
}

// Field returns a copy of the current value of f, in the type SetField takes
func (t *Tree) Field(id string, f Field) (any, error) {
	td, ok := t.todos[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := td.Clone()

	switch f {
	case FieldDescription:
		return c.Description, nil
	case FieldRaw:
		return c.Raw, nil
	case FieldDueDate:
		return c.DueDate, nil
	case FieldPriority:
		return c.Priority, nil
	case FieldTags:
		return c.Tags, nil
	case FieldContexts:
		return c.Contexts, nil
	case FieldNote:
		return c.Note, nil
	case FieldRecurrence:
		return c.Recurrence, nil
	case FieldTimer:
		return c.Timer, nil
	case FieldExpanded:
		return c.Expanded, nil
	}
	return nil, fmt.Errorf("%w: unknown field %s", ErrInvalidValue, f)
}
