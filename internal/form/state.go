package form

import (
	"errors"

	"taskpad/internal/task"
)

// State is a form being filled in. Errors appear only after Submit and a
// field's error goes away as soon as that field is edited again.
type State struct {
	values Input
	errs   map[Field]string
}

func NewState(initial Input) *State {
	if initial.Priority == "" {
		initial.Priority = string(task.DefaultPriority)
	}
	return &State{values: initial, errs: map[Field]string{}}
}

func (s *State) Values() Input {
	return s.values
}

func (s *State) Get(f Field) string {
	switch f {
	case FieldName:
		return s.values.Name
	case FieldDescription:
		return s.values.Description
	case FieldPriority:
		return s.values.Priority
	case FieldDueDate:
		return s.values.DueDate
	}
	return ""
}

func (s *State) Set(f Field, v string) {
	switch f {
	case FieldName:
		s.values.Name = v
	case FieldDescription:
		s.values.Description = v
	case FieldPriority:
		s.values.Priority = v
	case FieldDueDate:
		s.values.DueDate = v
	default:
		return
	}
	delete(s.errs, f)
}

// Error is the message currently shown under f.
func (s *State) Error(f Field) string {
	return s.errs[f]
}

func (s *State) HasErrors() bool {
	return len(s.errs) > 0
}

// Submit validates the current values. On failure the field errors are
// recorded and ok is false.
func (s *State) Submit() (task.Draft, bool) {
	draft, err := Validate(s.values)
	s.errs = map[Field]string{}
	if err == nil {
		return draft, true
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		for f := range verr.Fields {
			s.errs[f] = verr.Message(f)
		}
	}
	return task.Draft{}, false
}
