// Package form validates task input at submit time and tracks per-field
// error state between submits.
package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"taskpad/internal/task"
)

var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidDate  = errors.New("invalid date")
)

type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldDueDate     Field = "dueDate"
)

var messages = map[Field]string{
	FieldName:        "Task name is required.",
	FieldDescription: "Description is required.",
	FieldPriority:    "Priority must be high, medium or low.",
	FieldDueDate:     "Due date must look like YYYY-MM-DD.",
}

// Input is the raw, untrimmed form content.
type Input struct {
	Name        string
	Description string
	Priority    string
	DueDate     string
}

// FromTask pre-fills an Input for editing.
func FromTask(t task.Task) Input {
	return Input{
		Name:        t.Name,
		Description: t.Description,
		Priority:    string(t.Priority),
		DueDate:     t.DueDate.String(),
	}
}

// ValidationError lists the offending fields. It matches ErrMissingField or
// ErrInvalidDate through errors.Is depending on what went wrong.
type ValidationError struct {
	Fields map[Field]error
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid task input: %s", strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Fields))
	for _, err := range e.Fields {
		out = append(out, err)
	}
	return out
}

// Has reports whether f failed.
func (e *ValidationError) Has(f Field) bool {
	_, ok := e.Fields[f]
	return ok
}

// Message returns the user-facing text for f, or "" when f is fine.
func (e *ValidationError) Message(f Field) string {
	if !e.Has(f) {
		return ""
	}
	return messages[f]
}

// Validate trims name and description and rejects them when empty. Priority
// defaults to medium and the due date may be blank.
func Validate(in Input) (task.Draft, error) {
	fields := map[Field]error{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields[FieldName] = ErrMissingField
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		fields[FieldDescription] = ErrMissingField
	}
	priority, err := task.ParsePriority(in.Priority)
	if err != nil {
		fields[FieldPriority] = err
	}
	due, err := task.ParseDate(in.DueDate)
	if err != nil {
		fields[FieldDueDate] = fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if len(fields) > 0 {
		return task.Draft{}, &ValidationError{Fields: fields}
	}
	return task.Draft{
		Name:        name,
		Description: desc,
		Priority:    priority,
		DueDate:     due,
	}, nil
}
