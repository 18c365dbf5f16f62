package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskpad/internal/form"
	"taskpad/internal/task"
)

// formFields is the focus order inside the add/edit modal.
var formFields = []form.Field{form.FieldName, form.FieldDescription, form.FieldPriority, form.FieldDueDate}

func fieldLabel(f form.Field) string {
	switch f {
	case form.FieldName:
		return "Task Name"
	case form.FieldDescription:
		return "Description"
	case form.FieldPriority:
		return "Priority"
	case form.FieldDueDate:
		return "Due Date"
	}
	return string(f)
}

type formModel struct {
	editing bool
	state   *form.State
	inputs  map[form.Field]*textinput.Model
	focus   int
}

func newFormModel(initial form.Input, editing bool) *formModel {
	fm := &formModel{
		editing: editing,
		state:   form.NewState(initial),
		inputs:  map[form.Field]*textinput.Model{},
	}
	placeholders := map[form.Field]string{
		form.FieldName:        "What needs to be done?",
		form.FieldDescription: "Add details...",
		form.FieldDueDate:     "YYYY-MM-DD (optional)",
	}
	for f, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.CharLimit = 256
		ti.Width = 40
		ti.SetValue(fm.state.Get(f))
		fm.inputs[f] = &ti
	}
	fm.inputs[form.FieldDueDate].CharLimit = 10
	fm.focusCurrent()
	return fm
}

func (fm *formModel) title() string {
	if fm.editing {
		return "Edit Task"
	}
	return "New Task"
}

func (fm *formModel) submitLabel() string {
	if fm.editing {
		return "Save Changes"
	}
	return "Add Task"
}

func (fm *formModel) current() form.Field {
	return formFields[fm.focus]
}

func (fm *formModel) move(delta int) {
	fm.focus = wrapIndex(fm.focus+delta, len(formFields))
	fm.focusCurrent()
}

func (fm *formModel) focusCurrent() {
	for f, in := range fm.inputs {
		if f == fm.current() {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (fm *formModel) priority() task.Priority {
	p, err := task.ParsePriority(fm.state.Get(form.FieldPriority))
	if err != nil {
		return task.DefaultPriority
	}
	return p
}

func (fm *formModel) cyclePriority(forward bool) {
	p := fm.priority()
	if forward {
		p = p.Next()
	} else {
		p = p.Prev()
	}
	fm.state.Set(form.FieldPriority, string(p))
}

// update feeds a key to the focused text input. Editing a field clears its error.
func (fm *formModel) update(msg tea.KeyMsg) tea.Cmd {
	in, ok := fm.inputs[fm.current()]
	if !ok {
		return nil
	}
	before := in.Value()
	next, cmd := in.Update(msg)
	*in = next
	if next.Value() != before {
		fm.state.Set(fm.current(), next.Value())
	}
	return cmd
}

func (fm *formModel) submit() (task.Draft, bool) {
	return fm.state.Submit()
}
