package store

import "fmt"

type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeAdding
	ModeEditing
	ModeConfirmingDelete
)

func (k ModeKind) String() string {
	switch k {
	case ModeAdding:
		return "adding"
	case ModeEditing:
		return "editing"
	case ModeConfirmingDelete:
		return "confirming-delete"
	default:
		return "idle"
	}
}

// Mode is what the UI is currently doing. TaskID is set only for
// ModeEditing and ModeConfirmingDelete, so at most one task is ever the
// target of an edit or a pending delete.
type Mode struct {
	Kind   ModeKind
	TaskID string
}

func Idle() Mode { return Mode{Kind: ModeIdle} }
func Adding() Mode { return Mode{Kind: ModeAdding} }
func Editing(id string) Mode { return Mode{Kind: ModeEditing, TaskID: id} }
func ConfirmingDelete(id string) Mode { return Mode{Kind: ModeConfirmingDelete, TaskID: id} }
func (m Mode) Is(kind ModeKind) bool { return m.Kind == kind }
func (m Mode) Targets(id string) bool { return m.TaskID != "" && m.TaskID == id }
func (m Mode) String() string {
	if m.TaskID == "" {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", m.Kind, m.TaskID)
}
