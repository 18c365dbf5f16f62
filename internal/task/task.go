// Package task holds the task record and the static lookup tables shared by
// the store, the derivation pipeline and the view layer.
package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StorageKey is the key the whole task list is persisted under.
const StorageKey = "todo_tasks"

type Task struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     Date     `json:"dueDate"`
	Completed   bool     `json:"completed"`
	CreatedAt   int64    `json:"createdAt"`
}

// Draft carries the user-editable fields of a task once they passed validation.
type Draft struct {
	Name        string
	Description string
	Priority    Priority
	DueDate     Date
}

// Apply copies the draft onto t, leaving identity, completion and creation time alone.
func (d Draft) Apply(t Task) Task {
	t.Name = d.Name
	t.Description = d.Description
	t.Priority = d.Priority
	t.DueDate = d.DueDate
	return t
}

func (t Task) HasDueDate() bool {
	return !t.DueDate.IsZero()
}

func (t Task) Created() time.Time {
	return time.UnixMilli(t.CreatedAt)
}

// NewID returns a fresh task identifier.
func NewID() string {
	return "task_" + uuid.NewString()
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DefaultPriority is used whenever a priority is left unset.
const DefaultPriority = PriorityMedium

var priorityOrder = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

var priorityLabels = map[Priority]string{
	PriorityHigh:   "High",
	PriorityMedium: "Medium",
	PriorityLow:    "Low",
}

var priorityColors = map[Priority]string{
	PriorityHigh:   "#ff4d4d",
	PriorityMedium: "#ffaa00",
	PriorityLow:    "#44cc88",
}

// Priorities lists every priority from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func ParsePriority(v string) (Priority, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return DefaultPriority, nil
	}
	p := Priority(v)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (want high, medium or low)", v)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	_, ok := priorityOrder[p]
	return ok
}

// Rank orders priorities for sorting; values outside the enum rank after low.
func (p Priority) Rank() int {
	if r, ok := priorityOrder[p]; ok {
		return r
	}
	return len(priorityOrder)
}

func (p Priority) Label() string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p Priority) Color() string {
	return priorityColors[p]
}

// Next cycles high -> medium -> low -> high.
func (p Priority) Next() Priority {
	all := Priorities()
	return all[wrap(p.Rank()+1, len(all))]
}

// Prev cycles in the opposite direction of Next.
func (p Priority) Prev() Priority {
	all := Priorities()
	return all[wrap(p.Rank()-1, len(all))]
}

func wrap(idx, n int) int {
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
