// Package view derives the read-only task list the UI displays: filtering,
// sorting, status counts and overdue detection. Nothing here mutates its input.
package view

import (
	"math"
	"slices"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"taskpad/internal/task"
)

// Deriver carries the locale used for name ordering. The zero value uses
// the root collation order.
type Deriver struct {
	Lang language.Tag
}

// DeriveView filters and sorts tasks with the root collation order.
func DeriveView(tasks []task.Task, f task.Filter, s task.SortKey) []task.Task {
	return Deriver{}.View(tasks, f, s)
}

// View returns a new slice holding the tasks that pass f, ordered by s.
// The sort is stable, so ties keep their list order.
func (d Deriver) View(tasks []task.Task, f task.Filter, s task.SortKey) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t, f) {
			out = append(out, t)
		}
	}
	if cmp := d.comparator(s); cmp != nil {
		slices.SortStableFunc(out, cmp)
	}
	return out
}

func keep(t task.Task, f task.Filter) bool {
	switch f {
	case task.FilterActive:
		return !t.Completed
	case task.FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

func (d Deriver) comparator(s task.SortKey) func(a, b task.Task) int {
	switch s {
	case task.SortNewest:
		return func(a, b task.Task) int { return compareInt64(b.CreatedAt, a.CreatedAt) }
	case task.SortOldest:
		return func(a, b task.Task) int { return compareInt64(a.CreatedAt, b.CreatedAt) }
	case task.SortPriority:
		return func(a, b task.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case task.SortDueDate:
		return compareDue
	case task.SortName:
		c := collate.New(d.Lang)
		return func(a, b task.Task) int { return c.CompareString(a.Name, b.Name) }
	default:
		return nil
	}
}

// compareDue orders by due date ascending with undated tasks last.
func compareDue(a, b task.Task) int {
	switch {
	case !a.HasDueDate() && !b.HasDueDate():
		return 0
	case !a.HasDueDate():
		return 1
	case !b.HasDueDate():
		return -1
	}
	return a.DueDate.Compare(b.DueDate)
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type Counts struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}

func DeriveCounts(tasks []task.Task) Counts {
	c := Counts{All: len(tasks)}
	for _, t := range tasks {
		if t.Completed {
			c.Completed++
		} else {
			c.Active++
		}
	}
	return c
}

// Of returns the count matching a filter key.
func (c Counts) Of(f task.Filter) int {
	switch f {
	case task.FilterActive:
		return c.Active
	case task.FilterCompleted:
		return c.Completed
	default:
		return c.All
	}
}

// Fraction is the completed share in [0, 1]; an empty list is 0.
func (c Counts) Fraction() float64 {
	if c.All == 0 {
		return 0
	}
	return float64(c.Completed) / float64(c.All)
}

// Percent is Fraction rounded to a whole percentage.
func (c Counts) Percent() int {
	return int(math.Round(c.Fraction() * 100))
}

// IsOverdue reports whether t is incomplete and its due date began before now.
// The due date is read as local midnight in now's location.
func IsOverdue(t task.Task, now time.Time) bool {
	if !t.HasDueDate() || t.Completed {
		return false
	}
	return t.DueDate.Midnight(now.Location()).Before(now)
}
