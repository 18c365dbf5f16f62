package task

import (
	"fmt"
	"strings"
)

// Filter selects tasks by completion status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

func ParseFilter(v string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(v)))
	if f == "" {
		return FilterAll, nil
	}
	for _, known := range Filters() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", v)
}

func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Done"
	default:
		return "All"
	}
}

func (f Filter) Next() Filter {
	all := Filters()
	for i, known := range all {
		if known == f {
			return all[wrap(i+1, len(all))]
		}
	}
	return FilterAll
}

// SortKey names the ordering applied to the filtered list.
type SortKey string

const (
	SortNewest   SortKey = "newest"
	SortOldest   SortKey = "oldest"
	SortPriority SortKey = "priority"
	SortDueDate  SortKey = "dueDate"
	SortName     SortKey = "name"
)

func SortKeys() []SortKey {
	return []SortKey{SortNewest, SortOldest, SortPriority, SortDueDate, SortName}
}

// ParseSort is case-insensitive, so "duedate" and "dueDate" both work.
func ParseSort(v string) (SortKey, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return SortNewest, nil
	}
	for _, known := range SortKeys() {
		if strings.EqualFold(v, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown sort %q (want newest, oldest, priority, dueDate or name)", v)
}

func (s SortKey) Label() string {
	switch s {
	case SortOldest:
		return "Oldest First"
	case SortPriority:
		return "Priority"
	case SortDueDate:
		return "Due Date"
	case SortName:
		return "Name A-Z"
	default:
		return "Newest First"
	}
}

func (s SortKey) Next() SortKey {
	all := SortKeys()
	for i, known := range all {
		if known == s {
			return all[wrap(i+1, len(all))]
		}
	}
	return SortNewest
}
