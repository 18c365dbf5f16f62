package view

import "taskpad/internal/task"

// Memo remembers the last derived list. Callers supply a version that changes
// whenever the underlying task slice changes.
type Memo struct {
	Deriver Deriver

	valid   bool
	version uint64
	filter  task.Filter
	sort    task.SortKey
	out     []task.Task
	counts  Counts
}

func (m *Memo) View(version uint64, tasks []task.Task, f task.Filter, s task.SortKey) []task.Task {
	if !m.hit(version, f, s) {
		m.out = m.Deriver.View(tasks, f, s)
		m.counts = DeriveCounts(tasks)
		m.valid, m.version, m.filter, m.sort = true, version, f, s
	}
	return m.out
}

// Counts is recomputed only when version moves.
func (m *Memo) Counts(version uint64, tasks []task.Task) Counts {
	if !m.valid || m.version != version {
		m.View(version, tasks, m.filter, m.sort)
	}
	return m.counts
}

func (m *Memo) hit(version uint64, f task.Filter, s task.SortKey) bool {
	return m.valid && m.version == version && m.filter == f && m.sort == s
}
