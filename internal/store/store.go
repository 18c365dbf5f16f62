// Package store owns the task list and the transient UI selection state.
// State changes only through the methods below, and each successful
// mutation writes the whole list back through the Persister.
package store

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"taskpad/internal/task"
	"taskpad/internal/view"
)

var (
	ErrNotFound = errors.New("task not found")
	ErrNoTarget = errors.New("no task selected")
)

// Persister receives the full task list after every mutation.
type Persister interface {
	Save(ctx context.Context, tasks []task.Task) error
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithFilter(f task.Filter) Option {
	return func(s *Store) { s.filter = f }
}

func WithSort(k task.SortKey) Option {
	return func(s *Store) { s.sort = k }
}

func WithDeriver(d view.Deriver) Option {
	return func(s *Store) { s.memo.Deriver = d }
}

type Store struct {
	tasks   []task.Task
	filter  task.Filter
	sort    task.SortKey
	mode    Mode
	version uint64
	memo    view.Memo

	persist Persister
	now     func() time.Time
	newID   func() string
	log     *slog.Logger
}

// New wraps an already loaded task list. A nil persister keeps everything in memory.
func New(tasks []task.Task, p Persister, opts ...Option) *Store {
	s := &Store{
		tasks:   slices.Clone(tasks),
		filter:  task.FilterAll,
		sort:    task.SortNewest,
		mode:    Idle(),
		persist: p,
		now:     time.Now,
		newID:   task.NewID,
		log:     slog.New(slog.DiscardHandler),
	}
	if s.tasks == nil {
		s.tasks = []task.Task{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the list in stored order.
func (s *Store) Tasks() []task.Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Len() int {
	return len(s.tasks)
}

// Get looks a task up by id.
func (s *Store) Get(id string) (task.Task, bool) {
	i := s.index(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) Filter() task.Filter { return s.filter }
func (s *Store) Sort() task.SortKey { return s.sort }
func (s *Store) Mode() Mode { return s.mode }

// Version changes whenever the task list changes.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) SetFilter(f task.Filter) { s.filter = f }
func (s *Store) SetSort(k task.SortKey) { s.sort = k }

// View is the filtered and sorted list for display.
func (s *Store) View() []task.Task {
	return s.memo.View(s.version, s.tasks, s.filter, s.sort)
}

func (s *Store) Counts() view.Counts {
	return s.memo.Counts(s.version, s.tasks)
}

// Add prepends a new incomplete task and returns it.
func (s *Store) Add(d task.Draft) task.Task {
	if d.Priority == "" {
		d.Priority = task.DefaultPriority
	}
	t := d.Apply(task.Task{
		ID:        s.uniqueID(),
		CreatedAt: s.createdAt(),
	})
	s.tasks = slices.Insert(s.tasks, 0, t)
	s.changed("add", t.ID)
	return t
}

// Update replaces the editable fields of the task with the given id.
func (s *Store) Update(id string, d task.Draft) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i] = d.Apply(s.tasks[i])
	s.changed("update", id)
	return nil
}

func (s *Store) Toggle(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.changed("toggle", id)
	return nil
}

func (s *Store) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	if s.mode.Targets(id) {
		s.mode = Idle()
	}
	s.changed("delete", id)
	return nil
}

// BeginAdd opens the add form.
func (s *Store) BeginAdd() {
	s.mode = Adding()
}

// BeginEdit opens the edit form for id.
func (s *Store) BeginEdit(id string) error {
	if s.index(id) < 0 {
		return ErrNotFound
	}
	s.mode = Editing(id)
	return nil
}

// BeginDelete asks for confirmation before deleting id.
func (s *Store) BeginDelete(id string) error {
	if s.index(id) < 0 {
		return ErrNotFound
	}
	s.mode = ConfirmingDelete(id)
	return nil
}

func (s *Store) Cancel() {
	s.mode = Idle()
}

// Submit finishes the open form: it adds in ModeAdding and updates the
// edited task in ModeEditing. The mode returns to idle either way.
func (s *Store) Submit(d task.Draft) (task.Task, error) {
	mode := s.mode
	switch mode.Kind {
	case ModeAdding:
		s.mode = Idle()
		return s.Add(d), nil
	case ModeEditing:
		s.mode = Idle()
		if err := s.Update(mode.TaskID, d); err != nil {
			return task.Task{}, err
		}
		t, _ := s.Get(mode.TaskID)
		return t, nil
	default:
		return task.Task{}, ErrNoTarget
	}
}

// ConfirmDelete deletes the task awaiting confirmation.
func (s *Store) ConfirmDelete() error {
	if !s.mode.Is(ModeConfirmingDelete) {
		return ErrNoTarget
	}
	id := s.mode.TaskID
	s.mode = Idle()
	return s.Delete(id)
}

// Target resolves the task an edit or pending delete refers to.
func (s *Store) Target() (task.Task, bool) {
	if s.mode.TaskID == "" {
		return task.Task{}, false
	}
	return s.Get(s.mode.TaskID)
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.index(id) < 0 {
			return id
		}
	}
}

// createdAt never goes backwards relative to tasks already in the list.
func (s *Store) createdAt() int64 {
	ts := s.now().UnixMilli()
	for _, t := range s.tasks {
		if t.CreatedAt > ts {
			ts = t.CreatedAt
		}
	}
	return ts
}

func (s *Store) changed(op, id string) {
	s.version++
	if s.persist == nil {
		return
	}
	if err := s.persist.Save(context.Background(), s.Tasks()); err != nil {
		s.log.Warn("persist tasks", "op", op, "id", id, "err", err)
		return
	}
	s.log.Debug("persisted tasks", "op", op, "id", id, "count", len(s.tasks))
}
