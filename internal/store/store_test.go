package store_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskpad/internal/store"
	"taskpad/internal/task"
)

// recorder is a Persister that keeps every saved snapshot.
type recorder struct {
	saves [][]task.Task
	err   error
}

func (r *recorder) Save(_ context.Context, tasks []task.Task) error {
	r.saves = append(r.saves, tasks)
	return r.err
}

func (r *recorder) last() []task.Task {
	if len(r.saves) == 0 {
		return nil
	}
	return r.saves[len(r.saves)-1]
}

type fixedClock struct{ t time.Time }

func (c *fixedClock) now() time.Time { return c.t }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task_%d", n)
	}
}

func newStore(t *testing.T, tasks ...task.Task) (*store.Store, *recorder, *fixedClock) {
	t.Helper()
	rec := &recorder{}
	clock := &fixedClock{t: time.UnixMilli(1_000_000)}
	s := store.New(tasks, rec, store.WithClock(clock.now), store.WithIDGenerator(sequentialIDs()))
	return s, rec, clock
}

func draft(name string) task.Draft {
	return task.Draft{Name: name, Description: name + " details", Priority: task.PriorityMedium}
}

// ---------------------------------------------------------------------------
// Add
// ---------------------------------------------------------------------------

func TestAdd_PrependsAndPersists(t *testing.T) {
	s, rec, _ := newStore(t)

	first := s.Add(draft("one"))
	second := s.Add(draft("two"))

	require.Equal(t, 2, s.Len())
	tasks := s.Tasks()
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
	assert.False(t, second.Completed)
	assert.NotEqual(t, first.ID, second.ID)

	require.Len(t, rec.saves, 2)
	assert.Equal(t, tasks, rec.last())
}

func TestAdd_BuyMilkScenario(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(task.Draft{Name: "Buy milk", Description: "2%", Priority: task.PriorityMedium})

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "Buy milk", s.View()[0].Name)
}

func TestAdd_DefaultsPriority(t *testing.T) {
	s, _, _ := newStore(t)
	got := s.Add(task.Draft{Name: "n", Description: "d"})
	assert.Equal(t, task.PriorityMedium, got.Priority)
}

func TestAdd_RegeneratesCollidingID(t *testing.T) {
	existing := task.Task{ID: "task_1", Name: "old", Description: "old", Priority: task.PriorityLow}
	s, _, _ := newStore(t, existing)

	got := s.Add(draft("new"))
	assert.Equal(t, "task_2", got.ID)
}

func TestAdd_CreatedAtNeverGoesBackwards(t *testing.T) {
	future := task.Task{ID: "x", Name: "x", Description: "x", CreatedAt: 5_000_000}
	s, _, clock := newStore(t, future)

	got := s.Add(draft("a"))
	assert.GreaterOrEqual(t, got.CreatedAt, future.CreatedAt)

	clock.t = time.UnixMilli(9_000_000)
	later := s.Add(draft("b"))
	assert.Equal(t, int64(9_000_000), later.CreatedAt)
	assert.GreaterOrEqual(t, later.CreatedAt, got.CreatedAt)
}

// ---------------------------------------------------------------------------
// Update / Toggle / Delete
// ---------------------------------------------------------------------------

func TestUpdate_PreservesIdentityFields(t *testing.T) {
	s, rec, clock := newStore(t)
	orig := s.Add(draft("one"))
	require.NoError(t, s.Toggle(orig.ID))
	clock.t = clock.t.Add(time.Hour)

	due := task.Date{Year: 2026, Month: time.November, Day: 1}
	err := s.Update(orig.ID, task.Draft{Name: "renamed", Description: "new", Priority: task.PriorityHigh, DueDate: due})
	require.NoError(t, err)

	got, ok := s.Get(orig.ID)
	require.True(t, ok)
	assert.Equal(t, "renamed", got.Name)
	assert.Equal(t, task.PriorityHigh, got.Priority)
	assert.Equal(t, due, got.DueDate)
	assert.True(t, got.Completed)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Len(t, rec.saves, 3)
}

func TestToggle_TwiceRestoresOriginal(t *testing.T) {
	s, _, _ := newStore(t)
	tk := s.Add(draft("one"))

	require.NoError(t, s.Toggle(tk.ID))
	got, _ := s.Get(tk.ID)
	assert.True(t, got.Completed)

	require.NoError(t, s.Toggle(tk.ID))
	got, _ = s.Get(tk.ID)
	assert.False(t, got.Completed)
}

func TestDelete_RemovesTask(t *testing.T) {
	s, rec, _ := newStore(t)
	a := s.Add(draft("a"))
	b := s.Add(draft("b"))

	require.NoError(t, s.Delete(a.ID))
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(a.ID)
	assert.False(t, ok)
	assert.Equal(t, []task.Task{b}, rec.last())
}

func TestUnknownID_IsNotFoundAndLeavesStateAlone(t *testing.T) {
	s, rec, _ := newStore(t)
	s.Add(draft("a"))
	before := s.Tasks()
	saves := len(rec.saves)
	version := s.Version()

	assert.ErrorIs(t, s.Update("missing", draft("x")), store.ErrNotFound)
	assert.ErrorIs(t, s.Toggle("missing"), store.ErrNotFound)
	assert.ErrorIs(t, s.Delete("missing"), store.ErrNotFound)

	assert.Equal(t, before, s.Tasks())
	assert.Len(t, rec.saves, saves)
	assert.Equal(t, version, s.Version())
}

func TestPersistFailure_IsLoggedAndSwallowed(t *testing.T) {
	var buf bytes.Buffer
	rec := &recorder{err: errors.New("disk full")}
	s := store.New(nil, rec, store.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	tk := s.Add(draft("a"))
	assert.Equal(t, 1, s.Len())
	assert.NoError(t, s.Toggle(tk.ID))
	assert.Contains(t, buf.String(), "disk full")
}

func TestNilPersister(t *testing.T) {
	s := store.New(nil, nil)
	tk := s.Add(draft("a"))
	assert.NoError(t, s.Delete(tk.ID))
	assert.Equal(t, 0, s.Len())
}

func TestTasks_ReturnsCopy(t *testing.T) {
	s, _, _ := newStore(t)
	s.Add(draft("a"))
	got := s.Tasks()
	got[0].Name = "mutated"
	assert.Equal(t, "a", s.Tasks()[0].Name)
}

// ---------------------------------------------------------------------------
// Filter / sort / view
// ---------------------------------------------------------------------------

func TestFilterSortAndCounts(t *testing.T) {
	s, _, clock := newStore(t)
	a := s.Add(draft("banana"))
	clock.t = clock.t.Add(time.Second)
	s.Add(draft("apple"))
	require.NoError(t, s.Toggle(a.ID))

	assert.Equal(t, task.FilterAll, s.Filter())
	assert.Equal(t, task.SortNewest, s.Sort())

	s.SetFilter(task.FilterActive)
	s.SetSort(task.SortName)
	view := s.View()
	require.Len(t, view, 1)
	assert.Equal(t, "apple", view[0].Name)

	c := s.Counts()
	assert.Equal(t, 2, c.All)
	assert.Equal(t, 1, c.Active)
	assert.Equal(t, 1, c.Completed)

	s.SetFilter(task.FilterAll)
	s.SetSort(task.SortOldest)
	assert.Equal(t, "banana", s.View()[0].Name)
}

func TestInitialFilterAndSortOptions(t *testing.T) {
	s := store.New(nil, nil, store.WithFilter(task.FilterCompleted), store.WithSort(task.SortPriority))
	assert.Equal(t, task.FilterCompleted, s.Filter())
	assert.Equal(t, task.SortPriority, s.Sort())
}

// ---------------------------------------------------------------------------
// Modes
// ---------------------------------------------------------------------------

func TestMode_AddFlow(t *testing.T) {
	s, _, _ := newStore(t)
	assert.True(t, s.Mode().Is(store.ModeIdle))

	s.BeginAdd()
	assert.Equal(t, store.Adding(), s.Mode())

	got, err := s.Submit(draft("new"))
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, store.Idle(), s.Mode())
	assert.Equal(t, 1, s.Len())
}

func TestMode_EditFlow(t *testing.T) {
	s, _, _ := newStore(t)
	tk := s.Add(draft("a"))

	require.NoError(t, s.BeginEdit(tk.ID))
	assert.Equal(t, store.Editing(tk.ID), s.Mode())
	target, ok := s.Target()
	require.True(t, ok)
	assert.Equal(t, tk.ID, target.ID)

	got, err := s.Submit(draft("b"))
	require.NoError(t, err)
	assert.Equal(t, "b", got.Name)
	assert.Equal(t, tk.ID, got.ID)
	assert.Equal(t, store.Idle(), s.Mode())
}

func TestMode_DeleteFlow(t *testing.T) {
	s, _, _ := newStore(t)
	tk := s.Add(draft("a"))

	require.NoError(t, s.BeginDelete(tk.ID))
	assert.Equal(t, store.ConfirmingDelete(tk.ID), s.Mode())
	require.NoError(t, s.ConfirmDelete())
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, store.Idle(), s.Mode())

	assert.ErrorIs(t, s.ConfirmDelete(), store.ErrNoTarget)
}

func TestMode_IsExclusive(t *testing.T) {
	s, _, _ := newStore(t)
	a := s.Add(draft("a"))
	b := s.Add(draft("b"))

	require.NoError(t, s.BeginEdit(a.ID))
	require.NoError(t, s.BeginDelete(b.ID))
	assert.Equal(t, store.ConfirmingDelete(b.ID), s.Mode())

	s.BeginAdd()
	_, ok := s.Target()
	assert.False(t, ok)

	s.Cancel()
	assert.Equal(t, store.Idle(), s.Mode())
}

func TestMode_UnknownTargets(t *testing.T) {
	s, _, _ := newStore(t)
	assert.ErrorIs(t, s.BeginEdit("nope"), store.ErrNotFound)
	assert.ErrorIs(t, s.BeginDelete("nope"), store.ErrNotFound)
	assert.Equal(t, store.Idle(), s.Mode())

	_, err := s.Submit(draft("x"))
	assert.ErrorIs(t, err, store.ErrNoTarget)
}

func TestMode_DeletingEditedTaskResetsMode(t *testing.T) {
	s, _, _ := newStore(t)
	tk := s.Add(draft("a"))
	require.NoError(t, s.BeginEdit(tk.ID))
	require.NoError(t, s.Delete(tk.ID))
	assert.Equal(t, store.Idle(), s.Mode())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "idle", store.Idle().String())
	assert.Equal(t, "editing(task_9)", store.Editing("task_9").String())
}
