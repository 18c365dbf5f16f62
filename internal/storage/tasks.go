package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"taskpad/internal/task"
)

// TaskRepository reads and writes the whole task list as one JSON array
// stored under Key.
type TaskRepository struct {
	kv  KV
	key string
	log *slog.Logger
}

func NewTaskRepository(kv KV, key string, log *slog.Logger) *TaskRepository {
	if key == "" {
		key = task.StorageKey
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &TaskRepository{kv: kv, key: key, log: log}
}

// Load returns the stored list. A missing key, a read failure or data that
// does not parse as a task array all yield an empty list.
func (r *TaskRepository) Load(ctx context.Context) []task.Task {
	data, err := r.kv.Get(ctx, r.key)
	if errors.Is(err, ErrNotFound) {
		return []task.Task{}
	}
	if err != nil {
		r.log.Warn("read stored tasks, starting empty", "key", r.key, "err", err)
		return []task.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		r.log.Warn("stored tasks unreadable, starting empty", "key", r.key, "err", err)
		return []task.Task{}
	}
	r.log.Debug("loaded tasks", "key", r.key, "count", len(tasks))
	return tasks
}

// Save overwrites the stored list with tasks.
func (r *TaskRepository) Save(ctx context.Context, tasks []task.Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, r.key, data)
}

// Encode renders tasks as a JSON array; nil encodes as [].
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.Marshal(tasks)
}

// Decode parses a JSON array of tasks. JSON null decodes to an empty list.
func Decode(data []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
