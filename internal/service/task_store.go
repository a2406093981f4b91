package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"tasklist/internal/model"
)

// RecordStore is the durable mirror TaskStore writes through to.
type RecordStore interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	SaveAll(ctx context.Context, records ...model.Record) error
}

// TaskStore owns the task and category collections. Every operation either
// applies fully or leaves state untouched; mutations are written through to
// the record store before returning. A failed write is returned to the caller
// but the in-memory change stays applied.
type TaskStore struct {
	store RecordStore
	now   func() time.Time

	mu         sync.RWMutex
	tasks      []model.Task
	categories []string
	lastID     int64
}

func NewTaskStore(store RecordStore) *TaskStore {
	return &TaskStore{store: store, now: time.Now}
}

// Hydrate loads both records once at startup. Records that fail to parse are
// replaced by empty collections; only read errors from the store are returned.
func (s *TaskStore) Hydrate(ctx context.Context) error {
	tasks, err := loadRecord[[]model.Task](ctx, s.store, model.RecordTasks)
	if err != nil {
		return err
	}
	categories, err := loadRecord[[]string](ctx, s.store, model.RecordCategories)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.categories = categories
	s.lastID = 0
	for _, task := range tasks {
		s.lastID = max(s.lastID, task.ID)
	}

	if orphans := s.orphansLocked(); len(orphans) > 0 {
		log.Printf("[warn] hydrated %d task(s) referencing missing categories", len(orphans))
	}
	log.Printf("[info] hydrated tasks=%d categories=%d", len(s.tasks), len(s.categories))
	return nil
}

func loadRecord[T any](ctx context.Context, store RecordStore, key string) (T, error) {
	var value T
	raw, found, err := store.Load(ctx, key)
	if err != nil {
		return value, fmt.Errorf("hydrate %s: %w", key, err)
	}
	if !found {
		return value, nil
	}
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		log.Printf("[warn] malformed %s record, starting empty: %v", key, err)
		var empty T
		return empty, nil
	}
	return value, nil
}

// AddTask appends a task, creating its category on first use. It reports
// false without touching state when text or category is blank.
func (s *TaskStore) AddTask(ctx context.Context, text, category string) (int64, bool, error) {
	category = strings.TrimSpace(category)
	if strings.TrimSpace(text) == "" || category == "" {
		return 0, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID()
	s.tasks = append(s.tasks, model.Task{ID: id, Text: text, Category: category})
	if !slices.Contains(s.categories, category) {
		s.categories = append(s.categories, category)
	}
	return id, true, s.persistBoth(ctx)
}

// ToggleCompletion flips the completed flag. Unknown ids are ignored.
func (s *TaskStore) ToggleCompletion(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true, s.persistTasks(ctx)
}

// EditTaskText replaces the task text. Empty text is accepted.
func (s *TaskStore) EditTaskText(ctx context.Context, id int64, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Text = text
	return true, s.persistTasks(ctx)
}

// DeleteTask removes the task if present. The tasks record is written either way.
func (s *TaskStore) DeleteTask(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
	return len(s.tasks) != before, s.persistTasks(ctx)
}

// AddCategory appends a new category. Blank or existing names are ignored.
func (s *TaskStore) AddCategory(ctx context.Context, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.categories, name) {
		return false, nil
	}
	s.categories = append(s.categories, name)
	return true, s.persistCategories(ctx)
}

// RenameCategory renames oldName in place and moves its tasks along.
// Nothing happens when newName is blank or taken, or oldName is unknown.
func (s *TaskStore) RenameCategory(ctx context.Context, oldName, newName string) (bool, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.categories, newName) {
		return false, nil
	}
	i := slices.Index(s.categories, oldName)
	if i < 0 {
		return false, nil
	}
	s.categories[i] = newName
	for j := range s.tasks {
		if s.tasks[j].Category == oldName {
			s.tasks[j].Category = newName
		}
	}
	return true, s.persistBoth(ctx)
}

// DeleteCategory removes the category and every task in it. Both records
// are written even when the name was not present.
func (s *TaskStore) DeleteCategory(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.categories)
	s.categories = slices.DeleteFunc(s.categories, func(c string) bool { return c == name })
	s.tasks = slices.DeleteFunc(s.tasks, func(t model.Task) bool { return t.Category == name })
	return len(s.categories) != before, s.persistBoth(ctx)
}

// FilterByCategory returns the tasks in selector, or all tasks for
// model.AllCategories, in insertion order.
func (s *TaskStore) FilterByCategory(selector string) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if selector == model.AllCategories {
		return slices.Clone(s.tasks)
	}
	var out []model.Task
	for _, task := range s.tasks {
		if task.Category == selector {
			out = append(out, task)
		}
	}
	return out
}

// Task looks up a single task by id.
func (s *TaskStore) Task(id int64) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.tasks[i], true
}

func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

func (s *TaskStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *TaskStore) HasCategory(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.categories, name)
}

// Orphans lists tasks whose category is missing, which can only come from
// partially persisted state loaded at startup.
func (s *TaskStore) Orphans() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.orphansLocked()
}

func (s *TaskStore) orphansLocked() []model.Task {
	var out []model.Task
	for _, task := range s.tasks {
		if !slices.Contains(s.categories, task.Category) {
			out = append(out, task)
		}
	}
	return out
}

// nextID derives an id from the clock, bumping past the last one issued so
// tasks created within the same millisecond stay unique.
func (s *TaskStore) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *TaskStore) indexOf(id int64) int {
	return slices.IndexFunc(s.tasks, func(t model.Task) bool { return t.ID == id })
}

func (s *TaskStore) persistTasks(ctx context.Context) error {
	rec, err := encodeRecord(model.RecordTasks, s.tasks)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, rec.Name, rec.Value)
}

func (s *TaskStore) persistCategories(ctx context.Context) error {
	rec, err := encodeRecord(model.RecordCategories, s.categories)
	if err != nil {
		return err
	}
	return s.store.Save(ctx, rec.Name, rec.Value)
}

// persistBoth writes tasks and categories in one transaction so a cascade
// cannot leave the two records out of step.
func (s *TaskStore) persistBoth(ctx context.Context) error {
	tasks, err := encodeRecord(model.RecordTasks, s.tasks)
	if err != nil {
		return err
	}
	categories, err := encodeRecord(model.RecordCategories, s.categories)
	if err != nil {
		return err
	}
	return s.store.SaveAll(ctx, tasks, categories)
}

func encodeRecord[T any](name string, items []T) (model.Record, error) {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return model.Record{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return model.Record{Name: name, Value: string(data)}, nil
}
