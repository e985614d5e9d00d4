// Package persist mirrors the task collection into a key-value store and
// moves it in and out of JSON files.
package persist

import (
	"encoding/json"
	"log"
	"time"

	"taskdash/internal/task"
)

// Keys used in the key-value store.
const (
	TasksKey = "tasks"
	ThemeKey = "themeMode"
)

// KV is the storage medium: string keys holding text blobs.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

type Adapter struct {
	kv     KV
	logger *log.Logger
	now    func() time.Time
}

type Option func(*Adapter)

func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) {
		if now != nil {
			a.now = now
		}
	}
}

func New(kv KV, opts ...Option) *Adapter {
	a := &Adapter{kv: kv, logger: log.Default(), now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save writes the whole collection under TasksKey. Failures are logged and
// never returned; the in-memory collection stays authoritative.
func (a *Adapter) Save(tasks []task.Task) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		a.logger.Printf("failed to save tasks: %v", err)
		return
	}
	if err := a.kv.Set(TasksKey, string(data)); err != nil {
		a.logger.Printf("failed to save tasks: %v", err)
	}
}

// Load reads the collection from TasksKey. A missing key, unreadable store
// or corrupt value all yield an empty collection.
func (a *Adapter) Load() []task.Task {
	raw, ok, err := a.kv.Get(TasksKey)
	if err != nil {
		a.logger.Printf("failed to load tasks: %v", err)
		return []task.Task{}
	}
	if !ok {
		return []task.Task{}
	}
	tasks, err := Decode([]byte(raw))
	if err != nil {
		a.logger.Printf("failed to load tasks: %v", err)
		return []task.Task{}
	}
	return tasks
}

// LoadTheme returns the stored preference, light unless dark was saved.
func (a *Adapter) LoadTheme() Theme {
	raw, ok, err := a.kv.Get(ThemeKey)
	if err != nil {
		a.logger.Printf("failed to load theme: %v", err)
		return ThemeLight
	}
	if ok && Theme(raw) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (a *Adapter) SaveTheme(t Theme) {
	if err := a.kv.Set(ThemeKey, string(t)); err != nil {
		a.logger.Printf("failed to save theme: %v", err)
	}
}
