package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"taskdash/internal/task"
)

var (
	ErrRead        = errors.New("failed to read file")
	ErrParse       = errors.New("failed to parse JSON file")
	ErrNotArray    = errors.New("invalid JSON format: expected an array of tasks")
	ErrInvalidTask = errors.New("invalid task")
)

// ExportFileName names an export taken at now, e.g. tasks-2026-10-15.json.
func ExportFileName(now time.Time) string {
	return "tasks-" + now.Format("2006-01-02") + ".json"
}

// WriteExport writes tasks as a JSON array indented by two spaces.
func WriteExport(w io.Writer, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Export writes the collection into dir under ExportFileName and returns the
// file path. It never touches the key-value store.
func (a *Adapter) Export(dir string, tasks []task.Task) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := WriteExport(&buf, tasks); err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName(a.now()))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// ImportFile reads and decodes an export file. It has no side effects; the
// caller decides whether to replace its collection.
func ImportFile(ctx context.Context, path string) ([]task.Task, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()
	return ReadImport(ctx, f)
}

func ReadImport(ctx context.Context, r io.Reader) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Decode(data)
}

type record struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// Decode parses a JSON array of tasks, checking every element field by field.
// Elements without an id get a fresh one. Any bad element rejects the whole
// payload.
func Decode(data []byte) ([]task.Task, error) {
	if !json.Valid(data) {
		return nil, ErrParse
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil || elems == nil {
		return nil, ErrNotArray
	}
	tasks := make([]task.Task, 0, len(elems))
	seen := make(map[string]struct{}, len(elems))
	for i, raw := range elems {
		t, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("%w at index %d: %v", ErrInvalidTask, i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w at index %d: duplicate id %q", ErrInvalidTask, i, t.ID)
		}
		seen[t.ID] = struct{}{}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func decodeRecord(raw json.RawMessage) (task.Task, error) {
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return task.Task{}, errors.New("expected an object with task fields")
	}
	var t task.Task
	if rec.ID != nil && strings.TrimSpace(*rec.ID) != "" {
		t.ID = *rec.ID
	} else {
		t.ID = task.NewID()
	}
	if rec.Name == nil {
		return task.Task{}, errors.New("name is missing")
	}
	t.Name = *rec.Name
	if rec.Description != nil {
		t.Description = *rec.Description
	}
	if errs := task.ValidateRecord(t); !errs.Valid() {
		return task.Task{}, errs.Err()
	}
	if rec.DueDate != nil && *rec.DueDate != "" {
		due, err := time.Parse(time.RFC3339, *rec.DueDate)
		if err != nil {
			return task.Task{}, fmt.Errorf("dueDate: %v", err)
		}
		t.DueDate = &due
	}
	if rec.Status == nil {
		return task.Task{}, errors.New("status is missing")
	}
	status, err := task.ParseStatus(*rec.Status)
	if err != nil {
		return task.Task{}, err
	}
	t.Status = status
	if rec.Priority == nil {
		return task.Task{}, errors.New("priority is missing")
	}
	priority, err := task.ParsePriority(*rec.Priority)
	if err != nil {
		return task.Task{}, err
	}
	t.Priority = priority
	return t, nil
}
