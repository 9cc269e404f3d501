// Package queue is the file-backed task list shared with the Slack approval
// bot: the bot appends approved tasks, this side claims and completes them.
package queue

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"hoursync/internal/timeutil"
)

// Task statuses. The approval bot writes approved or rejected tasks; this
// side moves approved ones through in_progress to completed.
const (
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// Task is one queue entry. Stamps use timeutil.StampLayout.
type Task struct {
	ID          string `json:"id"`
	Text        string `json:"task"`
	Status      string `json:"status"`
	Channel     string `json:"channel,omitempty"`
	ClaimedAt   string `json:"claimed_at,omitempty"`
	CompletedAt string `json:"completed_at,omitempty"`
	Result      string `json:"result,omitempty"`
}

// Store reads and rewrites the whole queue file on every mutation. Single
// operator, no locking.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() ([]Task, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Task{}, nil
		}
		return nil, fmt.Errorf("read task queue %s: %w", s.path, err)
	}
	var tasks []Task
	if err := json.Unmarshal(content, &tasks); err != nil {
		return nil, fmt.Errorf("decode task queue %s: %w", s.path, err)
	}
	return tasks, nil
}

func (s *Store) save(tasks []Task) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create task queue directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize task queue: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write task queue %s: %w", s.path, err)
	}
	return nil
}

// Add appends an approved task and returns it.
func (s *Store) Add(text, channel string) (Task, error) {
	tasks, err := s.load()
	if err != nil {
		return Task{}, err
	}
	task := Task{
		ID:      uuid.New().String(),
		Text:    text,
		Status:  StatusApproved,
		Channel: channel,
	}
	tasks = append(tasks, task)
	if err := s.save(tasks); err != nil {
		return Task{}, err
	}
	return task, nil
}

// List returns tasks with the given status, in file order.
func (s *Store) List(status string) ([]Task, error) {
	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	matched := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status == status {
			matched = append(matched, task)
		}
	}
	return matched, nil
}

// ClaimNext marks the oldest approved task in_progress and returns it. The
// boolean is false when nothing is approved.
func (s *Store) ClaimNext() (Task, bool, error) {
	tasks, err := s.load()
	if err != nil {
		return Task{}, false, err
	}
	for i := range tasks {
		if tasks[i].Status != StatusApproved {
			continue
		}
		tasks[i].Status = StatusInProgress
		tasks[i].ClaimedAt = timeutil.UTCStamp(time.Now())
		if err := s.save(tasks); err != nil {
			return Task{}, false, err
		}
		return tasks[i], true, nil
	}
	return Task{}, false, nil
}

// Complete marks the task completed and stores the result.
func (s *Store) Complete(id, result string) (Task, error) {
	tasks, err := s.load()
	if err != nil {
		return Task{}, err
	}
	for i := range tasks {
		if tasks[i].ID != id {
			continue
		}
		tasks[i].Status = StatusCompleted
		tasks[i].Result = result
		tasks[i].CompletedAt = timeutil.UTCStamp(time.Now())
		if err := s.save(tasks); err != nil {
			return Task{}, err
		}
		return tasks[i], nil
	}
	return Task{}, fmt.Errorf("task %s not found", id)
}
