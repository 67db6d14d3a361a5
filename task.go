package juxta

import (
	"context"
	"encoding/json"
	"time"
)

// TaskType identifies the kind of work a background task performs.
type TaskType string

// TaskType constants.
const (
	TaskImport    TaskType = "import"
	TaskTokenize  TaskType = "tokenize"
	TaskCollate   TaskType = "collate"
	TaskVisualize TaskType = "visualize"
	TaskExport    TaskType = "export"
)

// Heavyweight reports whether the task runs in the resource-bounded pool.
func (t TaskType) Heavyweight() bool {
	return t == TaskCollate || t == TaskVisualize
}

// TaskStatus is the lifecycle state of a background task.
type TaskStatus string

// TaskStatus constants. TaskUnavailable is only reported for names that
// are not registered.
const (
	TaskPending     TaskStatus = "PENDING"
	TaskProcessing  TaskStatus = "PROCESSING"
	TaskComplete    TaskStatus = "COMPLETE"
	TaskFailed      TaskStatus = "FAILED"
	TaskCanceled    TaskStatus = "CANCELED"
	TaskUnavailable TaskStatus = "UNAVAILABLE"
)

// Terminal reports whether no further transition can happen.
func (s TaskStatus) Terminal() bool {
	return s == TaskComplete || s == TaskFailed || s == TaskCanceled
}

// TaskFunc performs the work of a task. It should check ctx between
// coarse units of work and return ctx.Err() once canceled.
type TaskFunc func(ctx context.Context, status StatusSink) error

// Task is a named unit of background work. Names are derived from the
// operation and its operand (e.g. "import-<setID>").
type Task struct {
	Name string
	Type TaskType
	Run  TaskFunc
}

// Validate returns an error if the task cannot be submitted.
func (t *Task) Validate() error {
	if t.Name == "" {
		return Errorf(EINVALID, "task name required")
	}
	if t.Run == nil {
		return Errorf(EINVALID, "task %q has no run function", t.Name)
	}
	return nil
}

// StatusSink receives progress reports from a running task.
type StatusSink interface {
	// SetSteps announces the number of steps the task will report.
	SetSteps(total int)

	// Step marks one step as done.
	Step()

	// SetNote replaces the free-text status message.
	SetNote(note string)
}

// TaskSnapshot is a point-in-time copy of a task's state.
type TaskSnapshot struct {
	Status     TaskStatus
	Note       string
	StartedAt  time.Time
	FinishedAt time.Time
	Progress   int
}

// SnapshotTimeFormat is used for task timestamps in JSON.
const SnapshotTimeFormat = "01/02 15:04:05.000"

// MarshalJSON renders the snapshot for polling clients. Unset timestamps
// render as empty strings.
func (s TaskSnapshot) MarshalJSON() ([]byte, error) {
	if s.Status == TaskUnavailable {
		return json.Marshal(struct {
			Status TaskStatus `json:"status"`
		}{s.Status})
	}
	return json.Marshal(struct {
		Status   TaskStatus `json:"status"`
		Note     string     `json:"note"`
		Started  string     `json:"started"`
		Finished string     `json:"finished"`
		Progress int        `json:"progress"`
	}{
		Status:   s.Status,
		Note:     s.Note,
		Started:  formatSnapshotTime(s.StartedAt),
		Finished: formatSnapshotTime(s.FinishedAt),
		Progress: s.Progress,
	})
}

func formatSnapshotTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(SnapshotTimeFormat)
}

// TaskManager runs named tasks in the background, at most one live task
// per name.
type TaskManager interface {
	// Submit registers and dispatches the task unless a non-terminal task
	// with the same name exists. Reports whether the task was accepted.
	Submit(task *Task) bool

	// Cancel raises the cooperative cancellation signal of a task.
	Cancel(name string)

	// Exists reports whether a task with this name is processing.
	Exists(name string) bool

	// Status returns a snapshot of the task, or a snapshot with status
	// TaskUnavailable if no such task is registered.
	Status(name string) TaskSnapshot
}
