package mock

import (
	"sync"

	"github.com/fwojciec/juxta"
)

var _ juxta.StatusSink = (*StatusSink)(nil)

// StatusSink is a mock implementation of juxta.StatusSink.
type StatusSink struct {
	SetStepsFn func(total int)
	StepFn     func()
	SetNoteFn  func(note string)
}

func (s *StatusSink) SetSteps(total int) {
	s.SetStepsFn(total)
}

func (s *StatusSink) Step() {
	s.StepFn()
}

func (s *StatusSink) SetNote(note string) {
	s.SetNoteFn(note)
}

// StatusRecorder is a juxta.StatusSink that records every call.
// It is safe for concurrent use.
type StatusRecorder struct {
	mu    sync.Mutex
	total int
	steps int
	notes []string
}

func (r *StatusRecorder) SetSteps(total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.total = total
}

func (r *StatusRecorder) Step() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps++
}

func (r *StatusRecorder) SetNote(note string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
}

// Progress returns the completed and total step counts.
func (r *StatusRecorder) Progress() (steps, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps, r.total
}

// Notes returns a copy of the notes set so far.
func (r *StatusRecorder) Notes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notes...)
}

var _ juxta.TaskManager = (*TaskManager)(nil)

// TaskManager is a mock implementation of juxta.TaskManager.
type TaskManager struct {
	SubmitFn func(task *juxta.Task) bool
	CancelFn func(name string)
	ExistsFn func(name string) bool
	StatusFn func(name string) juxta.TaskSnapshot
}

func (m *TaskManager) Submit(task *juxta.Task) bool {
	return m.SubmitFn(task)
}

func (m *TaskManager) Cancel(name string) {
	m.CancelFn(name)
}

func (m *TaskManager) Exists(name string) bool {
	return m.ExistsFn(name)
}

func (m *TaskManager) Status(name string) juxta.TaskSnapshot {
	return m.StatusFn(name)
}
