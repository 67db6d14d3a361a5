// Package task runs named background tasks in two bounded worker pools,
// one for heavyweight collation and visualization work and one for
// everything else.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/juxta"
	"golang.org/x/sync/errgroup"
)

// Ensure Manager implements juxta.TaskManager.
var _ juxta.TaskManager = (*Manager)(nil)

// Default pool sizes.
const (
	DefaultHeavyLimit = 2
	DefaultLightLimit = 10
)

// Config sizes the worker pools. Non-positive limits use the defaults.
type Config struct {
	HeavyLimit int
	LightLimit int
}

// Manager is an in-memory task registry. At most one non-terminal task
// per name exists at a time; terminal tasks stay queryable until their
// name is submitted again.
type Manager struct {
	logger *slog.Logger
	heavy  *errgroup.Group
	light  *errgroup.Group

	mu    sync.Mutex
	tasks map[string]*entry

	wg sync.WaitGroup
}

// NewManager creates a Manager. A nil logger discards log output.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if cfg.HeavyLimit <= 0 {
		cfg.HeavyLimit = DefaultHeavyLimit
	}
	if cfg.LightLimit <= 0 {
		cfg.LightLimit = DefaultLightLimit
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	heavy, light := new(errgroup.Group), new(errgroup.Group)
	heavy.SetLimit(cfg.HeavyLimit)
	light.SetLimit(cfg.LightLimit)

	return &Manager{
		logger: logger,
		heavy:  heavy,
		light:  light,
		tasks:  make(map[string]*entry),
	}
}

// Submit registers and dispatches t unless a live task with the same
// name exists. It never blocks on pool capacity.
func (m *Manager) Submit(t *juxta.Task) bool {
	if err := t.Validate(); err != nil {
		m.logger.Warn("task rejected", "task", t.Name, "err", err)
		return false
	}

	m.mu.Lock()
	if prev, ok := m.tasks[t.Name]; ok && !prev.snapshot().Status.Terminal() {
		m.mu.Unlock()
		m.logger.Info("task discarded", "task", t.Name, "reason", "already running")
		return false
	}
	e := newEntry(t)
	m.tasks[t.Name] = e
	m.wg.Add(1)
	m.mu.Unlock()

	pool := m.light
	if t.Type.Heavyweight() {
		pool = m.heavy
	}
	m.logger.Info("task submitted", "task", t.Name, "type", t.Type, "heavy", t.Type.Heavyweight())

	go pool.Go(func() error {
		defer m.wg.Done()
		m.run(e)
		return nil
	})
	return true
}

// Cancel signals the task to stop. A task still waiting for a worker is
// canceled immediately and never runs.
func (m *Manager) Cancel(name string) {
	e := m.lookup(name)
	if e == nil {
		return
	}
	if e.cancelPending() {
		m.logger.Info("task canceled", "task", name, "status", juxta.TaskCanceled)
	}
	e.cancel()
}

// Exists reports whether the named task is processing.
func (m *Manager) Exists(name string) bool {
	e := m.lookup(name)
	return e != nil && e.snapshot().Status == juxta.TaskProcessing
}

// Status returns a snapshot of the named task.
func (m *Manager) Status(name string) juxta.TaskSnapshot {
	e := m.lookup(name)
	if e == nil {
		return juxta.TaskSnapshot{Status: juxta.TaskUnavailable}
	}
	return e.snapshot()
}

// Close waits for every dispatched task to finish. It does not cancel
// them.
func (m *Manager) Close() error {
	m.wg.Wait()
	return nil
}

func (m *Manager) lookup(name string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[name]
}

func (m *Manager) run(e *entry) {
	if !e.start() {
		return
	}
	m.logger.Info("task started", "task", e.task.Name, "type", e.task.Type)

	begin := time.Now()
	err := e.execute()
	status := e.finish(err)

	m.logger.Info("task finished",
		"task", e.task.Name,
		"status", status,
		"duration", time.Since(begin),
		"err", err,
	)
}

// entry is the registry record of one submitted task. It is the status
// sink handed to the task function.
type entry struct {
	task   *juxta.Task
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	status     juxta.TaskStatus
	note       string
	startedAt  time.Time
	finishedAt time.Time
	steps      int
	total      int
}

func newEntry(t *juxta.Task) *entry {
	ctx, cancel := context.WithCancel(context.Background())
	return &entry{task: t, ctx: ctx, cancel: cancel, status: juxta.TaskPending}
}

// start moves a pending entry to processing. It returns false if the
// entry was canceled while queued.
func (e *entry) start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != juxta.TaskPending {
		return false
	}
	e.status = juxta.TaskProcessing
	e.startedAt = time.Now()
	return true
}

func (e *entry) cancelPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != juxta.TaskPending {
		return false
	}
	e.status = juxta.TaskCanceled
	e.finishedAt = time.Now()
	return true
}

func (e *entry) execute() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return e.task.Run(e.ctx, e)
}

func (e *entry) finish(err error) juxta.TaskStatus {
	defer e.cancel()

	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case err == nil:
		e.status = juxta.TaskComplete
	case errors.Is(err, context.Canceled) && e.ctx.Err() != nil:
		e.status = juxta.TaskCanceled
	default:
		e.status = juxta.TaskFailed
		e.note = failureNote(err)
	}
	e.finishedAt = time.Now()
	return e.status
}

// failureNote renders err for display. An application error keeps the
// context it was wrapped in but shows only its message.
func failureNote(err error) string {
	var appErr *juxta.Error
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	return strings.Replace(err.Error(), appErr.Error(), appErr.Message, 1)
}

func (e *entry) snapshot() juxta.TaskSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := juxta.TaskSnapshot{
		Status:     e.status,
		Note:       e.note,
		StartedAt:  e.startedAt,
		FinishedAt: e.finishedAt,
	}
	if e.total > 0 {
		s.Progress = min(100, e.steps*100/e.total)
	}
	return s
}

func (e *entry) SetSteps(total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.total = total
}

func (e *entry) Step() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.steps++
}

func (e *entry) SetNote(note string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.note = note
}
