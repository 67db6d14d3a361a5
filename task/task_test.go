package task_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/juxta"
	"github.com/fwojciec/juxta/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

// blocking returns a task function that counts its runs and blocks until
// release is closed or its context is canceled.
func blocking(runs *atomic.Int32, release <-chan struct{}) juxta.TaskFunc {
	return func(ctx context.Context, _ juxta.StatusSink) error {
		runs.Add(1)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func waitStatus(t *testing.T, m *task.Manager, name string, want juxta.TaskStatus) {
	t.Helper()
	require.Eventually(t, func() bool {
		return m.Status(name).Status == want
	}, waitFor, tick, "task %s never reached %s", name, want)
}

func TestManager_Submit(t *testing.T) {
	t.Parallel()

	t.Run("runs one task per name until it completes", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)
		var runs atomic.Int32
		release := make(chan struct{})

		require.True(t, m.Submit(&juxta.Task{Name: "import-42", Type: juxta.TaskImport, Run: blocking(&runs, release)}))
		waitStatus(t, m, "import-42", juxta.TaskProcessing)
		assert.True(t, m.Exists("import-42"))

		assert.False(t, m.Submit(&juxta.Task{Name: "import-42", Type: juxta.TaskImport, Run: blocking(&runs, release)}))

		close(release)
		require.NoError(t, m.Close())
		assert.Equal(t, int32(1), runs.Load())
		assert.Equal(t, juxta.TaskComplete, m.Status("import-42").Status)
		assert.False(t, m.Exists("import-42"))

		require.True(t, m.Submit(&juxta.Task{Name: "import-42", Type: juxta.TaskImport, Run: blocking(&runs, release)}))
		require.NoError(t, m.Close())
		assert.Equal(t, int32(2), runs.Load())
	})

	t.Run("concurrent submits of one name dispatch once", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)
		var runs, accepted atomic.Int32
		release := make(chan struct{})
		start := make(chan struct{})

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if m.Submit(&juxta.Task{Name: "import-7", Type: juxta.TaskImport, Run: blocking(&runs, release)}) {
					accepted.Add(1)
				}
			}()
		}
		close(start)
		wg.Wait()

		close(release)
		require.NoError(t, m.Close())
		assert.Equal(t, int32(1), accepted.Load())
		assert.Equal(t, int32(1), runs.Load())
		assert.Equal(t, juxta.TaskComplete, m.Status("import-7").Status)
	})

	t.Run("full heavyweight pool does not delay lightweight tasks", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{HeavyLimit: 1}, nil)
		var runs atomic.Int32
		release := make(chan struct{})
		defer func() {
			close(release)
			m.Close()
		}()

		require.True(t, m.Submit(&juxta.Task{Name: "collate-1", Type: juxta.TaskCollate, Run: blocking(&runs, release)}))
		waitStatus(t, m, "collate-1", juxta.TaskProcessing)
		require.True(t, m.Submit(&juxta.Task{Name: "visualize-1", Type: juxta.TaskVisualize, Run: blocking(&runs, release)}))

		require.True(t, m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: blocking(&runs, release)}))
		waitStatus(t, m, "import-1", juxta.TaskProcessing)

		assert.Equal(t, juxta.TaskPending, m.Status("visualize-1").Status)
	})

	t.Run("rejects invalid task", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := task.NewManager(task.Config{}, slog.New(slog.NewTextHandler(&buf, nil)))

		assert.False(t, m.Submit(&juxta.Task{Name: "import-1"}))
		assert.Equal(t, juxta.TaskUnavailable, m.Status("import-1").Status)
		assert.Contains(t, buf.String(), "task rejected")
	})

	t.Run("logs lifecycle", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := task.NewManager(task.Config{}, slog.New(slog.NewTextHandler(&buf, nil)))

		m.Submit(&juxta.Task{Name: "export-1", Type: juxta.TaskExport, Run: func(context.Context, juxta.StatusSink) error {
			return nil
		}})
		require.NoError(t, m.Close())

		output := buf.String()
		assert.Contains(t, output, "task submitted")
		assert.Contains(t, output, "task started")
		assert.Contains(t, output, "task finished")
		assert.Contains(t, output, "status=COMPLETE")
		assert.Contains(t, output, "duration=")
	})
}

func TestManager_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("running task ends canceled", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)
		var runs atomic.Int32

		require.True(t, m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: blocking(&runs, nil)}))
		waitStatus(t, m, "import-1", juxta.TaskProcessing)

		m.Cancel("import-1")
		require.NoError(t, m.Close())

		s := m.Status("import-1")
		assert.Equal(t, juxta.TaskCanceled, s.Status)
		assert.False(t, s.FinishedAt.IsZero())
	})

	t.Run("queued task never runs", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{LightLimit: 1}, nil)
		var first, second atomic.Int32
		release := make(chan struct{})

		require.True(t, m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: blocking(&first, release)}))
		waitStatus(t, m, "import-1", juxta.TaskProcessing)
		require.True(t, m.Submit(&juxta.Task{Name: "import-2", Type: juxta.TaskImport, Run: blocking(&second, release)}))

		m.Cancel("import-2")
		assert.Equal(t, juxta.TaskCanceled, m.Status("import-2").Status)

		close(release)
		require.NoError(t, m.Close())
		assert.Equal(t, int32(0), second.Load())
		assert.Equal(t, juxta.TaskComplete, m.Status("import-1").Status)
	})

	t.Run("unknown name is ignored", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		m.Cancel("missing")

		assert.Equal(t, juxta.TaskUnavailable, m.Status("missing").Status)
	})
}

func TestManager_Status(t *testing.T) {
	t.Parallel()

	t.Run("reports note and progress while running", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)
		release := make(chan struct{})
		defer func() {
			close(release)
			m.Close()
		}()

		m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: func(ctx context.Context, status juxta.StatusSink) error {
			status.SetSteps(4)
			status.Step()
			status.Step()
			status.SetNote("halfway")
			<-release
			return nil
		}})

		require.Eventually(t, func() bool {
			return m.Status("import-1").Note == "halfway"
		}, waitFor, tick)

		s := m.Status("import-1")
		assert.Equal(t, juxta.TaskProcessing, s.Status)
		assert.Equal(t, 50, s.Progress)
		assert.False(t, s.StartedAt.IsZero())
		assert.True(t, s.FinishedAt.IsZero())
	})

	t.Run("failure message becomes the note", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: func(context.Context, juxta.StatusSink) error {
			return fmt.Errorf("extract witness A: %w", juxta.Errorf(juxta.EINVALID, "malformed markup: line 3: unexpected EOF"))
		}})
		require.NoError(t, m.Close())

		s := m.Status("import-1")
		assert.Equal(t, juxta.TaskFailed, s.Status)
		assert.Equal(t, "extract witness A: malformed markup: line 3: unexpected EOF", s.Note)
	})

	t.Run("unwrapped application error shows its message", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		m.Submit(&juxta.Task{Name: "import-2", Type: juxta.TaskImport, Run: func(context.Context, juxta.StatusSink) error {
			return juxta.Errorf(juxta.ENOTFOUND, "source %q not found", "a.xml")
		}})
		require.NoError(t, m.Close())

		assert.Equal(t, `source "a.xml" not found`, m.Status("import-2").Note)
	})

	t.Run("panic fails the task", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		m.Submit(&juxta.Task{Name: "collate-1", Type: juxta.TaskCollate, Run: func(context.Context, juxta.StatusSink) error {
			panic("index out of range")
		}})
		require.NoError(t, m.Close())

		s := m.Status("collate-1")
		assert.Equal(t, juxta.TaskFailed, s.Status)
		assert.Contains(t, s.Note, "index out of range")
	})

	t.Run("canceled error without cancel request is a failure", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		m.Submit(&juxta.Task{Name: "import-1", Type: juxta.TaskImport, Run: func(context.Context, juxta.StatusSink) error {
			return fmt.Errorf("downstream: %w", context.Canceled)
		}})
		require.NoError(t, m.Close())

		assert.Equal(t, juxta.TaskFailed, m.Status("import-1").Status)
	})

	t.Run("unknown name is unavailable", func(t *testing.T) {
		t.Parallel()

		m := task.NewManager(task.Config{}, nil)

		assert.Equal(t, juxta.TaskSnapshot{Status: juxta.TaskUnavailable}, m.Status("missing"))
		assert.False(t, m.Exists("missing"))
	})
}
