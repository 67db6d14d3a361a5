package juxta_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fwojciec/juxta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskType_Heavyweight(t *testing.T) {
	t.Parallel()

	assert.True(t, juxta.TaskCollate.Heavyweight())
	assert.True(t, juxta.TaskVisualize.Heavyweight())
	assert.False(t, juxta.TaskImport.Heavyweight())
	assert.False(t, juxta.TaskExport.Heavyweight())
}

func TestTaskStatus_Terminal(t *testing.T) {
	t.Parallel()

	for _, s := range []juxta.TaskStatus{juxta.TaskComplete, juxta.TaskFailed, juxta.TaskCanceled} {
		assert.True(t, s.Terminal(), s)
	}
	for _, s := range []juxta.TaskStatus{juxta.TaskPending, juxta.TaskProcessing} {
		assert.False(t, s.Terminal(), s)
	}
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	run := func(context.Context, juxta.StatusSink) error { return nil }

	assert.NoError(t, (&juxta.Task{Name: "import-1", Run: run}).Validate())
	assert.Equal(t, juxta.EINVALID, juxta.ErrorCode((&juxta.Task{Run: run}).Validate()))
	assert.Equal(t, juxta.EINVALID, juxta.ErrorCode((&juxta.Task{Name: "x"}).Validate()))
}

func TestTaskSnapshot_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("renders running task with empty finish time", func(t *testing.T) {
		t.Parallel()

		snap := juxta.TaskSnapshot{
			Status:    juxta.TaskProcessing,
			Note:      "Collating comparison set",
			StartedAt: time.Date(2026, 3, 4, 9, 5, 6, 7_000_000, time.UTC),
			Progress:  40,
		}

		b, err := json.Marshal(snap)
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"PROCESSING","note":"Collating comparison set","started":"03/04 09:05:06.007","finished":"","progress":40}`, string(b))
	})

	t.Run("renders unavailable sentinel alone", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(juxta.TaskSnapshot{Status: juxta.TaskUnavailable})
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"UNAVAILABLE"}`, string(b))
	})
}
