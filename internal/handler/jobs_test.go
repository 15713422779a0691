package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobTrackerLifecycle(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("job-1", 3)

	job, ok := tracker.GetJob("job-1")
	require.True(t, ok)
	assert.Equal(t, "running", job.Status)
	assert.Equal(t, 3, job.TotalDocuments)

	tracker.Progress("job-1", 2, 14, 1)
	job, _ = tracker.GetJob("job-1")
	assert.Equal(t, 2, job.ProcessedDocuments)
	assert.Equal(t, 14, job.StoredChunks)
	assert.Equal(t, 1, job.SkippedDocuments)

	tracker.Complete("job-1", 20, 1)
	job, _ = tracker.GetJob("job-1")
	assert.Equal(t, "complete", job.Status)
	assert.Equal(t, 20, job.StoredChunks)
	assert.False(t, job.CompletedAt.IsZero())
}

func TestJobTrackerFail(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("job-2", 1)
	tracker.Fail("job-2", "data directory missing")

	job, ok := tracker.GetJob("job-2")
	require.True(t, ok)
	assert.Equal(t, "error", job.Status)
	assert.Equal(t, "data directory missing", job.Error)
}

func TestJobTrackerUnknownJob(t *testing.T) {
	tracker := NewJobTracker()
	_, ok := tracker.GetJob("nope")
	assert.False(t, ok)

	// Updates to unknown jobs are no-ops.
	tracker.Progress("nope", 1, 1, 0)
	tracker.Complete("nope", 1, 0)
}

func TestJobTrackerSubscribeReceivesUpdates(t *testing.T) {
	tracker := NewJobTracker()
	tracker.CreateJob("job-3", 2)

	ch := tracker.Subscribe("job-3")
	defer tracker.Unsubscribe("job-3", ch)

	tracker.Progress("job-3", 1, 5, 0)

	select {
	case update := <-ch:
		assert.Equal(t, 1, update.ProcessedDocuments)
		assert.Equal(t, 5, update.StoredChunks)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}
