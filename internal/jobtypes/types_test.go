package jobtypes

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"pending", StatusPending, false},
		{"running", StatusRunning, false},
		{"completed", StatusCompleted, true},
		{"failed", StatusFailed, true},
		{"cancelled", StatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestNewJobRecord_CopiesInputs(t *testing.T) {
	files := []string{"a.pdf", "b.pdf"}
	params := map[string]interface{}{"k": "v"}
	now := time.Now()

	r := NewJobRecord("job_1", "merge", files, params, now)

	assert.Equal(t, StatusPending, r.Status)
	assert.Equal(t, 2, r.TotalFiles)
	assert.Equal(t, now, r.CreatedAt)
	assert.Nil(t, r.StartedAt)
	assert.Nil(t, r.CompletedAt)

	// Mutating the caller's slices/maps must not affect the record.
	files[0] = "mutated.pdf"
	params["k"] = "mutated"
	assert.Equal(t, "a.pdf", r.Files[0])
	assert.Equal(t, "v", r.Params["k"])
}

func TestJobRecord_Snapshot_IsDecoupled(t *testing.T) {
	r := NewJobRecord("job_1", "extract_text", []string{"a.pdf"}, nil, time.Now())
	r.Results = append(r.Results, OperationOutcome{Success: true, OutputFiles: []string{"out.txt"}})

	snap := r.Snapshot()
	assert.Len(t, snap.Results, 1)

	// Mutating the live record after taking a snapshot must not leak
	// through to the published copy.
	r.Results[0].OutputFiles[0] = "tampered.txt"
	r.Results = append(r.Results, OperationOutcome{Success: false})

	assert.Equal(t, "out.txt", snap.Results[0].OutputFiles[0])
	assert.Len(t, snap.Results, 1)
}

func TestJobRecord_Snapshot_TimestampsIndependent(t *testing.T) {
	r := NewJobRecord("job_1", "merge", []string{"a.pdf"}, nil, time.Now())
	started := time.Now()
	r.StartedAt = &started

	snap := r.Snapshot()
	if snap.StartedAt == nil {
		t.Fatal("expected StartedAt to be set")
	}

	// Mutating the pointee in the live record must not affect the
	// snapshot's copy.
	*r.StartedAt = started.Add(time.Hour)
	assert.Equal(t, started, *snap.StartedAt)
}

func TestSnapshot_FailedFileSubset(t *testing.T) {
	snap := Snapshot{
		Files: []string{"good.pdf", "bad.pdf", "good2.pdf"},
		Results: []OperationOutcome{
			{Success: true},
			{Success: false},
			{Success: true},
		},
	}
	assert.Equal(t, []string{"bad.pdf"}, snap.FailedFileSubset())
}

func TestSnapshot_FailedFileSubset_PreservesOrder(t *testing.T) {
	snap := Snapshot{
		Files: []string{"a.pdf", "b.pdf", "c.pdf", "d.pdf"},
		Results: []OperationOutcome{
			{Success: false},
			{Success: true},
			{Success: false},
			{Success: true},
		},
	}
	assert.Equal(t, []string{"a.pdf", "c.pdf"}, snap.FailedFileSubset())
}

func TestSnapshot_FailedFileSubset_Empty(t *testing.T) {
	snap := Snapshot{
		Files:   []string{"a.pdf"},
		Results: []OperationOutcome{{Success: true}},
	}
	assert.Empty(t, snap.FailedFileSubset())
}

func TestCancelSignal_SingleShot(t *testing.T) {
	r := NewJobRecord("job_1", "merge", []string{"a.pdf"}, nil, time.Now())
	assert.False(t, r.CancelSignal.Load())
	r.CancelSignal.Store(true)
	assert.True(t, r.CancelSignal.Load())
}
