// Package store persists layout jobs submitted through the HTTP API.
//
// [MemoryStore] keeps jobs in process and backs tests and single-node
// deployments; [MongoStore] keeps them in a MongoDB collection so that any
// server replica can answer GET /v1/layouts/{id}.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job records one layout request and its outcome.
type Job struct {
	ID          string        `json:"id" bson:"_id"`
	Status      Status        `json:"status" bson:"status"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	MeshHash    string        `json:"mesh_hash" bson:"mesh_hash"`
	Params      layout.Params `json:"params" bson:"params"`
	Format      string        `json:"format" bson:"format"`
	Stats       mesh.Stats    `json:"stats" bson:"stats"`
	CacheHit    bool          `json:"cache_hit" bson:"cache_hit"`
	DurationMS  int64         `json:"duration_ms" bson:"duration_ms"`
	Error       string        `json:"error,omitempty" bson:"error,omitempty"`

	// Result is the encoded output mesh.
	Result []byte `json:"-" bson:"result,omitempty"`
}

// NewJob returns a running job with a fresh ID.
func NewJob(params layout.Params, format string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusRunning,
		CreatedAt: time.Now().UTC(),
		Params:    params,
		Format:    format,
	}
}

// Complete marks j done with the given output.
func (j *Job) Complete(result []byte, stats mesh.Stats, cacheHit bool) {
	j.finish()
	j.Status = StatusDone
	j.Result = result
	j.Stats = stats
	j.CacheHit = cacheHit
}

// Fail marks j failed with err.
func (j *Job) Fail(err error) {
	j.finish()
	j.Status = StatusFailed
	j.Error = err.Error()
}

func (j *Job) finish() {
	j.CompletedAt = time.Now().UTC()
	j.DurationMS = j.CompletedAt.Sub(j.CreatedAt).Milliseconds()
}

// Store persists jobs.
type Store interface {
	// SaveJob inserts or replaces j.
	SaveJob(ctx context.Context, j *Job) error
	// GetJob returns the job with the given ID or a NOT_FOUND error.
	GetJob(ctx context.Context, id string) (*Job, error)
	// ListJobs returns up to limit jobs, newest first.
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	Close(ctx context.Context) error
}
