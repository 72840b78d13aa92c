package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meshforce/pkg/errors"
	"github.com/matzehuels/meshforce/pkg/layout"
	"github.com/matzehuels/meshforce/pkg/mesh"
)

func TestJobLifecycle(t *testing.T) {
	j := NewJob(layout.DefaultParams(), "obj")
	if _, err := uuid.Parse(j.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", j.ID, err)
	}
	if j.Status != StatusRunning {
		t.Errorf("Status = %q, want running", j.Status)
	}

	stats := mesh.NewStats(4, 6, 4)
	j.Complete([]byte("v 0 0 0\n"), stats, true)
	if j.Status != StatusDone || !j.CacheHit || j.Stats != stats {
		t.Errorf("after Complete: %+v", j)
	}
	if j.CompletedAt.Before(j.CreatedAt) || j.DurationMS < 0 {
		t.Errorf("timestamps: created %v completed %v", j.CreatedAt, j.CompletedAt)
	}

	f := NewJob(layout.DefaultParams(), "obj")
	f.Fail(errors.New(errors.ErrCodeDegenerateTopology, "open mesh"))
	if f.Status != StatusFailed || f.Error == "" {
		t.Errorf("after Fail: %+v", f)
	}
}

// testStore exercises the Store contract against any backend.
func testStore(t *testing.T, s Store) {
	ctx := context.Background()

	if _, err := s.GetJob(ctx, uuid.NewString()); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Fatalf("GetJob(unknown) = %v, want NOT_FOUND", err)
	}

	base := time.Now().UTC().Truncate(time.Millisecond)
	var ids []string
	for i := 0; i < 3; i++ {
		j := NewJob(layout.Params{DistOpt: 1, TempStart: 0.1, Iterations: i}, "obj")
		j.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.SaveJob(ctx, j); err != nil {
			t.Fatalf("SaveJob: %v", err)
		}
		ids = append(ids, j.ID)
	}

	got, err := s.GetJob(ctx, ids[1])
	if err != nil {
		t.Fatalf("GetJob: %v", err)
	}
	if got.Params.Iterations != 1 || got.Status != StatusRunning {
		t.Errorf("GetJob = %+v", got)
	}

	got.Complete([]byte("payload"), mesh.NewStats(4, 6, 4), false)
	if err := s.SaveJob(ctx, got); err != nil {
		t.Fatalf("SaveJob(update): %v", err)
	}
	updated, err := s.GetJob(ctx, ids[1])
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != StatusDone || string(updated.Result) != "payload" || updated.Stats.Edges != 6 {
		t.Errorf("updated job = %+v", updated)
	}

	list, err := s.ListJobs(ctx, 2)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(list) != 2 || list[0].ID != ids[2] || list[1].ID != ids[1] {
		t.Errorf("ListJobs(2) returned wrong order or size: %d jobs", len(list))
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close(context.Background())
	testStore(t, s)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	j := NewJob(layout.DefaultParams(), "obj")
	if err := s.SaveJob(ctx, j); err != nil {
		t.Fatal(err)
	}
	j.Status = StatusFailed

	got, err := s.GetJob(ctx, j.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusRunning {
		t.Error("mutating the saved job changed the stored copy")
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MESHFORCE_MONGO_URI")
	if uri == "" {
		t.Skip("MESHFORCE_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "meshforce_test_" + uuid.NewString()[:8]
	s, err := NewMongoStore(ctx, uri, db)
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	}()
	testStore(t, s)
}
