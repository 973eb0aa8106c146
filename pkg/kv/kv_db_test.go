package kv

import (
	"testing"

	"trashroute/pkg/routegen"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
)

func testStore(t *testing.T) *JobStore {
	t.Helper()
	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewJobStore(db)
}

func TestJobRoundTrip(t *testing.T) {
	store := testStore(t)

	rec := JobRecord{
		ID:        "job-1",
		UploadID:  "upload-1",
		Status:    JOB_PENDING,
		Message:   "queued",
		CreatedAt: 1700000000,
		UpdatedAt: 1700000000,
	}
	assert.NoError(t, store.PutJob(rec))

	loaded, err := store.GetJob("job-1")
	assert.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestGetJobNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.GetJob("missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestUpdateJob(t *testing.T) {
	store := testStore(t)

	assert.NoError(t, store.PutJob(JobRecord{ID: "job-2", Status: JOB_PENDING}))
	err := store.UpdateJob("job-2", func(rec *JobRecord) {
		rec.Status = JOB_COMPLETE
		rec.HasStats = true
		rec.Stats = routegen.Statistics{UniqueSegments: 29, DirectedTraversals: 58, OneWayIgnored: true}
	})
	assert.NoError(t, err)

	loaded, err := store.GetJob("job-2")
	assert.NoError(t, err)
	assert.Equal(t, JOB_COMPLETE, loaded.Status)
	assert.True(t, loaded.HasStats)
	assert.Equal(t, 29, loaded.Stats.UniqueSegments)
	assert.Equal(t, 58, loaded.Stats.DirectedTraversals)
}

func TestUpdateJobNotFound(t *testing.T) {
	store := testStore(t)
	err := store.UpdateJob("missing", func(rec *JobRecord) {})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestArtifactRoundTrip(t *testing.T) {
	store := testStore(t)

	payload := []byte("<gpx><trk><trkseg></trkseg></trk></gpx>")
	assert.NoError(t, store.SaveArtifact("job-3", ARTIFACT_GPX, payload))

	loaded, err := store.GetArtifact("job-3", ARTIFACT_GPX)
	assert.NoError(t, err)
	assert.Equal(t, payload, loaded)

	_, err = store.GetArtifact("job-3", ARTIFACT_REPORT)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}
