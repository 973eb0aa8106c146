package service

import (
	"strings"
	"testing"

	"trashroute/pkg/concurrent"
	"trashroute/pkg/kv"
	"trashroute/pkg/osmparser"
	"trashroute/pkg/routegen"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/assert"
)

const sampleOSM = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="45.5000" lon="-73.5600"/>
  <node id="2" lat="45.5000" lon="-73.5590"/>
  <node id="3" lat="45.5010" lon="-73.5600"/>
  <way id="100">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <nd ref="1"/>
    <tag k="highway" v="residential"/>
  </way>
</osm>
`

func testService(t *testing.T) (*RouteGenService, *concurrent.WorkerPool) {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir()).WithLogger(nil)
	db, err := badger.Open(opts)
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := kv.NewJobStore(db)
	pool := concurrent.NewWorkerPool(1, 4)
	parser := osmparser.NewOsmParser()
	svc := NewRouteGenService(store, pool, parser, t.TempDir(), 1<<20)
	return svc, pool
}

func TestSaveUploadValidation(t *testing.T) {
	svc, pool := testService(t)
	defer pool.Stop()

	_, _, err := svc.SaveUpload("notes.txt", strings.NewReader("hello"))
	assert.ErrorIs(t, err, ErrBadUploadFormat)

	uploadID, size, err := svc.SaveUpload("area.osm", strings.NewReader(sampleOSM))
	assert.NoError(t, err)
	assert.NotEmpty(t, uploadID)
	assert.Equal(t, int64(len(sampleOSM)), size)
}

func TestSaveUploadTooLarge(t *testing.T) {
	svc, pool := testService(t)
	defer pool.Stop()
	svc.maxUploadBytes = 8

	_, _, err := svc.SaveUpload("area.osm", strings.NewReader(sampleOSM))
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestStartGenerationUnknownUpload(t *testing.T) {
	svc, pool := testService(t)
	defer pool.Stop()

	_, err := svc.StartGeneration("missing", GenerateOptions{Config: routegen.DefaultConfig()})
	assert.ErrorIs(t, err, ErrUploadNotFound)
}

func TestGenerationEndToEnd(t *testing.T) {
	svc, pool := testService(t)

	uploadID, _, err := svc.SaveUpload("area.osm", strings.NewReader(sampleOSM))
	assert.NoError(t, err)

	startLat, startLon := 45.5000, -73.5600
	jobID, err := svc.StartGeneration(uploadID, GenerateOptions{
		Config:   routegen.DefaultConfig(),
		StartLat: &startLat,
		StartLon: &startLon,
	})
	assert.NoError(t, err)

	// drain the pool so the job is finished before asserting
	pool.Stop()

	rec, err := svc.JobStatus(jobID)
	assert.NoError(t, err)
	assert.Equal(t, kv.JOB_COMPLETE, rec.Status)
	assert.True(t, rec.HasStats)
	assert.Equal(t, 3, rec.Stats.UniqueSegments)
	assert.Equal(t, 6, rec.Stats.DirectedTraversals)
	assert.NotEmpty(t, rec.Preview)

	gpxData, err := svc.Artifact(jobID, kv.ARTIFACT_GPX)
	assert.NoError(t, err)
	assert.Contains(t, string(gpxData), "<trk>")
	assert.Equal(t, 7, strings.Count(string(gpxData), "<trkpt"))

	reportData, err := svc.Artifact(jobID, kv.ARTIFACT_REPORT)
	assert.NoError(t, err)
	assert.Contains(t, string(reportData), "IGNORED")
}

func TestGenerationFailureIsRecorded(t *testing.T) {
	svc, pool := testService(t)

	// an extract whose only way is not driveable
	footwayOnly := strings.Replace(sampleOSM, "residential", "footway", 1)
	uploadID, _, err := svc.SaveUpload("area.osm", strings.NewReader(footwayOnly))
	assert.NoError(t, err)

	jobID, err := svc.StartGeneration(uploadID, GenerateOptions{Config: routegen.DefaultConfig()})
	assert.NoError(t, err)

	pool.Stop()

	rec, err := svc.JobStatus(jobID)
	assert.NoError(t, err)
	assert.Equal(t, kv.JOB_ERROR, rec.Status)
	assert.NotEmpty(t, rec.Error)
}
