package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trashroute/pkg/datastructure"
	"trashroute/pkg/geo"
	"trashroute/pkg/gpx"
	"trashroute/pkg/kv"
	"trashroute/pkg/report"
	"trashroute/pkg/routegen"
	"trashroute/pkg/snap"

	"github.com/google/uuid"
)

var (
	ErrUploadNotFound  = errors.New("upload not found")
	ErrUploadTooLarge  = errors.New("upload exceeds size limit")
	ErrBadUploadFormat = errors.New("unsupported upload format")
)

type JobStore interface {
	PutJob(rec kv.JobRecord) error
	GetJob(jobID string) (kv.JobRecord, error)
	UpdateJob(jobID string, mutate func(*kv.JobRecord)) error
	SaveArtifact(jobID, kind string, data []byte) error
	GetArtifact(jobID, kind string) ([]byte, error)
}

type WorkerPool interface {
	Submit(job func())
}

type Parser interface {
	Parse(mapFile string) (map[int64]datastructure.Node, []datastructure.Way, error)
}

// GenerateOptions is the engine config plus the optional start coordinate
// resolved through the node index before generation.
type GenerateOptions struct {
	Config   routegen.Config
	StartLat *float64
	StartLon *float64
}

type RouteGenService struct {
	store          JobStore
	pool           WorkerPool
	parser         Parser
	uploadsDir     string
	maxUploadBytes int64
}

func NewRouteGenService(store JobStore, pool WorkerPool, parser Parser, uploadsDir string, maxUploadBytes int64) *RouteGenService {
	return &RouteGenService{
		store:          store,
		pool:           pool,
		parser:         parser,
		uploadsDir:     uploadsDir,
		maxUploadBytes: maxUploadBytes,
	}
}

func allowedUploadExt(filename string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".osm", ".xml", ".pbf":
		return ext, true
	}
	return "", false
}

// SaveUpload stores an OSM extract under a fresh upload id.
func (s *RouteGenService) SaveUpload(filename string, r io.Reader) (string, int64, error) {
	ext, ok := allowedUploadExt(filename)
	if !ok {
		return "", 0, ErrBadUploadFormat
	}
	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		return "", 0, err
	}

	uploadID := uuid.NewString()
	path := filepath.Join(s.uploadsDir, uploadID+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	// read one byte past the limit to detect oversized uploads
	size, err := io.Copy(f, io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	if size > s.maxUploadBytes {
		os.Remove(path)
		return "", 0, ErrUploadTooLarge
	}
	return uploadID, size, nil
}

func (s *RouteGenService) uploadPath(uploadID string) (string, error) {
	for _, ext := range []string{".osm", ".xml", ".pbf"} {
		path := filepath.Join(s.uploadsDir, uploadID+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrUploadNotFound
}

// StartGeneration creates a job and hands it to the worker pool. The engine
// run shares no state with other jobs.
func (s *RouteGenService) StartGeneration(uploadID string, opts GenerateOptions) (string, error) {
	mapFile, err := s.uploadPath(uploadID)
	if err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	now := time.Now().Unix()
	rec := kv.JobRecord{
		ID:        jobID,
		UploadID:  uploadID,
		Status:    kv.JOB_PENDING,
		Message:   "route generation queued",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.PutJob(rec); err != nil {
		return "", err
	}

	s.pool.Submit(func() {
		s.run(jobID, mapFile, opts)
	})
	return jobID, nil
}

func (s *RouteGenService) setStep(jobID, step, message string) {
	err := s.store.UpdateJob(jobID, func(rec *kv.JobRecord) {
		rec.Status = kv.JOB_PROCESSING
		rec.Step = step
		rec.Message = message
		rec.UpdatedAt = time.Now().Unix()
	})
	if err != nil {
		log.Printf("job %s: update step failed: %v", jobID, err)
	}
}

func (s *RouteGenService) setError(jobID string, cause error) {
	err := s.store.UpdateJob(jobID, func(rec *kv.JobRecord) {
		rec.Status = kv.JOB_ERROR
		rec.Error = cause.Error()
		rec.Message = "route generation failed"
		rec.UpdatedAt = time.Now().Unix()
	})
	if err != nil {
		log.Printf("job %s: update error failed: %v", jobID, err)
	}
}

func (s *RouteGenService) run(jobID, mapFile string, opts GenerateOptions) {
	s.setStep(jobID, "parsing", "parsing openstreetmap extract")
	nodes, ways, err := s.parser.Parse(mapFile)
	if err != nil {
		s.setError(jobID, err)
		return
	}

	cfg := opts.Config
	if opts.StartLat != nil && opts.StartLon != nil {
		index := snap.BuildNodeIndex(nodes)
		if nodeID, ok := index.NearestNode(*opts.StartLat, *opts.StartLon); ok {
			cfg.StartNodeID = nodeID
		}
	}

	s.setStep(jobID, "routing", "building graph and extracting circuit")
	result, err := routegen.Generate(nodes, ways, cfg)
	if err != nil {
		s.setError(jobID, err)
		return
	}

	s.setStep(jobID, "writing", "serializing gpx and report")
	var gpxBuf bytes.Buffer
	err = gpx.Write(&gpxBuf, "Collection route",
		"Curbside collection route, every segment twice, right-turn preferring", result.Waypoints)
	if err != nil {
		s.setError(jobID, err)
		return
	}
	if err := s.store.SaveArtifact(jobID, kv.ARTIFACT_GPX, gpxBuf.Bytes()); err != nil {
		s.setError(jobID, err)
		return
	}

	reportContent := report.Generate(filepath.Base(mapFile), fmt.Sprintf("%s.gpx", jobID), cfg, result.Stats)
	if err := s.store.SaveArtifact(jobID, kv.ARTIFACT_REPORT, []byte(reportContent)); err != nil {
		s.setError(jobID, err)
		return
	}

	preview := datastructure.RenderPath(geo.RamerDouglasPeucker(result.Waypoints))
	stats := result.Stats
	err = s.store.UpdateJob(jobID, func(rec *kv.JobRecord) {
		rec.Status = kv.JOB_COMPLETE
		rec.Step = "complete"
		rec.Message = "route generation complete"
		rec.Preview = preview
		rec.HasStats = true
		rec.Stats = stats
		rec.UpdatedAt = time.Now().Unix()
	})
	if err != nil {
		log.Printf("job %s: final update failed: %v", jobID, err)
	}
}

func (s *RouteGenService) JobStatus(jobID string) (kv.JobRecord, error) {
	return s.store.GetJob(jobID)
}

func (s *RouteGenService) Artifact(jobID, kind string) ([]byte, error) {
	return s.store.GetArtifact(jobID, kind)
}
