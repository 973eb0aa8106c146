package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trashroute/pkg/kv"
	"trashroute/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type stubService struct {
	jobs      map[string]kv.JobRecord
	artifacts map[string][]byte
	lastOpts  service.GenerateOptions
}

func newStubService() *stubService {
	return &stubService{
		jobs:      make(map[string]kv.JobRecord),
		artifacts: make(map[string][]byte),
	}
}

func (s *stubService) SaveUpload(filename string, r io.Reader) (string, int64, error) {
	if !strings.HasSuffix(filename, ".osm") {
		return "", 0, service.ErrBadUploadFormat
	}
	size, _ := io.Copy(io.Discard, r)
	return "upload-1", size, nil
}

func (s *stubService) StartGeneration(uploadID string, opts service.GenerateOptions) (string, error) {
	if uploadID != "upload-1" {
		return "", service.ErrUploadNotFound
	}
	s.lastOpts = opts
	return "job-1", nil
}

func (s *stubService) JobStatus(jobID string) (kv.JobRecord, error) {
	rec, ok := s.jobs[jobID]
	if !ok {
		return kv.JobRecord{}, kv.ErrJobNotFound
	}
	return rec, nil
}

func (s *stubService) Artifact(jobID, kind string) ([]byte, error) {
	data, ok := s.artifacts[jobID+":"+kind]
	if !ok {
		return nil, kv.ErrArtifactNotFound
	}
	return data, nil
}

func testRouter(svc RouteGenService) *chi.Mux {
	r := chi.NewRouter()
	RouteGenRouter(r, svc)
	return r
}

func TestUploadHandler(t *testing.T) {
	router := testRouter(newStubService())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "area.osm")
	part.Write([]byte("<osm/>"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/routes/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp UploadResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "upload-1", resp.UploadID)
	assert.Equal(t, "area.osm", resp.Filename)
}

func TestUploadHandlerRejectsBadFormat(t *testing.T) {
	router := testRouter(newStubService())

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile("file", "notes.txt")
	part.Write([]byte("hello"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/routes/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateHandler(t *testing.T) {
	stub := newStubService()
	router := testRouter(stub)

	payload := `{"upload_id":"upload-1","turn_multipliers":[1.0,0.5,2.0,3.0],"start_node_id":42}`
	req := httptest.NewRequest(http.MethodPost, "/api/routes/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp JobResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "job-1", resp.JobID)
	assert.Equal(t, kv.JOB_PENDING, resp.Status)

	assert.Equal(t, int64(42), stub.lastOpts.Config.StartNodeID)
	assert.Equal(t, 0.5, stub.lastOpts.Config.RightMultiplier)
}

func TestGenerateHandlerValidation(t *testing.T) {
	router := testRouter(newStubService())

	cases := []struct {
		name    string
		payload string
	}{
		{"missing upload id", `{}`},
		{"bad multiplier count", `{"upload_id":"upload-1","turn_multipliers":[1.0]}`},
		{"bad latitude", `{"upload_id":"upload-1","start_lat":95.0}`},
		{"multiplier ordering violated", `{"upload_id":"upload-1","turn_multipliers":[1.0,2.0,0.5,3.0]}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/routes/generate", strings.NewReader(c.payload))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestGenerateHandlerUnknownUpload(t *testing.T) {
	router := testRouter(newStubService())

	req := httptest.NewRequest(http.MethodPost, "/api/routes/generate",
		strings.NewReader(`{"upload_id":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusHandler(t *testing.T) {
	stub := newStubService()
	stub.jobs["job-1"] = kv.JobRecord{
		ID:      "job-1",
		Status:  kv.JOB_COMPLETE,
		Step:    "complete",
		Message: "route generation complete",
	}
	router := testRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/routes/status/job-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp StatusResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, kv.JOB_COMPLETE, resp.Status)
	assert.Nil(t, resp.Stats)
}

func TestStatusHandlerNotFound(t *testing.T) {
	router := testRouter(newStubService())

	req := httptest.NewRequest(http.MethodGet, "/api/routes/status/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadGPXHandler(t *testing.T) {
	stub := newStubService()
	stub.artifacts["job-1:"+kv.ARTIFACT_GPX] = []byte("<gpx/>")
	router := testRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/routes/job-1/gpx", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/gpx+xml", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<gpx/>", rec.Body.String())
}
