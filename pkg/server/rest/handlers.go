package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"trashroute/pkg/kv"
	"trashroute/pkg/routegen"
	"trashroute/pkg/server/rest/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const maxUploadMemory = 32 << 20

type RouteGenService interface {
	SaveUpload(filename string, r io.Reader) (string, int64, error)
	StartGeneration(uploadID string, opts service.GenerateOptions) (string, error)
	JobStatus(jobID string) (kv.JobRecord, error)
	Artifact(jobID, kind string) ([]byte, error)
}

type RouteGenHandler struct {
	svc        RouteGenService
	validate   *validator.Validate
	translator ut.Translator
}

func RouteGenRouter(r *chi.Mux, svc RouteGenService) {
	validate := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(validate, translator)

	handler := &RouteGenHandler{svc: svc, validate: validate, translator: translator}

	r.Group(func(r chi.Router) {
		r.Route("/api/routes", func(r chi.Router) {
			r.Post("/upload", handler.Upload)
			r.Post("/generate", handler.Generate)
			r.Get("/status/{jobID}", handler.Status)
			r.Get("/{jobID}/gpx", handler.DownloadGPX)
			r.Get("/{jobID}/report", handler.DownloadReport)
		})
	})
}

type UploadResponse struct {
	UploadID string `json:"upload_id"`
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Message  string `json:"message"`
}

func (h *RouteGenHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(fmt.Errorf("missing file field: %w", err)))
		return
	}
	defer file.Close()

	uploadID, size, err := h.svc.SaveUpload(header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadUploadFormat):
			render.Render(w, r, ErrInvalidRequest(err))
		case errors.Is(err, service.ErrUploadTooLarge):
			render.Render(w, r, ErrPayloadTooLarge(err))
		default:
			render.Render(w, r, ErrInternalServerError(err))
		}
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &UploadResponse{
		UploadID: uploadID,
		Filename: header.Filename,
		FileSize: size,
		Message:  "file uploaded",
	})
}

// GenerateRequest model info
//
// request body for starting a route generation job; every option falls back
// to the engine default when omitted.
type GenerateRequest struct {
	UploadID string `json:"upload_id" validate:"required"`

	AllowedHighways       []string `json:"allowed_highways,omitempty"`
	ExcludedHighways      []string `json:"excluded_highways,omitempty"`
	ExcludedServiceValues []string `json:"excluded_service_values,omitempty"`
	ExcludedAccessValues  []string `json:"excluded_access_values,omitempty"`

	// straight, right, left, u-turn
	TurnMultipliers []float64 `json:"turn_multipliers,omitempty" validate:"omitempty,len=4"`

	StraightThresholdDeg *float64 `json:"straight_threshold_deg,omitempty" validate:"omitempty,gt=0,lt=180"`
	UTurnThresholdDeg    *float64 `json:"u_turn_threshold_deg,omitempty" validate:"omitempty,gt=0,lt=180"`
	AverageSpeedKmh      *float64 `json:"average_speed_kmh,omitempty" validate:"omitempty,gt=0"`

	StartNodeID *int64   `json:"start_node_id,omitempty"`
	StartLat    *float64 `json:"start_lat,omitempty" validate:"omitempty,gte=-90,lte=90"`
	StartLon    *float64 `json:"start_lon,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

func (g *GenerateRequest) Bind(r *http.Request) error {
	if g.UploadID == "" {
		return errors.New("upload_id is required")
	}
	return nil
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func (g *GenerateRequest) toOptions() service.GenerateOptions {
	cfg := routegen.DefaultConfig()
	if len(g.AllowedHighways) > 0 {
		cfg.AllowedHighways = toSet(g.AllowedHighways)
	}
	if len(g.ExcludedHighways) > 0 {
		cfg.ExcludedHighways = toSet(g.ExcludedHighways)
	}
	if len(g.ExcludedServiceValues) > 0 {
		cfg.ExcludedServiceValues = toSet(g.ExcludedServiceValues)
	}
	if len(g.ExcludedAccessValues) > 0 {
		cfg.ExcludedAccessValues = toSet(g.ExcludedAccessValues)
	}
	if len(g.TurnMultipliers) == 4 {
		cfg.StraightMultiplier = g.TurnMultipliers[0]
		cfg.RightMultiplier = g.TurnMultipliers[1]
		cfg.LeftMultiplier = g.TurnMultipliers[2]
		cfg.UTurnMultiplier = g.TurnMultipliers[3]
	}
	if g.StraightThresholdDeg != nil {
		cfg.StraightThresholdDeg = *g.StraightThresholdDeg
	}
	if g.UTurnThresholdDeg != nil {
		cfg.UTurnThresholdDeg = *g.UTurnThresholdDeg
	}
	if g.AverageSpeedKmh != nil {
		cfg.AverageSpeedKmh = *g.AverageSpeedKmh
	}
	if g.StartNodeID != nil {
		cfg.StartNodeID = *g.StartNodeID
	}
	return service.GenerateOptions{
		Config:   cfg,
		StartLat: g.StartLat,
		StartLon: g.StartLon,
	}
}

type JobResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *RouteGenHandler) Generate(w http.ResponseWriter, r *http.Request) {
	data := &GenerateRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	if err := h.validate.Struct(data); err != nil {
		render.Render(w, r, ErrValidation(err, h.translator))
		return
	}

	opts := data.toOptions()
	if err := opts.Config.Validate(); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	jobID, err := h.svc.StartGeneration(data.UploadID, opts)
	if err != nil {
		if errors.Is(err, service.ErrUploadNotFound) {
			render.Render(w, r, ErrNotFound(err))
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, &JobResponse{
		JobID:   jobID,
		Status:  kv.JOB_PENDING,
		Message: "route generation started",
	})
}

type StatusResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Step    string `json:"step,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Preview string `json:"preview_polyline,omitempty"`

	Stats *routegen.Statistics `json:"stats,omitempty"`
}

func (h *RouteGenHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	rec, err := h.svc.JobStatus(jobID)
	if err != nil {
		if errors.Is(err, kv.ErrJobNotFound) {
			render.Render(w, r, ErrNotFound(err))
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}

	resp := &StatusResponse{
		JobID:   rec.ID,
		Status:  rec.Status,
		Step:    rec.Step,
		Message: rec.Message,
		Error:   rec.Error,
		Preview: rec.Preview,
	}
	if rec.HasStats {
		stats := rec.Stats
		resp.Stats = &stats
	}
	render.JSON(w, r, resp)
}

func (h *RouteGenHandler) serveArtifact(w http.ResponseWriter, r *http.Request, kind, contentType, filename string) {
	jobID := chi.URLParam(r, "jobID")
	data, err := h.svc.Artifact(jobID, kind)
	if err != nil {
		if errors.Is(err, kv.ErrArtifactNotFound) {
			render.Render(w, r, ErrNotFound(err))
			return
		}
		render.Render(w, r, ErrInternalServerError(err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *RouteGenHandler) DownloadGPX(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	h.serveArtifact(w, r, kv.ARTIFACT_GPX, "application/gpx+xml", jobID+".gpx")
}

func (h *RouteGenHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	h.serveArtifact(w, r, kv.ARTIFACT_REPORT, "text/markdown", jobID+"-report.md")
}
