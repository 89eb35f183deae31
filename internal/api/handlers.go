package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/autochroma/autochroma/internal/engine"
	"github.com/autochroma/autochroma/internal/model"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) json(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

// fail maps engine errors onto HTTP statuses: caller errors are 400,
// unknown ids 404, everything else 500.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidParameter), errors.Is(err, model.ErrInsufficientSamples):
		s.json(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Detail: err.Error()})
	case errors.Is(err, model.ErrAssetNotFound), errors.Is(err, model.ErrJobNotFound):
		s.json(w, http.StatusNotFound, errorResponse{Error: "not_found", Detail: err.Error()})
	default:
		s.json(w, http.StatusInternalServerError, errorResponse{Error: "internal", Detail: err.Error()})
	}
}

// Probe reports encoder tool availability.
func (s *Server) Probe(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, s.engine.CheckTools(r.Context()))
}

// ListAssets returns all registered assets.
func (s *Server) ListAssets(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, s.engine.Assets().List())
}

type estimateKeyResponse struct {
	Hex     string         `json:"hex"`
	RGB     model.KeyColor `json:"rgb"`
	Samples int            `json:"samples"`
}

// EstimateKey estimates the background key color of an asset.
func (s *Server) EstimateKey(w http.ResponseWriter, r *http.Request) {
	color, samples, err := s.engine.EstimateKey(r.Context(), chi.URLParam(r, "asset_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.json(w, http.StatusOK, estimateKeyResponse{Hex: color.Hex(), RGB: color, Samples: samples})
}

type previewRequest struct {
	Hex        string  `json:"hex"`
	Similarity float64 `json:"similarity"`
	Blend      float64 `json:"blend"`
	Time       float64 `json:"time"`
	MaxWidth   int     `json:"max_width"`
}

// Preview renders one keyed frame and responds with the PNG bytes.
func (s *Server) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.json(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Detail: "invalid payload"})
		return
	}
	color, err := model.ParseKeyColor(req.Hex)
	if err != nil {
		s.fail(w, err)
		return
	}

	path, err := s.engine.Preview(r.Context(), chi.URLParam(r, "asset_id"), engine.PreviewRequest{
		Color:    color,
		Params:   model.KeyParams{Similarity: req.Similarity, Blend: req.Blend},
		Seek:     time.Duration(req.Time * float64(time.Second)),
		MaxWidth: req.MaxWidth,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

type renderRequest struct {
	Hex          string  `json:"hex"`
	Similarity   float64 `json:"similarity"`
	Blend        float64 `json:"blend"`
	CRF          int     `json:"crf"`
	IncludeAudio bool    `json:"include_audio"`
}

type renderResponse struct {
	JobID  string          `json:"job_id"`
	Status model.JobStatus `json:"status"`
}

// StartRender validates the request and creates a render job.
func (s *Server) StartRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.json(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Detail: "invalid payload"})
		return
	}
	color, err := model.ParseKeyColor(req.Hex)
	if err != nil {
		s.fail(w, err)
		return
	}

	snap, err := s.engine.StartRender(chi.URLParam(r, "asset_id"), color, model.KeyParams{
		Similarity:   req.Similarity,
		Blend:        req.Blend,
		CRF:          req.CRF,
		IncludeAudio: req.IncludeAudio,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.json(w, http.StatusAccepted, renderResponse{JobID: snap.ID, Status: snap.Status})
}

// ListJobs returns snapshots of all jobs, newest first.
func (s *Server) ListJobs(w http.ResponseWriter, r *http.Request) {
	s.json(w, http.StatusOK, s.engine.Jobs())
}

// JobStatus returns the current snapshot of one job.
func (s *Server) JobStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.JobStatus(chi.URLParam(r, "job_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.json(w, http.StatusOK, snap)
}

type cancelResponse struct {
	OK     bool            `json:"ok"`
	Status model.JobStatus `json:"status"`
}

// CancelJob requests cancellation and acknowledges with the current status.
func (s *Server) CancelJob(w http.ResponseWriter, r *http.Request) {
	snap, err := s.engine.CancelJob(chi.URLParam(r, "job_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.json(w, http.StatusOK, cancelResponse{OK: true, Status: snap.Status})
}

// Download streams the output file of a completed job.
func (s *Server) Download(w http.ResponseWriter, r *http.Request) {
	path, err := s.engine.OpenOutput(chi.URLParam(r, "job_id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	http.ServeFile(w, r, path)
}
