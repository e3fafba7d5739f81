// Package server - HTTP surface for the depth estimation service.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/nvr-ai/go-depth/depth"
	"github.com/nvr-ai/go-depth/images"
	"github.com/nvr-ai/go-depth/providers"
)

// Server handles depth estimation requests over HTTP.
type Server struct {
	estimator      *depth.Estimator
	handle         *depth.Handle
	maxUploadBytes int64
	log            *zap.Logger
}

// Args configures a Server.
type Args struct {
	// Estimator runs the depth pipeline.
	Estimator *depth.Estimator
	// Handle is consulted for health reporting.
	Handle *depth.Handle
	// MaxUploadBytes caps the request body size.
	MaxUploadBytes int64
	// Log receives request outcomes.
	Log *zap.Logger
}

// New creates a Server.
//
// Arguments:
//   - args: The estimator, handle, upload cap, and logger.
//
// Returns:
//   - *Server: The server. Call Routes to obtain its handler.
func New(args Args) *Server {
	log := args.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		estimator:      args.Estimator,
		handle:         args.Handle,
		maxUploadBytes: args.MaxUploadBytes,
		log:            log,
	}
}

// Routes returns the handler for all endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/health", s.handleHealth)
	return corsMiddleware(mux)
}

// healthResponse is the /health body.
type healthResponse struct {
	Status      string            `json:"status"`
	ModelLoaded bool              `json:"model_loaded"`
	Inference   providers.Metrics `json:"inference"`
}

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// handlePredict accepts a multipart form with an "image" field and responds
// with a PNG depth map of the same dimensions as the upload. A missing
// field is the caller's fault and yields 400; every other failure,
// including an undecodable upload, yields 500 with the error message.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed (use POST)")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no image field (use multipart form field named 'image')")
		return
	}
	defer file.Close()

	img, err := images.Decode(file)
	if err != nil {
		s.log.Warn("rejecting undecodable upload", zap.Error(err))
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	encoded, err := s.estimator.EstimateDepth(img)
	if err != nil {
		switch {
		case errors.Is(err, depth.ErrModelLoad):
			s.log.Error("model load failed", zap.Error(err))
		case errors.Is(err, depth.ErrInference):
			s.log.Error("inference failed", zap.Error(err))
		default:
			s.log.Warn("rejecting invalid image", zap.Error(err))
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(encoded); err != nil {
		s.log.Warn("writing response", zap.Error(err))
	}
}

// handleHealth reports liveness plus whether the model has been loaded and
// the cumulative inference counters. It never triggers a model load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed (use GET)")
		return
	}
	respondJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		ModelLoaded: s.handle.Loaded(),
		Inference:   s.handle.Stats(),
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
