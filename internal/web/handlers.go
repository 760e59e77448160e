package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jacklau9515AI/PPSR.Registration/internal/logging"
	"github.com/Jacklau9515AI/PPSR.Registration/internal/registration"
)

// handleUpload accepts a multipart CSV upload and runs it through the
// batch reconciler synchronously. The response body is the
// BatchUploadResult; individual bad rows never fail the request.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		s.respondError(w, r, errors.New("file too large or invalid form"), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errors.New("no file provided"), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size == 0 {
		s.respondError(w, r, errors.New("empty file"), http.StatusBadRequest)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info("upload received", "file", header.Filename, "bytes", header.Size)

	result, err := s.service.ProcessBatch(r.Context(), file)
	if err != nil {
		status := http.StatusBadRequest
		if err == registration.ErrTooManyUploads {
			status = http.StatusServiceUnavailable
		}
		s.respondError(w, r, err, status)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleHealthz reports liveness. It deliberately does not touch the
// database; a wedged pool should surface as upload failures, not as a
// restart loop.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex serves the embedded upload form.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
