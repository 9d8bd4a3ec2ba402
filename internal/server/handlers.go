package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/resumatch/internal/metrics"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/store"
	"go.uber.org/zap"
)

// multipartMemoryLimit is how much of a multipart body is held in memory
// before spilling to temp files.
const multipartMemoryLimit = 32 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "No files provided")
		return
	}

	maxSize := s.config.Upload.MaxFileSizeBytes()
	uploaded := make([]string, 0, len(files))
	for _, header := range files {
		if header.Size > maxSize {
			metrics.UploadsTotal.WithLabelValues("rejected").Inc()
			s.respondError(w, http.StatusBadRequest,
				fmt.Sprintf("File %s exceeds the %dMB size limit", header.Filename, s.config.Upload.MaxFileSizeMB))
			return
		}
		f, err := header.Open()
		if err != nil {
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to read file %s", header.Filename))
			return
		}
		err = s.store.Save(r.Context(), header.Filename, f)
		_ = f.Close()
		if err != nil {
			if errors.Is(err, store.ErrUnsupportedExtension) || errors.Is(err, store.ErrInvalidName) {
				metrics.UploadsTotal.WithLabelValues("rejected").Inc()
				s.respondError(w, http.StatusBadRequest,
					fmt.Sprintf("File %s has invalid extension. Only PDF and DOCX allowed.", header.Filename))
				return
			}
			metrics.UploadsTotal.WithLabelValues("error").Inc()
			s.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save file %s", header.Filename))
			return
		}
		metrics.UploadsTotal.WithLabelValues("ok").Inc()
		uploaded = append(uploaded, header.Filename)
	}

	s.updateStoredGauge(r)
	s.respondJSON(w, http.StatusCreated, models.UploadResponse{
		Message: "Resumes uploaded successfully",
		Files:   uploaded,
		Count:   len(uploaded),
	})
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req models.FilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.FilterRequestsTotal.WithLabelValues("invalid").Inc()
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("filter request", zap.Strings("keywords", req.Keywords))

	response, err := s.filter.Filter(r.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrEmptyKeywordSet) {
			metrics.FilterRequestsTotal.WithLabelValues("invalid").Inc()
			s.respondError(w, http.StatusBadRequest, "No keywords provided")
			return
		}
		metrics.FilterRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Error("filter failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	metrics.FilterRequestsTotal.WithLabelValues("ok").Inc()
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("list resumes failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, models.ListResponse{Resumes: names, Count: len(names)})
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	s.logger.Debug("delete resume request", zap.String("filename", filename))
	if err := s.store.Delete(r.Context(), filename); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.respondError(w, http.StatusNotFound, "Resume not found")
		case errors.Is(err, store.ErrInvalidName):
			s.respondError(w, http.StatusBadRequest, "Invalid resume filename")
		default:
			s.logger.Error("delete failed", zap.String("filename", filename), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.updateStoredGauge(r)
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Resume %s deleted successfully", filename),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) updateStoredGauge(r *http.Request) {
	if n, err := s.store.Count(r.Context()); err == nil {
		metrics.ResumesStored.Set(float64(n))
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes the error as {"detail": ...}, the shape API clients expect.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"detail": message})
}
