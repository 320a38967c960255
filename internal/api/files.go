package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/user/social-extractor/internal/filemanager"
)

const maxUploadSize = 64 << 20 // 64 MiB

// CleanupRequest is the payload for POST /files/cleanup_old_files.
// DryRun defaults to true when omitted so the endpoint can never delete by
// accident.
type CleanupRequest struct {
	DaysOld *int  `json:"days_old,omitempty"`
	DryRun  *bool `json:"dry_run,omitempty"`
}

// DeleteFileRequest is the payload for POST /files/delete.
type DeleteFileRequest struct {
	FilePath string `json:"file_path"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondWithError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	filename := filemanager.SanitizeFilename(header.Filename)
	if filename == "" {
		s.respondWithError(w, http.StatusBadRequest, "Empty filename")
		return
	}

	path, err := s.files.SaveUpload(filename, file)
	if err != nil {
		s.logger.Error("upload failed", zap.String("filename", filename), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Failed to store file")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"file_path": path,
		"filename":  filename,
	})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := s.files.List()
	if err != nil {
		s.logger.Error("failed to list files", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}
	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"files":   files,
	})
}

func (s *Server) handleCleanupOldFiles(w http.ResponseWriter, r *http.Request) {
	// An empty body means "dry run over the default window".
	req := CleanupRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	daysOld := 30
	if req.DaysOld != nil {
		daysOld = *req.DaysOld
	}
	dryRun := true
	if req.DryRun != nil {
		dryRun = *req.DryRun
	}

	report, err := s.files.CleanupOlderThan(daysOld, dryRun)
	if err != nil {
		s.logger.Error("cleanup failed", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Cleanup failed")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"action":        report.Action,
		"files_found":   report.FilesFound,
		"total_size_mb": report.TotalSizeMB,
		"cutoff_date":   report.CutoffDate,
		"files":         report.Files,
		"dry_run":       report.DryRun,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	rel := chi.URLParam(r, "*")
	path, err := s.files.Resolve(rel)
	if err != nil {
		s.respondWithError(w, http.StatusNotFound, "File not found")
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		s.respondWithError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	var req DeleteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FilePath == "" {
		s.respondWithError(w, http.StatusBadRequest, "file_path is required")
		return
	}

	if err := s.files.Delete(req.FilePath); err != nil {
		if errors.Is(err, filemanager.ErrInvalidPath) || os.IsNotExist(err) {
			s.respondWithError(w, http.StatusNotFound, "File not found")
			return
		}
		s.logger.Error("failed to delete file", zap.String("file_path", req.FilePath), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Failed to delete file")
		return
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
