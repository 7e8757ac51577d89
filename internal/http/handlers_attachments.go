package http

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"carteira/internal/core"
)

const maxUploadBytes = 10 << 20 // 10 MiB

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// handleUploadAttachment accepts a multipart "file" field, stores it under
// the upload directory with a generated name and records the attachment on
// the transaction. The original filename is kept only as display metadata.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	if s.uploadDir == "" {
		writeJSONError(w, http.StatusNotImplemented, "uploads_disabled", "File uploads are not configured")
		return
	}
	id := r.PathValue("id")
	if _, ok := s.store.GetByID(id); !ok {
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the 10MB limit")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing_file", "Multipart field \"file\" is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		writeJSONError(w, http.StatusUnsupportedMediaType, "unsupported_type", "Only JPEG, PNG, WebP and PDF files are accepted")
		return
	}

	attID := uuid.NewString()
	storedName := attID + safeExtension(header.Filename)
	dst, err := os.Create(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "storage_failed", "Could not store the file")
		return
	}
	size, err := io.Copy(dst, file)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		writeJSONError(w, http.StatusInternalServerError, "storage_failed", "Could not store the file")
		return
	}

	att := core.Attachment{
		ID:         attID,
		Name:       filepath.Base(header.Filename),
		URL:        "/uploads/" + storedName,
		Type:       contentType,
		Size:       size,
		UploadedAt: time.Now(),
	}
	updated, ok := s.store.AddAttachment(id, att)
	if !ok {
		_ = os.Remove(dst.Name())
		writeJSONError(w, http.StatusNotFound, "not_found", "Transaction not found")
		return
	}
	writeJSON(w, http.StatusCreated, updated)
}

// safeExtension keeps a short, lowercase extension from the client filename
// and drops anything suspicious.
func safeExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 8 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
