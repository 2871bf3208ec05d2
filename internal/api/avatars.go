package api

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	avatarDir      = "avatars"
	maxAvatarBytes = 5 << 20 // 5 MB
)

var avatarExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// AvatarHandler serves and accepts contact avatar images.
type AvatarHandler struct {
	uploadsRoot string
}

// NewAvatarHandler creates a handler rooted at the uploads directory.
func NewAvatarHandler(uploadsRoot string) *AvatarHandler {
	return &AvatarHandler{uploadsRoot: uploadsRoot}
}

func (h *AvatarHandler) avatarPath() string {
	return filepath.Join(h.uploadsRoot, avatarDir)
}

// safeName validates that the filename is a plain name (no path separators,
// no traversal) and returns the absolute path under the avatars dir.
func (h *AvatarHandler) safeName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("filename is required")
	}
	cleaned := filepath.Clean(name)
	if cleaned != filepath.Base(cleaned) || strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("invalid filename: %s", name)
	}
	abs := filepath.Join(h.avatarPath(), cleaned)
	if !strings.HasPrefix(abs, h.avatarPath()+string(os.PathSeparator)) && abs != h.avatarPath() {
		return "", fmt.Errorf("path escapes avatars directory")
	}
	return abs, nil
}

// ServeFile handles GET /avatars/{filename}.
func (h *AvatarHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	abs, err := h.safeName(filename)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, statErr := os.Stat(abs); os.IsNotExist(statErr) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, abs)
}

// Upload handles POST /api/avatars (multipart/form-data, field "avatar").
// The stored name is generated server-side; only the extension of the
// uploaded file survives.
func (h *AvatarHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'avatar' field in multipart form"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !avatarExts[ext] {
		writeJSON(w, http.StatusBadRequest, errorBody("unsupported image type"))
		return
	}

	name := fmt.Sprintf("avatar-%d%s", time.Now().UnixNano(), ext)
	abs, err := h.safeName(name)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	if err := os.MkdirAll(h.avatarPath(), 0o755); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create avatars dir"))
		return
	}

	dst, err := os.Create(abs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to create file"))
		return
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("failed to write file"))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"filename": name,
		"size":     written,
		"url":      "/avatars/" + name,
	})
}
