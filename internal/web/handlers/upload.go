package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/kozaktomas/page-composer/internal/asset"
	"github.com/kozaktomas/page-composer/internal/constants"
)

// uploadDir is the temp folder holding uploaded images for the server's lifetime.
type uploadDir struct {
	mu   sync.Mutex
	path string
}

func (d *uploadDir) get() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path != "" {
		return d.path, nil
	}
	path, err := os.MkdirTemp("", "page-composer-upload-*")
	if err != nil {
		return "", err
	}
	d.path = path
	return path, nil
}

func (d *uploadDir) remove() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.path == "" {
		return
	}
	if err := os.RemoveAll(d.path); err != nil {
		log.Printf("failed to remove upload dir: %v", err)
	}
	d.path = ""
}

// saveUploadedFiles saves multipart files to dir and returns their paths.
// Files with unsupported extensions are skipped.
func saveUploadedFiles(files []*multipart.FileHeader, dir string) ([]string, error) {
	var filePaths []string
	for _, fileHeader := range files {
		if !asset.IsSupported(fileHeader.Filename) {
			continue
		}
		if err := func() error {
			file, err := fileHeader.Open()
			if err != nil {
				return fmt.Errorf("failed to open file: %s", fileHeader.Filename)
			}
			defer file.Close()

			safeName := filepath.Base(fileHeader.Filename)
			tempPath := filepath.Join(dir, safeName)
			out, err := os.Create(tempPath) //nolint:gosec // filename sanitized via filepath.Base
			if err != nil {
				return errors.New("failed to create temp file")
			}

			if _, err := io.Copy(out, file); err != nil {
				out.Close()
				return errors.New("failed to save file")
			}
			out.Close()

			filePaths = append(filePaths, tempPath)
			return nil
		}(); err != nil {
			return nil, err
		}
	}
	return filePaths, nil
}

// Upload stores multipart images in the upload folder and queues them.
func (h *EditorHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "failed to parse multipart form")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "no files provided")
		return
	}

	dir, err := h.uploads.get()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create upload directory")
		return
	}

	filePaths, err := saveUploadedFiles(files, dir)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(filePaths) == 0 {
		respondError(w, http.StatusBadRequest, "no supported image files provided")
		return
	}

	h.addPaths(w, r, filePaths)
}

// Cleanup removes uploaded files.
func (h *EditorHandler) Cleanup() {
	h.uploads.remove()
}
