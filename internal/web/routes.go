package web

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/page-composer/internal/web/handlers"
	"github.com/kozaktomas/page-composer/internal/web/static"
)

func (s *Server) setupRoutes() {
	s.editorHandler = handlers.NewEditorHandler(s.editor)
	exportHandler := handlers.NewExportHandler(s.editor, s.jobManager, s.encoderFactory())
	editor := s.editorHandler

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.HealthCheck)

		// Editor state and display surface
		r.Get("/state", editor.State)
		r.Get("/events", editor.Events)
		r.Get("/frame.png", editor.Frame)
		r.Post("/view", editor.Resize)
		r.Put("/settings", editor.UpdateSettings)

		// Queue
		r.Post("/assets", editor.AddAssets)
		r.Post("/assets/upload", editor.Upload)
		r.Delete("/assets/{id}", editor.RemoveAsset)
		r.Post("/assets/{id}/select", editor.SelectAsset)

		// Pointer input
		r.Post("/pointer/down", editor.PointerDown)
		r.Post("/pointer/move", editor.PointerMove)
		r.Post("/pointer/up", editor.PointerUp)
		r.Post("/wheel", editor.Wheel)

		// Export (long-running operations)
		r.Post("/export", exportHandler.Start)
		r.Get("/export", exportHandler.List)
		r.Get("/export/{jobId}", exportHandler.Status)
		r.Get("/export/{jobId}/events", exportHandler.Events)
		r.Delete("/export/{jobId}", exportHandler.Cancel)
	})

	// Serve the embedded editor page
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the embedded editor page and its assets.
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := static.ReadFile(r.URL.Path)
	if err != nil {
		respondMissingEditor(w)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// respondMissingEditor is served when the build carries no editor page.
func respondMissingEditor(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, `<!DOCTYPE html>
<html>
<head><title>Page Composer</title></head>
<body>
    <h1>Page Composer</h1>
    <p>The editor page is missing from this build. The API is available at <a href="/api/v1/health">/api/v1/health</a>.</p>
</body>
</html>`)
}
