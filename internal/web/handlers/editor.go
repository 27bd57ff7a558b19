package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"log"
	"net/http"

	"github.com/kozaktomas/page-composer/internal/app"
	"github.com/kozaktomas/page-composer/internal/constants"
	"github.com/kozaktomas/page-composer/internal/page"
)

// EditorHandler exposes the interactive editor over HTTP.
type EditorHandler struct {
	editor  *app.Editor
	uploads uploadDir
}

// NewEditorHandler creates a new editor handler.
func NewEditorHandler(editor *app.Editor) *EditorHandler {
	return &EditorHandler{editor: editor}
}

type assetView struct {
	app.AssetInfo
	Token string `json:"token"`
}

// StateResponse is the editor state with URL tokens for every asset.
type StateResponse struct {
	app.Snapshot
	Assets []assetView `json:"assets"`
}

func newStateResponse(snap app.Snapshot) StateResponse {
	resp := StateResponse{Snapshot: snap, Assets: make([]assetView, 0, len(snap.Assets))}
	for _, a := range snap.Assets {
		resp.Assets = append(resp.Assets, assetView{AssetInfo: a, Token: EncodeAssetID(a.ID)})
	}
	return resp
}

// respondState writes the current editor state.
func (h *EditorHandler) respondState(w http.ResponseWriter, r *http.Request, status int) {
	snap, err := h.editor.Snapshot(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "editor unavailable")
		return
	}
	respondJSON(w, status, newStateResponse(snap))
}

// respondAssetError maps editor errors to HTTP responses.
func respondAssetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, app.ErrUnknownAsset):
		respondError(w, http.StatusNotFound, "asset not found")
	case errors.Is(err, app.ErrNotLoaded):
		respondError(w, http.StatusConflict, "asset not loaded yet")
	default:
		respondError(w, http.StatusServiceUnavailable, "editor unavailable")
	}
}

// State returns the editor state.
func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	h.respondState(w, r, http.StatusOK)
}

// AddAssetsRequest lists server-side image paths to queue.
type AddAssetsRequest struct {
	Paths []string `json:"paths"`
}

// AddAssets queues server-side image files.
func (h *EditorHandler) AddAssets(w http.ResponseWriter, r *http.Request) {
	var req AddAssetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.Paths) == 0 {
		respondError(w, http.StatusBadRequest, "paths are required")
		return
	}

	h.addPaths(w, r, req.Paths)
}

func (h *EditorHandler) addPaths(w http.ResponseWriter, r *http.Request, paths []string) {
	var added []string
	if err := h.editor.Do(r.Context(), func(s *app.State) { added = s.AddAssets(paths...) }); err != nil {
		respondAssetError(w, err)
		return
	}

	tokens := make([]string, 0, len(added))
	for _, id := range added {
		tokens = append(tokens, EncodeAssetID(id))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"added":   len(added),
		"skipped": len(paths) - len(added),
		"tokens":  tokens,
	})
}

// RemoveAsset drops an asset from the queue.
func (h *EditorHandler) RemoveAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	var opErr error
	if err := h.editor.Do(r.Context(), func(s *app.State) { opErr = s.RemoveAsset(id) }); err != nil {
		opErr = err
	}
	if opErr != nil {
		respondAssetError(w, opErr)
		return
	}
	h.respondState(w, r, http.StatusOK)
}

// SelectAsset makes an asset active.
func (h *EditorHandler) SelectAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := assetIDParam(w, r)
	if !ok {
		return
	}

	var opErr error
	if err := h.editor.Do(r.Context(), func(s *app.State) { opErr = s.SelectAsset(id) }); err != nil {
		opErr = err
	}
	if opErr != nil {
		respondAssetError(w, opErr)
		return
	}
	h.respondState(w, r, http.StatusOK)
}

// SettingsRequest changes editor settings; omitted fields stay unchanged.
type SettingsRequest struct {
	Orientation *string `json:"orientation"`
	Constrained *bool   `json:"constrained"`
	Grid        *bool   `json:"grid"`
	OutputDir   *string `json:"output_dir"`
}

// UpdateSettings applies orientation, fit-to-page, grid and output folder changes.
func (h *EditorHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var orientation page.Orientation
	if req.Orientation != nil {
		o, err := page.ParseOrientation(*req.Orientation)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		orientation = o
	}
	if req.OutputDir != nil && *req.OutputDir == "" {
		respondError(w, http.StatusBadRequest, "output_dir must not be empty")
		return
	}

	err := h.editor.Do(r.Context(), func(s *app.State) {
		if req.Orientation != nil {
			s.SetOrientation(orientation)
		}
		if req.Constrained != nil {
			s.SetConstrained(*req.Constrained)
		}
		if req.Grid != nil {
			s.SetGrid(*req.Grid)
		}
		if req.OutputDir != nil {
			s.SetOutputDir(*req.OutputDir)
		}
	})
	if err != nil {
		respondAssetError(w, err)
		return
	}
	h.respondState(w, r, http.StatusOK)
}

// ViewRequest reports the display surface size.
type ViewRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Resize updates the display surface size.
func (h *EditorHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var renderable bool
	if err := h.editor.Do(r.Context(), func(s *app.State) { renderable = s.DisplayResize(req.Width, req.Height) }); err != nil {
		respondAssetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"renderable": renderable})
}

// PointerRequest is a pointer or wheel event in display pixels.
type PointerRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Delta float64 `json:"delta,omitempty"`
}

func (h *EditorHandler) pointer(w http.ResponseWriter, r *http.Request, apply func(s *app.State, req PointerRequest) bool) {
	var req PointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	var changed bool
	if err := h.editor.Do(r.Context(), func(s *app.State) { changed = apply(s, req) }); err != nil {
		respondAssetError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"changed": changed})
}

// PointerDown starts a drag.
func (h *EditorHandler) PointerDown(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(s *app.State, req PointerRequest) bool { return s.PointerDown(req.X, req.Y) })
}

// PointerMove pans the active image while dragging.
func (h *EditorHandler) PointerMove(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(s *app.State, req PointerRequest) bool { return s.PointerMove(req.X, req.Y) })
}

// PointerUp ends a drag.
func (h *EditorHandler) PointerUp(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(s *app.State, req PointerRequest) bool {
		s.PointerUp(req.X, req.Y)
		return false
	})
}

// Wheel zooms the active image around the pointer. Positive deltas zoom in;
// a delta of zero counts as one notch out.
func (h *EditorHandler) Wheel(w http.ResponseWriter, r *http.Request) {
	h.pointer(w, r, func(s *app.State, req PointerRequest) bool { return s.Wheel(req.X, req.Y, req.Delta) })
}

// Frame renders the display surface as PNG. It answers 204 while the
// display area is degenerate.
func (h *EditorHandler) Frame(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	var renderable bool
	var encErr error
	err := h.editor.Do(r.Context(), func(s *app.State) {
		frame, ok := s.Frame()
		if !ok {
			return
		}
		renderable = true
		encErr = png.Encode(&buf, frame)
	})
	if err != nil {
		respondAssetError(w, err)
		return
	}
	if !renderable {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if encErr != nil {
		log.Printf("frame encode: %v", encErr)
		respondError(w, http.StatusInternalServerError, "failed to encode frame")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Events streams editor events (asset loaded, asset failed, redraw) via SSE.
func (h *EditorHandler) Events(w http.ResponseWriter, r *http.Request) {
	events := make(chan app.Event, constants.EventChannelBuffer)
	unsubscribe, err := h.editor.Subscribe(r.Context(), func(e app.Event) {
		select {
		case events <- e:
		default:
			// Listener buffer full, skip.
		}
	})
	if err != nil {
		respondAssetError(w, err)
		return
	}
	defer unsubscribe()

	flusher, ok := startSSE(w)
	if !ok {
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			if e.Kind == app.EventAssetFailed {
				log.Printf("asset %s failed: %s", sanitizeForLog(e.ID), sanitizeForLog(e.Error))
			}
			sendSSEEvent(w, flusher, string(e.Kind), e)
		}
	}
}
