package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"promptcanvas/internal/gateway/repository/asset"
)

// AssetHandler turns raw uploaded media into stable asset URLs the editor
// writes into image nodes.
type AssetHandler struct {
	store asset.Store
}

func NewAssetHandler(store asset.Store) *AssetHandler {
	return &AssetHandler{store: store}
}

func (h *AssetHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}
	content, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil || len(content) == 0 {
		writeError(w, http.StatusBadRequest, "empty upload body")
		return
	}
	contentType := strings.TrimSpace(r.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		name = uuid.NewString() + extensionFor(contentType)
	}

	url, err := h.store.Put(r.Context(), id, name, content, contentType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	presigned, err := h.store.PresignedURL(r.Context(), id, name)
	if err != nil {
		// the stable URL is still usable; presign is best effort
		presigned = ""
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":           url,
		"presigned_url": presigned,
		"name":          name,
	})
}

func (h *AssetHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	name := strings.TrimSpace(r.PathValue("name"))
	data, contentType, err := h.store.Get(r.Context(), id, name)
	if err != nil {
		if err == asset.ErrNotFound {
			writeError(w, http.StatusNotFound, "asset not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ""
	}
}
