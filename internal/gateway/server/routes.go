package server

import (
	"net/http"

	"promptcanvas/internal/gateway/handler"
	"promptcanvas/internal/gateway/middleware"
)

func NewMux(
	projectHandler *handler.ProjectHandler,
	compileHandler *handler.CompileHandler,
	assetHandler *handler.AssetHandler,
	eventsHandler *handler.EventsHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Project + snapshot
	mux.HandleFunc("GET /api/projects", projectHandler.HandleList)
	mux.HandleFunc("GET /api/projects/{id}/snapshot", projectHandler.HandleGetSnapshot)
	mux.HandleFunc("PUT /api/projects/{id}/snapshot", projectHandler.HandlePutSnapshot)
	mux.HandleFunc("GET /api/projects/{id}/generated", projectHandler.HandleListGenerated)
	mux.HandleFunc("DELETE /api/projects/{id}/generated/{itemID}", projectHandler.HandleDeleteGenerated)

	// Compilation pipeline
	mux.HandleFunc("POST /api/projects/{id}/refine", compileHandler.HandleRefine)
	mux.HandleFunc("POST /api/projects/{id}/generate", compileHandler.HandleGenerate)

	// Assets
	if assetHandler != nil {
		mux.HandleFunc("POST /api/projects/{id}/assets", assetHandler.HandleUpload)
		mux.HandleFunc("GET /api/projects/{id}/assets/{name}", assetHandler.HandleDownload)
	}

	// Live progress
	mux.HandleFunc("GET /api/projects/{id}/events", eventsHandler.HandleWS)

	return middleware.CORS(mux)
}
