package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"promptcanvas/internal/compiler"
	"promptcanvas/internal/gateway/config"
	"promptcanvas/internal/gateway/events"
	"promptcanvas/internal/gateway/handler"
	"promptcanvas/internal/gateway/repository/asset"
	"promptcanvas/internal/gateway/repository/projectstore"
	"promptcanvas/internal/gateway/server"
	"promptcanvas/internal/imagegen"
	llmclient "promptcanvas/internal/llmClient"
)

const fetchCacheSize = 64

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store := projectstore.NewFromConfig(cfg.Store.Path, cfg.Store.DSN)
	defer store.Close()

	var assetStore asset.Store
	var assetHandler *handler.AssetHandler
	if cfg.Asset.Enabled {
		s3, err := asset.NewS3Store(asset.S3Config{
			Endpoint:  cfg.Asset.Endpoint,
			Region:    cfg.Asset.Region,
			AccessKey: cfg.Asset.AccessKey,
			SecretKey: cfg.Asset.SecretKey,
			Bucket:    cfg.Asset.Bucket,
			UseSSL:    cfg.Asset.UseSSL,
		})
		if err != nil {
			log.Printf("asset store disabled: %v", err)
		} else {
			assetStore = s3
			assetHandler = handler.NewAssetHandler(assetStore)
		}
	}

	var fetcher compiler.Fetcher = compiler.NewHTTPFetcher()
	if assetStore != nil {
		fetcher = asset.NewFetcher(assetStore, fetcher)
	}
	if cached, err := compiler.NewCachingFetcher(fetcher, fetchCacheSize); err == nil {
		fetcher = cached
	}

	var reasoner llmclient.Reasoner
	var richGen llmclient.ImageGenerator
	if cfg.Gemini.Configured() {
		gemini, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.ReasonModel, cfg.Gemini.ImageModel)
		if err != nil {
			log.Printf("gemini disabled: %v", err)
		} else {
			reasoner = gemini
			richGen = gemini
		}
	} else {
		log.Printf("no GEMINI_API_KEY set, refine degrades to simple prompts and generation uses the keyless provider")
	}

	comp := compiler.New(reasoner, fetcher)
	dispatcher := imagegen.New(richGen, fetcher)
	hub := events.NewHub()

	mux := server.NewMux(
		handler.NewProjectHandler(store),
		handler.NewCompileHandler(store, comp, dispatcher, hub),
		assetHandler,
		handler.NewEventsHandler(hub),
	)

	srv := server.New(cfg.Port, mux)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}
}
