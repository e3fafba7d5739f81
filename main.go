package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nvr-ai/go-depth/config"
	"github.com/nvr-ai/go-depth/depth"
	"github.com/nvr-ai/go-depth/logger"
	"github.com/nvr-ai/go-depth/models"
	"github.com/nvr-ai/go-depth/models/model"
	"github.com/nvr-ai/go-depth/providers"
	"github.com/nvr-ai/go-depth/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Get(cfg.Server.Debug)
	defer log.Sync()

	backend, err := providers.ParseBackend(cfg.Provider.Backend)
	if err != nil {
		log.Fatal("invalid provider backend", zap.Error(err))
	}

	provider := models.NewONNXProvider(models.ProviderArgs{
		Model:       model.Name(cfg.Model.Name),
		WeightsPath: cfg.Model.Path,
		WeightsURL:  cfg.Model.URL,
		CacheDir:    cfg.Model.CacheDir,
		Backend:     backend,
		Warmup:      cfg.Provider.Warmup,
	})

	handle := depth.NewHandle(provider)
	defer handle.Close()

	estimator := depth.NewEstimator(handle, cfg.Depth.Invert)

	srv := server.New(server.Args{
		Estimator:      estimator,
		Handle:         handle,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Log:            log,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("starting depth estimation server",
		zap.Int("port", cfg.Server.Port),
		zap.String("model", cfg.Model.Name),
		zap.String("backend", string(backend)))

	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
