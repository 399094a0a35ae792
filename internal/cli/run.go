package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/peekproxy/peek/internal/api"
	"github.com/peekproxy/peek/internal/config"
	"github.com/peekproxy/peek/internal/constants"
	"github.com/peekproxy/peek/internal/domain"
	"github.com/peekproxy/peek/internal/export"
	"github.com/peekproxy/peek/internal/format"
	"github.com/peekproxy/peek/internal/history"
	"github.com/peekproxy/peek/internal/logging"
	"github.com/peekproxy/peek/internal/proxy"
	"github.com/peekproxy/peek/internal/render"
	"github.com/peekproxy/peek/internal/store"
	"github.com/peekproxy/peek/internal/tui"
)

// runViewer wires the proxy, history, storage, and viewer together and
// blocks until the user quits.
func runViewer(cfg *config.Config) error {
	log := logging.New(logging.Config{File: cfg.Log.File, Level: cfg.Log.Level})

	var st *store.Store
	storagePath := ""
	if cfg.StorageEnabled() {
		opened, err := store.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening storage: %w", err)
		}
		defer opened.Close()
		st = opened
		storagePath = st.Path()
		log.Info().Str("path", storagePath).Msg("storage open")
	}

	hist := history.New(cfg.History.Capacity)
	defer hist.Close()

	// The viewer consumes exchanges through this channel; the proxy's
	// handler goroutines must never block on a slow terminal.
	exchanges := make(chan domain.Exchange, constants.DefaultSubscriptionBuffer)
	sink := func(ex domain.Exchange) {
		if st != nil {
			if err := st.Save(ex); err != nil {
				log.Error().Err(err).Str("id", ex.ID).Msg("persisting exchange")
			}
		}
		select {
		case exchanges <- ex:
		default:
			log.Warn().Str("id", ex.ID).Msg("viewer backlog full, dropping exchange")
		}
	}

	maxBody, err := cfg.MaxBodyBytes()
	if err != nil {
		return err
	}
	prx, err := proxy.New(proxy.Config{
		ListenAddr:  cfg.Listen,
		Target:      cfg.Target,
		MaxBodySize: maxBody,
	}, sink, log)
	if err != nil {
		return err
	}

	proxyErr := make(chan error, 1)
	go func() {
		proxyErr <- prx.Start()
	}()

	var apiServer *api.Server
	if cfg.API.Enabled {
		handlers := api.NewHandlers(hist, st, cfg.Target)
		apiServer = api.NewServer(api.ServerConfig{Host: cfg.API.Host, Port: cfg.API.Port}, handlers)
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Error().Err(err).Msg("api server stopped")
			}
		}()
		log.Info().Str("host", cfg.API.Host).Int("port", cfg.API.Port).Msg("api listening")
	}

	generator := export.NewGenerator(cfg.Export.Dir)
	renderCfg := render.Config{
		From:        prx.ListenAddr(),
		To:          prx.Target(),
		StoragePath: storagePath,
		Level:       format.Of(cfg.Display.DetailLevel),
	}

	runErr := tui.Run(hist, renderCfg, generator, exchanges)

	shutdown(prx, apiServer, log)

	// A proxy failure (port in use, most often) surfaces after the viewer
	// exits; it is the more useful error to report.
	select {
	case err := <-proxyErr:
		if err != nil {
			return err
		}
	default:
	}
	return runErr
}

func shutdown(prx *proxy.Server, apiServer *api.Server, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := prx.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("proxy shutdown")
	}
	if apiServer != nil {
		if err := apiServer.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("api shutdown")
		}
	}
	// Give in-flight handler goroutines a beat to finish emitting.
	time.Sleep(50 * time.Millisecond)
	log.Info().Msg("shutdown complete")
}
