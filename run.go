package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"traydock/handler"
	"traydock/logger"
	"traydock/middleware"
	"traydock/service"
	"traydock/shortcut/native"
	"traydock/store"
	"traydock/tray"
	"traydock/window"
)

// run wires the controller, serves the command surface and blocks until the
// tray exits or a signal arrives
func run() error {
	cfg, path, err := loadConfig()
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)

	settingsPath, err := cfg.ResolveSettingsPath()
	if err != nil {
		return fmt.Errorf("failed to resolve preferences path: %w", err)
	}

	log.Info().
		Str("config", path).
		Str("settings", settingsPath).
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Str("log_dir", cfg.LogDir).
		Msg("Config loaded")

	// Initialize log file manager
	logFileManager, err := logger.NewLogFileManager(cfg.LogDir, cfg.LogRetentionDays)
	if err != nil {
		return fmt.Errorf("failed to initialize log file manager: %w", err)
	}

	eventLogger := logger.NewEventLogger(logFileManager)

	// Preferences and the host window
	prefStore := store.New(settingsPath)
	prefs := service.NewPreferences(prefStore)
	remote := window.NewRemote()

	// Shutdown channel
	shutdown := make(chan struct{})
	var shutdownOnce sync.Once
	doShutdown := func() {
		shutdownOnce.Do(func() { close(shutdown) })
	}

	icon := tray.DefaultIcon(cfg.ResourceDir)
	trayApp := tray.New(tray.Options{
		Port:    cfg.Port,
		Icon:    icon,
		LogDir:  cfg.LogDir,
		Version: Version,
	}, nil, doShutdown)

	// Controller and its collaborators
	badge := service.NewBadgeCoordinator(trayApp, cfg.ResourceDir, icon)
	service.FollowConfig(cfg, eventLogger, badge, tray.DefaultIcon)
	recorder := service.NewSizeRecorder(prefs)
	ctrl := service.NewController(remote, trayApp, prefs, recorder, badge, cfg)
	ctrl.SetOpener(tray.OpenPath)

	dispatcher := service.NewDispatcher(ctrl)
	trayApp.SetDispatcher(dispatcher)

	registrar := service.NewShortcutRegistrar(native.New(), prefs, func() {
		dispatcher.Dispatch(service.TriggerHotkey)
	})
	ctrl.SetShortcutRegistrar(registrar)

	badge.SetEventLogger(eventLogger)
	recorder.SetEventLogger(eventLogger)
	ctrl.SetEventLogger(eventLogger)
	registrar.SetEventLogger(eventLogger)

	// Pick up edits made in an editor via Open Config
	var watcher *store.Watcher
	if cfg.WatchSettings {
		watcher, err = prefStore.Watch(ctrl.ApplyExternalChanges)
		if err != nil {
			log.Warn().Err(err).Str("path", settingsPath).Msg("Preferences file watch unavailable")
		}
	}

	// Start logging background jobs
	ctx, cancelCtx := context.WithCancel(context.Background())
	stateProvider := func() (bool, int) {
		return ctrl.IsVisible(), remote.Attached()
	}
	logBgJobs := logger.NewBackgroundJobs(logFileManager, eventLogger, stateProvider, cfg.LogMetrics)
	logBgJobs.Start(ctx)

	// Setup Gin
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.RequestLogger(logFileManager, eventLogger, cfg))
	router.Use(consoleRequestLogger())

	// Register handlers
	handler.RegisterHealthHandler(router, Version, &StartTime, remote)
	handler.RegisterWindowHandler(router, ctrl)
	handler.RegisterTrayHandler(router, badge)
	handler.RegisterSettingsHandler(router, ctrl, registrar)
	handler.RegisterConfigHandler(router, cfg, ctrl)
	handler.RegisterFrontendHandler(router, remote, ctrl, dispatcher)
	handler.RegisterDebugHandler(router, eventLogger, logFileManager)

	addr := net.JoinHostPort(cfg.Bind, strconv.Itoa(cfg.Port))
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server failed")
			doShutdown()
		}
	}()

	// Handle OS signals
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			doShutdown()
		case <-shutdown:
		}
	}()

	// The shortcut is armed and released only while a run loop serves the
	// main thread
	if noTray {
		// Console mode - wait for shutdown signal
		native.RunMain(func() {
			registrar.Start()
			<-shutdown
			registrar.Stop()
		})
	} else {
		go func() {
			select {
			case <-trayApp.Ready():
				registrar.Start()
			case <-shutdown:
				trayApp.Quit()
				return
			}

			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-shutdown:
					registrar.Stop()
					trayApp.Quit()
					return
				case <-ticker.C:
					trayApp.UpdateStatus(ctrl.IsVisible(), remote.Attached())
				}
			}
		}()

		// Run tray (blocking) - exits once the Exit menu's shutdown has
		// released the shortcut
		trayApp.Run()
		doShutdown()
	}

	log.Info().Msg("Shutting down...")

	// Keep the last resize
	ctrl.FlushPending()
	if watcher != nil {
		watcher.Close()
	}

	logBgJobs.Stop()
	cancelCtx()

	// Directive streams never end on their own
	remote.DetachAll()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := logFileManager.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing log file manager")
	}

	log.Info().Msg("Exited")
	return nil
}

func consoleRequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Debug().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("Request")
	}
}
