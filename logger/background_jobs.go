package logger

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// StateProvider reports live controller state for the metrics log
type StateProvider func() (visible bool, frontends int)

// BackgroundJobs manages logging-related background tasks
type BackgroundJobs struct {
	fileManager  *LogFileManager
	eventLogger  *EventLogger
	getState     StateProvider
	writeMetrics bool
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewBackgroundJobs creates a new background jobs manager
func NewBackgroundJobs(fm *LogFileManager, el *EventLogger, state StateProvider, writeMetrics bool) *BackgroundJobs {
	return &BackgroundJobs{
		fileManager:  fm,
		eventLogger:  el,
		getState:     state,
		writeMetrics: writeMetrics,
		stopChan:     make(chan struct{}),
	}
}

// Start starts all background jobs
func (bj *BackgroundJobs) Start(ctx context.Context) {
	log.Info().Msg("Starting logging background jobs")

	// Metrics collection every minute
	bj.wg.Add(1)
	go bj.metricsCollector(ctx)

	// Log cleanup every hour
	if bj.fileManager != nil {
		bj.wg.Add(1)
		go bj.logCleanup(ctx)
	}
}

// Stop stops all background jobs and waits for them to exit
func (bj *BackgroundJobs) Stop() {
	bj.stopOnce.Do(func() { close(bj.stopChan) })
	bj.wg.Wait()
}

// metricsCollector collects and logs metrics every minute
func (bj *BackgroundJobs) metricsCollector(ctx context.Context) {
	defer bj.wg.Done()

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-bj.stopChan:
			return
		case <-ticker.C:
			bj.collectMetrics()
		}
	}
}

func (bj *BackgroundJobs) collectMetrics() {
	metrics := bj.eventLogger.GetMinuteMetrics()

	if bj.getState != nil {
		metrics.Visible, metrics.FrontendsAttached = bj.getState()
	}

	if bj.writeMetrics && bj.fileManager != nil {
		if err := bj.fileManager.WriteJSON(LogMetrics, metrics); err != nil {
			log.Warn().Err(err).Msg("Failed to write metrics log")
		}
	}

	log.Debug().
		Bool("visible", metrics.Visible).
		Int("frontends", metrics.FrontendsAttached).
		Int64("toggles", metrics.Toggles).
		Int64("geometry_writes", metrics.GeometryWrites).
		Int64("resizes_suppressed", metrics.ResizesSuppressed).
		Msg("Metrics collected")
}

// logCleanup removes old log files every hour
func (bj *BackgroundJobs) logCleanup(ctx context.Context) {
	defer bj.wg.Done()

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	// Run once at startup
	bj.fileManager.CleanupOldLogs()

	for {
		select {
		case <-ctx.Done():
			return
		case <-bj.stopChan:
			return
		case <-ticker.C:
			if removed, err := bj.fileManager.CleanupOldLogs(); err != nil {
				log.Warn().Err(err).Msg("Log cleanup encountered errors")
			} else if removed > 0 {
				log.Info().Int("removed", removed).Msg("Old log files cleaned up")
			}
		}
	}
}

// ForceCollectMetrics forces metrics collection (for testing)
func (bj *BackgroundJobs) ForceCollectMetrics() {
	bj.collectMetrics()
}
