package logger

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Log kinds, each kept in its own directory under the base dir
const (
	LogRequests = "requests"
	LogEvents   = "events"
	LogMetrics  = "metrics"
)

var logKinds = []string{LogRequests, LogEvents, LogMetrics}

const (
	dayLayout     = "2006-01-02"
	dayFileSuffix = ".jsonl"
	flushInterval = 5 * time.Second
)

// LogFileManager appends JSON lines to one file per kind and day
type LogFileManager struct {
	baseDir       string
	retentionDays int

	mu    sync.Mutex
	files map[string]*dayFile

	stop      chan struct{}
	closeOnce sync.Once
}

type dayFile struct {
	day string
	f   *os.File
	w   *bufio.Writer
}

// LogStats summarizes what is on disk
type LogStats struct {
	LogDir      string         `json:"log_dir"`
	Files       map[string]int `json:"files"`
	TotalSizeMB float64        `json:"total_size_mb"`
	OldestLog   string         `json:"oldest_log"`
	NewestLog   string         `json:"newest_log"`
}

// NewLogFileManager creates the kind directories under baseDir and starts
// the periodic flush
func NewLogFileManager(baseDir string, retentionDays int) (*LogFileManager, error) {
	for _, kind := range logKinds {
		dir := filepath.Join(baseDir, kind)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	lfm := &LogFileManager{
		baseDir:       baseDir,
		retentionDays: retentionDays,
		files:         make(map[string]*dayFile),
		stop:          make(chan struct{}),
	}
	go lfm.flushLoop()

	log.Info().
		Str("base_dir", baseDir).
		Int("retention_days", retentionDays).
		Msg("Log file manager initialized")

	return lfm, nil
}

func (lfm *LogFileManager) flushLoop() {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			lfm.mu.Lock()
			for _, df := range lfm.files {
				df.w.Flush()
			}
			lfm.mu.Unlock()
		case <-lfm.stop:
			return
		}
	}
}

// WriteJSON appends v as one line to today's file for kind
func (lfm *LogFileManager) WriteJSON(kind string, v interface{}) error {
	line, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal log data: %w", err)
	}
	line = append(line, '\n')

	lfm.mu.Lock()
	defer lfm.mu.Unlock()

	df, err := lfm.today(kind)
	if err != nil {
		return err
	}
	if _, err := df.w.Write(line); err != nil {
		return fmt.Errorf("failed to write %s log: %w", kind, err)
	}
	return nil
}

// today returns the open file for kind, rolling over at midnight.
// Caller holds lfm.mu.
func (lfm *LogFileManager) today(kind string) (*dayFile, error) {
	if !isKind(kind) {
		return nil, fmt.Errorf("unknown log type: %s", kind)
	}

	day := time.Now().Format(dayLayout)
	if df, ok := lfm.files[kind]; ok {
		if df.day == day {
			return df, nil
		}
		df.close()
		delete(lfm.files, kind)
	}

	path := filepath.Join(lfm.baseDir, kind, day+dayFileSuffix)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	df := &dayFile{day: day, f: f, w: bufio.NewWriter(f)}
	lfm.files[kind] = df
	return df, nil
}

func (df *dayFile) close() error {
	if err := df.w.Flush(); err != nil {
		df.f.Close()
		return err
	}
	return df.f.Close()
}

// Close flushes and closes every open file. Later calls do nothing.
func (lfm *LogFileManager) Close() error {
	var lastErr error
	lfm.closeOnce.Do(func() {
		close(lfm.stop)

		lfm.mu.Lock()
		defer lfm.mu.Unlock()
		for kind, df := range lfm.files {
			if err := df.close(); err != nil {
				lastErr = err
			}
			delete(lfm.files, kind)
		}
	})
	return lastErr
}

// CleanupOldLogs removes day files older than the retention window
func (lfm *LogFileManager) CleanupOldLogs() (int, error) {
	cutoff := time.Now().AddDate(0, 0, -lfm.retentionDays)
	removed := 0

	lfm.eachDayFile(func(kind, path string, day time.Time, _ os.FileInfo) {
		if !day.Before(cutoff) {
			return
		}
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to remove old log file")
			return
		}
		removed++
		log.Debug().Str("path", path).Msg("Removed old log file")
	})

	if removed > 0 {
		log.Info().Int("count", removed).Msg("Cleaned up old log files")
	}
	return removed, nil
}

// GetStats counts day files per kind and their total size
func (lfm *LogFileManager) GetStats() LogStats {
	stats := LogStats{LogDir: lfm.baseDir, Files: make(map[string]int, len(logKinds))}
	var total int64

	lfm.eachDayFile(func(kind, _ string, day time.Time, info os.FileInfo) {
		stats.Files[kind]++
		if info != nil {
			total += info.Size()
		}
		d := day.Format(dayLayout)
		if stats.OldestLog == "" || d < stats.OldestLog {
			stats.OldestLog = d
		}
		if d > stats.NewestLog {
			stats.NewestLog = d
		}
	})

	stats.TotalSizeMB = float64(total) / 1024 / 1024
	return stats
}

// eachDayFile visits every file named after a day. Other files are ignored.
func (lfm *LogFileManager) eachDayFile(fn func(kind, path string, day time.Time, info os.FileInfo)) {
	for _, kind := range logKinds {
		dir := filepath.Join(lfm.baseDir, kind)
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !strings.HasSuffix(name, dayFileSuffix) {
				continue
			}
			day, err := time.Parse(dayLayout, strings.TrimSuffix(name, dayFileSuffix))
			if err != nil {
				continue
			}
			info, _ := entry.Info()
			fn(kind, filepath.Join(dir, name), day, info)
		}
	}
}

func isKind(kind string) bool {
	for _, k := range logKinds {
		if k == kind {
			return true
		}
	}
	return false
}
