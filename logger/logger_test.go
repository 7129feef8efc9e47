package logger

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"traydock/model"
)

func TestGetRecentEventsNewestFirst(t *testing.T) {
	el := NewEventLogger(nil)

	el.LogToggle("hotkey")
	el.LogShown("hotkey")
	el.LogHidden("tray_click")

	events := el.GetRecentEvents(10)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].EventType != model.EventHidden || events[2].EventType != model.EventToggle {
		t.Errorf("events not newest first: %+v", events)
	}

	if got := el.GetRecentEvents(1); len(got) != 1 {
		t.Errorf("limit not applied: %d events", len(got))
	}
}

func TestRecentEventsWrap(t *testing.T) {
	el := NewEventLogger(nil)
	for i := 0; i < recentEventsBufferSize+25; i++ {
		el.LogOpacityChanged(float64(i))
	}

	events := el.GetRecentEvents(recentEventsBufferSize * 2)
	if len(events) != recentEventsBufferSize {
		t.Fatalf("got %d events, want %d", len(events), recentEventsBufferSize)
	}
	if events[0].Opacity != float64(recentEventsBufferSize+24) {
		t.Errorf("newest opacity = %v", events[0].Opacity)
	}
}

func TestMinuteMetricsReset(t *testing.T) {
	el := NewEventLogger(nil)
	el.LogToggle("hotkey")
	el.LogToggle("tray_click")
	el.LogGeometrySaved(model.WindowGeometry{Width: 10, Height: 20}, "debounce")
	el.LogResizeSuppressed()
	el.LogPlatformFailure("show", errors.New("detached"))
	el.LogShortcutFallback("Ctrl+X", "Shift+Super+T", errors.New("taken"))
	el.IncrementRequests()
	el.IncrementErrors()

	m := el.GetMinuteMetrics()
	if m.Toggles != 2 || m.GeometryWrites != 1 || m.ResizesSuppressed != 1 ||
		m.PlatformFailures != 1 || m.ShortcutFallbacks != 1 ||
		m.TotalRequests != 1 || m.FailedRequests != 1 {
		t.Errorf("unexpected metrics: %+v", m)
	}

	m = el.GetMinuteMetrics()
	if m.Toggles != 0 || m.GeometryWrites != 0 {
		t.Errorf("metrics not reset: %+v", m)
	}
}

func TestWriteJSONAndStats(t *testing.T) {
	dir := t.TempDir()
	lfm, err := NewLogFileManager(dir, 7)
	if err != nil {
		t.Fatal(err)
	}

	entry := model.ControllerEvent{Timestamp: time.Now(), EventType: model.EventShown}
	if err := lfm.WriteJSON(LogEvents, entry); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := lfm.WriteJSON("bogus", entry); err == nil {
		t.Error("unknown log type should fail")
	}
	if err := lfm.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// second close is a no-op
	if err := lfm.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	path := filepath.Join(dir, "events", time.Now().Format("2006-01-02")+".jsonl")
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("events file missing: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		t.Fatal("events file is empty")
	}
	var got model.ControllerEvent
	if err := json.Unmarshal(scanner.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.EventType != model.EventShown {
		t.Errorf("event_type = %q", got.EventType)
	}

	stats := lfm.GetStats()
	if stats.Files[LogEvents] != 1 || stats.Files[LogRequests] != 0 {
		t.Errorf("files = %v", stats.Files)
	}
	if today := time.Now().Format("2006-01-02"); stats.OldestLog != today || stats.NewestLog != today {
		t.Errorf("date range = %s..%s, want %s", stats.OldestLog, stats.NewestLog, today)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	lfm, err := NewLogFileManager(dir, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer lfm.Close()

	old := filepath.Join(dir, "requests", time.Now().AddDate(0, 0, -10).Format("2006-01-02")+".jsonl")
	recent := filepath.Join(dir, "requests", time.Now().Format("2006-01-02")+".jsonl")
	other := filepath.Join(dir, "requests", "notes.txt")
	for _, p := range []string{old, recent, other} {
		os.WriteFile(p, []byte("{}\n"), 0644)
	}

	removed, err := lfm.CleanupOldLogs()
	if err != nil || removed != 1 {
		t.Fatalf("CleanupOldLogs() = %d, %v; want 1, nil", removed, err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("old log still present")
	}
	for _, p := range []string{recent, other} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s removed: %v", p, err)
		}
	}

	if stats := lfm.GetStats(); stats.Files[LogRequests] != 1 {
		t.Errorf("request day files = %d, want 1", stats.Files[LogRequests])
	}
}

func TestForceCollectMetrics(t *testing.T) {
	dir := t.TempDir()
	lfm, err := NewLogFileManager(dir, 3)
	if err != nil {
		t.Fatal(err)
	}
	el := NewEventLogger(lfm)
	el.LogToggle("hotkey")

	bj := NewBackgroundJobs(lfm, el, func() (bool, int) { return true, 2 }, true)
	bj.ForceCollectMetrics()
	lfm.Close()

	path := filepath.Join(dir, "metrics", time.Now().Format("2006-01-02")+".jsonl")
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("metrics file missing: %v", err)
	}
	var m model.MetricsLog
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatal(err)
	}
	if !m.Visible || m.FrontendsAttached != 2 || m.Toggles != 1 {
		t.Errorf("metrics = %+v", m)
	}
}
