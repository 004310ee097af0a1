package prompts

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)
	defer d.stop()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		d.trigger(func() { fired.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("callback fired %d times, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var fired atomic.Int32
	d.trigger(func() { fired.Add(1) })
	d.stop()

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 0 {
		t.Errorf("callback fired %d times after stop", got)
	}
}

func TestWatcher_RelevantFiltersEvents(t *testing.T) {
	w, err := NewWatcher(&WatcherConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	defer w.watcher.Close()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"markdown write", fsnotify.Event{Name: "prompts/system/translation/main.md", Op: fsnotify.Write}, true},
		{"markdown create", fsnotify.Event{Name: "prompts/main.md", Op: fsnotify.Create}, true},
		{"chmod ignored", fsnotify.Event{Name: "prompts/main.md", Op: fsnotify.Chmod}, false},
		{"hidden file ignored", fsnotify.Event{Name: "prompts/.main.md.swp", Op: fsnotify.Write}, false},
		{"other extension ignored", fsnotify.Event{Name: "prompts/notes.txt", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_StopBeforeWatchIsNoop(t *testing.T) {
	w, err := NewWatcher(&WatcherConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() before Watch: %v", err)
	}
	w.watcher.Close()
}
