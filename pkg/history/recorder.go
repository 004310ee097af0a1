package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	rtlErrors "rosetta-hq/rosetta/pkg/rtl/errors"
)

// RecorderConfig configures the async render recorder.
type RecorderConfig struct {
	// Enabled turns recording on. A disabled recorder accepts and drops
	// everything, so callers never branch on it.
	Enabled bool

	// AsyncBuffer is the size of the write channel. Default: 1000.
	AsyncBuffer int

	// WriteTimeout bounds a single storage write. Default: 5s.
	WriteTimeout time.Duration
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes render records to the store asynchronously so rendering
// never blocks on disk.
type Recorder struct {
	store  *Store
	config *RecorderConfig
	ch     chan *Record
	done   chan struct{}
	wg     sync.WaitGroup
	logger *slog.Logger
}

// NewRecorder creates a recorder over the given store and starts its
// background writer.
func NewRecorder(store *Store, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	r := &Recorder{
		store:  store,
		config: config,
		ch:     make(chan *Record, config.AsyncBuffer),
		done:   make(chan struct{}),
		logger: slog.Default().With("component", "history.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	return r
}

// Record builds a render record from the render outcome and enqueues it.
// It assigns the record's UUID and timestamp and returns immediately; a
// full buffer drops the record with a log line rather than blocking.
func (r *Recorder) Record(project, stage, templateID, output string, diags *rtlErrors.List, duration time.Duration) {
	if !r.config.Enabled {
		return
	}

	rec := &Record{
		ID:          uuid.New().String(),
		Project:     project,
		Stage:       stage,
		TemplateID:  templateID,
		OutputChars: len([]rune(output)),
		Duration:    duration,
		CreatedAt:   time.Now(),
	}
	if diags != nil && diags.Count() > 0 {
		rec.WarningCount = len(diags.Warnings())
		rec.ErrorCount = len(diags.Errors())
		if data, err := json.Marshal(diags.Diagnostics); err == nil {
			rec.Diagnostics = string(data)
		}
	}

	select {
	case r.ch <- rec:
	default:
		r.logger.Error("history buffer full, dropping record",
			"record_id", rec.ID,
			"capacity", r.config.AsyncBuffer,
		)
	}
}

// Close drains pending records and stops the background writer.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case rec := <-r.ch:
			r.write(rec)

		case <-r.done:
			for {
				select {
				case rec := <-r.ch:
					r.write(rec)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(rec *Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	if err := r.store.Insert(ctx, rec); err != nil {
		r.logger.Error("failed to store render record",
			"record_id", rec.ID,
			"error", err,
		)
		return
	}

	r.logger.Debug("render recorded",
		"record_id", rec.ID,
		"project", rec.Project,
		"stage", rec.Stage,
	)
}
