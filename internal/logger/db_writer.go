package logger

import (
	"context"
	"fmt"
	"sync"
	"time"

	common_models "deskwise/internal/common/models"

	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to our worker
type LogEntry struct {
	Level      zapcore.Level
	Message    string
	OrgID      string
	ScheduleID string
	Caller     string
}

// LogSink persists log records. The mongo collection satisfies it.
type LogSink interface {
	InsertOne(ctx context.Context, document interface{}) error
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	sink     LogSink
	logChan  chan LogEntry
	appId    string
	minLevel zapcore.Level

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDBLogWriter starts the background worker. Entries below minLevel are not persisted.
func NewDBLogWriter(sink LogSink, appId string, minLevel zapcore.Level) *DBLogWriter {
	writer := &DBLogWriter{
		sink:     sink,
		logChan:  make(chan LogEntry, 1000),
		appId:    appId,
		minLevel: minLevel,
		done:     make(chan struct{}),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by our Zap core
func (w *DBLogWriter) AddLog(entry LogEntry) {
	if entry.Level < w.minLevel {
		return
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.logChan <- entry:
	default:
		// Never block the request path on log persistence.
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := common_models.Log{
			AppID:        w.appId,
			Message:      entry.Message,
			Caller:       entry.Caller,
			OrgID:        entry.OrgID,
			ScheduleID:   entry.ScheduleID,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := w.sink.InsertOne(ctx, record); err != nil {
			fmt.Println("Failed to persist log:", err)
		}
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
