package logger

import (
	"context"
	"sync"
	"testing"
	"time"

	common_models "deskwise/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memorySink struct {
	mu      sync.Mutex
	records []common_models.Log
}

func (m *memorySink) InsertOne(ctx context.Context, document interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, document.(common_models.Log))
	return nil
}

func (m *memorySink) snapshot() []common_models.Log {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]common_models.Log(nil), m.records...)
}

func TestDBCorePersistsContextFields(t *testing.T) {
	sink := &memorySink{}
	writer := NewDBLogWriter(sink, "test-app", zapcore.InfoLevel)
	base, observed := observer.New(zapcore.DebugLevel)

	log := zap.New(NewDBCore(base, writer)).With(zap.String("org_id", "org-1"))
	log.Info("schedule executed", zap.String("schedule_id", "sched-9"))
	log.Debug("noise")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, writer.Close(ctx))

	// Console output still receives everything.
	assert.Equal(t, 2, observed.Len())

	records := sink.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "schedule executed", records[0].Message)
	assert.Equal(t, "org-1", records[0].OrgID)
	assert.Equal(t, "sched-9", records[0].ScheduleID)
	assert.Equal(t, "test-app", records[0].AppID)
	assert.Equal(t, 20, records[0].LogLevelId)
}

func TestMapLevelToInt(t *testing.T) {
	assert.Equal(t, 10, mapLevelToInt(zapcore.DebugLevel))
	assert.Equal(t, 30, mapLevelToInt(zapcore.WarnLevel))
	assert.Equal(t, 40, mapLevelToInt(zapcore.ErrorLevel))
	assert.Equal(t, 20, mapLevelToInt(zapcore.DPanicLevel))
}

func TestAddLogAfterCloseIsDropped(t *testing.T) {
	sink := &memorySink{}
	writer := NewDBLogWriter(sink, "test-app", zapcore.InfoLevel)
	require.NoError(t, writer.Close(context.Background()))

	assert.NotPanics(t, func() {
		writer.AddLog(LogEntry{Level: zapcore.ErrorLevel, Message: "late"})
	})
	assert.Empty(t, sink.snapshot())
}
