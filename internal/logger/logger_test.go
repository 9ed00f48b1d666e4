package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warn", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := logger.ParseLevel(tt.in)

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_WritesRotatingFile(t *testing.T) {
	path := t.TempDir() + "/dispatch.log"

	l, closer, err := logger.New(logger.Config{Level: "info", File: logger.FileConfig{Path: path, MaxSizeMB: 1}})
	require.NoError(t, err)
	l.Info("started")
	require.NoError(t, closer.Close())

	assert.FileExists(t, path)
}

func gormLog(t *testing.T, debug bool) (gormlogger.Interface, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := slog.New(logger.NewHandler(&buf, slog.LevelDebug, false))
	return logger.NewGorm(l, debug, 50*time.Millisecond), &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	dec := json.NewDecoder(buf)
	for dec.More() {
		var m map[string]any
		require.NoError(t, dec.Decode(&m))
		out = append(out, m)
	}
	return out
}

func TestGormLogger_Trace(t *testing.T) {
	query := func() (string, int64) { return "SELECT 1", 1 }
	ctx := context.Background()

	t.Run("quiet for fast queries outside debug", func(t *testing.T) {
		g, buf := gormLog(t, false)

		g.Trace(ctx, time.Now(), query, nil)

		assert.Empty(t, lines(t, buf))
	})

	t.Run("missing rows are not failures", func(t *testing.T) {
		g, buf := gormLog(t, false)

		g.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)

		assert.Empty(t, lines(t, buf))
	})

	t.Run("slow query warns", func(t *testing.T) {
		g, buf := gormLog(t, false)

		g.Trace(ctx, time.Now().Add(-time.Second), query, nil)

		got := lines(t, buf)
		require.Len(t, got, 1)
		assert.Equal(t, "WARN", got[0]["level"])
		assert.Equal(t, "gorm", got[0]["component"])
	})

	t.Run("debug logs every statement", func(t *testing.T) {
		g, buf := gormLog(t, true)

		g.Trace(ctx, time.Now(), query, nil)

		got := lines(t, buf)
		require.Len(t, got, 1)
		assert.Equal(t, "SELECT 1", got[0]["sql"])
	})
}
