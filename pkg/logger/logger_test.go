package logger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"checkout/config"
	"checkout/infrastructure/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNilLoggerSafety(t *testing.T) {
	restore := Replace(nil)
	defer restore()

	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	assert.NotNil(t, With(zap.String("key", "value")))
	assert.NotNil(t, WithRequestID("id"))
	assert.NotNil(t, WithContext(map[string]any{"k": "v"}))
	assert.NotNil(t, FromContext(context.Background()))
	assert.NoError(t, Sync())
}

func TestInitDevelopmentAndProduction(t *testing.T) {
	defer Replace(nil)()

	require.NoError(t, Init(&config.LogConfig{Level: "debug", Output: "stdout"}, "development"))
	Info("development logger", zap.String("env", "development"))

	require.NoError(t, Init(&config.LogConfig{Level: "info", Output: "stdout"}, "production"))
	Warn("production logger", zap.Int("value", 42))
}

func TestFileOutput(t *testing.T) {
	defer Replace(nil)()
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	require.NoError(t, Init(&config.LogConfig{Level: "info", Format: "json", Output: "file", FilePath: path}, "production"))
	for i := 0; i < 5; i++ {
		Info("file entry", zap.Int("entry", i))
	}
	_ = Sync()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestUpdateLevel(t *testing.T) {
	logs := observe(t)
	UpdateLevel("error")
	defer UpdateLevel("info")

	// observer cores have their own level; the atomic level only gates Init cores
	Error("still logged")
	assert.Equal(t, 1, logs.FilterMessage("still logged").Len())
	assert.False(t, atomLevel.Enabled(zap.InfoLevel))
}

func TestFromContextAddsRequestID(t *testing.T) {
	logs := observe(t)

	ctx := persistence.ContextWithRequestID(context.Background(), "abc")
	FromContext(ctx).Info("scoped")

	entries := logs.FilterMessage("scoped").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0].ContextMap()["request_id"])
}

func TestWithContextTypes(t *testing.T) {
	logs := observe(t)

	WithContext(map[string]any{
		"s":   "x",
		"i":   7,
		"i64": int64(8),
		"f":   1.5,
		"b":   true,
		"err": errors.New("boom"),
	}).Info("typed")

	fields := logs.FilterMessage("typed").All()[0].ContextMap()
	assert.Equal(t, "x", fields["s"])
	assert.Equal(t, int64(7), fields["i"])
	assert.Equal(t, int64(8), fields["i64"])
	assert.Equal(t, true, fields["b"])
	assert.Equal(t, "boom", fields["err"])
}
