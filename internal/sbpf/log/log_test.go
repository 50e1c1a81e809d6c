package log

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupHonorsDebugLevelFromEnv(t *testing.T) {
	t.Setenv("SBPF_LOG_LEVEL", "debug")
	Setup(false, false)
	t.Cleanup(func() { Close() })

	assert.True(t, Initialized())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

func TestRecoverPanicRunsCleanup(t *testing.T) {
	cleaned := false
	func() {
		defer RecoverPanic("test", func() { cleaned = true })
		panic("boom")
	}()
	assert.True(t, cleaned)
}
