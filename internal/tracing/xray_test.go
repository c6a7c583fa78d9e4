package tracing

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestInitializeDisabledIsNoop(t *testing.T) {
	err := Initialize(Config{Enabled: false}, testLogger())
	assert.NoError(t, err)
}

func TestInitializeConfiguresSampling(t *testing.T) {
	err := Initialize(Config{
		ServiceName:  "encore-edge-test",
		Enabled:      true,
		SamplingRate: 0.05,
		DaemonAddr:   "127.0.0.1:2000",
	}, testLogger())
	require.NoError(t, err)
}

func TestTraceScanDisabledRunsUntraced(t *testing.T) {
	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("scan"), "test")

	called := false
	TraceScan(ctx, false, func(fnCtx context.Context) (int, int) {
		called = true
		assert.Equal(t, ctx, fnCtx)
		return 3, 1
	})
	assert.True(t, called)
}

func TestTraceScanEnabledAnnotatesSegment(t *testing.T) {
	require.NoError(t, Initialize(Config{
		ServiceName:  "encore-edge-test",
		Enabled:      true,
		SamplingRate: 1.0,
		DaemonAddr:   "127.0.0.1:2000",
	}, testLogger()))

	called := false
	TraceScan(context.Background(), true, func(fnCtx context.Context) (int, int) {
		called = true
		AddAnnotation(fnCtx, "venue", "kalshi")
		return 5, 2
	})
	assert.True(t, called)
}
