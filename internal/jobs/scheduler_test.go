package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeExpirer struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakeExpirer) DeactivateExpired(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	return f.n, f.err
}

var clinicZone = time.FixedZone("ICT", 7*60*60)

func TestRegisterPromotionExpiry_SingleJob(t *testing.T) {
	s := NewScheduler(&fakeExpirer{}, clinicZone, zap.NewNop())

	require.NoError(t, s.RegisterPromotionExpiry("00:05"))
	require.NoError(t, s.RegisterPromotionExpiry("01:00"))
	assert.Equal(t, 1, s.Len())
}

func TestRegisterPromotionExpiry_InvalidTime(t *testing.T) {
	s := NewScheduler(&fakeExpirer{}, clinicZone, zap.NewNop())

	assert.Error(t, s.RegisterPromotionExpiry("25:99"))
	assert.Error(t, s.RegisterPromotionExpiry("midnight"))
	assert.Zero(t, s.Len())
}

func TestRunPromotionExpiry_ErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	exp := &fakeExpirer{err: errors.New("db down")}
	s := NewScheduler(exp, clinicZone, zap.New(core))

	assert.NotPanics(t, s.RunPromotionExpiry)
	assert.EqualValues(t, 1, exp.calls.Load())

	failed := logs.FilterMessage("promotion expiry job failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "db down", failed[0].ContextMap()["error"])
}

func TestRunPromotionExpiry_Success(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	exp := &fakeExpirer{n: 3}
	s := NewScheduler(exp, clinicZone, zap.New(core))

	s.RunPromotionExpiry()

	done := logs.FilterMessage("promotion expiry job done").All()
	require.Len(t, done, 1)
	assert.EqualValues(t, 3, done[0].ContextMap()["deactivated"])
	assert.Empty(t, logs.FilterMessage("promotion expiry job failed").All())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(&fakeExpirer{}, clinicZone, zap.NewNop())
	require.NoError(t, s.RegisterPromotionExpiry("03:00"))

	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
}
