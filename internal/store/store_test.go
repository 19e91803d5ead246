package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/2beens/kneerehab/internal/store"
	"github.com/2beens/kneerehab/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testSettings struct {
	HoldSecs  int `json:"holdSecs"`
	RestSecs  int `json:"restSecs"`
	TotalSets int `json:"totalSets"`
}

func TestSlot_DefaultAndPersist(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	s := store.New(backend, metrics.NewTestManager())

	def := testSettings{HoldSecs: 45, RestSecs: 60, TotalSets: 4}
	slot := store.NewSlot(s, store.KeySettings, def)
	assert.Equal(t, store.KeySettings, slot.Key())
	assert.Equal(t, def, slot.Get(ctx))

	updated := testSettings{HoldSecs: 30, RestSecs: 90, TotalSets: 3}
	slot.Set(ctx, updated)
	assert.Equal(t, updated, slot.Get(ctx))

	raw, err := backend.Get(ctx, store.KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"holdSecs":30,"restSecs":90,"totalSets":3}`, string(raw))

	// a fresh slot over the same backend picks the stored value up
	reloaded := store.NewSlot(s, store.KeySettings, def)
	assert.Equal(t, updated, reloaded.Get(ctx))
}

func TestSlot_Update(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryBackend(), metrics.NewTestManager())

	slot := store.NewSlot(s, store.KeySessions, []int{})
	slot.Update(ctx, func(v []int) []int { return append(v, 1) })
	got := slot.Update(ctx, func(v []int) []int { return append(v, 2) })
	assert.Equal(t, []int{1, 2}, got)

	reloaded := store.NewSlot(s, store.KeySessions, []int{})
	assert.Equal(t, []int{1, 2}, reloaded.Get(ctx))
}

func TestSlot_CorruptValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, store.KeyIntensity, []byte("{not json")))

	metricsManager := metrics.NewTestManager()
	s := store.New(backend, metricsManager)

	slot := store.NewSlot(s, store.KeyIntensity, 70)
	assert.Equal(t, 70, slot.Get(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metricsManager.CounterStoreReadFallbacks.WithLabelValues(store.KeyIntensity, "corrupt"),
	))

	// value of the wrong type is treated the same way
	require.NoError(t, backend.Set(ctx, store.KeyStage, []byte(`{"stage":"B"}`)))
	stageSlot := store.NewSlot(s, store.KeyStage, "A")
	assert.Equal(t, "A", stageSlot.Get(ctx))
}

func TestSlot_InvalidValueFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()
	require.NoError(t, backend.Set(ctx, store.KeyIntensity, []byte("250")))

	metricsManager := metrics.NewTestManager()
	s := store.New(backend, metricsManager)

	inRange := func(v int) error {
		if v < 0 || v > 100 {
			return errors.New("out of range")
		}
		return nil
	}
	slot := store.NewSlot(s, store.KeyIntensity, 70).Validated(inRange)
	assert.Equal(t, 70, slot.Get(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metricsManager.CounterStoreReadFallbacks.WithLabelValues(store.KeyIntensity, "invalid"),
	))

	// the default is not written back, a later valid write wins
	slot.Set(ctx, 80)
	reloaded := store.NewSlot(s, store.KeyIntensity, 70).Validated(inRange)
	assert.Equal(t, 80, reloaded.Get(ctx))
}

func TestSlot_ReadErrorFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backendMock := NewMockBackend(ctrl)
	metricsManager := metrics.NewTestManager()
	s := store.New(backendMock, metricsManager)

	backendMock.EXPECT().Get(gomock.Any(), store.KeyDarkMode).Return(nil, errors.New("io error")).Times(1)

	slot := store.NewSlot(s, store.KeyDarkMode, true)
	assert.True(t, slot.Get(ctx))
	// loaded once, no second backend read
	assert.True(t, slot.Get(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metricsManager.CounterStoreReadFallbacks.WithLabelValues(store.KeyDarkMode, "error"),
	))
}

func TestSlot_WriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	backendMock := NewMockBackend(ctrl)
	metricsManager := metrics.NewTestManager()
	s := store.New(backendMock, metricsManager)

	backendMock.EXPECT().Get(gomock.Any(), store.KeyStage).Return(nil, store.ErrNotFound)
	backendMock.EXPECT().Set(gomock.Any(), store.KeyStage, []byte(`"B"`)).Return(errors.New("quota exceeded"))

	slot := store.NewSlot(s, store.KeyStage, "A")
	assert.Equal(t, "A", slot.Get(ctx))

	slot.Set(ctx, "B")
	assert.Equal(t, "B", slot.Get(ctx))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metricsManager.CounterStoreWriteErrors.WithLabelValues(store.KeyStage),
	))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		metricsManager.CounterStoreReadFallbacks.WithLabelValues(store.KeyStage, "missing"),
	))
}

func TestStore_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	backendMock := NewMockBackend(ctrl)
	backendMock.EXPECT().Close().Return(nil)

	s := store.New(backendMock, metrics.NewTestManager())
	require.NoError(t, s.Close())
}
