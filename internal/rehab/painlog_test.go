package rehab_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/2beens/kneerehab/internal/rehab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPainLog_AppendCapsAtThirty(t *testing.T) {
	var log rehab.PainLog
	for i := 1; i <= rehab.PainLogCap; i++ {
		log = log.Append(rehab.PainEntry{Value: float64(i % 10), Date: fmt.Sprintf("entry-%d", i)})
	}
	require.Len(t, log, 30)

	full := log
	log = log.Append(rehab.PainEntry{Value: 1, Date: "entry-31"})
	require.Len(t, log, 30)
	assert.Equal(t, "entry-2", log[0].Date)
	assert.Equal(t, "entry-31", log[29].Date)
	for i, e := range log {
		assert.Equal(t, fmt.Sprintf("entry-%d", i+2), e.Date)
	}

	// the previous log value is untouched
	assert.Equal(t, "entry-1", full[0].Date)
	assert.Len(t, full, 30)
}

func TestPainLabel(t *testing.T) {
	assert.Equal(t, rehab.LabelLow, rehab.PainLabel(0))
	assert.Equal(t, rehab.LabelLow, rehab.PainLabel(3))
	assert.Equal(t, rehab.LabelModerate, rehab.PainLabel(3.5))
	assert.Equal(t, rehab.LabelModerate, rehab.PainLabel(6))
	assert.Equal(t, rehab.LabelSevere, rehab.PainLabel(6.5))
	assert.Equal(t, rehab.LabelSevere, rehab.PainLabel(10))
}

func TestNormalizePain(t *testing.T) {
	assert.Equal(t, 10.0, rehab.NormalizePain(11))
	assert.Equal(t, 0.0, rehab.NormalizePain(-2))
	assert.Equal(t, 3.5, rehab.NormalizePain(3.3))
	assert.Equal(t, 3.0, rehab.NormalizePain(3.2))
	assert.Equal(t, 4.5, rehab.NormalizePain(4.5))
	assert.Equal(t, 0.0, rehab.NormalizePain(math.NaN()))
}

func TestNewCheckInAndRestDay(t *testing.T) {
	now := time.Date(2026, 3, 5, 8, 30, 0, 0, time.UTC)

	entry := rehab.NewCheckIn(6.5, now)
	assert.Equal(t, rehab.PainEntry{Value: 6.5, Label: rehab.LabelSevere, Date: "05 Mar 2026"}, entry)

	rest := rehab.NewRestDay(2, now)
	assert.Equal(t, rehab.PainEntry{Value: 2, Label: rehab.LabelRest, Date: "05 Mar 2026", RestDay: true}, rest)
}

func TestSessionHistory_Append(t *testing.T) {
	var history rehab.SessionHistory
	var rec rehab.SessionRecord
	for i := 0; i < 3; i++ {
		history, rec = history.Append(rehab.SessionRecord{ID: 42, Intensity: 70})
		assert.Equal(t, i+1, rec.ID)
	}
	for i, s := range history {
		assert.Equal(t, i+1, s.ID)
	}

	history, rec = history.Append(rehab.SessionRecord{Intensity: 120})
	assert.Equal(t, 100, rec.Intensity)
	assert.Equal(t, 4, rec.ID)

	_, rec = history.Append(rehab.SessionRecord{Intensity: -5})
	assert.Equal(t, 0, rec.Intensity)

	last, ok := history.Last()
	require.True(t, ok)
	assert.Equal(t, 4, last.ID)

	_, ok = rehab.SessionHistory{}.Last()
	assert.False(t, ok)
}
