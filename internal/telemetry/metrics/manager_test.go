package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg prometheus.Gatherer, name string) *dto.MetricFamily {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric family %s not found", name)
	return nil
}

func TestManager_Counters(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()

	m.CounterCheckIns.WithLabelValues("checkin").Inc()
	m.CounterCheckIns.WithLabelValues("checkin").Inc()
	m.CounterCheckIns.WithLabelValues("rest").Inc()
	m.CounterSessionsSaved.Inc()
	m.GaugeStreak.Set(4)
	m.HistSessionDuration.Observe(22)

	checkIns := findFamily(t, reg, "kneerehab_test_check_ins")
	require.Len(t, checkIns.GetMetric(), 2)
	values := map[string]float64{}
	for _, metric := range checkIns.GetMetric() {
		values[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"checkin": 2, "rest": 1}, values)

	saved := findFamily(t, reg, "kneerehab_test_sessions_saved")
	assert.Equal(t, float64(1), saved.GetMetric()[0].GetCounter().GetValue())

	streak := findFamily(t, reg, "kneerehab_test_streak_days")
	assert.Equal(t, float64(4), streak.GetMetric()[0].GetGauge().GetValue())

	duration := findFamily(t, reg, "kneerehab_test_session_duration_minutes")
	assert.Equal(t, uint64(1), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestDumpTextfile(t *testing.T) {
	m, reg := NewTestManagerAndRegistry()
	m.CounterExports.Inc()

	require.NoError(t, DumpTextfile("", reg))

	path := filepath.Join(t.TempDir(), "kneerehab.prom")
	require.NoError(t, DumpTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "kneerehab_test_csv_exports 1")
}
