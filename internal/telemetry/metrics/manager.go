package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterCheckIns           *prometheus.CounterVec
	CounterSessionsSaved      prometheus.Counter
	CounterSessionsAbandoned  prometheus.Counter
	CounterStageChanges       *prometheus.CounterVec
	CounterStoreWriteErrors   *prometheus.CounterVec
	CounterStoreReadFallbacks *prometheus.CounterVec
	CounterCueFailures        prometheus.Counter
	CounterExports            prometheus.Counter
	CounterReminders          prometheus.Counter

	// gauges
	GaugeStreak       prometheus.Gauge
	GaugeAvgPain      prometheus.Gauge
	GaugeWeeksInStage prometheus.Gauge
	GaugeIntensity    prometheus.Gauge

	// histograms
	HistSessionDuration prometheus.Histogram
}

func NewTestManager() *Manager {
	return NewManager("kneerehab", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("kneerehab", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterCheckIns := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "check_ins",
		Help:      "The total number of pain check-ins, by kind",
	}, []string{"kind"})
	counterSessionsSaved := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_saved",
		Help:      "The total number of saved workout sessions",
	})
	counterSessionsAbandoned := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions_abandoned",
		Help:      "The total number of abandoned workout sessions",
	})
	counterStageChanges := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "stage_changes",
		Help:      "The total number of stage changes, by reason",
	}, []string{"reason", "stage"})
	counterStoreWriteErrors := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_write_errors",
		Help:      "The total number of swallowed store write errors",
	}, []string{"key"})
	counterStoreReadFallbacks := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "store_read_fallbacks",
		Help:      "The total number of store reads that fell back to the default value",
	}, []string{"key", "reason"})
	counterCueFailures := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "cue_failures",
		Help:      "The total number of audio/haptic cues that failed to play",
	})
	counterExports := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "csv_exports",
		Help:      "The total number of CSV exports",
	})
	counterReminders := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reminders_fired",
		Help:      "The total number of fired check-in reminders",
	})

	gaugeStreak := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "streak_days",
		Help:      "Current consecutive-day activity streak",
	})
	gaugeAvgPain := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "avg_pain",
		Help:      "Average pain over the last 7 check-ins",
	})
	gaugeWeeksInStage := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "weeks_in_stage",
		Help:      "Weeks spent in the current rehab stage",
	})
	gaugeIntensity := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "intensity_percent",
		Help:      "Last used intensity, percent of MVC",
	})

	histSessionDuration := factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "session_duration_minutes",
		Help:      "Duration of saved workout sessions in minutes",
		Buckets:   []float64{5, 10, 15, 20, 30, 45, 60, 90},
	})

	return &Manager{
		CounterCheckIns:           counterCheckIns,
		CounterSessionsSaved:      counterSessionsSaved,
		CounterSessionsAbandoned:  counterSessionsAbandoned,
		CounterStageChanges:       counterStageChanges,
		CounterStoreWriteErrors:   counterStoreWriteErrors,
		CounterStoreReadFallbacks: counterStoreReadFallbacks,
		CounterCueFailures:        counterCueFailures,
		CounterExports:            counterExports,
		CounterReminders:          counterReminders,
		GaugeStreak:               gaugeStreak,
		GaugeAvgPain:              gaugeAvgPain,
		GaugeWeeksInStage:         gaugeWeeksInStage,
		GaugeIntensity:            gaugeIntensity,
		HistSessionDuration:       histSessionDuration,
	}
}
