package reminder

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/2beens/kneerehab/internal/telemetry/metrics"

	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
)

const DefaultText = "Morning check-in: log today's pain baseline."

type Message struct {
	At   time.Time
	Text string
}

// Reminder fires the morning check-in reminder on a cron schedule
// (six fields, seconds first). Messages are only delivered while enabled.
type Reminder struct {
	cron           *cron.Cron
	schedule       cron.Schedule
	enabled        atomic.Bool
	notify         func(Message)
	metricsManager *metrics.Manager
}

func New(spec string, notify func(Message), metricsManager *metrics.Manager) (*Reminder, error) {
	schedule, err := cron.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse reminder spec [%s]: %w", spec, err)
	}

	r := &Reminder{
		cron:           cron.New(),
		schedule:       schedule,
		notify:         notify,
		metricsManager: metricsManager,
	}
	r.cron.Schedule(schedule, cron.FuncJob(r.fire))
	return r, nil
}

func (r *Reminder) SetEnabled(enabled bool) {
	r.enabled.Store(enabled)
}

func (r *Reminder) Enabled() bool {
	return r.enabled.Load()
}

// Next is the next time the reminder fires after t.
func (r *Reminder) Next(t time.Time) time.Time {
	return r.schedule.Next(t)
}

func (r *Reminder) Start() {
	r.cron.Start()
}

func (r *Reminder) Stop() {
	r.cron.Stop()
}

func (r *Reminder) fire() {
	if !r.enabled.Load() {
		return
	}
	r.metricsManager.CounterReminders.Inc()
	log.Debug("check-in reminder fired")
	r.notify(Message{
		At:   time.Now(),
		Text: DefaultText,
	})
}
