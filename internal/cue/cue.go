package cue

import (
	"io"
	"sync"
	"time"

	"github.com/2beens/kneerehab/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

// Event is a sensory cue fired by the workout timer.
type Event int

const (
	HoldComplete Event = iota + 1
	RestComplete
)

func (e Event) String() string {
	switch e {
	case HoldComplete:
		return "hold-complete"
	case RestComplete:
		return "rest-complete"
	default:
		return "unknown"
	}
}

// Player fires cues. Implementations never fail the caller.
//
//go:generate mockgen -source=cue.go -destination=../workout/player_mocks_test.go -package=workout_test
type Player interface {
	Play(event Event)
}

type Tone struct {
	FreqHz   int
	Duration time.Duration
}

// Pattern describes a cue: the chime tones in order and the vibration
// pattern, alternating pulse and pause lengths.
type Pattern struct {
	Tones     []Tone
	Vibration []time.Duration
}

var patterns = map[Event]Pattern{
	HoldComplete: {
		Tones: []Tone{
			{FreqHz: 660, Duration: 120 * time.Millisecond},
			{FreqHz: 880, Duration: 180 * time.Millisecond},
		},
		Vibration: []time.Duration{80 * time.Millisecond, 40 * time.Millisecond, 80 * time.Millisecond},
	},
	RestComplete: {
		Tones: []Tone{
			{FreqHz: 440, Duration: 100 * time.Millisecond},
			{FreqHz: 660, Duration: 180 * time.Millisecond},
		},
		Vibration: []time.Duration{60 * time.Millisecond},
	},
}

func PatternFor(event Event) (Pattern, bool) {
	p, ok := patterns[event]
	return p, ok
}

// Terminal rings the terminal bell for each tone and each vibration pulse
// of a cue, spaced by their durations. Play blocks for the length of the
// pattern; callers run it off the UI loop.
type Terminal struct {
	out            io.Writer
	metricsManager *metrics.Manager
	sleep          func(time.Duration)
}

func NewTerminal(out io.Writer, metricsManager *metrics.Manager) *Terminal {
	return &Terminal{
		out:            out,
		metricsManager: metricsManager,
		sleep:          time.Sleep,
	}
}

func (t *Terminal) Play(event Event) {
	pattern, ok := patterns[event]
	if !ok {
		return
	}

	for _, tone := range pattern.Tones {
		log.Tracef("cue %s: %d Hz for %s", event, tone.FreqHz, tone.Duration)
		if !t.ring(event) {
			return
		}
		t.sleep(tone.Duration)
	}
	for i, d := range pattern.Vibration {
		if i%2 == 0 && !t.ring(event) {
			return
		}
		t.sleep(d)
	}
}

func (t *Terminal) ring(event Event) bool {
	if _, err := io.WriteString(t.out, "\a"); err != nil {
		log.Debugf("play cue %s: %s", event, err)
		t.metricsManager.CounterCueFailures.Inc()
		return false
	}
	return true
}

// Queue collects cues fired on the UI loop. Flush hands them to the wrapped
// player as one function, so the UI can play them as a command.
type Queue struct {
	next Player

	mu      sync.Mutex
	pending []Event
}

func NewQueue(next Player) *Queue {
	return &Queue{next: next}
}

func (q *Queue) Play(event Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, event)
}

// Flush returns a function playing every pending cue in order, nil when
// there are none.
func (q *Queue) Flush() func() {
	q.mu.Lock()
	events := q.pending
	q.pending = nil
	q.mu.Unlock()

	if len(events) == 0 {
		return nil
	}
	return func() {
		for _, e := range events {
			q.next.Play(e)
		}
	}
}

// Nop drops every cue.
type Nop struct{}

func (Nop) Play(Event) {}
