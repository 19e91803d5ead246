package cue

import "time"

func (t *Terminal) SetSleep(sleep func(time.Duration)) {
	t.sleep = sleep
}
