package viewer

import "time"

// backoff is a capped exponential backoff schedule used when polling a
// protocol artifact into existence.
type backoff struct {
	initial time.Duration
	max     time.Duration
}

// delay returns the sleep duration after the given zero-based attempt:
// initial on attempt 0, doubling each attempt, capped at max.
func (b backoff) delay(attempt int) time.Duration {
	d := b.initial
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= b.max {
			return b.max
		}
	}
	return d
}

// Result artifact polling: 10ms initial, doubling, capped at 1s, 10
// attempts. Full schedule is 10,20,40,80,160,320,640,1000,1000,1000ms.
var resultBackoff = backoff{initial: 10 * time.Millisecond, max: time.Second}

const resultReadAttempts = 10

// Command response polling: 10ms initial, capped at 100ms, bounded by an
// overall timeout rather than an attempt count.
var commandBackoff = backoff{initial: 10 * time.Millisecond, max: 100 * time.Millisecond}

const commandResponseTimeout = 5 * time.Second
