package sim

import (
	"context"
	"time"
)

// Pacer schedules fixed ticks against the monotonic clock. Deadlines advance
// by whole intervals; when work overruns, up to MaxCatchUp extra ticks are
// owed and any debt beyond that is written off as lag.
type Pacer struct {
	interval   time.Duration
	maxCatchUp int
	now        func() time.Time

	next time.Time
	lag  time.Duration
}

func NewPacer(interval time.Duration, maxCatchUp int) *Pacer {
	if maxCatchUp < 0 {
		maxCatchUp = 0
	}
	return &Pacer{interval: interval, maxCatchUp: maxCatchUp, now: time.Now}
}

// Delay returns the time left until the next deadline, clamped to zero.
func (p *Pacer) Delay(now time.Time) time.Duration {
	if p.next.IsZero() {
		p.next = now.Add(p.interval)
	}
	d := p.next.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Due consumes the deadlines that have passed at now and returns how many
// ticks to run, at least one.
func (p *Pacer) Due(now time.Time) int {
	if p.next.IsZero() {
		p.next = now
	}
	behind := now.Sub(p.next)
	if behind < 0 {
		behind = 0
	}

	owed := int(behind / p.interval)
	if owed > p.maxCatchUp {
		owed = p.maxCatchUp
	}
	ticks := 1 + owed
	p.next = p.next.Add(time.Duration(ticks) * p.interval)

	if late := now.Sub(p.next); late > 0 {
		p.lag += late
		p.next = now
	}
	return ticks
}

// Lag is the schedule debt written off so far.
func (p *Pacer) Lag() time.Duration { return p.lag }

// Wait sleeps until the next deadline and returns the ticks due. It returns
// early with ctx.Err() when ctx is done.
func (p *Pacer) Wait(ctx context.Context) (int, error) {
	d := p.Delay(p.now())
	if d > 0 {
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return 0, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return 0, err
	}
	return p.Due(p.now()), nil
}
