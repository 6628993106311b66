package sim

import (
	"context"
	"testing"
	"time"
)

func TestPacerDelayClampsToZero(t *testing.T) {
	base := time.Unix(0, 0)
	p := NewPacer(16*time.Millisecond, 0)

	if d := p.Delay(base); d != 16*time.Millisecond {
		t.Fatalf("first delay = %v, want 16ms", d)
	}
	if d := p.Delay(base.Add(40 * time.Millisecond)); d != 0 {
		t.Fatalf("overrun delay = %v, want 0", d)
	}
}

func TestPacerDue(t *testing.T) {
	tick := 10 * time.Millisecond
	base := time.Unix(0, 0)

	tests := []struct {
		name       string
		maxCatchUp int
		wake       time.Duration
		wantTicks  int
		wantLag    time.Duration
	}{
		{"on time", 0, 10 * time.Millisecond, 1, 0},
		{"slightly late", 0, 14 * time.Millisecond, 1, 0},
		{"late no catch-up", 0, 35 * time.Millisecond, 1, 15 * time.Millisecond},
		{"late with catch-up", 3, 35 * time.Millisecond, 3, 0},
		{"catch-up bounded", 1, 55 * time.Millisecond, 2, 25 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPacer(tick, tt.maxCatchUp)
			p.Delay(base)
			got := p.Due(base.Add(tt.wake))
			if got != tt.wantTicks {
				t.Errorf("ticks = %d, want %d", got, tt.wantTicks)
			}
			if p.Lag() != tt.wantLag {
				t.Errorf("lag = %v, want %v", p.Lag(), tt.wantLag)
			}
		})
	}
}

func TestPacerScheduleDoesNotDrift(t *testing.T) {
	tick := 10 * time.Millisecond
	base := time.Unix(0, 0)
	p := NewPacer(tick, 0)

	now := base
	for i := 0; i < 100; i++ {
		now = now.Add(p.Delay(now))
		// each tick wakes 1ms late
		p.Due(now.Add(time.Millisecond))
	}
	if want := base.Add(101 * tick); !p.next.Equal(want) {
		t.Fatalf("next deadline = %v, want %v", p.next.Sub(base), want.Sub(base))
	}
	if p.Lag() != 0 {
		t.Fatalf("lag = %v, want 0", p.Lag())
	}
}

func TestPacerWaitCancelled(t *testing.T) {
	p := NewPacer(time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Wait(ctx); err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPacerWaitUsesClock(t *testing.T) {
	base := time.Unix(0, 0)
	now := base
	p := NewPacer(time.Millisecond, 4)
	p.now = func() time.Time { return now }

	p.Delay(base)
	now = base.Add(5 * time.Millisecond)
	ticks, err := p.Wait(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ticks != 5 {
		t.Fatalf("ticks = %d, want 5", ticks)
	}
}

func TestFlag(t *testing.T) {
	var f Flag
	if !f.Running() || f.State() != StateRunning {
		t.Fatal("zero flag must be running")
	}
	if !f.Stop() {
		t.Fatal("first Stop must transition")
	}
	if f.Stop() {
		t.Fatal("second Stop must not transition")
	}
	if f.Running() || f.State().String() != "stopped" {
		t.Fatal("flag must stay stopped")
	}
}
