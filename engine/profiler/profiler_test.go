package profiler

import (
	"runtime"
	"testing"
	"time"
)

func TestTick_WaitsForInterval(t *testing.T) {
	p := NewProfiler(time.Hour)

	for i := 0; i < 10; i++ {
		if p.Tick(time.Millisecond) {
			t.Fatalf("tick %d reported before the interval elapsed", i)
		}
	}
	if p.Last() != (Stats{}) {
		t.Errorf("Last should be empty before the first report")
	}
}

func TestTick_Reports(t *testing.T) {
	p := NewProfiler(time.Nanosecond)
	p.lastTime = time.Now().Add(-time.Second)
	p.tickCount = 1
	p.poseTotal = 2 * time.Millisecond
	p.poseMax = 2 * time.Millisecond

	if !p.Tick(4 * time.Millisecond) {
		t.Fatalf("expected a report")
	}

	s := p.Last()
	if s.AvgPose != 3*time.Millisecond {
		t.Errorf("AvgPose = %v; expected 3ms", s.AvgPose)
	}
	if s.MaxPose != 4*time.Millisecond {
		t.Errorf("MaxPose = %v; expected 4ms", s.MaxPose)
	}
	if s.TicksPerSecond <= 0 || s.TicksPerSecond > 2.1 {
		t.Errorf("TicksPerSecond = %v; expected about 2", s.TicksPerSecond)
	}
	if p.tickCount != 0 || p.poseTotal != 0 || p.poseMax != 0 {
		t.Errorf("window counters should reset after a report")
	}
}

func TestNewProfiler_DefaultInterval(t *testing.T) {
	if p := NewProfiler(0); p.updateInterval != time.Second {
		t.Errorf("interval = %v; expected 1s", p.updateInterval)
	}
}

func TestNewProfiler_SeedsMemStats(t *testing.T) {
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	p := NewProfiler(time.Second)
	if p.lastTotalAlloc < before.TotalAlloc || p.lastTotalAlloc == 0 {
		t.Errorf("lastTotalAlloc = %d; expected at least %d", p.lastTotalAlloc, before.TotalAlloc)
	}
	if p.lastGCCount < before.NumGC {
		t.Errorf("lastGCCount = %d; expected at least %d", p.lastGCCount, before.NumGC)
	}
}
