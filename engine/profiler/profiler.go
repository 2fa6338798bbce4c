package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/internal/log"
)

// Stats is one reporting window of tick and memory statistics.
type Stats struct {
	// TicksPerSecond is the measured tick rate over the window.
	TicksPerSecond float64

	// AvgPose and MaxPose are the mean and worst time spent posing a tick.
	AvgPose time.Duration
	MaxPose time.Duration

	// HeapMB is the live heap, AllocRateMB the allocation churn per second.
	HeapMB      float64
	AllocRateMB float64

	// GCCount is the total number of collections; MaxGCPauseUs the worst pause in the window.
	GCCount      uint32
	MaxGCPauseUs uint64
}

// Profiler tracks tick rate, pose cost and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	tickCount      int
	poseTotal      time.Duration
	poseMax        time.Duration
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	last           Stats
}

// NewProfiler creates a new Profiler reporting every interval.
// A non-positive interval defaults to 1 second.
//
// Parameters:
//   - interval: the reporting window
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(interval time.Duration) *Profiler {
	if interval <= 0 {
		interval = time.Second
	}
	p := &Profiler{
		lastTime:       time.Now(),
		updateInterval: interval,
		memStats:       runtime.MemStats{},
	}
	// The first window only counts allocations and collections made after construction.
	runtime.ReadMemStats(&p.memStats)
	p.lastTotalAlloc = p.memStats.TotalAlloc
	p.lastGCCount = p.memStats.NumGC
	return p
}

// Tick should be called once per engine tick with the time spent posing scenes.
// Logs performance statistics when the update interval has elapsed.
//
// Parameters:
//   - poseDuration: how long the tick spent in scene updates
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(poseDuration time.Duration) bool {
	p.tickCount++
	p.poseTotal += poseDuration
	p.poseMax = max(p.poseMax, poseDuration)

	currentTime := time.Now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)

	// Max GC pause since the last report; PauseNs is a circular buffer of the last 256 pauses.
	gcCount := p.memStats.NumGC
	var maxPauseUs uint64
	startIdx := p.lastGCCount
	if gcCount-startIdx > 256 {
		startIdx = gcCount - 256
	}
	for i := startIdx; i < gcCount; i++ {
		maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
	}

	seconds := max(elapsed.Seconds(), 1e-9)
	p.last = Stats{
		TicksPerSecond: float64(p.tickCount) / seconds,
		AvgPose:        p.poseTotal / time.Duration(p.tickCount),
		MaxPose:        p.poseMax,
		HeapMB:         float64(p.memStats.Alloc) / 1024 / 1024,
		AllocRateMB:    float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / seconds,
		GCCount:        gcCount,
		MaxGCPauseUs:   maxPauseUs,
	}

	log.Info("profiler",
		"tps", p.last.TicksPerSecond,
		"avg_pose", p.last.AvgPose,
		"max_pose", p.last.MaxPose,
		"heap_mb", p.last.HeapMB,
		"alloc_rate_mb", p.last.AllocRateMB,
		"gc", p.last.GCCount,
		"max_gc_pause_us", p.last.MaxGCPauseUs,
	)

	p.tickCount = 0
	p.poseTotal = 0
	p.poseMax = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}

// Last returns the statistics of the most recent reporting window.
func (p *Profiler) Last() Stats {
	return p.last
}
