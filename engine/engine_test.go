package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/model"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// spinner builds an object playing a one-bone clip that lasts 10 ticks at 1 tick per second.
func spinner(t *testing.T) game_object.GameObject {
	t.Helper()

	sk, err := model.NewSkeleton(&model.ImportedNode{Name: "hub"}, map[string]mgl32.Mat4{"hub": mgl32.Ident4()}, 0)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	clip := model.NewAnimationClip(model.ImportedClip{
		Name:           "spin",
		TicksPerSecond: 1,
		Channels: map[string]*model.ImportedChannel{
			"hub": {PositionKeys: []model.VectorKeyframe{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 10, Value: mgl32.Vec3{10, 0, 0}},
			}},
		},
	}, 0)
	m := model.NewModel(model.WithSkeleton(sk), model.WithAnimations(clip))
	return game_object.NewGameObject(game_object.WithModel(m), game_object.WithAnimation("spin"))
}

func TestStep_TicksActiveScenes(t *testing.T) {
	active := spinner(t)
	inactive := spinner(t)

	var calls int
	e := NewEngine(
		WithScene(1, scene.NewScene("active", scene.WithObjects(active))),
		WithScene(2, scene.NewScene("inactive", scene.WithActive(false), scene.WithObjects(inactive))),
		WithTickCallback(func(dt float32) {
			calls++
			if dt != 0.5 {
				t.Errorf("callback dt = %v; expected 0.5", dt)
			}
		}),
	)

	e.Step(0.5)
	e.Step(0.5)

	if got := active.Animator().Time(); got != 1 {
		t.Errorf("active scene time = %v; expected 1", got)
	}
	if got := inactive.Animator().Time(); got != 0 {
		t.Errorf("inactive scene time = %v; expected 0", got)
	}
	if calls != 2 {
		t.Errorf("callback calls = %d; expected 2", calls)
	}

	final := active.Animator().FinalMatrices()
	if !final[0].ApproxEqualThreshold(mgl32.Translate3D(1, 0, 0), 1e-5) {
		t.Errorf("hub pose = %v; expected translate(1,0,0)", final[0])
	}
}

func TestScenes_Registry(t *testing.T) {
	e := NewEngine()
	s := scene.NewScene("main")

	e.AddScene(3, s)
	if e.Scene(3) != s || len(e.Scenes()) != 1 {
		t.Errorf("scene 3 not registered")
	}
	e.RemoveScene(3)
	if e.Scene(3) != nil || len(e.Scenes()) != 0 {
		t.Errorf("scene 3 not removed")
	}
}

func TestTickRate(t *testing.T) {
	tests := []struct {
		fps  float64
		want time.Duration
	}{
		{60, time.Second / 60},
		{120, time.Second / 120},
		{0, time.Second / 60},
		{-5, time.Second / 60},
	}
	for _, tt := range tests {
		e := NewEngine(WithTickRate(tt.fps))
		if got := e.TickInterval(); got != tt.want {
			t.Errorf("WithTickRate(%v) interval = %v; expected %v", tt.fps, got, tt.want)
		}
	}

	cfg := config.Default()
	cfg.TickRate = 30
	cfg.Profiling = true
	e := NewEngine(WithConfig(cfg)).(*engine)
	if e.TickInterval() != time.Second/30 || !e.profilingEnabled.Load() {
		t.Errorf("WithConfig not applied: interval %v, profiling %v", e.TickInterval(), e.profilingEnabled.Load())
	}
}

func TestRun_StopsOnQuit(t *testing.T) {
	var ticks atomic.Int32
	e := NewEngine(WithTickRate(1000), WithTickCallback(func(float32) {
		ticks.Add(1)
	}))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	deadline := time.After(5 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("engine did not tick")
		case <-time.After(time.Millisecond):
		}
	}

	if err := e.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run err = %v; expected ErrAlreadyRunning", err)
	}

	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run after Quit = %v; expected nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after Quit")
	}
}

func TestRun_StopsOnContext(t *testing.T) {
	e := NewEngine(WithTickRate(1000))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.SetTickRate(500)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run err = %v; expected context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if e.TickInterval() != time.Second/500 {
		t.Errorf("interval = %v; expected 2ms", e.TickInterval())
	}
}
