package processing

import (
	"context"
	"image"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"

	"livedetect/processing/overlay"
)

// FrameSource is the video surface the loop reads from.
type FrameSource interface {
	CurrentFrame() (image.Image, bool)
	Size() (int, int)
}

// Snapshot is a copy of the loop state.
type Snapshot struct {
	ModelLoaded bool
	VideoReady  bool
	Detecting   bool

	FPS         int
	ObjectCount int
	LastFrame   time.Time

	Iterations  uint64
	FrameErrors uint64
	ModelErr    error
}

type Option func(*Processor)

func WithRenderer(r *overlay.Renderer) Option { return func(p *Processor) { p.renderer = r } }

func WithScheduler(s FrameScheduler) Option { return func(p *Processor) { p.scheduler = s } }

func WithClock(c clock.Clock) Option { return func(p *Processor) { p.clock = c } }

func WithLogger(l logrus.FieldLogger) Option { return func(p *Processor) { p.log = l } }

// WithObserver registers fn to receive a Snapshot after every state change.
// fn runs on the goroutine that made the change.
func WithObserver(fn func(Snapshot)) Option { return func(p *Processor) { p.observer = fn } }

// WithFrameHook registers fn to run on the loop goroutine after each rendered
// frame. The surface may be read inside fn.
func WithFrameHook(fn func(Snapshot)) Option { return func(p *Processor) { p.frameHook = fn } }

// Processor is the detection loop. It starts once the model is loaded and
// the video is ready, and then runs detect, render, reschedule until Stop.
type Processor struct {
	mu      sync.Mutex
	state   Snapshot
	model   Model
	stopped bool

	video     FrameSource
	surface   overlay.Surface
	renderer  *overlay.Renderer
	scheduler FrameScheduler
	clock     clock.Clock
	log       logrus.FieldLogger
	observer  func(Snapshot)
	frameHook func(Snapshot)

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewProcessor(video FrameSource, surface overlay.Surface, opts ...Option) *Processor {
	p := &Processor{
		video:   video,
		surface: surface,
		done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.clock == nil {
		p.clock = clock.New()
	}
	if p.renderer == nil {
		p.renderer = overlay.NewRenderer(overlay.DefaultStyle())
	}
	if p.scheduler == nil {
		p.scheduler = NewTickerScheduler(p.clock, DefaultRefreshRate)
	}
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}

	p.ctx, p.cancel = context.WithCancel(context.Background())
	// first FPS sample is measured from construction
	p.state.LastFrame = p.clock.Now()

	return p
}

func (p *Processor) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Processor) SetModelLoaded(m Model) {
	p.update(func() {
		if p.state.ModelLoaded {
			return
		}
		p.model = m
		p.state.ModelLoaded = true
		p.log.Info("model loaded")
	})
}

// SetModelFailed records a model that will never load. The loop stays idle.
func (p *Processor) SetModelFailed(err error) {
	p.update(func() {
		p.state.ModelErr = err
		p.log.WithError(err).Error("model failed to load")
	})
}

func (p *Processor) SetVideoReady() {
	p.update(func() {
		p.state.VideoReady = true
	})
}

func (p *Processor) update(fn func()) {
	p.mu.Lock()
	fn()
	p.startLocked()
	snap := p.state
	p.mu.Unlock()

	p.notify(snap)
}

func (p *Processor) startLocked() {
	if p.stopped || p.state.Detecting || !p.state.ModelLoaded || !p.state.VideoReady {
		return
	}

	p.state.Detecting = true
	p.log.Info("detection loop started")

	go p.run(p.model)
}

// Stop ends the loop and waits for it to exit. A stopped Processor never
// starts again.
func (p *Processor) Stop() {
	p.mu.Lock()
	p.stopped = true
	running := p.state.Detecting
	p.mu.Unlock()

	p.cancel()

	if running {
		<-p.done
	}

	if s, ok := p.scheduler.(interface{ Stop() }); ok {
		s.Stop()
	}
}

func (p *Processor) run(model Model) {
	defer close(p.done)

	for {
		if err := p.iterate(model); err != nil {
			return
		}
		if err := p.scheduler.Wait(p.ctx); err != nil {
			return
		}
	}
}

// iterate runs one detect/render pass. Only cancellation is returned; a
// failed detection is logged and the frame skipped.
func (p *Processor) iterate(model Model) error {
	frame, ok := p.video.CurrentFrame()
	if !ok {
		return nil
	}

	detections, err := model.Detect(p.ctx, frame)
	if err != nil {
		if p.ctx.Err() != nil {
			return p.ctx.Err()
		}

		p.mu.Lock()
		p.state.FrameErrors++
		snap := p.state
		p.mu.Unlock()

		p.log.WithError(err).WithField("frame_errors", snap.FrameErrors).Warn("detection failed, skipping frame")
		p.notify(snap)
		return nil
	}

	width, height := p.video.Size()
	p.renderer.Render(p.surface, detections, width, height)

	now := p.clock.Now()

	p.mu.Lock()
	if fps, ok := instantFPS(now.Sub(p.state.LastFrame)); ok {
		p.state.FPS = fps
	}
	p.state.LastFrame = now
	p.state.ObjectCount = len(detections)
	p.state.Iterations++
	snap := p.state
	p.mu.Unlock()

	if p.frameHook != nil {
		p.frameHook(snap)
	}
	p.notify(snap)
	return nil
}

func (p *Processor) notify(snap Snapshot) {
	if p.observer != nil {
		p.observer(snap)
	}
}

// instantFPS is round(1000 / Δt in ms), unsmoothed. It reports false for a
// non-positive Δt.
func instantFPS(dt time.Duration) (int, bool) {
	if dt <= 0 {
		return 0, false
	}
	ms := float64(dt) / float64(time.Millisecond)
	return int(math.Round(1000 / ms)), true
}
