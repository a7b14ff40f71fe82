package ui

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"livedetect/internal/config"
	"livedetect/internal/logging"
	"livedetect/internal/ui/cwidget"
	"livedetect/processing/capture"
	processing "livedetect/processing/detector"
	"livedetect/processing/overlay"
)

type DetectApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config    *config.Config
	provider  processing.Provider
	streamer  capture.VideoStreamer
	video     *capture.Video
	surface   *overlay.GGSurface
	scheduler *animationScheduler
	processor *processing.Processor

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	model processing.Model
	view  ViewState

	frames chan image.Image

	videoCanvas   *canvas.Image
	overlayCanvas *canvas.Image
	infoBar       *cwidget.InfoBar
	fullscreenBtn *widget.Button

	log logrus.FieldLogger
}

func CreateApp(a fyne.App, cfg *config.Config, provider processing.Provider, streamer capture.VideoStreamer, log logrus.FieldLogger) *DetectApp {
	w := a.NewWindow(appTitle)
	w.Resize(fyne.NewSize(1280, 720))

	da := &DetectApp{
		fyneApp:   a,
		mainWin:   w,
		config:    cfg,
		provider:  provider,
		streamer:  streamer,
		video:     capture.NewVideo(logging.Component(log, "video")),
		surface:   overlay.NewGGSurface(1, 1),
		scheduler: newAnimationScheduler(),
		frames:    make(chan image.Image, 1),
		log:       log,
	}

	da.ctx, da.cancel = context.WithCancel(context.Background())

	da.processor = processing.NewProcessor(da.video, da.surface,
		processing.WithScheduler(da.scheduler),
		processing.WithLogger(logging.Component(log, "loop")),
		processing.WithObserver(da.onLoopState),
		processing.WithFrameHook(da.onFrameRendered),
	)

	da.video.OnLoadedMetadata = func(int, int) { da.processor.SetVideoReady() }
	da.video.OnFrame = da.pushFrame

	return da
}

func (a *DetectApp) Run() {
	a.mainWin.SetContent(a.buildContent())

	a.mainWin.SetCloseIntercept(func() {
		if err := a.Shutdown(); err != nil {
			a.log.WithError(err).Warn("shutdown")
		}
		a.mainWin.Close()
	})

	a.Mount()

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()
}

func (a *DetectApp) buildContent() fyne.CanvasObject {
	a.videoCanvas = canvas.NewImageFromImage(nil)
	a.videoCanvas.FillMode = canvas.ImageFillContain
	a.videoCanvas.ScaleMode = canvas.ImageScaleFastest

	a.overlayCanvas = canvas.NewImageFromImage(nil)
	a.overlayCanvas.FillMode = canvas.ImageFillContain

	a.infoBar = cwidget.NewInfoBar(a.currentView().InfoLines()...)

	title := canvas.NewText(appTitle, theme.Color(theme.ColorNamePrimary))
	title.TextSize = 24
	title.TextStyle = fyne.TextStyle{Bold: true}

	a.fullscreenBtn = widget.NewButtonWithIcon(a.currentView().FullscreenLabel(), theme.ViewFullScreenIcon(), a.toggleFullscreen)
	a.fullscreenBtn.Importance = widget.HighImportance

	hud := container.NewBorder(
		container.NewHBox(a.infoBar, layout.NewSpacer(), title),
		container.NewCenter(a.fullscreenBtn),
		nil, nil,
	)

	return container.NewStack(
		canvas.NewRectangle(theme.Color(theme.ColorNameBackground)),
		a.videoCanvas,
		a.overlayCanvas,
		container.NewPadded(hud),
	)
}

// Mount starts model loading, camera acquisition and the display loops.
func (a *DetectApp) Mount() {
	if cams, err := capture.ListCameras(); err == nil {
		a.log.WithField("cameras", cams).Debug("available cameras")
	}

	a.scheduler.Start()

	go a.loadModel()
	go func() {
		// failure is logged by Acquire and leaves the loop waiting for video
		_ = capture.Acquire(a.ctx, a.streamer, a.video, logging.Component(a.log, "camera"))
	}()
	go a.runPlayerLoop()
}

func (a *DetectApp) loadModel() {
	model, err := a.provider.Load(a.ctx)
	if err != nil {
		if a.ctx.Err() != nil {
			// closed before the model arrived
			return
		}
		a.processor.SetModelFailed(err)
		return
	}

	a.mu.Lock()
	a.model = model
	a.mu.Unlock()

	a.processor.SetModelLoaded(model)
}

// Shutdown stops every running part and saves the config.
func (a *DetectApp) Shutdown() error {
	a.cancel()
	a.processor.Stop()
	a.scheduler.Stop()
	a.streamer.Stop()

	var err error

	a.mu.Lock()
	if c, ok := a.model.(io.Closer); ok {
		err = multierr.Append(err, c.Close())
	}
	a.mu.Unlock()

	err = multierr.Append(err, a.config.SaveByDefault())

	return err
}

func (a *DetectApp) currentView() ViewState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// onLoopState is called from several goroutines, so each update reads the
// newest state on the fyne thread instead of trusting the snapshot order.
func (a *DetectApp) onLoopState(processing.Snapshot) {
	fyne.Do(func() {
		snap := a.processor.Snapshot()

		a.mu.Lock()
		a.view.Loop = snap
		lines := a.view.InfoLines()
		a.mu.Unlock()

		a.infoBar.SetLines(lines)
	})
}

func (a *DetectApp) onFrameRendered(processing.Snapshot) {
	img := a.surface.Image()

	fyne.Do(func() {
		a.overlayCanvas.Image = img
		a.overlayCanvas.Refresh()
	})
}

func (a *DetectApp) toggleFullscreen() {
	full := ToggleFullscreen(a.mainWin)

	a.mu.Lock()
	a.view.Fullscreen = full
	label := a.view.FullscreenLabel()
	a.mu.Unlock()

	a.fullscreenBtn.SetText(label)
}

// pushFrame keeps only the newest frame for the player loop.
func (a *DetectApp) pushFrame(frame image.Image) {
	select {
	case a.frames <- frame:
		return
	default:
	}

	select {
	case <-a.frames:
	default:
	}

	select {
	case a.frames <- frame:
	default:
	}
}

func (a *DetectApp) runPlayerLoop() {
	rate := a.config.GetRefreshRate()
	if rate == 0 {
		rate = config.DefaultRefreshRate
	}

	displayTicker := time.NewTicker(time.Second / time.Duration(rate))
	defer displayTicker.Stop()

	var lastFrame image.Image

	for {
		select {
		case frame := <-a.frames:
			lastFrame = frame

		case <-displayTicker.C:
			if lastFrame == nil {
				continue
			}
			frame := lastFrame
			lastFrame = nil

			fyne.Do(func() {
				a.videoCanvas.Image = frame
				a.videoCanvas.Refresh()
			})

		case <-a.ctx.Done():
			return
		}
	}
}
