// Package viewer implements the interactive model viewer loop.
package viewer

import (
	"fmt"
	gomath "math"
	"path/filepath"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/assets"
	"github.com/Faultbox/objview/internal/config"
	"github.com/Faultbox/objview/internal/engine/camera"
	"github.com/Faultbox/objview/internal/engine/debug"
	"github.com/Faultbox/objview/internal/engine/input"
	"github.com/Faultbox/objview/internal/engine/model"
	"github.com/Faultbox/objview/internal/engine/renderer"
	"github.com/Faultbox/objview/internal/engine/window"
	"github.com/Faultbox/objview/internal/logger"
	"github.com/Faultbox/objview/pkg/math"
)

// Viewer owns the window, renderer and camera for one model session.
type Viewer struct {
	config  *config.Config
	running bool

	window    *window.Window
	renderer  *renderer.Renderer
	input     *input.Input
	camera    *camera.OrbitCamera
	capture   *debug.ScreenshotCapture
	assets    *assets.Manager
	model     *model.Model
	placement math.Mat4

	dragging bool
}

// New creates a viewer and loads the model at modelPath. Relative paths
// are resolved against the configured asset roots.
func New(cfg *config.Config, modelPath string) (*Viewer, error) {
	v := &Viewer{
		config: cfg,
		assets: assets.NewManager(),
		// Models sit at the world origin, unrotated and unscaled; the
		// normalization baked into the mesh already sizes them.
		placement: model.PlacementMatrix(
			math.Vec3{},
			math.QuatIdentity(),
			math.Vec3{X: 1, Y: 1, Z: 1},
		),
	}

	for _, root := range cfg.Assets.Roots {
		if err := v.assets.AddRoot(root); err != nil {
			logger.Log.Debug("skipping asset root", zap.String("root", root), zap.Error(err))
		}
	}

	resolved, err := v.assets.Resolve(modelPath)
	if err != nil {
		// Fall back to the path as given; Load reports the real error.
		resolved = modelPath
	}

	m, err := model.Load(resolved)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	v.model = m

	for _, w := range m.Warnings {
		logger.Log.Warn("model warning", zap.String("model", m.Name), zap.String("detail", w.String()))
	}

	v.window, err = window.New(window.Config{
		Title:      "objview - " + m.Name,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the OpenGL context the window created
	v.renderer, err = renderer.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Upload(m)

	v.camera = camera.NewOrbitCamera()
	v.camera.Distance = cfg.Camera.Distance
	v.camera.DragSensitivity = cfg.Camera.DragSensitivity
	v.camera.ZoomSensitivity = cfg.Camera.ZoomSensitivity
	v.camera.FitToBounds(m.Mesh.NormalizedBounds())

	v.input = input.New()
	v.capture = debug.NewScreenshotCapture(cfg.Assets.ScreenshotDir, "objview")

	logger.Log.Info("viewer initialized",
		zap.String("model", m.Name),
		zap.Int("parts", len(m.Mesh.Parts)),
		zap.Int("warnings", len(m.Warnings)),
	)
	return v, nil
}

// Run starts the main viewer loop.
func (v *Viewer) Run() error {
	v.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Log.Info("starting viewer loop")

	for v.running {
		if v.input.Update() {
			v.running = false
			break
		}

		for _, event := range v.input.Events() {
			v.handleEvent(event)
		}

		v.render()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *Viewer) handleEvent(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		v.renderer.Resize(event.Width, event.Height)

	case input.EventKeyDown:
		switch event.Key {
		case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_Q:
			v.running = false
		case sdl.SCANCODE_R:
			v.camera.FitToBounds(v.model.Mesh.NormalizedBounds())
		case sdl.SCANCODE_F12:
			v.saveScreenshot()
		}

	case input.EventMouseDown:
		if event.Button == sdl.BUTTON_LEFT {
			v.dragging = true
		}

	case input.EventMouseUp:
		if event.Button == sdl.BUTTON_LEFT {
			v.dragging = false
		}

	case input.EventMouseMove:
		if v.dragging {
			v.camera.HandleDrag(float32(event.RelX), float32(event.RelY))
		}

	case input.EventMouseWheel:
		v.camera.HandleZoom(event.WheelY)
	}
}

func (v *Viewer) render() {
	v.renderer.Begin()

	proj := math.Perspective(45.0*(gomath.Pi/180.0), v.window.AspectRatio(), 0.1, 100.0)
	viewProj := proj.Mul(v.camera.ViewMatrix())

	v.renderer.Render(viewProj, v.placement)
}

func (v *Viewer) saveScreenshot() {
	width, height := v.window.GetSize()
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	path, err := v.capture.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Log.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Log.Info("screenshot saved", zap.String("path", filepath.Clean(path)))
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	logger.Log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
	if v.assets != nil {
		v.assets.Close()
	}
}
