package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/controller"
	"github.com/milk9111/locomotion/input/keyboard"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/scene"
	"github.com/milk9111/locomotion/stream"
	"github.com/rs/zerolog"
	"golang.org/x/image/colornames"
)

const trailLength = 240

type Game struct {
	app   config.App
	debug bool
	log   zerolog.Logger
	ctx   context.Context

	src   *keyboard.Source
	scene *scene.Scene

	watcher  *prefabs.Watcher
	reloader *prefabs.Reloader

	stream *stream.Broadcaster
	server *http.Server

	pose  controller.Pose
	trail []mgl64.Vec3

	topView  Rect
	sideView Rect
}

func NewGame(app config.App, debug bool, log zerolog.Logger) (*Game, error) {
	src := keyboard.NewSource()
	sc, err := scene.Load(app, src, keyboard.KnownKey, log)
	if err != nil {
		return nil, err
	}

	w, h := float32(app.Window.Width), float32(app.Window.Height)
	g := &Game{
		app:      app,
		debug:    debug,
		log:      log,
		ctx:      context.Background(),
		src:      src,
		scene:    sc,
		topView:  Rect{X: 0, Y: 0, Width: w / 2, Height: h, Span: 40},
		sideView: Rect{X: w / 2, Y: 0, Width: w / 2, Height: h, Span: 20},
	}
	sc.Host.AddSink(g)

	if app.Watch {
		watcher, err := prefabs.NewWatcher(app.WatchDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", app.WatchDir).Msg("hot reload disabled")
		} else {
			g.watcher = watcher
			g.reloader = prefabs.NewReloader(watcher.Events, app.Controller, keyboard.KnownKey, sc.Apply, log)
		}
	}

	if app.Stream.Addr != "" {
		g.stream = stream.NewBroadcaster(log)
		sc.Host.AddSink(g.stream)
		mux := http.NewServeMux()
		mux.Handle(app.Stream.Path, g.stream)
		g.server = &http.Server{Addr: app.Stream.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", app.Stream.Addr).Msg("pose stream stopped")
			}
		}()
		log.Info().Str("addr", app.Stream.Addr).Str("path", app.Stream.Path).Msg("streaming poses")
	}

	return g, nil
}

// Present keeps the latest camera pose for drawing.
func (g *Game) Present(_ physics.BodyID, pose controller.Pose) {
	g.pose = pose
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.src.Capture(true)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.src.Capture(false)
	}
	g.src.Update()

	if g.reloader != nil {
		g.reloader.Poll()
		select {
		case err := <-g.watcher.Errors:
			if err != nil {
				g.log.Warn().Err(err).Msg("watch error")
			}
		default:
		}
	}

	if err := g.scene.Host.Step(g.ctx, g.app.DT()); err != nil {
		return err
	}

	if st, ok := g.scene.World.Body(g.scene.Body); ok {
		g.trail = append(g.trail, st.Transform.Position)
		if len(g.trail) > trailLength {
			g.trail = g.trail[len(g.trail)-trailLength:]
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	st, ok := g.scene.World.Body(g.scene.Body)
	if !ok {
		ebitenutil.DebugPrint(screen, "body missing")
		return
	}
	ctrl := g.scene.Controller()

	g.drawTop(screen, st)
	g.drawSide(screen, st, ctrl)

	vector.StrokeLine(screen, g.sideView.X, 0, g.sideView.X, g.sideView.Height, 1, colornames.Slategray, false)

	capture := "T: capture cursor"
	if g.src.Captured() {
		capture = "Esc: release cursor"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  %s", ebiten.ActualFPS(), capture), 8, 8)
	if ctrl == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("strategy: %s  mode: %s  fly: %t",
		ctrl.Strategy().Kind(), ctrl.Mode(), ctrl.Flying()), 8, 24)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("speed: %.2f  vy: %.2f  yaw rate: %.2f",
		common.Horizontal(st.LinearVelocity).Len(), st.LinearVelocity.Y(), ctrl.YawRate()), 8, 40)
	if g.debug {
		gs := ctrl.Ground()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("ground: %t  dist: %.3f  spring: %.2f  vertical: %s",
			gs.Hit, gs.Distance, ctrl.SuspensionForce(), ctrl.LastCommand().Vertical), 8, 56)
	}
}

func (g *Game) drawTop(screen *ebiten.Image, st physics.BodyState) {
	r := g.topView
	cu, cv := topDown(st.Transform.Position)

	for _, b := range g.scene.Arena.Boxes {
		x0, y0 := r.Project(b.Min[0], -b.Max[2], cu, cv)
		x1, y1 := r.Project(b.Max[0], -b.Min[2], cu, cv)
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 90, G: 90, B: 120, A: 160}, false)
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, colornames.Lightsteelblue, false)
	}

	g.drawTrail(screen, r, topDown, cu, cv)

	px, py := r.Project(cu, cv, cu, cv)
	size := r.Size(g.scene.Settings.Body.Radius * 2)
	if size < 4 {
		size = 4
	}
	vector.FillRect(screen, px-size/2, py-size/2, size, size, colornames.Crimson, true)

	hu, hv := topDown(st.Transform.Position.Add(st.Transform.Forward().Mul(2)))
	hx, hy := r.Project(hu, hv, cu, cv)
	vector.StrokeLine(screen, px, py, hx, hy, 2, colornames.Gold, true)

	cu2, cv2 := topDown(g.pose.Position)
	cx, cy := r.Project(cu2, cv2, cu, cv)
	if r.Contains(cx, cy) {
		vector.StrokeRect(screen, cx-3, cy-3, 6, 6, 1, colornames.Lightgreen, false)
		tu, tv := topDown(g.pose.Target)
		tx, ty := r.Project(tu, tv, cu, cv)
		vector.StrokeLine(screen, cx, cy, tx, ty, 1, colornames.Darkseagreen, true)
	}
}

func (g *Game) drawSide(screen *ebiten.Image, st physics.BodyState, ctrl *controller.Controller) {
	r := g.sideView
	cu, cv := side(st.Transform.Position)

	if g.scene.Arena.Ground {
		gx0, gy := r.Project(cu-r.Span, g.scene.Arena.GroundLevel, cu, cv)
		gx1, _ := r.Project(cu+r.Span, g.scene.Arena.GroundLevel, cu, cv)
		vector.StrokeLine(screen, gx0, gy, gx1, gy, 2, colornames.Darkolivegreen, false)
	}
	for _, b := range g.scene.Arena.Boxes {
		x0, y0 := r.Project(b.Min[0], b.Max[1], cu, cv)
		x1, y1 := r.Project(b.Max[0], b.Min[1], cu, cv)
		x0 = maxf(x0, r.X)
		if x1 <= x0 {
			continue
		}
		vector.FillRect(screen, x0, y0, x1-x0, y1-y0, color.RGBA{R: 90, G: 90, B: 120, A: 120}, false)
	}

	if cm, ok := g.scene.World.(*physics.Chipmunk); ok && g.debug {
		drawChipmunk(screen, cm, r, cu, cv)
	}
	g.drawTrail(screen, r, side, cu, cv)

	px, py := r.Project(cu, cv, cu, cv)
	size := r.Size(g.scene.Settings.Body.Radius * 2)
	if size < 4 {
		size = 4
	}
	vector.FillRect(screen, px-size/2, py-size/2, size, size, colornames.Crimson, true)

	if ctrl == nil {
		return
	}
	cfg := ctrl.Config()
	gs := ctrl.Ground()
	probe := cfg.MaxProbeDistance
	clr := colornames.Orangered
	if gs.Hit {
		probe = gs.Distance
		clr = colornames.Lime
	}
	_, ey := r.Project(cu, cv-probe, cu, cv)
	vector.StrokeLine(screen, px, py, px, ey, 1, clr, false)

	_, ry := r.Project(cu, cv-cfg.RideHeight, cu, cv)
	vector.StrokeLine(screen, px-6, ry, px+6, ry, 1, colornames.White, false)
}

func (g *Game) drawTrail(screen *ebiten.Image, r Rect, proj func(mgl64.Vec3) (float64, float64), cu, cv float64) {
	for i := 1; i < len(g.trail); i++ {
		u0, v0 := proj(g.trail[i-1])
		u1, v1 := proj(g.trail[i])
		x0, y0 := r.Project(u0, v0, cu, cv)
		x1, y1 := r.Project(u1, v1, cu, cv)
		if !r.Contains(x0, y0) || !r.Contains(x1, y1) {
			continue
		}
		w := common.Lerp(0.5, 2, float64(i)/float64(len(g.trail)))
		vector.StrokeLine(screen, x0, y0, x1, y1, float32(w), colornames.Lightgrey, true)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.app.Window.Width), float64(g.app.Window.Height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.app.Window.Width, g.app.Window.Height
}

// Close stops the watcher and the pose stream.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = g.server.Shutdown(ctx)
	}
	if g.stream != nil {
		g.stream.Close()
	}
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
