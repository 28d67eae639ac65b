// Package viewer renders a running swarm with ebiten, looking down the Y axis
// onto the X/Z plane. It drives the world actor with one tick per frame.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-swarm-steering/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"
)

const panelWidth = 220

var whiteImage = ebiten.NewImage(3, 3)

func init() {
	whiteImage.Fill(color.White)
}

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh chan *simulation.SwarmSnapshot
	lastState  *simulation.SwarmSnapshot
	cfg        *simulation.Config
	logger     *zap.Logger

	width, height int
	paused        bool

	// UI Controls
	panel               *ui.UIPanel
	widgetTimeScale     *ui.Slider
	widgetZoom          *ui.Slider
	widgetShowAvoidance *ui.Checkbox
	widgetShowMean      *ui.Checkbox
	widgetShowBounds    *ui.Checkbox
	widgetPause         *ui.Button

	// Timing instrumentation
	updateAvg float64 // rolling average in ms
	drawAvg   float64
}

// NewGame spawns the world actor for swarm inside system and builds the control panel.
func NewGame(ctx context.Context, system actor.ActorSystem, swarm *simulation.Swarm, logger *zap.Logger, width, height int) (*Game, error) {
	// Buffer to avoid blocking the world
	snapshotCh := make(chan *simulation.SwarmSnapshot, 10)

	worldPID, err := system.Spawn(ctx, "world", simulation.NewWorldActor(swarm, nil, snapshotCh))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &simulation.SwarmSnapshot{},
		cfg:        swarm.Config(),
		logger:     logger,
		width:      width,
		height:     height,
	}

	panel := ui.NewUIPanel("Swarm", 10, 10, panelWidth, float64(height)-20)
	panel.AddSection("Simulation")
	g.widgetTimeScale = panel.AddSlider("Time Scale", 0, 5, 1)
	g.widgetPause = panel.AddButton("Pause", g.togglePause)
	panel.AddSection("View")
	g.widgetZoom = panel.AddSlider("Zoom", 0.25, 4, 1)
	g.widgetShowAvoidance = panel.AddCheckbox("Avoidance Spheres", false)
	g.widgetShowMean = panel.AddCheckbox("Mean Position", true)
	g.widgetShowBounds = panel.AddCheckbox("Simulation Bounds", true)
	g.panel = panel

	return g, nil
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.widgetPause.Label = "Resume"
	} else {
		g.widgetPause.Label = "Pause"
	}
	g.logger.Info("simulation pause toggled", zap.Bool("paused", g.paused))
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	g.panel.Update()

	// Retrieve latest state without blocking
	select {
	case snap := <-g.snapshotCh:
		g.lastState = snap
	default:
	}

	if g.paused {
		return nil
	}
	frame := time.Second / time.Duration(ebiten.TPS())
	dt := time.Duration(float64(frame) * g.widgetTimeScale.Value)
	if dt <= 0 {
		return nil
	}
	if err := actor.Tell(g.ctx, g.worldPID, simulation.NewTickMessage(dt)); err != nil {
		return fmt.Errorf("failed to tick world: %w", err)
	}
	return nil
}

// scale is the number of pixels per world unit.
func (g *Game) scale() float64 {
	view := float64(min(g.width-panelWidth-20, g.height))
	return view / (2 * g.cfg.SimulationBounds) * g.widgetZoom.Value
}

// project maps a world position onto the screen, +X right and +Z up.
func (g *Game) project(p geometry.Vector3D) (float32, float32) {
	cx := float64(panelWidth+20) + float64(g.width-panelWidth-20)/2
	cy := float64(g.height) / 2
	s := g.scale()
	return float32(cx + p.X*s), float32(cy - p.Z*s)
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(color.RGBA{R: 10, G: 10, B: 30, A: 255})

	if g.widgetShowBounds.Value {
		b := g.cfg.SimulationBounds
		x0, y0 := g.project(geometry.NewVector(-b, 0, b))
		x1, y1 := g.project(geometry.NewVector(b, 0, -b))
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.RGBA{R: 90, G: 90, B: 110, A: 255}, true)
	}

	radius := float32(g.cfg.AvoidanceDistance * g.scale())
	for _, a := range g.lastState.Agents {
		x, y := g.project(a.Pos)
		if g.widgetShowAvoidance.Value {
			clr := color.RGBA{R: 80, G: 80, B: 120, A: 120}
			if a.Neighbors > 0 {
				clr = color.RGBA{R: 255, G: 120, B: 50, A: 200}
			}
			vector.StrokeCircle(screen, x, y, radius, 1, clr, true)
		}
		g.drawAgent(screen, a, x, y)
	}

	if g.widgetShowMean.Value && !g.lastState.Aggregate.Empty() {
		x, y := g.project(g.lastState.Aggregate.MeanPosition)
		clr := color.RGBA{R: 255, G: 220, B: 0, A: 255}
		vector.StrokeLine(screen, x-6, y, x+6, y, 1, clr, true)
		vector.StrokeLine(screen, x, y-6, x, y+6, 1, clr, true)
	}

	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\n\nTick:   %d\nAgents: %d\nMean:   %s\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.lastState.Tick,
		g.lastState.Aggregate.Count,
		g.lastState.Aggregate.MeanPosition,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, g.width-230, 10)
}

// drawAgent draws a triangle pointing along the agent's heading projected on X/Z.
// Height is shown as brightness: agents low in the volume are darker.
func (g *Game) drawAgent(screen *ebiten.Image, a simulation.AgentState, x, y float32) {
	angle := math.Atan2(-a.Forward.Z, a.Forward.X)
	shade := float32(0.4 + 0.6*geometry.Clamp01((a.Pos.Y/g.cfg.SimulationBounds+1)/2))

	vertex := func(r, theta float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   x + float32(math.Cos(theta)*r),
			DstY:   y + float32(math.Sin(theta)*r),
			SrcX:   1,
			SrcY:   1,
			ColorR: 0.4 * shade,
			ColorG: 0.8 * shade,
			ColorB: shade,
			ColorA: 1,
		}
	}
	vertices := []ebiten.Vertex{
		vertex(6, angle),
		vertex(5, angle+2.5),
		vertex(5, angle-2.5),
	}
	screen.DrawTriangles(vertices, []uint16{0, 1, 2}, whiteImage, &ebiten.DrawTrianglesOptions{})
}

func (g *Game) Layout(int, int) (int, int) { return g.width, g.height }
