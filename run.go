package lattice

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the Run game loop.
type RunConfig struct {
	Title         string
	Width, Height int
	// TPS overrides the tick rate when positive.
	TPS int
}

const (
	defaultWidth  = 640
	defaultHeight = 480
)

// game adapts a scene to ebiten.Game, raising the built-in events once per
// frame or input occurrence. All frame-to-frame state (timer, previous
// cursor position, pending resize) lives here, not in package globals.
type game struct {
	events *Events

	last    time.Time
	started bool

	prevCurX, prevCurY int
	cursorSeen         bool

	width, height int
	pendingResize bool
}

// Update raises one frame's worth of events: key transitions, pointer
// motion, a pending resize, then the tick. Each Handle call returns only
// once its listeners have resolved.
func (g *game) Update() error {
	now := time.Now()
	var dt float64
	if g.started {
		dt = now.Sub(g.last).Seconds()
	}
	g.last = now
	g.started = true

	pressed := inpututil.AppendJustPressedKeys(nil)
	released := inpututil.AppendJustReleasedKeys(nil)
	for _, ev := range keyTransitions(pressed, released) {
		g.events.Key.Handle(ev)
	}

	x, y := ebiten.CursorPosition()
	if g.cursorSeen {
		if d, moved := pointerDelta(float64(g.prevCurX), float64(g.prevCurY), float64(x), float64(y)); moved {
			g.events.Mouse.Handle(MouseDeltaEvent{Delta: d})
		}
	}
	g.prevCurX, g.prevCurY = x, y
	g.cursorSeen = true

	if g.pendingResize {
		g.pendingResize = false
		g.events.Resize.Handle(ResizeEvent{Width: g.width, Height: g.height})
	}

	g.events.Tick.Handle(TickEvent{Delta: dt})
	return nil
}

// Draw is a no-op: rendering belongs to the graphics backend, which consumes
// the scene separately.
func (g *game) Draw(screen *ebiten.Image) {}

// Layout records size changes; the corresponding ResizeEvent is raised from
// the next Update so listeners always run on the tick goroutine. The first
// call counts as a change, so a ResizeEvent is raised once at startup.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.pendingResize = true
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and drives the scene's event handlers until the window
// closes. It blocks for the life of the game loop.
func Run(scene *Shared[Scene], cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = defaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = defaultHeight
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}

	p := scene.RLock()
	events := p.Events
	scene.RUnlock()

	return ebiten.RunGame(&game{events: events})
}
