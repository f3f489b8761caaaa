package render

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"go.uber.org/zap"

	"github.com/phanxgames/algoviz"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	GlobalX   float64
	GlobalY   float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// Scene owns the node tree, the pointer state, and the playback controls
// shared by every view in one window.
type Scene struct {
	root   *Node
	store  EntityStore
	player *algoviz.Player
	logger *zap.Logger
	debug  bool

	// ClearColor fills the screen before the tree is drawn.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	updateFunc func() error

	pointer      pointerState
	dragDeadZone float64

	// Pointer sources; replaced in tests.
	readPointer   func() (x, y float64, pressed bool)
	readModifiers func() KeyModifiers

	injectQueue     []syntheticPointerEvent
	testRunner      *TestRunner
	screenshotQueue []string

	stats debugStats
}

// NewScene creates a scene with an interactable root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		logger:        zap.NewNop(),
		ClearColor:    ColorBackground,
		ScreenshotDir: "screenshots",
		dragDeadZone:  defaultDragDeadZone,
		readPointer:   ebitenPointer,
		readModifiers: currentModifiers,
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetPlayer attaches the Player that keyboard bindings and test scripts
// control.
func (s *Scene) SetPlayer(p *algoviz.Player) {
	s.player = p
}

// Player returns the attached Player, or nil.
func (s *Scene) Player() *algoviz.Player {
	return s.player
}

// SetLogger replaces the scene logger. A nil logger disables logging.
func (s *Scene) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	s.logger = l
}

// SetDebugMode enables per-frame stats logging at debug level and
// disposed-node checks on tree operations.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations, which lack a Scene pointer, can check it.
var globalDebug bool

// SetUpdateFunc sets a hook run at the end of every Update. A non-nil
// error from the hook ends the Run loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Update runs the test script, processes input, and advances node updates.
func (s *Scene) Update() error {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.processInput()
	updateNodes(s.root, 1.0/float64(ebiten.TPS()))

	if s.debug {
		s.stats.updateTime = time.Since(t0)
	}
	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

func updateNodes(n *Node, dt float64) {
	if n.disposed {
		return
	}
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
	for i := 0; i < len(n.children); i++ {
		updateNodes(n.children[i], dt)
	}
}

// Draw clears the screen, draws the tree in child order, and captures any
// queued screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	screen.Fill(s.ClearColor.toRGBA())
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.stats.drawCount = 0
	s.stats.nodeCount = 0
	s.drawNode(screen, s.root)

	if s.debug {
		s.stats.drawTime = time.Since(t0)
		s.debugLog()
	}
	s.flushScreenshots(screen)
}

func (s *Scene) drawNode(target *ebiten.Image, n *Node) {
	if !n.Visible || n.disposed {
		return
	}
	s.stats.nodeCount++

	var geo ebiten.GeoM
	geo.SetElement(0, 0, n.worldTransform[0])
	geo.SetElement(1, 0, n.worldTransform[1])
	geo.SetElement(0, 1, n.worldTransform[2])
	geo.SetElement(1, 1, n.worldTransform[3])
	geo.SetElement(0, 2, n.worldTransform[4])
	geo.SetElement(1, 2, n.worldTransform[5])

	switch {
	case n.image != nil:
		op := &ebiten.DrawImageOptions{GeoM: geo}
		op.ColorScale.ScaleAlpha(float32(n.worldAlpha))
		target.DrawImage(n.image, op)
		s.stats.drawCount++
	case n.Width > 0 && n.Height > 0 && n.Color.A > 0:
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(n.Width, n.Height)
		op.GeoM.Concat(geo)
		a := n.Color.A * n.worldAlpha
		op.ColorScale.Scale(float32(n.Color.R*a), float32(n.Color.G*a), float32(n.Color.B*a), float32(a))
		target.DrawImage(WhitePixel(), op)
		s.stats.drawCount++
	}
	if n.Label != "" {
		x, y := n.LocalToWorld(0, 0)
		ebitenutil.DebugPrintAt(target, n.Label, int(x), int(y))
	}

	for _, child := range n.children {
		s.drawNode(target, child)
	}
}
