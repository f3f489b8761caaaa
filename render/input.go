package render

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const defaultDragDeadZone = 4.0 // pixels

// HitRect is an axis-aligned rectangular hit area in local coordinates.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node // node under the pointer at press time
	hoverNode *Node // last node the pointer was over, for enter/leave
	dragging  bool
	button    MouseButton
}

// SetDragDeadZone sets how far the pointer must move while pressed before
// a drag starts.
func (s *Scene) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// nodeContainsLocal tests whether (lx, ly) falls inside a node's hit region:
// its HitShape if set, otherwise its Width x Height rectangle. Nodes with
// neither are not hit-testable.
func nodeContainsLocal(n *Node, lx, ly float64) bool {
	if n.HitShape != nil {
		return n.HitShape.Contains(lx, ly)
	}
	if n.Width == 0 && n.Height == 0 {
		return false
	}
	return lx >= 0 && lx <= n.Width && ly >= 0 && ly <= n.Height
}

// hitTest finds the topmost interactable node at (worldX, worldY). Later
// children draw on top, so they are tested first. Invisible, disposed, or
// non-interactable nodes hide their whole subtree.
func (s *Scene) hitTest(worldX, worldY float64) *Node {
	return hitTestNode(s.root, worldX, worldY)
}

func hitTestNode(n *Node, wx, wy float64) *Node {
	if !n.Visible || !n.Interactable || n.disposed {
		return nil
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := hitTestNode(n.children[i], wx, wy); hit != nil {
			return hit
		}
	}
	lx, ly := n.WorldToLocal(wx, wy)
	if nodeContainsLocal(n, lx, ly) {
		return n
	}
	return nil
}

// currentModifiers reads the keyboard modifier state.
func currentModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= ModMeta
	}
	return mods
}

// ebitenPointer reads the mouse position and left button.
func ebitenPointer() (x, y float64, pressed bool) {
	mx, my := ebiten.CursorPosition()
	return float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// processInput feeds one pointer sample per frame into the state machine.
// Injected events take priority over the real mouse.
func (s *Scene) processInput() {
	mods := s.readModifiers()
	if s.processInjectedInput(mods) {
		return
	}
	x, y, pressed := s.readPointer()
	s.processPointer(x, y, pressed, MouseButtonLeft, mods)
}

// processPointer runs the pointer state machine for one sample.
func (s *Scene) processPointer(wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	ps := &s.pointer
	target := s.hitTest(wx, wy)

	// Enter/leave follow the pointer even while a drag is in progress so
	// views can paint across nodes.
	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			s.firePointer(EventPointerLeave, ps.hoverNode, wx, wy, button, pressed, mods)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, wx, wy, button, pressed, mods)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hitNode = target
		ps.dragging = false
		s.firePointer(EventPointerDown, target, wx, wy, button, true, mods)

	case !pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hitNode, wx, wy, wx-ps.lastX, wy-ps.lastY, mods)
		} else if ps.hitNode != nil && ps.hitNode == target {
			s.fireClick(target, wx, wy, ps.button, mods)
		}
		s.firePointer(EventPointerUp, target, wx, wy, ps.button, false, mods)
		ps.down = false
		ps.hitNode = nil
		ps.dragging = false

	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			if !ps.dragging {
				dx, dy := wx-ps.startX, wy-ps.startY
				if math.Sqrt(dx*dx+dy*dy) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(EventDragStart, ps.hitNode, wx, wy, dx, dy, mods)
				}
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hitNode, wx, wy, wx-ps.lastX, wy-ps.lastY, mods)
			}
		}
		ps.lastX, ps.lastY = wx, wy

	default:
		ps.lastX, ps.lastY = wx, wy
	}
}

func (s *Scene) firePointer(ev EventType, node *Node, wx, wy float64, button MouseButton, down bool, mods KeyModifiers) {
	if node == nil {
		return
	}
	lx, ly := node.WorldToLocal(wx, wy)
	ctx := PointerContext{
		Node: node, EntityID: node.EntityID, UserData: node.UserData,
		GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
		Button: button, Down: down, Modifiers: mods,
	}
	var fn func(PointerContext)
	switch ev {
	case EventPointerDown:
		fn = node.OnPointerDown
	case EventPointerUp:
		fn = node.OnPointerUp
	case EventPointerEnter:
		fn = node.OnPointerEnter
	case EventPointerLeave:
		fn = node.OnPointerLeave
	}
	if fn != nil {
		fn(ctx)
	}
	s.emitInteractionEvent(ev, node, wx, wy, lx, ly, button, mods, DragContext{})
}

func (s *Scene) fireClick(node *Node, wx, wy float64, button MouseButton, mods KeyModifiers) {
	lx, ly := node.WorldToLocal(wx, wy)
	if node.OnClick != nil {
		node.OnClick(ClickContext{
			Node: node, EntityID: node.EntityID, UserData: node.UserData,
			GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
			Button: button, Modifiers: mods,
		})
	}
	s.emitInteractionEvent(EventClick, node, wx, wy, lx, ly, button, mods, DragContext{})
}

func (s *Scene) fireDrag(ev EventType, node *Node, wx, wy, dx, dy float64, mods KeyModifiers) {
	if node == nil {
		return
	}
	ps := &s.pointer
	lx, ly := node.WorldToLocal(wx, wy)
	ctx := DragContext{
		Node: node, EntityID: node.EntityID, UserData: node.UserData,
		GlobalX: wx, GlobalY: wy, LocalX: lx, LocalY: ly,
		StartX: ps.startX, StartY: ps.startY, DeltaX: dx, DeltaY: dy,
		Button: ps.button, Modifiers: mods,
	}
	var fn func(DragContext)
	switch ev {
	case EventDragStart:
		fn = node.OnDragStart
	case EventDrag:
		fn = node.OnDrag
	case EventDragEnd:
		fn = node.OnDragEnd
	}
	if fn != nil {
		fn(ctx)
	}
	s.emitInteractionEvent(ev, node, wx, wy, lx, ly, ps.button, mods, ctx)
}

// emitInteractionEvent forwards an event to the EntityStore. Only nodes
// bound to an entity are forwarded.
func (s *Scene) emitInteractionEvent(ev EventType, node *Node, wx, wy, lx, ly float64,
	button MouseButton, mods KeyModifiers, drag DragContext) {
	if s.store == nil || node == nil || node.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      ev,
		EntityID:  node.EntityID,
		GlobalX:   wx,
		GlobalY:   wy,
		LocalX:    lx,
		LocalY:    ly,
		Button:    button,
		Modifiers: mods,
		StartX:    drag.StartX,
		StartY:    drag.StartY,
		DeltaX:    drag.DeltaX,
		DeltaY:    drag.DeltaY,
	})
}
