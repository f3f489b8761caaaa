package render

import (
	"testing"
)

// newTestScene returns a scene whose real pointer sits off screen, so only
// injected events reach the input state machine.
func newTestScene() *Scene {
	s := NewScene()
	s.readPointer = func() (float64, float64, bool) { return -1000, -1000, false }
	s.readModifiers = func() KeyModifiers { return 0 }
	return s
}

func addButton(parent *Node, name string, x, y, w, h float64) *Node {
	n := NewRect(name, w, h, ColorWhite)
	n.SetPosition(x, y)
	n.Interactable = true
	parent.AddChild(n)
	return n
}

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}
	if !r.Contains(10, 20) || !r.Contains(110, 70) {
		t.Error("edges should be inside")
	}
	if r.Contains(5, 40) || r.Contains(50, 75) {
		t.Error("outside points reported inside")
	}
}

func TestHitTestTopmost(t *testing.T) {
	s := newTestScene()
	below := addButton(s.Root(), "below", 0, 0, 100, 100)
	above := addButton(s.Root(), "above", 50, 50, 100, 100)
	updateWorldTransform(s.root, identityTransform, 1, false)

	if got := s.hitTest(75, 75); got != above {
		t.Errorf("overlap hit = %v, want above", nameOf(got))
	}
	if got := s.hitTest(10, 10); got != below {
		t.Errorf("hit = %v, want below", nameOf(got))
	}
	if got := s.hitTest(500, 500); got != nil {
		t.Errorf("empty space hit %v", nameOf(got))
	}
}

func TestHitTestSkipsHiddenSubtrees(t *testing.T) {
	tests := []struct {
		name  string
		setup func(parent *Node)
	}{
		{"invisible", func(p *Node) { p.Visible = false }},
		{"not interactable", func(p *Node) { p.Interactable = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestScene()
			parent := NewContainer("group")
			parent.Interactable = true
			s.Root().AddChild(parent)
			addButton(parent, "btn", 0, 0, 10, 10)
			tt.setup(parent)
			updateWorldTransform(s.root, identityTransform, 1, false)
			if got := s.hitTest(5, 5); got != nil {
				t.Errorf("hit %v inside a hidden subtree", nameOf(got))
			}
		})
	}
}

func TestHitTestCustomShape(t *testing.T) {
	s := newTestScene()
	n := NewContainer("shape")
	n.Interactable = true
	n.HitShape = HitRect{X: -5, Y: -5, Width: 10, Height: 10}
	n.SetPosition(50, 50)
	s.Root().AddChild(n)
	updateWorldTransform(s.root, identityTransform, 1, false)

	if s.hitTest(46, 46) != n {
		t.Error("HitShape should extend the hit area around the origin")
	}
}

func TestHitTestSizelessNodeIgnored(t *testing.T) {
	s := newTestScene()
	n := NewContainer("empty")
	n.Interactable = true
	s.Root().AddChild(n)
	updateWorldTransform(s.root, identityTransform, 1, false)
	if got := s.hitTest(0, 0); got != nil {
		t.Errorf("hit %v", nameOf(got))
	}
}

func nameOf(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name
}

func TestClickSequence(t *testing.T) {
	s := newTestScene()
	btn := addButton(s.Root(), "btn", 0, 0, 50, 50)
	var events []string
	btn.OnPointerDown = func(PointerContext) { events = append(events, "down") }
	btn.OnPointerUp = func(PointerContext) { events = append(events, "up") }
	btn.OnClick = func(ctx ClickContext) {
		events = append(events, "click")
		if ctx.LocalX != 10 || ctx.LocalY != 20 {
			t.Errorf("click local = (%v, %v), want (10, 20)", ctx.LocalX, ctx.LocalY)
		}
	}
	updateWorldTransform(s.root, identityTransform, 1, false)

	s.processPointer(10, 20, true, MouseButtonLeft, 0)
	s.processPointer(10, 20, false, MouseButtonLeft, 0)

	want := []string{"down", "click", "up"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestReleaseElsewhereIsNotAClick(t *testing.T) {
	s := newTestScene()
	a := addButton(s.Root(), "a", 0, 0, 10, 10)
	addButton(s.Root(), "b", 100, 0, 10, 10)
	clicked := false
	a.OnClick = func(ClickContext) { clicked = true }
	updateWorldTransform(s.root, identityTransform, 1, false)

	s.processPointer(5, 5, true, MouseButtonLeft, 0)
	s.processPointer(105, 5, false, MouseButtonLeft, 0)
	if clicked {
		t.Error("release over another node must not click")
	}
}

func TestDragDeadZone(t *testing.T) {
	s := newTestScene()
	n := addButton(s.Root(), "n", 0, 0, 200, 200)
	var starts, drags, ends int
	var lastDelta float64
	n.OnDragStart = func(DragContext) { starts++ }
	n.OnDrag = func(ctx DragContext) { drags++; lastDelta = ctx.DeltaX }
	n.OnDragEnd = func(DragContext) { ends++ }
	clicked := false
	n.OnClick = func(ClickContext) { clicked = true }
	updateWorldTransform(s.root, identityTransform, 1, false)

	s.processPointer(10, 10, true, MouseButtonLeft, 0)
	s.processPointer(12, 10, true, MouseButtonLeft, 0) // inside the dead zone
	if starts != 0 {
		t.Fatal("drag started inside the dead zone")
	}
	s.processPointer(30, 10, true, MouseButtonLeft, 0)
	s.processPointer(40, 10, true, MouseButtonLeft, 0)
	s.processPointer(40, 10, false, MouseButtonLeft, 0)

	if starts != 1 || drags != 2 || ends != 1 {
		t.Errorf("start/drag/end = %d/%d/%d, want 1/2/1", starts, drags, ends)
	}
	if lastDelta != 10 {
		t.Errorf("last drag delta = %v, want 10", lastDelta)
	}
	if clicked {
		t.Error("a drag must not also click")
	}
}

func TestEnterLeaveWhilePressed(t *testing.T) {
	s := newTestScene()
	a := addButton(s.Root(), "a", 0, 0, 10, 10)
	b := addButton(s.Root(), "b", 20, 0, 10, 10)
	var log []string
	a.OnPointerLeave = func(ctx PointerContext) { log = append(log, "leave a") }
	b.OnPointerEnter = func(ctx PointerContext) {
		if !ctx.Down {
			t.Error("enter during a drag should report Down")
		}
		log = append(log, "enter b")
	}
	updateWorldTransform(s.root, identityTransform, 1, false)

	s.processPointer(5, 5, true, MouseButtonLeft, 0)
	s.processPointer(25, 5, true, MouseButtonLeft, 0)
	if len(log) != 2 || log[0] != "leave a" || log[1] != "enter b" {
		t.Errorf("log = %v", log)
	}
}

type recordingStore struct {
	events []InteractionEvent
}

func (r *recordingStore) EmitEvent(ev InteractionEvent) {
	r.events = append(r.events, ev)
}

func TestEntityStoreReceivesBoundNodesOnly(t *testing.T) {
	s := newTestScene()
	store := &recordingStore{}
	s.SetEntityStore(store)
	bound := addButton(s.Root(), "bound", 0, 0, 10, 10)
	bound.EntityID = 42
	addButton(s.Root(), "free", 20, 0, 10, 10)
	updateWorldTransform(s.root, identityTransform, 1, false)

	s.processPointer(25, 5, true, MouseButtonLeft, ModShift)
	s.processPointer(25, 5, false, MouseButtonLeft, ModShift)
	if len(store.events) != 0 {
		t.Fatalf("unbound node forwarded %d events", len(store.events))
	}

	s.processPointer(5, 5, true, MouseButtonLeft, ModShift)
	s.processPointer(5, 5, false, MouseButtonLeft, ModShift)
	var types []EventType
	for _, ev := range store.events {
		if ev.EntityID != 42 || ev.Modifiers != ModShift {
			t.Errorf("event %+v", ev)
		}
		types = append(types, ev.Type)
	}
	want := []EventType{EventPointerEnter, EventPointerDown, EventClick, EventPointerUp}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}
}
