package input

import "github.com/go-gl/mathgl/mgl64"

// keySet tracks held bindings across two ticks so sources without native
// edge detection can answer JustPressed.
type keySet struct {
	held    map[Binding]bool
	prev    map[Binding]bool
	pointer mgl64.Vec2
}

func newKeySet() keySet {
	return keySet{held: map[Binding]bool{}, prev: map[Binding]bool{}}
}

func (k *keySet) Pressed(b Binding) bool {
	return b != Unbound && k.held[b]
}

func (k *keySet) JustPressed(b Binding) bool {
	return b != Unbound && k.held[b] && !k.prev[b]
}

func (k *keySet) DrainPointer() mgl64.Vec2 {
	d := k.pointer
	k.pointer = mgl64.Vec2{}
	return d
}

// latch makes the current held set the previous one.
func (k *keySet) latch() {
	clear(k.prev)
	for b, on := range k.held {
		if on {
			k.prev[b] = true
		}
	}
}

// ManualSource is driven directly by code. Tests and headless runs use it in
// place of a keyboard.
type ManualSource struct {
	keySet
}

func NewManualSource() *ManualSource {
	return &ManualSource{keySet: newKeySet()}
}

func (m *ManualSource) Press(b Binding) {
	if b == Unbound {
		return
	}
	m.held[b] = true
}

func (m *ManualSource) Release(b Binding) {
	delete(m.held, b)
}

// MovePointer accumulates pointer motion until the next drain.
func (m *ManualSource) MovePointer(dx, dy float64) {
	m.pointer = m.pointer.Add(mgl64.Vec2{dx, dy})
}

// Advance ends the current tick. A binding still held after Advance no
// longer reports JustPressed.
func (m *ManualSource) Advance() {
	m.latch()
}
