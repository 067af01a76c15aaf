package keyboard

import (
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/locomotion/input"
)

var _ input.Source = (*Source)(nil)

var ebitenKeys = map[string]ebiten.Key{
	"a":            ebiten.KeyA,
	"b":            ebiten.KeyB,
	"c":            ebiten.KeyC,
	"d":            ebiten.KeyD,
	"e":            ebiten.KeyE,
	"f":            ebiten.KeyF,
	"g":            ebiten.KeyG,
	"h":            ebiten.KeyH,
	"i":            ebiten.KeyI,
	"j":            ebiten.KeyJ,
	"k":            ebiten.KeyK,
	"l":            ebiten.KeyL,
	"m":            ebiten.KeyM,
	"n":            ebiten.KeyN,
	"o":            ebiten.KeyO,
	"p":            ebiten.KeyP,
	"q":            ebiten.KeyQ,
	"r":            ebiten.KeyR,
	"s":            ebiten.KeyS,
	"t":            ebiten.KeyT,
	"u":            ebiten.KeyU,
	"v":            ebiten.KeyV,
	"w":            ebiten.KeyW,
	"x":            ebiten.KeyX,
	"y":            ebiten.KeyY,
	"z":            ebiten.KeyZ,
	"0":            ebiten.KeyDigit0,
	"1":            ebiten.KeyDigit1,
	"2":            ebiten.KeyDigit2,
	"3":            ebiten.KeyDigit3,
	"4":            ebiten.KeyDigit4,
	"5":            ebiten.KeyDigit5,
	"6":            ebiten.KeyDigit6,
	"7":            ebiten.KeyDigit7,
	"8":            ebiten.KeyDigit8,
	"9":            ebiten.KeyDigit9,
	"space":        ebiten.KeySpace,
	"shiftleft":    ebiten.KeyShiftLeft,
	"shiftright":   ebiten.KeyShiftRight,
	"controlleft":  ebiten.KeyControlLeft,
	"controlright": ebiten.KeyControlRight,
	"altleft":      ebiten.KeyAltLeft,
	"altright":     ebiten.KeyAltRight,
	"tab":          ebiten.KeyTab,
	"enter":        ebiten.KeyEnter,
	"escape":       ebiten.KeyEscape,
	"arrowup":      ebiten.KeyArrowUp,
	"arrowdown":    ebiten.KeyArrowDown,
	"arrowleft":    ebiten.KeyArrowLeft,
	"arrowright":   ebiten.KeyArrowRight,
}

var ebitenButtons = map[string]ebiten.MouseButton{
	"mouseleft":   ebiten.MouseButtonLeft,
	"mouseright":  ebiten.MouseButtonRight,
	"mousemiddle": ebiten.MouseButtonMiddle,
}

func bindingName(b input.Binding) string {
	return strings.ToLower(strings.TrimSpace(string(b)))
}

// KnownKey reports whether Source understands b.
func KnownKey(b input.Binding) bool {
	n := bindingName(b)
	if _, ok := ebitenKeys[n]; ok {
		return true
	}
	_, ok := ebitenButtons[n]
	return ok
}

// Source reads the keyboard and mouse through ebiten. Update must be
// called once per ebiten tick so pointer motion is accumulated.
type Source struct {
	captured bool
	lastX    int
	lastY    int
	primed   bool
	pointer  mgl64.Vec2
}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) Pressed(b input.Binding) bool {
	n := bindingName(b)
	if k, ok := ebitenKeys[n]; ok {
		return ebiten.IsKeyPressed(k)
	}
	if mb, ok := ebitenButtons[n]; ok {
		return ebiten.IsMouseButtonPressed(mb)
	}
	return false
}

func (s *Source) JustPressed(b input.Binding) bool {
	n := bindingName(b)
	if k, ok := ebitenKeys[n]; ok {
		return inpututil.IsKeyJustPressed(k)
	}
	if mb, ok := ebitenButtons[n]; ok {
		return inpututil.IsMouseButtonJustPressed(mb)
	}
	return false
}

// Update samples the cursor. Motion only counts while the cursor is captured.
func (s *Source) Update() {
	x, y := ebiten.CursorPosition()
	if s.primed && s.captured {
		s.pointer = s.pointer.Add(mgl64.Vec2{float64(x - s.lastX), float64(y - s.lastY)})
	}
	s.lastX, s.lastY = x, y
	s.primed = true
}

func (s *Source) DrainPointer() mgl64.Vec2 {
	d := s.pointer
	s.pointer = mgl64.Vec2{}
	return d
}

// Capture grabs or releases the cursor.
func (s *Source) Capture(on bool) {
	s.captured = on
	s.primed = false
	if on {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeVisible)
}

func (s *Source) Captured() bool {
	return s.captured
}
