package input

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
)

// ScriptSource replays input produced by a tengo script. The script defines
//
//	tick := func(n, state) { return {held: ["forward"], pointer: [dx, dy]} }
//
// and is called once per Advance. Held entries are action names resolved
// through the map; state is a map the script may keep between ticks.
type ScriptSource struct {
	keySet
	m        Map
	compiled *tengo.Compiled
	state    *tengo.Map
	tick     int
}

const scriptDispatch = `
__out := tick(__tick, __state)
`

func NewScriptSource(src []byte, m Map) (*ScriptSource, error) {
	script := tengo.NewScript(append(append([]byte{}, src...), []byte("\n"+scriptDispatch)...))
	_ = script.Add("__tick", 0)
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("input: compile script: %w", err)
	}
	return &ScriptSource{
		keySet:   newKeySet(),
		m:        m,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

// Tick is the number of completed Advance calls.
func (s *ScriptSource) Tick() int {
	return s.tick
}

// Advance runs the script for the next tick and replaces the held set.
func (s *ScriptSource) Advance() error {
	s.latch()
	clear(s.held)

	if err := s.compiled.Set("__tick", s.tick); err != nil {
		return err
	}
	if err := s.compiled.Set("__state", s.state); err != nil {
		return err
	}
	if err := s.compiled.Run(); err != nil {
		return fmt.Errorf("input: script tick %d: %w", s.tick, err)
	}
	s.tick++

	out := s.compiled.Get("__out")
	if out.IsUndefined() {
		return nil
	}
	res := out.Map()
	if res == nil {
		return fmt.Errorf("input: script tick %d returned %s, want map", s.tick-1, out.ValueType())
	}

	if held, ok := res["held"].([]any); ok {
		for _, v := range held {
			name, ok := v.(string)
			if !ok {
				continue
			}
			a, err := ParseAction(name)
			if err != nil {
				return err
			}
			if b := s.m.Binding(a); b != Unbound {
				s.held[b] = true
			}
		}
	}

	if p, ok := res["pointer"].([]any); ok && len(p) == 2 {
		s.pointer = s.pointer.Add(mgl64.Vec2{toFloat(p[0]), toFloat(p[1])})
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
