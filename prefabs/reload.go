package prefabs

import (
	"path/filepath"

	"github.com/milk9111/locomotion/input"
	"github.com/rs/zerolog"
)

// Reloader turns file events into fresh Settings. Poll never blocks, so it
// can run on the simulation goroutine between steps.
type Reloader struct {
	events <-chan string
	file   string
	known  func(input.Binding) bool
	apply  func(Settings) error
	log    zerolog.Logger
}

func NewReloader(events <-chan string, file string, known func(input.Binding) bool, apply func(Settings) error, log zerolog.Logger) *Reloader {
	return &Reloader{
		events: events,
		file:   cleanPrefabPath(file),
		known:  known,
		apply:  apply,
		log:    log,
	}
}

// Poll drains pending events and applies the watched spec at most once. A
// spec that fails to load or apply is logged and the previous settings stay
// in effect. It reports whether new settings were applied.
func (r *Reloader) Poll() bool {
	changed := false
	for {
		select {
		case name, ok := <-r.events:
			if !ok {
				return r.reload(changed)
			}
			if filepath.Base(name) == filepath.Base(r.file) {
				changed = true
			}
		default:
			return r.reload(changed)
		}
	}
}

func (r *Reloader) reload(changed bool) bool {
	if !changed || r.apply == nil {
		return false
	}
	s, err := LoadSettings(r.file, r.known)
	if err != nil {
		r.log.Error().Err(err).Str("file", r.file).Msg("reload rejected")
		return false
	}
	if err := r.apply(s); err != nil {
		r.log.Error().Err(err).Str("file", r.file).Msg("reload rejected")
		return false
	}
	r.log.Info().Str("file", r.file).Str("strategy", s.Kind.String()).Msg("reloaded")
	return true
}
