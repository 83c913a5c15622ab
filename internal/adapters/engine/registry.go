package engine

import (
	"errors"
	"imgfit/internal/core/port"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// Registry maps configuration names to rendering engines.
type Registry struct {
	engines map[string]port.Engine
}

func (r *Registry) Register(name string, engine port.Engine) {
	if r.engines == nil {
		r.engines = make(map[string]port.Engine)
	}

	log.Debug().Str("engine", name).Msg("adding rendering engine to registry")
	r.engines[strings.ToLower(name)] = engine
}

func (r *Registry) Get(name string) (port.Engine, error) {
	log.Debug().Str("engine", name).Msg("fetching rendering engine from registry")

	if r.engines == nil {
		return nil, errors.New("can't fetch engine, registry not initialized")
	}

	engine, ok := r.engines[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.New("engine not found")
	}

	return engine, nil
}

func (r *Registry) ListEngines() []string {
	keys := make([]string, 0, len(r.engines))
	for k := range r.engines {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
