//go:build !(darwin || linux)

package sdlpop

import (
	"errors"

	"github.com/vovakirdan/frameforge/internal/engine"
	"github.com/vovakirdan/frameforge/internal/registry"
)

// ErrUnsupported is returned on platforms without dynamic library loading.
var ErrUnsupported = errors.New("sdlpop: native engine not supported on this platform")

func init() {
	registry.Register("sdlpop", "Native SDLPoP engine library (unavailable)", func(registry.Options) (engine.Engine, error) {
		return nil, ErrUnsupported
	})
}
