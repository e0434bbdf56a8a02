package web

import (
	"net/http"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/state"
)

// StateSource is read by GET /api/v1/state.
type StateSource interface {
	Snapshot() state.State
}

// KeyInjector receives keys from POST /api/v1/keys.
type KeyInjector interface {
	Inject(key input.Key) bool
}

type APIV1Config struct {
	State StateSource
	Keys  KeyInjector
}

// RegisterAPIV1 registers the remote-control routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg)))
}

func NewDefaultMux(cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	return mux
}
