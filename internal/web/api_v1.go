package web

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rook-computer/keyplayer/internal/input"
)

const maxKeyBody = 1 << 10

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type keyRequest struct {
	Key string `json:"key"`
}

func apiV1Router(cfg APIV1Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) { handleState(w, r, cfg.State) })
	mux.HandleFunc("/keys", func(w http.ResponseWriter, r *http.Request) { handleKeys(w, r, cfg.Keys) })
	return mux
}

func handleState(w http.ResponseWriter, r *http.Request, src StateSource) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if src == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "state not configured")
		return
	}
	writeJSON(w, http.StatusOK, src.Snapshot())
}

// handleKeys accepts {"key": "<name>"} using the same names as the line
// input, e.g. "up", "ok", "back".
func handleKeys(w http.ResponseWriter, r *http.Request, keys KeyInjector) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	if keys == nil {
		writeAPIError(w, http.StatusNotImplemented, "not_implemented", "key input not configured")
		return
	}

	var req keyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxKeyBody)).Decode(&req); err != nil {
		writeAPIError(w, http.StatusBadRequest, "bad_request", "body must be {\"key\": \"...\"}")
		return
	}
	if req.Key == "" {
		writeAPIError(w, http.StatusBadRequest, "unknown_key", "key is required")
		return
	}
	key := input.ParseKey(req.Key)
	if key == input.KeyNone {
		writeAPIError(w, http.StatusBadRequest, "unknown_key", "unknown key "+req.Key)
		return
	}
	if !keys.Inject(key) {
		writeAPIError(w, http.StatusServiceUnavailable, "input_unavailable", "key input is full or stopped")
		return
	}
	writeJSON(w, http.StatusAccepted, okResponse{OK: true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
