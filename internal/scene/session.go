package scene

import (
	"github.com/rook-computer/keyplayer/internal/script"
	"github.com/rook-computer/keyplayer/internal/settings"
)

// Reason explains why the session ended up in the Error scene.
type Reason string

const (
	ReasonNone                 Reason = ""
	ReasonInterfaceBusy        Reason = "interface locked by another consumer"
	ReasonInterfaceUnavailable Reason = "interface could not be switched"
)

// Session is the runtime state of one application run.
type Session struct {
	TargetPath  string
	BaseFolder  string
	Preferences settings.Preferences
	// Script is non-nil only while the Work scene is active.
	Script script.Handle
	Reason Reason
}
