package scene

import "github.com/rook-computer/keyplayer/internal/settings"

type EffectKind int

const (
	EffectOpenScript EffectKind = iota
	EffectCloseScript
	EffectToggleScript
	EffectSetLayout
	EffectSetInterface
	EffectRefresh
	EffectSwitch
	EffectExit
)

// Effect is one side effect the controller performs, in order, after a
// transition was chosen.
type Effect struct {
	Kind      EffectKind
	Path      string
	Interface settings.Interface
	Scene     ID
}

func openScript(path string) Effect { return Effect{Kind: EffectOpenScript, Path: path} }
func switchTo(id ID) Effect         { return Effect{Kind: EffectSwitch, Scene: id} }

var (
	closeScript  = Effect{Kind: EffectCloseScript}
	toggleScript = Effect{Kind: EffectToggleScript}
	refresh      = Effect{Kind: EffectRefresh}
	exit         = Effect{Kind: EffectExit}
)

// Transition is the scene table. It never touches the outside world; handled
// is false when the scene has no row for the event.
func Transition(from ID, ev Event) (to ID, effects []Effect, handled bool) {
	if ev.Type == EventTick {
		return from, []Effect{refresh}, true
	}

	switch from {
	case FileSelect:
		if ev.Type != EventCustom {
			return from, nil, false
		}
		switch ev.Custom {
		case FileChosen:
			return Work, []Effect{openScript(ev.Path), switchTo(Work)}, true
		case OpenConfig:
			return Config, []Effect{switchTo(Config)}, true
		case FileCancelled:
			return from, []Effect{exit}, true
		}

	case Config:
		if ev.Type == EventBack {
			return FileSelect, []Effect{switchTo(FileSelect)}, true
		}
		switch ev.Custom {
		case LayoutChanged:
			return Config, []Effect{{Kind: EffectSetLayout, Path: ev.Path}, refresh}, true
		case InterfaceChanged:
			return Config, []Effect{{Kind: EffectSetInterface, Interface: ev.Interface}, refresh}, true
		}

	case Work:
		if ev.Type == EventBack {
			return FileSelect, []Effect{closeScript, switchTo(FileSelect)}, true
		}
		switch ev.Custom {
		case ToggleScript:
			return Work, []Effect{toggleScript, refresh}, true
		case StopScript, ScriptFinished:
			return FileSelect, []Effect{closeScript, switchTo(FileSelect)}, true
		}

	case Error:
		// Terminal: back is left to the host, which exits.
	}
	return from, nil, false
}
