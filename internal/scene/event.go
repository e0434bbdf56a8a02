package scene

import (
	"fmt"

	"github.com/rook-computer/keyplayer/internal/settings"
)

// ID names a scene.
type ID int

const (
	FileSelect ID = iota
	Config
	Work
	Error
)

// All lists every scene in registration order.
var All = []ID{FileSelect, Config, Work, Error}

func (id ID) String() string {
	switch id {
	case FileSelect:
		return "file_select"
	case Config:
		return "config"
	case Work:
		return "work"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("scene(%d)", int(id))
	}
}

type EventType int

const (
	EventCustom EventType = iota
	EventBack
	EventTick
)

type CustomKind int

const (
	CustomNone CustomKind = iota
	FileChosen
	FileCancelled
	OpenConfig
	LayoutChanged
	InterfaceChanged
	ToggleScript
	StopScript
	ScriptFinished
)

func (k CustomKind) String() string {
	switch k {
	case FileChosen:
		return "file_chosen"
	case FileCancelled:
		return "file_cancelled"
	case OpenConfig:
		return "open_config"
	case LayoutChanged:
		return "layout_changed"
	case InterfaceChanged:
		return "interface_changed"
	case ToggleScript:
		return "toggle_script"
	case StopScript:
		return "stop_script"
	case ScriptFinished:
		return "script_finished"
	default:
		return "none"
	}
}

// Event is everything the host feeds into the controller. Path and Interface
// carry the payload of the custom kinds that need one.
type Event struct {
	Type      EventType
	Custom    CustomKind
	Path      string
	Interface settings.Interface
}

func Custom(kind CustomKind) Event { return Event{Type: EventCustom, Custom: kind} }
func Back() Event                  { return Event{Type: EventBack} }
func Tick() Event                  { return Event{Type: EventTick} }

func FileChosenEvent(path string) Event {
	return Event{Type: EventCustom, Custom: FileChosen, Path: path}
}

func LayoutChangedEvent(path string) Event {
	return Event{Type: EventCustom, Custom: LayoutChanged, Path: path}
}

func InterfaceChangedEvent(iface settings.Interface) Event {
	return Event{Type: EventCustom, Custom: InterfaceChanged, Interface: iface}
}

func (e Event) String() string {
	switch e.Type {
	case EventBack:
		return "back"
	case EventTick:
		return "tick"
	}
	switch e.Custom {
	case FileChosen, LayoutChanged:
		return fmt.Sprintf("%s(%s)", e.Custom, e.Path)
	case InterfaceChanged:
		return fmt.Sprintf("%s(%s)", e.Custom, e.Interface)
	default:
		return e.Custom.String()
	}
}
