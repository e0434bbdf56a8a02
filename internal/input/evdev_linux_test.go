//go:build linux

package input

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event evdev.InputEvent
		key   Key
		ok    bool
	}{
		{"press up", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_UP, Value: 1}, KeyUp, true},
		{"repeat down", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_DOWN, Value: 2}, KeyDown, true},
		{"repeat enter ignored", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ENTER, Value: 2}, KeyOK, false},
		{"release", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ESC, Value: 0}, KeyNone, false},
		{"escape", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ESC, Value: 1}, KeyBack, true},
		{"unmapped key", evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 1}, KeyNone, false},
		{"sync event", evdev.InputEvent{Type: evdev.EV_SYN, Code: 0, Value: 0}, KeyNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, ok := translate(tt.event)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.key, key)
			}
		})
	}
}
