package screens

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/rook-computer/keyplayer/internal/input"
	"github.com/rook-computer/keyplayer/internal/render"
	"github.com/rook-computer/keyplayer/internal/scene"
	"github.com/rook-computer/keyplayer/internal/settings"
	"github.com/rook-computer/keyplayer/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ events []scene.Event }

func (r *recorder) Post(ev scene.Event) { r.events = append(r.events, ev) }

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		full := filepath.Join(root, n)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, make([]byte, settings.LayoutSize), 0o644))
	}
}

func frame(t *testing.T, screen render.Screen, store *state.Store) string {
	t.Helper()
	r := render.NewTextRenderer(&bytes.Buffer{})
	r.SetScreen(screen)
	r.Redraw(store.Snapshot())
	return r.Frame()
}

func TestFileSelectNavigation(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.txt", "b.txt", "more/c.txt", "skip.bin")
	poster := &recorder{}
	store := state.NewStore()
	s := NewFileSelectScreen(root, poster, store)
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, "# Scripts\nOK run   > config   < exit\n> more/\n  a.txt\n  b.txt", frame(t, s, store))

	assert.True(t, s.HandleKey(input.KeyDown))
	assert.True(t, s.HandleKey(input.KeyOK))
	assert.Equal(t, []scene.Event{scene.FileChosenEvent(filepath.Join(root, "a.txt"))}, poster.events)

	assert.True(t, s.HandleKey(input.KeyRight))
	assert.True(t, s.HandleKey(input.KeyLeft))
	assert.Equal(t, scene.Custom(scene.OpenConfig), poster.events[1])
	assert.Equal(t, scene.Custom(scene.FileCancelled), poster.events[2])

	assert.False(t, s.HandleKey(input.KeyBack), "back at the root belongs to the controller")
}

func TestFileSelectEntersDirectoriesAndBacksOut(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "more/c.txt")
	poster := &recorder{}
	store := state.NewStore()
	s := NewFileSelectScreen(root, poster, store)
	require.NoError(t, s.Start(context.Background()))

	assert.True(t, s.HandleKey(input.KeyOK))
	assert.Empty(t, poster.events)
	assert.Equal(t, "more", store.Snapshot().Browser.Dir)
	assert.Contains(t, frame(t, s, store), "# Scripts/more")

	assert.True(t, s.HandleKey(input.KeyBack))
	assert.Equal(t, "", store.Snapshot().Browser.Dir)
}

func TestFileSelectReopensAtLastChoice(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "more/c.txt", "more/d.txt")
	s := NewFileSelectScreen(root, &recorder{}, state.NewStore())
	require.NoError(t, s.Start(context.Background()))
	s.HandleKey(input.KeyOK)
	s.HandleKey(input.KeyDown)
	s.HandleKey(input.KeyOK)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, "more", s.Browser.Dir())
	assert.Equal(t, 1, s.Browser.Selected())
}

func TestFileSelectShowsNotice(t *testing.T) {
	store := state.NewStore()
	s := NewFileSelectScreen(t.TempDir(), &recorder{}, store)
	require.NoError(t, s.Start(context.Background()))
	store.SetNotice(scene.NoticeCannotOpen)

	assert.Equal(t, "# Scripts\ncannot open script\nNo scripts found", frame(t, s, store))
}

func TestConfigInterfaceAndLayout(t *testing.T) {
	layouts := t.TempDir()
	touch(t, layouts, "de-DE.kl", "en-US.kl")
	session := &scene.Session{Preferences: settings.Preferences{
		LayoutPath: filepath.Join(layouts, "en-US.kl"),
		Interface:  settings.InterfaceUSB,
	}}
	poster := &recorder{}
	store := state.NewStore()
	store.UpdatePrefs(state.PrefsInfo{Layout: "en-US.kl", Interface: "USB"})
	s := NewConfigScreen(layouts, session, poster, store)
	require.NoError(t, s.Start(context.Background()))

	assert.Equal(t, "# Config\nOK choose   < > switch   Back done\n> Keyboard layout: en-US.kl\n  Interface: < USB >", frame(t, s, store))

	assert.True(t, s.HandleKey(input.KeyRight), "left/right on the layout row are swallowed")
	assert.Empty(t, poster.events)

	s.HandleKey(input.KeyDown)
	s.HandleKey(input.KeyRight)
	s.HandleKey(input.KeyLeft)
	assert.Equal(t, []scene.Event{
		scene.InterfaceChangedEvent(settings.InterfaceBLE),
		scene.InterfaceChangedEvent(settings.InterfaceBLE),
	}, poster.events)

	s.HandleKey(input.KeyUp)
	assert.True(t, s.HandleKey(input.KeyOK))
	assert.True(t, store.Snapshot().Config.Choosing)
	assert.Equal(t, "# Layouts\nOK pick layout   Back cancel\n  de-DE.kl\n> en-US.kl", frame(t, s, store))

	s.HandleKey(input.KeyUp)
	s.HandleKey(input.KeyOK)
	assert.Equal(t, scene.LayoutChangedEvent(filepath.Join(layouts, "de-DE.kl")), poster.events[2])
	assert.False(t, store.Snapshot().Config.Choosing)

	assert.False(t, s.HandleKey(input.KeyBack), "back leaves config through the controller")
}

func TestConfigChooserBackCancels(t *testing.T) {
	layouts := t.TempDir()
	touch(t, layouts, "en-US.kl")
	session := &scene.Session{}
	poster := &recorder{}
	s := NewConfigScreen(layouts, session, poster, state.NewStore())
	require.NoError(t, s.Start(context.Background()))
	s.HandleKey(input.KeyOK)

	assert.True(t, s.HandleKey(input.KeyBack))
	assert.False(t, s.choosing)
	assert.Empty(t, poster.events)
}

func TestWorkScreen(t *testing.T) {
	poster := &recorder{}
	store := state.NewStore()
	store.UpdatePrefs(state.PrefsInfo{Layout: "en-US.kl", Interface: "USB"})
	store.UpdateScript(state.ScriptInfo{Name: "demo.txt", State: "running", Line: 1, Total: 4, Progress: 0.25})
	s := NewWorkScreen(poster)

	assert.Equal(t, "# demo.txt\nOK run/pause   Back stop\nrunning   USB / en-US.kl\n[#####...............]  25%\nline 1 of 4", frame(t, s, store))

	assert.True(t, s.HandleKey(input.KeyOK))
	assert.False(t, s.HandleKey(input.KeyBack))
	assert.False(t, s.HandleKey(input.KeyUp))
	assert.Equal(t, []scene.Event{scene.Custom(scene.ToggleScript)}, poster.events)
}

func TestErrorScreen(t *testing.T) {
	store := state.NewStore()
	store.UpdateError(state.ErrorInfo{Reason: string(scene.ReasonInterfaceBusy), Hint: "Release the interface", HelpURL: "https://help.example"})
	s := NewErrorScreen(nil)

	out := frame(t, s, store)

	assert.Equal(t, "# Error\nBack exit\n[image 256x256]\ninterface locked by another consumer\nRelease the interface", out)
	for _, key := range []input.Key{input.KeyOK, input.KeyBack, input.KeyLeft} {
		assert.False(t, s.HandleKey(key))
	}
}

// imageRects records where images are drawn.
type imageRects struct {
	*render.TextRenderer
	rects []image.Rectangle
}

func (d *imageRects) DrawImageInRect(img image.Image, rect image.Rectangle, mode render.ScaleMode) {
	d.rects = append(d.rects, rect)
	d.TextRenderer.DrawImageInRect(img, rect, mode)
}

func TestErrorScreenPlacesCodeInSquare(t *testing.T) {
	store := state.NewStore()
	store.UpdateError(state.ErrorInfo{Reason: "boom", HelpURL: "https://help.example"})
	d := &imageRects{TextRenderer: render.NewTextRenderer(&bytes.Buffer{})}

	NewErrorScreen(nil).Draw(d, store.Snapshot())

	require.Len(t, d.rects, 1)
	rect := d.rects[0]
	assert.Equal(t, rect.Dx(), rect.Dy())
	assert.Positive(t, rect.Dx())
	w, h := d.Size()
	assert.True(t, rect.In(image.Rect(0, 0, w, h)))
}

func TestErrorScreenWithoutHelpURL(t *testing.T) {
	store := state.NewStore()
	store.UpdateError(state.ErrorInfo{Reason: "boom"})

	assert.Equal(t, "# Error\nBack exit\nboom\n", frame(t, NewErrorScreen(nil), store))
}
