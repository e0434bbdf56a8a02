package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotIsDetachedFromCallerSlices(t *testing.T) {
	store := NewStore()
	entries := []Entry{{Name: "a.txt"}, {Name: "b", Dir: true}}

	store.UpdateBrowser(BrowserInfo{Title: "Scripts", Entries: entries, Selected: 1})
	entries[0].Name = "changed"

	snap := store.Snapshot()
	assert.Equal(t, "a.txt", snap.Browser.Entries[0].Name)
	assert.Equal(t, 1, snap.Browser.Selected)
}

func TestSettersUpdateIndependentSections(t *testing.T) {
	store := NewStore()

	store.SetScene("work")
	store.UpdateScript(ScriptInfo{Name: "demo.txt", State: "running", Line: 1, Total: 4, Progress: 0.25})
	store.UpdatePrefs(PrefsInfo{Layout: "en-US.kl", Interface: "USB"})
	store.UpdateError(ErrorInfo{Reason: "busy"})
	store.SetNotice("hello")

	snap := store.Snapshot()
	assert.Equal(t, "work", snap.Scene)
	assert.Equal(t, 0.25, snap.Script.Progress)
	assert.Equal(t, "USB", snap.Prefs.Interface)
	assert.Equal(t, "busy", snap.Error.Reason)
	assert.Equal(t, "hello", snap.Notice)
}

func TestConcurrentAccess(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			store.UpdateScript(ScriptInfo{Line: i})
		}(i)
		go func() {
			defer wg.Done()
			_ = store.Snapshot()
		}()
	}
	wg.Wait()
}
