// Package picker browses a directory tree rooted at a fixed folder and
// lets the user choose a file with one of a set of extensions.
package picker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rook-computer/keyplayer/internal/state"
)

var ErrOutsideRoot = errors.New("path outside browser root")

// Browser is not safe for concurrent use; it lives on the host loop.
type Browser struct {
	Root       string
	Extensions []string

	dir      string // relative to Root
	entries  []state.Entry
	selected int
	err      error
}

func New(root string, extensions ...string) *Browser {
	return &Browser{Root: filepath.Clean(root), Extensions: extensions}
}

// Open lists the root, or the directory containing start when start is a
// path under the root.
func (b *Browser) Open(start string) {
	b.dir = ""
	if start != "" {
		if rel, err := b.relative(start); err == nil {
			if info, err := os.Stat(start); err == nil && info.IsDir() {
				b.dir = rel
			} else if d := filepath.Dir(rel); d != "." {
				b.dir = d
			}
		}
	}
	b.reload()
	if start != "" {
		b.selectName(filepath.Base(start))
	}
}

func (b *Browser) relative(path string) (string, error) {
	rel, err := filepath.Rel(b.Root, filepath.Clean(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

func (b *Browser) reload() {
	b.entries = nil
	b.selected = 0
	list, err := os.ReadDir(filepath.Join(b.Root, b.dir))
	b.err = err
	if err != nil {
		return
	}
	for _, entry := range list {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if entry.IsDir() {
			b.entries = append(b.entries, state.Entry{Name: name, Dir: true})
			continue
		}
		if b.matches(name) {
			b.entries = append(b.entries, state.Entry{Name: name})
		}
	}
	// Directories first, then files, each alphabetically.
	sort.SliceStable(b.entries, func(i, j int) bool {
		if b.entries[i].Dir != b.entries[j].Dir {
			return b.entries[i].Dir
		}
		return strings.ToLower(b.entries[i].Name) < strings.ToLower(b.entries[j].Name)
	})
}

func (b *Browser) matches(name string) bool {
	if len(b.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range b.Extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}

func (b *Browser) selectName(name string) {
	for i, e := range b.entries {
		if e.Name == name {
			b.selected = i
			return
		}
	}
}

func (b *Browser) Entries() []state.Entry { return b.entries }
func (b *Browser) Selected() int          { return b.selected }
func (b *Browser) Dir() string            { return b.dir }
func (b *Browser) AtRoot() bool           { return b.dir == "" }
func (b *Browser) Err() error             { return b.err }

func (b *Browser) Up() {
	if len(b.entries) == 0 {
		return
	}
	b.selected = (b.selected - 1 + len(b.entries)) % len(b.entries)
}

func (b *Browser) Down() {
	if len(b.entries) == 0 {
		return
	}
	b.selected = (b.selected + 1) % len(b.entries)
}

// Select enters the highlighted directory or returns the full path of the
// highlighted file. ok is false when nothing was chosen.
func (b *Browser) Select() (path string, ok bool) {
	if len(b.entries) == 0 {
		return "", false
	}
	entry := b.entries[b.selected]
	if entry.Dir {
		b.dir = filepath.Join(b.dir, entry.Name)
		b.reload()
		return "", false
	}
	return filepath.Join(b.Root, b.dir, entry.Name), true
}

// Back leaves the current directory. It reports false at the root.
func (b *Browser) Back() bool {
	if b.AtRoot() {
		return false
	}
	left := filepath.Base(b.dir)
	b.dir = filepath.Dir(b.dir)
	if b.dir == "." {
		b.dir = ""
	}
	b.reload()
	b.selectName(left)
	return true
}

// Info renders the browser into the display model.
func (b *Browser) Info(title string) state.BrowserInfo {
	return state.BrowserInfo{
		Title:    title,
		Dir:      b.dir,
		Entries:  b.entries,
		Selected: b.selected,
	}
}
