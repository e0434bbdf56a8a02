package state

import "sync"

// Entry is one row of a file browser listing.
type Entry struct {
	Name string `json:"name"`
	Dir  bool   `json:"dir"`
}

type BrowserInfo struct {
	Title    string  `json:"title"`
	Dir      string  `json:"dir"` // path relative to the browser root, "" at the root
	Entries  []Entry `json:"entries"`
	Selected int     `json:"selected"`
}

type ScriptInfo struct {
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Line     int     `json:"line"`
	Total    int     `json:"total"`
	Progress float64 `json:"progress"`
	Err      string  `json:"error,omitempty"`
}

type PrefsInfo struct {
	Layout    string `json:"layout"`
	Interface string `json:"interface"`
}

type ConfigInfo struct {
	Selected int  `json:"selected"`
	Choosing bool `json:"choosing"` // layout browser open
}

type ErrorInfo struct {
	Reason  string `json:"reason,omitempty"`
	Hint    string `json:"hint,omitempty"`
	HelpURL string `json:"help_url,omitempty"`
}

// State is everything the active surface needs to draw a frame.
type State struct {
	Scene   string      `json:"scene"`
	Browser BrowserInfo `json:"browser"`
	Script  ScriptInfo  `json:"script"`
	Prefs   PrefsInfo   `json:"prefs"`
	Config  ConfigInfo  `json:"config"`
	Error   ErrorInfo   `json:"error"`
	Notice  string      `json:"notice,omitempty"`
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

// Snapshot returns a copy safe to read without the lock; slices are never
// mutated in place by the setters.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.state
}

func (store *Store) SetScene(name string) {
	store.mu.Lock()
	store.state.Scene = name
	store.mu.Unlock()
}

func (store *Store) UpdateBrowser(browser BrowserInfo) {
	browser.Entries = append([]Entry(nil), browser.Entries...)
	store.mu.Lock()
	store.state.Browser = browser
	store.mu.Unlock()
}

func (store *Store) UpdateScript(script ScriptInfo) {
	store.mu.Lock()
	store.state.Script = script
	store.mu.Unlock()
}

func (store *Store) UpdatePrefs(prefs PrefsInfo) {
	store.mu.Lock()
	store.state.Prefs = prefs
	store.mu.Unlock()
}

func (store *Store) UpdateConfig(config ConfigInfo) {
	store.mu.Lock()
	store.state.Config = config
	store.mu.Unlock()
}

func (store *Store) UpdateError(info ErrorInfo) {
	store.mu.Lock()
	store.state.Error = info
	store.mu.Unlock()
}

func (store *Store) SetNotice(notice string) {
	store.mu.Lock()
	store.state.Notice = notice
	store.mu.Unlock()
}
