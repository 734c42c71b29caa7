package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Prefs holds the user's last-used session settings.
type Prefs struct {
	Subject    string     `json:"subject"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

// Preferences is the injected collaborator for persisted defaults. There is
// no ambient global store; callers choose the implementation.
type Preferences interface {
	Get() (Prefs, bool)
	Set(Prefs) error
}

// MemoryPreferences keeps prefs for the lifetime of the process.
type MemoryPreferences struct {
	mu    sync.Mutex
	prefs Prefs
	set   bool
}

func NewMemoryPreferences() *MemoryPreferences {
	return &MemoryPreferences{}
}

func (p *MemoryPreferences) Get() (Prefs, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.prefs, p.set
}

func (p *MemoryPreferences) Set(prefs Prefs) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prefs = prefs
	p.set = true
	return nil
}

// FilePreferences stores prefs as JSON at a fixed path.
type FilePreferences struct {
	mu   sync.Mutex
	path string
}

func NewFilePreferences(path string) *FilePreferences {
	return &FilePreferences{path: path}
}

func (p *FilePreferences) Get() (Prefs, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		return Prefs{}, false
	}
	var prefs Prefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		return Prefs{}, false
	}
	return prefs, true
}

func (p *FilePreferences) Set(prefs Prefs) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o600); err != nil {
		return fmt.Errorf("writing preferences to %s: %w", p.path, err)
	}
	return nil
}
