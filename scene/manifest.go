package scene

import (
	"fmt"
	"time"
)

// Entry declares a scene in the build manifest. LoadTime and UnloadTime are
// how long the host pretends to spend streaming the scene in and out.
type Entry struct {
	Name       string        `yaml:"name"`
	LoadTime   time.Duration `yaml:"load_time"`
	UnloadTime time.Duration `yaml:"unload_time"`
}

// Manifest is the list of scenes that exist in the build.
type Manifest struct {
	entries []Entry
	index   map[string]int
}

func NewManifest(entries ...Entry) (*Manifest, error) {
	m := &Manifest{index: map[string]int{}}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("scene: manifest entry without a name")
		}
		if _, dup := m.index[e.Name]; dup {
			return nil, fmt.Errorf("scene: %q declared twice", e.Name)
		}
		if e.LoadTime < 0 || e.UnloadTime < 0 {
			return nil, fmt.Errorf("scene: %q has a negative load time", e.Name)
		}
		m.index[e.Name] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	return m, nil
}

// Contains reports whether name is declared in the build.
func (m *Manifest) Contains(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[name]
	return ok
}

func (m *Manifest) Entry(name string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	i, ok := m.index[name]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		names = append(names, e.Name)
	}
	return names
}
