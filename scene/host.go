package scene

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrUnknownScene = errors.New("scene: not in build manifest")
	ErrNotLoaded    = errors.New("scene: not loaded")
)

// Ref identifies one loaded instance of a scene. Loading the same scene
// twice yields two different refs.
type Ref struct {
	ID   ulid.ULID
	Name string
}

func (r Ref) IsZero() bool { return r.ID == (ulid.ULID{}) }

func (r Ref) String() string {
	if r.IsZero() {
		return "<none>"
	}
	return fmt.Sprintf("%s#%s", r.Name, r.ID)
}

// Scene is a scene instance known to the host.
type Scene struct {
	Ref     Ref
	Content any
	loaded  bool
}

func (s *Scene) Loaded() bool { return s.loaded }

// Factory builds the content of a scene when it gets activated.
type Factory func(ref Ref) any

// Host loads and unloads scenes additively. It is driven by Update and is
// not safe for concurrent use.
type Host struct {
	Logger *log.Logger

	manifest    *Manifest
	scenes      []*Scene
	active      *Scene
	ops         []*Operation
	instantiate Factory
}

func NewHost(manifest *Manifest) *Host {
	return &Host{manifest: manifest, Logger: log.Default()}
}

func (h *Host) Manifest() *Manifest { return h.manifest }

// OnInstantiate sets the factory used to build scene content on activation.
func (h *Host) OnInstantiate(f Factory) { h.instantiate = f }

// Open loads a scene synchronously and makes it active. It is meant for the
// very first scene of the game.
func (h *Host) Open(name string) (Ref, error) {
	op, err := h.LoadAsync(name, true)
	if err != nil {
		return Ref{}, err
	}
	for !op.Done() {
		h.Update(time.Hour)
	}
	h.SetActive(name)
	return op.Scene(), nil
}

// LoadAsync starts an additive load. When allowActivation is false the
// operation stops at 0.9 progress until Operation.AllowActivation is called.
func (h *Host) LoadAsync(name string, allowActivation bool) (*Operation, error) {
	entry, ok := h.manifest.Entry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	sc := &Scene{Ref: Ref{ID: ulid.Make(), Name: name}}
	op := &Operation{
		kind:            opLoad,
		scene:           sc,
		duration:        entry.LoadTime,
		allowActivation: allowActivation,
	}
	h.ops = append(h.ops, op)
	return op, nil
}

// UnloadAsync starts unloading a loaded scene. The scene stops counting as
// loaded immediately; its content is dropped when the operation completes.
func (h *Host) UnloadAsync(ref Ref) (*Operation, error) {
	idx := h.indexOf(ref)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, ref)
	}
	sc := h.scenes[idx]
	h.scenes = append(h.scenes[:idx], h.scenes[idx+1:]...)
	sc.loaded = false
	if h.active == sc {
		h.active = nil
		if n := len(h.scenes); n > 0 {
			h.active = h.scenes[n-1]
		}
	}
	entry, _ := h.manifest.Entry(sc.Ref.Name)
	op := &Operation{kind: opUnload, scene: sc, duration: entry.UnloadTime}
	h.ops = append(h.ops, op)
	return op, nil
}

// UnloadByName unloads the first loaded instance of name.
func (h *Host) UnloadByName(name string) (*Operation, error) {
	sc, ok := h.Scene(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotLoaded, name)
	}
	return h.UnloadAsync(sc.Ref)
}

// Update advances every pending operation by dt.
func (h *Host) Update(dt time.Duration) {
	if len(h.ops) == 0 {
		return
	}
	pending := h.ops
	h.ops = nil
	var finished []*Operation
	for _, op := range pending {
		if op.step(dt) {
			finished = append(finished, op)
		} else {
			h.ops = append(h.ops, op)
		}
	}
	for _, op := range finished {
		switch op.kind {
		case opLoad:
			op.scene.loaded = true
			h.scenes = append(h.scenes, op.scene)
			if h.active == nil {
				h.active = op.scene
			}
			if h.instantiate != nil {
				op.scene.Content = h.instantiate(op.scene.Ref)
			}
		case opUnload:
			op.scene.Content = nil
		}
		op.finish()
	}
}

// Pending reports how many operations are still running.
func (h *Host) Pending() int { return len(h.ops) }

func (h *Host) ActiveScene() Ref {
	if h.active == nil {
		return Ref{}
	}
	return h.active.Ref
}

// SetActive marks the first loaded instance of name as the active scene.
func (h *Host) SetActive(name string) bool {
	sc, ok := h.Scene(name)
	if !ok {
		h.Logger.Printf("scene: cannot activate %q, it is not loaded", name)
		return false
	}
	h.active = sc
	return true
}

// LoadedScenes returns the loaded scenes in load order.
func (h *Host) LoadedScenes() []Ref {
	refs := make([]Ref, 0, len(h.scenes))
	for _, sc := range h.scenes {
		refs = append(refs, sc.Ref)
	}
	return refs
}

// Scenes returns the loaded scene instances in load order.
func (h *Host) Scenes() []*Scene {
	return append([]*Scene(nil), h.scenes...)
}

func (h *Host) IsLoaded(ref Ref) bool { return h.indexOf(ref) >= 0 }

func (h *Host) Scene(name string) (*Scene, bool) {
	for _, sc := range h.scenes {
		if sc.Ref.Name == name {
			return sc, true
		}
	}
	return nil, false
}

func (h *Host) indexOf(ref Ref) int {
	if ref.IsZero() {
		return -1
	}
	for i, sc := range h.scenes {
		if sc.Ref.ID == ref.ID {
			return i
		}
	}
	return -1
}
