package scene

import (
	"errors"
	"testing"
	"time"
)

func newHost(t *testing.T) *Host {
	t.Helper()
	m, err := NewManifest(
		Entry{Name: "Title"},
		Entry{Name: "Loading"},
		Entry{Name: "Table", LoadTime: 100 * time.Millisecond, UnloadTime: 20 * time.Millisecond},
	)
	if err != nil {
		t.Fatalf("Manifest: %v", err)
	}
	return NewHost(m)
}

func TestManifestRejectsDuplicates(t *testing.T) {
	if _, err := NewManifest(Entry{Name: "A"}, Entry{Name: "A"}); err == nil {
		t.Fatalf("Duplicate scene accepted")
	}
	if _, err := NewManifest(Entry{}); err == nil {
		t.Fatalf("Unnamed scene accepted")
	}
}

func TestOpenMakesSceneActive(t *testing.T) {
	h := newHost(t)
	ref, err := h.Open("Title")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if h.ActiveScene() != ref {
		t.Fatalf("Active scene is %s, want %s", h.ActiveScene(), ref)
	}
	if !h.IsLoaded(ref) {
		t.Fatalf("Opened scene not loaded")
	}
}

func TestDeferredActivationStopsAtLimit(t *testing.T) {
	h := newHost(t)
	var instantiated []string
	h.OnInstantiate(func(ref Ref) any {
		instantiated = append(instantiated, ref.Name)
		return ref.Name
	})
	op, err := h.LoadAsync("Table", false)
	if err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	if op.Progress() != 0 {
		t.Fatalf("Progress before first update is %v", op.Progress())
	}
	h.Update(50 * time.Millisecond)
	if p := op.Progress(); p <= 0 || p >= progressLimit {
		t.Fatalf("Halfway progress is %v", p)
	}
	for i := 0; i < 10; i++ {
		h.Update(50 * time.Millisecond)
	}
	if op.Progress() != progressLimit || op.Done() {
		t.Fatalf("Deferred load should hold at %v, got %v done=%v", progressLimit, op.Progress(), op.Done())
	}
	if len(instantiated) != 0 {
		t.Fatalf("Scene instantiated before activation")
	}
	completed := false
	op.OnComplete(func(*Operation) { completed = true })
	op.AllowActivation()
	h.Update(time.Millisecond)
	if !op.Done() || op.Progress() != 1 || !completed {
		t.Fatalf("Load did not complete after activation: %v %v %v", op.Done(), op.Progress(), completed)
	}
	sc, ok := h.Scene("Table")
	if !ok || sc.Content != "Table" {
		t.Fatalf("Table content missing")
	}
}

func TestUnload(t *testing.T) {
	h := newHost(t)
	title, _ := h.Open("Title")
	table, _ := h.Open("Table")
	op, err := h.UnloadAsync(table)
	if err != nil {
		t.Fatalf("UnloadAsync: %v", err)
	}
	if h.IsLoaded(table) {
		t.Fatalf("Scene still loaded after unload started")
	}
	if h.ActiveScene() != title {
		t.Fatalf("Active scene should fall back to Title, got %s", h.ActiveScene())
	}
	h.Update(10 * time.Millisecond)
	if op.Done() {
		t.Fatalf("Unload finished too early")
	}
	h.Update(10 * time.Millisecond)
	if !op.Done() || op.Progress() != 1 {
		t.Fatalf("Unload not done: %v", op.Progress())
	}
	if _, err := h.UnloadAsync(table); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("Second unload error = %v", err)
	}
}

func TestUnknownScene(t *testing.T) {
	h := newHost(t)
	if _, err := h.LoadAsync("Nope", true); !errors.Is(err, ErrUnknownScene) {
		t.Fatalf("Expected ErrUnknownScene, got %v", err)
	}
}
