package scene

import "time"

// progressLimit is where load progress stops while activation is deferred.
const progressLimit = 0.9

type opKind int8

const (
	opLoad opKind = iota
	opUnload
)

// Operation is an asynchronous load or unload running on the host. Its
// progress only moves when the host is updated.
type Operation struct {
	kind            opKind
	scene           *Scene
	duration        time.Duration
	elapsed         time.Duration
	allowActivation bool
	progress        float64
	done            bool
	completed       []func(*Operation)
}

func (o *Operation) Progress() float64 { return o.progress }

func (o *Operation) Done() bool { return o.done }

// Scene returns the handle of the scene being loaded or unloaded.
func (o *Operation) Scene() Ref { return o.scene.Ref }

// AllowActivation lets a deferred load finish on the next host update.
func (o *Operation) AllowActivation() { o.allowActivation = true }

func (o *Operation) ActivationAllowed() bool { return o.allowActivation }

// OnComplete registers f to run when the operation finishes. It runs right
// away when the operation is already done.
func (o *Operation) OnComplete(f func(*Operation)) {
	if o.done {
		f(o)
		return
	}
	o.completed = append(o.completed, f)
}

func (o *Operation) fraction() float64 {
	if o.duration <= 0 {
		return 1
	}
	f := float64(o.elapsed) / float64(o.duration)
	if f > 1 {
		f = 1
	}
	return f
}

// step advances the operation and reports whether it finished this update.
func (o *Operation) step(dt time.Duration) bool {
	if o.done {
		return false
	}
	o.elapsed += dt
	switch o.kind {
	case opLoad:
		p := progressLimit * o.fraction()
		if p > o.progress {
			o.progress = p
		}
		if o.progress >= progressLimit && o.allowActivation {
			o.progress = 1
			o.done = true
		}
	case opUnload:
		o.progress = o.fraction()
		if o.progress >= 1 {
			o.done = true
		}
	}
	return o.done
}

func (o *Operation) finish() {
	callbacks := o.completed
	o.completed = nil
	for _, f := range callbacks {
		f(o)
	}
}
