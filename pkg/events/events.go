package events

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
)

// topicUnsavedChanges carries the unsaved-changes protocol between
// navigation interception and the confirmation dialog.
const topicUnsavedChanges = "navigation:unsaved-changes"

// UnsavedChanges asks the user to confirm leaving a form with unsaved
// edits. Proceed performs the navigation the user originally requested;
// discarding the event cancels it.
type UnsavedChanges struct {
	Proceed func()
	Reason  string
}

// Bus is the in-page event bus.
type Bus struct {
	bus evbus.Bus
}

// NewBus creates an event bus.
func NewBus() *Bus {
	return &Bus{bus: evbus.New()}
}

// PublishUnsavedChanges dispatches the event to all subscribers
// synchronously.
func (b *Bus) PublishUnsavedChanges(e UnsavedChanges) {
	b.bus.Publish(topicUnsavedChanges, e)
}

// SubscribeUnsavedChanges registers a handler (the confirmation
// dialog). Returns an unsubscribe function for teardown.
func (b *Bus) SubscribeUnsavedChanges(fn func(UnsavedChanges)) (func(), error) {
	if err := b.bus.Subscribe(topicUnsavedChanges, fn); err != nil {
		return nil, err
	}
	return func() {
		_ = b.bus.Unsubscribe(topicUnsavedChanges, fn)
	}, nil
}

// Interceptor tracks forms with unsaved edits and gates navigation on
// them. Clean navigation proceeds directly; dirty navigation publishes
// an UnsavedChanges event carrying the navigation as its Proceed
// callback, leaving the decision to the user.
type Interceptor struct {
	bus   *Bus
	dirty map[string]bool
	mu    sync.Mutex
}

// NewInterceptor creates an interceptor publishing on the given bus.
func NewInterceptor(bus *Bus) *Interceptor {
	return &Interceptor{
		bus:   bus,
		dirty: make(map[string]bool),
	}
}

// MarkDirty records that the form has unsaved edits.
func (i *Interceptor) MarkDirty(formID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.dirty[formID] = true
}

// MarkClean records that the form was saved or discarded.
func (i *Interceptor) MarkClean(formID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.dirty, formID)
}

// Dirty reports whether any form has unsaved edits.
func (i *Interceptor) Dirty() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.dirty) > 0
}

// Navigate runs the navigation immediately when no form is dirty.
// Otherwise it publishes an UnsavedChanges event whose Proceed clears
// the dirty set and then navigates, so confirming the dialog abandons
// the edits.
func (i *Interceptor) Navigate(reason string, navigate func()) {
	if !i.Dirty() {
		navigate()
		return
	}

	i.bus.PublishUnsavedChanges(UnsavedChanges{
		Reason: reason,
		Proceed: func() {
			i.mu.Lock()
			i.dirty = make(map[string]bool)
			i.mu.Unlock()
			navigate()
		},
	})
}
