// Package events implements the unsaved-changes protocol: the contract
// between "a form has unsaved edits" and "the shell asks the user to
// confirm leaving".
//
// Navigation goes through an [Interceptor]. While every form is clean,
// navigation proceeds directly. When a form is dirty, the interceptor
// publishes an [UnsavedChanges] event carrying the requested navigation
// as a Proceed callback; the confirmation dialog subscribed to the bus
// either invokes Proceed (abandoning the edits) or drops the event
// (staying on the page).
package events
