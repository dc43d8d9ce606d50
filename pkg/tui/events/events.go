// Package events defines the typed messages flowing between the UI's data
// sources and the Bubble Tea update loop. Store callbacks and identity
// watches run on their own goroutines; everything they learn crosses into
// the UI as one of these messages.
package events

import (
	"tableflip.dev/sphere/pkg/identity"
	"tableflip.dev/sphere/pkg/live"
	"tableflip.dev/sphere/pkg/nav"
)

// ScreenChangedMsg is emitted when the navigation machine commits a new
// screen reference.
type ScreenChangedMsg struct {
	Prev nav.Ref
	Next nav.Ref
}

// StatusChangedMsg is emitted when the identity watch reports a new
// authentication status.
type StatusChangedMsg struct {
	Status identity.Status
}

// RecordsMsg carries one normalized batch from a live channel. Key tells
// the receiver which subscription produced it.
type RecordsMsg struct {
	Key     live.Key
	Records []live.Record
}

// LiveErrorMsg is emitted when a live channel faults. The channel is
// already closed; reopening is the receiver's decision.
type LiveErrorMsg struct {
	Key live.Key
	Err error
}
