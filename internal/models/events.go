package models

import "time"

// EventKind names what the coordinator did for a key
type EventKind string

const (
	EventHit        EventKind = "hit"
	EventMiss       EventKind = "miss"
	EventSet        EventKind = "set"
	EventInvalidate EventKind = "invalidate"
	EventBypass     EventKind = "bypass"
	EventError      EventKind = "error"
)

// Event is emitted once per coordinator operation
type Event struct {
	Kind     EventKind
	Key      string
	Store    string // Store kind: local, remote or none
	Policy   CachePolicy
	Err      error         // Set for EventError only
	Stage    string        // Where an error happened: get, decode, encode, set, refresh, remove
	Duration time.Duration // Store round-trip, zero for bypass
}
