package codable

import "github.com/reoring/codable/value"

// Presence is the state of a node addressed by a path.
type Presence uint8

const (
	PresenceAbsent  Presence = iota // no node at the path
	PresenceNull                    // node exists and is null
	PresenceValue                   // node exists and holds a value
)

// Exists reports whether a node exists, null or not.
func (p Presence) Exists() bool { return p != PresenceAbsent }

// IsPresent reports whether the node holds a non-null value.
func (p Presence) IsPresent() bool { return p == PresenceValue }

func (p Presence) String() string {
	switch p {
	case PresenceNull:
		return "null"
	case PresenceValue:
		return "present"
	}
	return "absent"
}

func presenceOf(v any, exists bool) Presence {
	switch {
	case !exists:
		return PresenceAbsent
	case value.KindOf(v) == value.Null:
		return PresenceNull
	}
	return PresenceValue
}
