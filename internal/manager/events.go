package manager

import "github.com/jmercier/habitflow/internal/habit"

// EventType tags a state change published by the manager.
type EventType string

const (
	EventAdd        EventType = "add"
	EventUpdate     EventType = "update"
	EventDelete     EventType = "delete"
	EventArchive    EventType = "archive"
	EventUnarchive  EventType = "unarchive"
	EventToggle     EventType = "toggle"
	EventComplete   EventType = "complete"
	EventUncomplete EventType = "uncomplete"
	EventLoad       EventType = "load"
	EventSave       EventType = "save"
	EventReset      EventType = "reset"
)

// Event carries the payload for one state change. Habit is a clone of
// the affected habit for habit-scoped events and nil for load, save
// and reset. Day and Completed are only meaningful for completion
// events.
type Event struct {
	Type      EventType
	Habit     *habit.Habit
	Day       string
	Completed bool
}

// Listener receives events synchronously, in subscription order. A
// panicking listener is recovered and does not block the others.
type Listener func(Event)
