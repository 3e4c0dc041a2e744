package model

import "slices"

type Status string

const (
	StatusPending    Status = "pending"
	StatusSearching  Status = "searching"
	StatusOffered    Status = "offered"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusSearching, StatusOffered, StatusCancelled},
	StatusSearching:  {StatusSearching, StatusOffered, StatusAccepted, StatusCancelled},
	StatusOffered:    {StatusSearching, StatusOffered, StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// directTargets are the statuses a caller may request without going through offers.
var directTargets = []Status{StatusSearching, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) String() string {
	return string(s)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(transitions[s], next)
}

// DirectlySettable reports whether s may be requested through a plain status update.
func (s Status) DirectlySettable() bool {
	return slices.Contains(directTargets, s)
}

// Offerable reports whether new offers may still be made for a booking in s.
func (s Status) Offerable() bool {
	return s == StatusPending || s == StatusSearching || s == StatusOffered
}

// Active reports whether a mechanic is working the booking.
func (s Status) Active() bool {
	return s == StatusAccepted || s == StatusInProgress
}
