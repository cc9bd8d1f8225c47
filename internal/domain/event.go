package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies a security event. The wire format keeps it an open
// string; only the four constants below are ever produced by the classifier.
type EventType string

const (
	EventStranger      EventType = "stranger"
	EventFamily        EventType = "family"
	EventPackageStolen EventType = "package_stolen"
	EventUnknown       EventType = "unknown"
)

// Event is an immutable security event. ID and Timestamp are assigned by the
// repository at insert; there is no update or delete operation.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      EventType `json:"type"`
	ImagePath string    `json:"image_path"`
	Timestamp time.Time `json:"timestamp"`
}

// EventDraft is an event that has not been persisted yet: the classifier's
// output and the repository's input.
type EventDraft struct {
	Type      EventType
	ImagePath string
}
