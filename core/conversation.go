// Package core defines the normalized conversation model — the
// representation of a Skype export that the renderer and exporter consume.
package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimestampFormat is returned when a message arrival time matches neither
// accepted layout. Chronological ordering cannot be guaranteed past this
// point, so the exporter treats it as fatal.
var ErrTimestampFormat = errors.New("unrecognized timestamp format")

// Conversation is one chat thread from the export document.
type Conversation struct {
	Index           int    // position in the export's chat list
	ID              string // opaque chat id
	DisplayName     string // may be blank for non-user-facing threads
	LastMessageTime string // properties.lastimreceivedtime, may be empty
	Messages        []Message
}

// Message is a single chat entry. Messages arrive newest-first in the
// export; ArrivalTime stays a raw string so that listing never depends on
// every timestamp in the archive being well-formed.
type Message struct {
	ID          string
	Type        string // raw message type tag, e.g. "RichText"
	Content     string // markup payload; schema differs per type
	From        string // composite sender id, "<service>:<identifier>"
	ArrivalTime string
	DisplayName string // inline display-name hint, may be empty
}

// ChatSummary is one row of the chat listing.
type ChatSummary struct {
	Index           int
	ID              string
	DisplayName     string
	NumMessages     int
	LastMessageTime string // empty means unknown
}

// Line is a rendered message: the renderer produces one, the exporter
// consumes it immediately.
type Line struct {
	Sender  string   // resolved display name; empty for system lines
	Content string
	Files   []string // referenced attachment filenames
	IsEdit  bool     // an edit marker was present in the payload
	Skip    bool     // produce no transcript line at all
}

// FileIndex maps an attachment id to the archive member filename that
// stores its payload.
type FileIndex map[string]string

// Arrival timestamps come in two shapes, with and without fractional
// seconds, always UTC with a literal Z suffix.
var arrivalLayouts = []string{
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05Z",
}

// ParseArrivalTime parses a message arrival timestamp.
func ParseArrivalTime(s string) (time.Time, error) {
	for _, layout := range arrivalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrTimestampFormat, s)
}
