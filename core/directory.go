package core

import "strings"

// Directory maps a bare user identifier (service prefix stripped) to a
// display name.
type Directory map[string]string

// SplitUserID strips the service prefix from a composite user id like
// "8:live:alice", returning "live:alice". Ids without a prefix pass through.
func SplitUserID(s string) string {
	if _, id, ok := strings.Cut(s, ":"); ok {
		return id
	}
	return s
}

// BuildDirectory derives the user directory from every message of every
// conversation. Each message list is stored newest-first, so the reverse
// scan walks forward in time and insert-if-absent keeps the most recent
// display-name hint per user. Overrides are applied last and always win.
func BuildDirectory(conversations []Conversation, overrides map[string]string) Directory {
	dir := make(Directory)
	for _, chat := range conversations {
		for i := len(chat.Messages) - 1; i >= 0; i-- {
			msg := &chat.Messages[i]
			if msg.DisplayName == "" {
				continue
			}
			id := SplitUserID(msg.From)
			if _, ok := dir[id]; !ok {
				dir[id] = msg.DisplayName
			}
		}
	}
	for id, name := range overrides {
		dir[id] = name
	}
	return dir
}

// Resolve returns the display name for a composite user id, falling back to
// the bare id so a lookup never comes back empty.
func (d Directory) Resolve(composite string) string {
	id := SplitUserID(composite)
	if name, ok := d[id]; ok {
		return name
	}
	return id
}
