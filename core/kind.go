package core

// MessageKind enumerates the message type tags the renderer knows how to
// handle. Tags outside this set classify as KindUnknown; the raw tag stays
// on the Message for diagnostics.
type MessageKind string

const (
	KindText             MessageKind = "RichText"
	KindRelationship     MessageKind = "InviteFreeRelationshipChanged/Initialized"
	KindHistoryDisclosed MessageKind = "ThreadActivity/HistoryDisclosedUpdate"
	KindAddMember        MessageKind = "ThreadActivity/AddMember"
	KindTopicUpdate      MessageKind = "ThreadActivity/TopicUpdate"
	KindCall             MessageKind = "Event/Call"
	KindURIObject        MessageKind = "RichText/UriObject"
	KindFile             MessageKind = "RichText/Media_GenericFile"
	KindVideo            MessageKind = "RichText/Media_Video"
	KindAudio            MessageKind = "RichText/Media_AudioMsg"
	KindAlbum            MessageKind = "RichText/Media_Album"
	KindUnknown          MessageKind = ""
)

// KindOf classifies a raw message type tag.
func KindOf(tag string) MessageKind {
	switch k := MessageKind(tag); k {
	case KindText, KindRelationship,
		KindHistoryDisclosed, KindAddMember, KindTopicUpdate,
		KindCall,
		KindURIObject, KindFile, KindVideo, KindAudio,
		KindAlbum:
		return k
	default:
		return KindUnknown
	}
}

// Kind classifies the message's type tag.
func (m *Message) Kind() MessageKind {
	return KindOf(m.Type)
}

// IsMedia reports whether the kind carries a resolvable attachment.
func (k MessageKind) IsMedia() bool {
	switch k {
	case KindURIObject, KindFile, KindVideo, KindAudio:
		return true
	}
	return false
}
