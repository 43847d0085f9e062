// Package render turns a single raw message record into a transcript line.
// It is a pure dispatch over the message kind; anything it cannot handle
// degrades to a logged diagnostic, never an error.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/amorgun/skype-to-tg/core"
)

// Message renders one message against the user directory and the attachment
// index. System events carry no sender; unknown and album-marker messages
// come back with Skip set and produce no transcript line.
func Message(msg *core.Message, dir core.Directory, files core.FileIndex) core.Line {
	frag, err := parseFragment(msg.Content)
	if err != nil {
		log.Warn("malformed message markup", "message", msg.ID, "type", msg.Type, "err", err)
		frag = nil
	}
	isEdit := frag != nil && frag.find("e_m") != nil

	switch msg.Kind() {
	case core.KindText, core.KindRelationship:
		return core.Line{
			Sender:  dir.Resolve(msg.From),
			Content: plainText(msg.Content),
			IsEdit:  isEdit,
		}

	case core.KindHistoryDisclosed:
		return eventLine(frag, msg, dir, func(initiator string) string {
			return initiator + " created the chat"
		})

	case core.KindAddMember:
		return eventLine(frag, msg, dir, func(initiator string) string {
			var names []string
			for _, t := range frag.findAll("target") {
				names = append(names, dir.Resolve(strings.TrimSpace(t.text)))
			}
			return initiator + " added " + strings.Join(names, ", ")
		})

	case core.KindTopicUpdate:
		return eventLine(frag, msg, dir, func(initiator string) string {
			value := ""
			if v := frag.find("value"); v != nil {
				value = v.text
			}
			return fmt.Sprintf("%s set chat name to %q", initiator, value)
		})

	case core.KindCall:
		content := "Call"
		if frag != nil {
			if pl := frag.find("partlist"); pl != nil && pl.attr("type") != "" {
				content = "Call " + pl.attr("type")
			}
		}
		return core.Line{Content: content, IsEdit: isEdit}

	case core.KindURIObject, core.KindFile, core.KindVideo, core.KindAudio:
		return mediaLine(frag, msg, dir, files, isEdit)

	case core.KindAlbum:
		// Constituent media arrive as their own records; the marker itself
		// renders nothing.
		return core.Line{Skip: true}

	default:
		log.Warn("unrecognized message type", "type", msg.Type, "message", msg.ID)
		return core.Line{Skip: true}
	}
}

// eventLine builds a senderless system line from an event payload's
// initiator field. Events with an unreadable payload render nothing; they
// are diagnostics, not content.
func eventLine(frag *element, msg *core.Message, dir core.Directory, format func(initiator string) string) core.Line {
	if frag == nil {
		log.Warn("event payload unreadable", "type", msg.Type, "message", msg.ID)
		return core.Line{Skip: true}
	}
	init := frag.find("initiator")
	if init == nil {
		log.Warn("event payload has no initiator", "type", msg.Type, "message", msg.ID)
		return core.Line{Skip: true}
	}
	return core.Line{Content: format(dir.Resolve(strings.TrimSpace(init.text)))}
}

// mediaLine resolves a media message's attachment reference. An index hit
// contributes the stored filename to the export set; a miss falls back to
// the payload's inline original name, and as a last resort the raw id, so
// resolution never silently fails.
func mediaLine(frag *element, msg *core.Message, dir core.Directory, files core.FileIndex, isEdit bool) core.Line {
	line := core.Line{Sender: dir.Resolve(msg.From), IsEdit: isEdit}

	var uriObj *element
	if frag != nil {
		uriObj = frag.find("URIObject")
	}
	if uriObj == nil {
		line.Content = plainText(msg.Content)
		return line
	}

	docID := uriObj.attr("doc_id")
	if docID == "" {
		uri := uriObj.attr("uri")
		docID = uri[strings.LastIndex(uri, "/")+1:]
	}

	if filename, ok := files[docID]; ok {
		line.Content = filename + " (file attached)"
		line.Files = []string{filename}
		return line
	}

	// The payload cannot be recovered from the archive; keep the name so
	// the transcript still records what was sent.
	log.Warn("attachment not found in archive index", "id", docID, "message", msg.ID)
	name := docID
	if orig := frag.find("OriginalName"); orig != nil && orig.attr("v") != "" {
		name = orig.attr("v")
	}
	line.Content = name + " (file attached)"
	return line
}

// plainText strips markup from a payload, dropping edit markers entirely.
// A payload the decoder cannot walk passes through as-is.
func plainText(markup string) string {
	text, err := stripTags(markup, "e_m")
	if err != nil {
		return markup
	}
	return text
}
