// Package skype reads a Skype conversation export archive: the structured
// messages.json document plus the media members referenced by it.
package skype

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/amorgun/skype-to-tg/core"
)

// ErrArchiveFormat is returned when the export archive is missing required
// structure. It aborts the whole operation.
var ErrArchiveFormat = errors.New("invalid skype export archive")

const (
	messagesMember = "messages.json"
	mediaPrefix    = "media/"
	metaSuffix     = ".json"
)

// Archive is a fully scanned export. The underlying tar handle is closed by
// the time Open returns; CopyMedia re-opens it for extraction.
type Archive struct {
	Path          string
	Conversations []core.Conversation
	Files         core.FileIndex // attachment id → media member filename
	Members       []string       // regular member names in archive order
}

// Raw wire types mirroring the messages.json document.

type rawExport struct {
	UserID        string            `json:"userId"`
	Conversations []rawConversation `json:"conversations"`
}

type rawConversation struct {
	ID          string        `json:"id"`
	DisplayName string        `json:"displayName"`
	Properties  rawProperties `json:"properties"`
	MessageList []rawMessage  `json:"MessageList"`
}

type rawProperties struct {
	LastIMReceivedTime string `json:"lastimreceivedtime"`
}

type rawMessage struct {
	ID                  string `json:"id"`
	Type                string `json:"messagetype"`
	Content             string `json:"content"`
	From                string `json:"from"`
	OriginalArrivalTime string `json:"originalarrivaltime"`
	DisplayName         string `json:"displayName"`
}

// Open scans the export archive once, decoding the conversation document
// and recording member names, then derives the attachment index.
func Open(archivePath string) (*Archive, error) {
	tr, closeTar, err := openTar(archivePath)
	if err != nil {
		return nil, err
	}
	defer closeTar()

	var doc *rawExport
	var members []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive %s: %w", archivePath, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := path.Clean(hdr.Name)
		members = append(members, name)
		if name == messagesMember {
			doc = &rawExport{}
			if err := json.NewDecoder(tr).Decode(doc); err != nil {
				return nil, fmt.Errorf("%w: decode %s: %v", ErrArchiveFormat, messagesMember, err)
			}
		}
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: no %s member", ErrArchiveFormat, messagesMember)
	}

	a := &Archive{
		Path:    archivePath,
		Files:   buildFileIndex(members),
		Members: members,
	}
	for idx, c := range doc.Conversations {
		a.Conversations = append(a.Conversations, mapConversation(idx, c))
	}
	log.Debug("opened skype export",
		"path", archivePath,
		"chats", len(a.Conversations),
		"attachments", len(a.Files))
	return a, nil
}

// CopyMedia streams every wanted media payload out of the archive, in member
// order. emit opens the destination for one filename. A wanted filename
// that is absent from the archive is a structural error: the caller promised
// downstream consumers a self-consistent output.
func (a *Archive) CopyMedia(wanted []string, emit func(name string) (io.Writer, error)) error {
	want := make(map[string]bool, len(wanted))
	for _, name := range wanted {
		want[name] = true
	}
	if len(want) == 0 {
		return nil
	}

	tr, closeTar, err := openTar(a.Path)
	if err != nil {
		return err
	}
	defer closeTar()

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read archive %s: %w", a.Path, err)
		}
		name := path.Clean(hdr.Name)
		if !strings.HasPrefix(name, mediaPrefix) {
			continue
		}
		base := path.Base(name)
		if !want[base] {
			continue
		}
		w, err := emit(base)
		if err != nil {
			return err
		}
		if _, err := io.Copy(w, tr); err != nil {
			return fmt.Errorf("extract %s: %w", name, err)
		}
		delete(want, base)
	}

	for name := range want {
		return fmt.Errorf("%w: media member %q referenced but not present", ErrArchiveFormat, name)
	}
	return nil
}

// buildFileIndex derives the attachment id → filename index in two passes.
// Metadata and payload members are not guaranteed to be co-located or
// ordered, so the passes stay separate: pass 1 tables every payload member
// by its derived key, pass 2 walks the metadata members and resolves each
// against that table.
func buildFileIndex(members []string) core.FileIndex {
	payloads := make(map[string]string)
	for _, name := range members {
		if !strings.HasPrefix(name, mediaPrefix) || strings.HasSuffix(name, metaSuffix) {
			continue
		}
		if key, ok := stemKey(name); ok {
			payloads[key] = path.Base(name)
		}
	}

	index := make(core.FileIndex)
	for _, name := range members {
		if !strings.HasPrefix(name, mediaPrefix) || !strings.HasSuffix(name, metaSuffix) {
			continue
		}
		id, ok := stemKey(name)
		if !ok {
			continue
		}
		filename, ok := payloads[id]
		if !ok {
			// Non-fatal: that one attachment falls back to its inline name.
			log.Warn("media metadata has no companion payload", "member", name)
			continue
		}
		index[id] = filename
	}
	return index
}

// stemKey derives the attachment id from a media member name: the filename
// stem (last extension dropped) minus its fixed 2-character ordinal suffix.
// "media/0-weu-d1-abc.1.jpeg" and "media/0-weu-d1-abc.1.json" both key as
// "0-weu-d1-abc".
func stemKey(name string) (string, bool) {
	base := path.Base(name)
	stem := strings.TrimSuffix(base, path.Ext(base))
	if len(stem) <= 2 {
		return "", false
	}
	return stem[:len(stem)-2], true
}

func mapConversation(idx int, c rawConversation) core.Conversation {
	conv := core.Conversation{
		Index:           idx,
		ID:              c.ID,
		DisplayName:     c.DisplayName,
		LastMessageTime: c.Properties.LastIMReceivedTime,
	}
	for _, m := range c.MessageList {
		conv.Messages = append(conv.Messages, core.Message{
			ID:          m.ID,
			Type:        m.Type,
			Content:     m.Content,
			From:        m.From,
			ArrivalTime: m.OriginalArrivalTime,
			DisplayName: m.DisplayName,
		})
	}
	return conv
}

// openTar opens the archive for one sequential pass, transparently
// decompressing gzip input.
func openTar(archivePath string) (*tar.Reader, func() error, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open archive: %w", err)
	}

	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrArchiveFormat, err)
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("%w: %v", ErrArchiveFormat, err)
		}
		closeAll := func() error {
			gz.Close()
			return f.Close()
		}
		return tar.NewReader(gz), closeAll, nil
	}
	return tar.NewReader(br), f.Close, nil
}
