// Package export drives chat discovery and conversion: it renders one
// chat's messages in chronological order and writes the transcript plus the
// referenced media into a Telegram-importable zip archive.
package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amorgun/skype-to-tg/core"
	"github.com/amorgun/skype-to-tg/render"
	"github.com/amorgun/skype-to-tg/skype"
)

// ErrChatNotFound is returned for a chat index outside the archive's chat
// list. It is reported before any output is created.
var ErrChatNotFound = errors.New("chat not found")

// transcriptPrefix names the transcript member the way WhatsApp exports do;
// Telegram's history import recognizes archives by it.
const transcriptPrefix = "WhatsApp Chat with "

// ListChats returns a summary per user-facing chat, in archive order.
// Chats with no messages or a blank display name are not user-facing
// conversations and are excluded.
func ListChats(a *skype.Archive) []core.ChatSummary {
	var chats []core.ChatSummary
	for _, c := range a.Conversations {
		if len(c.Messages) == 0 || strings.TrimSpace(c.DisplayName) == "" {
			continue
		}
		chats = append(chats, core.ChatSummary{
			Index:           c.Index,
			ID:              c.ID,
			DisplayName:     strings.TrimSpace(c.DisplayName),
			NumMessages:     len(c.Messages),
			LastMessageTime: c.LastMessageTime,
		})
	}
	return chats
}

// Chat converts one chat into a zip archive at outPath: a transcript member
// plus every referenced attachment, copied verbatim from the export. The
// archive is written to a temporary file and renamed into place only after
// everything succeeded; a failed export leaves no output artifact.
func Chat(a *skype.Archive, chatIndex int, outPath string, overrides map[string]string) (err error) {
	if chatIndex < 0 || chatIndex >= len(a.Conversations) {
		return fmt.Errorf("%w: index %d, archive has %d chats", ErrChatNotFound, chatIndex, len(a.Conversations))
	}
	chat := a.Conversations[chatIndex]
	dir := core.BuildDirectory(a.Conversations, overrides)

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(outDir, ".skype2tg-*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	zw := zip.NewWriter(tmp)
	files, err := writeTranscript(zw, chat, dir, a.Files)
	if err != nil {
		return err
	}
	err = a.CopyMedia(files, func(name string) (io.Writer, error) {
		return zw.Create(name)
	})
	if err != nil {
		return err
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err = os.Rename(tmp.Name(), outPath); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	log.Info("chat exported", "chat", chat.DisplayName, "out", outPath, "attachments", len(files))
	return nil
}

// writeTranscript renders the chat chronologically (messages are stored
// newest-first) into the transcript member and returns the referenced
// attachment filenames, deduplicated in first-reference order.
func writeTranscript(zw *zip.Writer, chat core.Conversation, dir core.Directory, index core.FileIndex) ([]string, error) {
	w, err := zw.Create(transcriptPrefix + chat.DisplayName + ".txt")
	if err != nil {
		return nil, fmt.Errorf("create transcript member: %w", err)
	}

	var files []string
	seen := make(map[string]bool)
	var lastContent string
	haveLast := false
	for i := len(chat.Messages) - 1; i >= 0; i-- {
		msg := &chat.Messages[i]
		sent, err := core.ParseArrivalTime(msg.ArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", msg.ID, err)
		}
		line := render.Message(msg, dir, index)
		if line.Skip {
			continue
		}
		// An edit repeating the previous kept line is a no-op correction,
		// not a new line.
		if line.IsEdit && haveLast && line.Content == lastContent {
			continue
		}
		lastContent = line.Content
		haveLast = true
		for _, f := range line.Files {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
		if _, err := io.WriteString(w, FormatLine(sent, line.Sender, line.Content)); err != nil {
			return nil, fmt.Errorf("write transcript: %w", err)
		}
	}
	return files, nil
}

// FormatLine renders one transcript line in the fixed import format:
// unpadded M/D/YYYY, zero-padded 24-hour HH:MM, and the sender chunk
// omitted entirely for system lines.
func FormatLine(sent time.Time, sender, content string) string {
	prefix := fmt.Sprintf("%d/%d/%d %02d:%02d - ",
		int(sent.Month()), sent.Day(), sent.Year(), sent.Hour(), sent.Minute())
	if sender != "" {
		prefix += sender + ": "
	}
	return prefix + content + "\n"
}
