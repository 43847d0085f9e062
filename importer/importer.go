// Package importer uploads a converted chat archive into a Telegram peer's
// history through the MTProto history-import API.
package importer

import (
	"archive/zip"
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"mime"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/charmbracelet/log"
	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"
)

// importHeadLines is how much of the transcript Telegram inspects to decide
// whether it understands the format.
const importHeadLines = 100

const transcriptPrefix = "WhatsApp Chat with "

// Importer drives a complete history import for one archive.
type Importer struct {
	cfg Config
}

func New(cfg Config) *Importer {
	return &Importer{cfg: cfg}
}

// ImportChat validates the archive against the Telegram API, uploads the
// transcript and every attachment, and finalizes the import into the peer
// identified by phone number. The connection lives only for this call.
func (imp *Importer) ImportChat(ctx context.Context, archivePath, peerPhone string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	transcript, attachments, err := classifyMembers(&zr.Reader)
	if err != nil {
		return err
	}

	client := telegram.NewClient(imp.cfg.APIID, imp.cfg.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: imp.cfg.AppName + ".session"},
	})
	return client.Run(ctx, func(ctx context.Context) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return fmt.Errorf("auth status: %w", err)
		}
		if !status.Authorized {
			flow := auth.NewFlow(newTerminalAuth(), auth.SendCodeOptions{})
			if err := flow.Run(ctx, client.Auth()); err != nil {
				return fmt.Errorf("authenticate: %w", err)
			}
		}

		api := client.API()
		peer, err := resolvePeer(ctx, api, peerPhone)
		if err != nil {
			return err
		}

		transcriptData, err := readMember(transcript)
		if err != nil {
			return err
		}
		head, err := importHead(bytes.NewReader(transcriptData))
		if err != nil {
			return fmt.Errorf("read transcript head: %w", err)
		}

		// Telegram rejects bad input up front; fail before uploading anything.
		if _, err := api.MessagesCheckHistoryImport(ctx, head); err != nil {
			return fmt.Errorf("check import format: %w", err)
		}
		if _, err := api.MessagesCheckHistoryImportPeer(ctx, peer); err != nil {
			return fmt.Errorf("check import peer: %w", err)
		}

		up := uploader.NewUploader(api)
		file, err := up.FromBytes(ctx, transcript.Name, transcriptData)
		if err != nil {
			return fmt.Errorf("upload transcript: %w", err)
		}
		init, err := api.MessagesInitHistoryImport(ctx, &tg.MessagesInitHistoryImportRequest{
			Peer:       peer,
			File:       file,
			MediaCount: len(attachments),
		})
		if err != nil {
			return fmt.Errorf("init import: %w", err)
		}
		log.Info("import initialized", "id", init.ID, "attachments", len(attachments))

		for _, att := range attachments {
			data, err := readMember(att)
			if err != nil {
				return err
			}
			f, err := up.FromBytes(ctx, att.Name, data)
			if err != nil {
				return fmt.Errorf("upload %s: %w", att.Name, err)
			}
			_, err = api.MessagesUploadImportedMedia(ctx, &tg.MessagesUploadImportedMediaRequest{
				Peer:     peer,
				ImportID: init.ID,
				FileName: att.Name,
				Media:    buildMedia(att.Name, data, f),
			})
			if err != nil {
				return fmt.Errorf("attach %s: %w", att.Name, err)
			}
			log.Info("attachment uploaded", "file", att.Name)
		}

		if _, err := api.MessagesStartHistoryImport(ctx, &tg.MessagesStartHistoryImportRequest{
			Peer:     peer,
			ImportID: init.ID,
		}); err != nil {
			return fmt.Errorf("start import: %w", err)
		}
		log.Info("import complete", "peer", peerPhone)
		return nil
	})
}

// classifyMembers splits the archive into the transcript member and the
// attachment members.
func classifyMembers(zr *zip.Reader) (transcript *zip.File, attachments []*zip.File, err error) {
	for _, f := range zr.File {
		if isTranscriptMember(f.Name) {
			transcript = f
			continue
		}
		attachments = append(attachments, f)
	}
	if transcript == nil {
		return nil, nil, fmt.Errorf("archive has no %q transcript member", transcriptPrefix+"*.txt")
	}
	return transcript, attachments, nil
}

func isTranscriptMember(name string) bool {
	return strings.HasPrefix(name, transcriptPrefix) && strings.HasSuffix(name, ".txt")
}

func readMember(f *zip.File) ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", f.Name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", f.Name, err)
	}
	return data, nil
}

// importHead returns the transcript's first lines, the sample Telegram
// checks before accepting an import.
func importHead(r io.Reader) (string, error) {
	br := bufio.NewReader(r)
	var b strings.Builder
	for i := 0; i < importHeadLines; i++ {
		line, err := br.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// resolvePeer turns a phone number into an input peer for the import calls.
func resolvePeer(ctx context.Context, api *tg.Client, phone string) (tg.InputPeerClass, error) {
	resolved, err := api.ContactsResolvePhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("resolve peer %q: %w", phone, err)
	}
	peerUser, ok := resolved.Peer.(*tg.PeerUser)
	if !ok {
		return nil, fmt.Errorf("peer %q is not a user", phone)
	}
	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok && user.ID == peerUser.UserID {
			return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
		}
	}
	return nil, fmt.Errorf("resolve peer %q: user missing from response", phone)
}

// buildMedia picks the upload representation for one attachment. JPEGs
// import as photos; everything else imports as a document, with image
// dimensions attached when the payload is a decodable image. Types the MIME
// table does not know stay opaque binary.
func buildMedia(name string, data []byte, file tg.InputFileClass) tg.InputMediaClass {
	mimeType := mime.TypeByExtension(strings.ToLower(path.Ext(name)))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if mimeType == "image/jpeg" {
		return &tg.InputMediaUploadedPhoto{File: file}
	}

	doc := &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: mimeType,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{FileName: name},
		},
	}
	if strings.HasPrefix(mimeType, "image/") {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			doc.Attributes = append(doc.Attributes, &tg.DocumentAttributeImageSize{
				W: cfg.Width,
				H: cfg.Height,
			})
		}
	}
	return doc
}
