package importer

import (
	"archive/zip"
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTranscriptMember(t *testing.T) {
	assert.True(t, isTranscriptMember("WhatsApp Chat with Trip.txt"))
	assert.False(t, isTranscriptMember("photo.jpg"))
	assert.False(t, isTranscriptMember("notes.txt"))
	assert.False(t, isTranscriptMember("WhatsApp Chat with Trip.zip"))
}

func TestClassifyMembers(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range []struct{ name, data string }{
		{"WhatsApp Chat with Trip.txt", "3/5/2021 14:07 - Alice: hi\n"},
		{"photo.jpg", "jpegdata"},
		{"voice.ogg", "oggdata"},
	} {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	transcript, attachments, err := classifyMembers(zr)
	require.NoError(t, err)
	assert.Equal(t, "WhatsApp Chat with Trip.txt", transcript.Name)
	require.Len(t, attachments, 2)
	assert.Equal(t, "photo.jpg", attachments[0].Name)
	assert.Equal(t, "voice.ogg", attachments[1].Name)
}

func TestClassifyMembersNoTranscript(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("photo.jpg")
	require.NoError(t, err)
	_, err = w.Write([]byte("jpegdata"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	_, _, err = classifyMembers(zr)
	assert.Error(t, err)
}

func TestImportHead(t *testing.T) {
	head, err := importHead(strings.NewReader("one\ntwo\n"))
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", head)

	long := strings.Repeat("line\n", 150)
	head, err = importHead(strings.NewReader(long))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("line\n", importHeadLines), head)

	head, err = importHead(strings.NewReader("no trailing newline"))
	require.NoError(t, err)
	assert.Equal(t, "no trailing newline", head)
}

func TestBuildMediaJPEG(t *testing.T) {
	file := &tg.InputFile{Name: "photo.jpg"}
	media := buildMedia("photo.jpg", []byte("jpegdata"), file)

	photo, ok := media.(*tg.InputMediaUploadedPhoto)
	require.True(t, ok, "jpeg imports as a photo")
	assert.Equal(t, file, photo.File)
}

func TestBuildMediaPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 3))))

	media := buildMedia("diagram.png", buf.Bytes(), &tg.InputFile{Name: "diagram.png"})
	doc, ok := media.(*tg.InputMediaUploadedDocument)
	require.True(t, ok, "non-jpeg images import as documents")
	assert.Equal(t, "image/png", doc.MimeType)

	var size *tg.DocumentAttributeImageSize
	for _, attr := range doc.Attributes {
		if s, ok := attr.(*tg.DocumentAttributeImageSize); ok {
			size = s
		}
	}
	require.NotNil(t, size, "decodable images carry their dimensions")
	assert.Equal(t, 4, size.W)
	assert.Equal(t, 3, size.H)
}

func TestBuildMediaOpaque(t *testing.T) {
	media := buildMedia("voice.bin", []byte{0x00, 0x01}, &tg.InputFile{Name: "voice.bin"})
	doc, ok := media.(*tg.InputMediaUploadedDocument)
	require.True(t, ok)
	assert.Equal(t, "application/octet-stream", doc.MimeType,
		"unmapped types stay opaque binary")

	var filename *tg.DocumentAttributeFilename
	for _, attr := range doc.Attributes {
		if f, ok := attr.(*tg.DocumentAttributeFilename); ok {
			filename = f
		}
	}
	require.NotNil(t, filename)
	assert.Equal(t, "voice.bin", filename.FileName)
}
