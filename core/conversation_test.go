package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArrivalTime(t *testing.T) {
	want := time.Date(2021, 3, 5, 14, 7, 9, 0, time.UTC)

	got, err := ParseArrivalTime("2021-03-05T14:07:09Z")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	got, err = ParseArrivalTime("2021-03-05T14:07:09.123Z")
	require.NoError(t, err)
	assert.Equal(t, want.Add(123*time.Millisecond), got)
}

func TestParseArrivalTimeRejectsOtherFormats(t *testing.T) {
	for _, s := range []string{
		"",
		"2021-03-05 14:07:09",
		"03/05/2021 14:07",
		"2021-03-05T14:07:09+02:00",
	} {
		_, err := ParseArrivalTime(s)
		assert.ErrorIs(t, err, ErrTimestampFormat, "input %q", s)
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		tag  string
		want MessageKind
	}{
		{"RichText", KindText},
		{"InviteFreeRelationshipChanged/Initialized", KindRelationship},
		{"ThreadActivity/HistoryDisclosedUpdate", KindHistoryDisclosed},
		{"ThreadActivity/AddMember", KindAddMember},
		{"ThreadActivity/TopicUpdate", KindTopicUpdate},
		{"Event/Call", KindCall},
		{"RichText/UriObject", KindURIObject},
		{"RichText/Media_GenericFile", KindFile},
		{"RichText/Media_Video", KindVideo},
		{"RichText/Media_AudioMsg", KindAudio},
		{"RichText/Media_Album", KindAlbum},
		{"Poll", KindUnknown},
		{"RichText/Location", KindUnknown},
		{"", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.tag))
		})
	}
}

func TestIsMedia(t *testing.T) {
	assert.True(t, KindURIObject.IsMedia())
	assert.True(t, KindAudio.IsMedia())
	assert.False(t, KindText.IsMedia())
	assert.False(t, KindAlbum.IsMedia())
}
