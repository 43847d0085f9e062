package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		skip []string
		want string
	}{
		{
			name: "plain text unchanged",
			in:   "hello there",
			want: "hello there",
		},
		{
			name: "inline markup removed",
			in:   "Hello <b>world</b>, see <a href=\"https://example.com\">this</a>",
			want: "Hello world, see this",
		},
		{
			name: "entities decoded",
			in:   "fish &amp; chips &quot;tonight&quot;",
			want: `fish & chips "tonight"`,
		},
		{
			name: "skipped subtree contributes nothing",
			in:   `hi<e_m ts="1614953229" a="8:alice">edited</e_m>`,
			skip: []string{"e_m"},
			want: "hi",
		},
		{
			name: "nested tags",
			in:   "<quote author=\"bob\"><legacyquote>[14:05] bob: </legacyquote>original</quote>reply",
			want: "[14:05] bob: originalreply",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := stripTags(tt.in, tt.skip...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFragment(t *testing.T) {
	frag, err := parseFragment(
		`<addmember><eventtime>1614953229</eventtime><initiator>8:alice</initiator>` +
			`<target>8:bob</target><target>8:carol</target></addmember>`)
	require.NoError(t, err)

	init := frag.find("initiator")
	require.NotNil(t, init)
	assert.Equal(t, "8:alice", init.text)

	targets := frag.findAll("target")
	require.Len(t, targets, 2)
	assert.Equal(t, "8:bob", targets[0].text)
	assert.Equal(t, "8:carol", targets[1].text)

	assert.Nil(t, frag.find("value"))
}

func TestParseFragmentAttributes(t *testing.T) {
	frag, err := parseFragment(
		`<URIObject type="Picture.1" uri="https://api.asm.skype.com/v1/objects/0-weu-d1-photo">` +
			`<OriginalName v="photo.jpg"></OriginalName></URIObject>`)
	require.NoError(t, err)

	obj := frag.find("URIObject")
	require.NotNil(t, obj)
	assert.Equal(t, "Picture.1", obj.attr("type"))
	assert.Equal(t, "", obj.attr("doc_id"))

	orig := frag.find("OriginalName")
	require.NotNil(t, orig)
	assert.Equal(t, "photo.jpg", orig.attr("v"))
}

func TestParseFragmentSelfClosingEditMarker(t *testing.T) {
	frag, err := parseFragment(`fixed typo<e_m ts="1614953229" t="61"/>`)
	require.NoError(t, err)
	assert.NotNil(t, frag.find("e_m"))
}
