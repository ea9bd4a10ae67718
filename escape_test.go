package votable

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeContent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"a&b<c>d", "a&amp;b&lt;c&gt;d"},
		{"'quotes' stay \"raw\"", "'quotes' stay \"raw\""},
		{"&&&", "&amp;&amp;&amp;"},
		{"<", "&lt;"},
		{"trailing >", "trailing &gt;"},
		{"unicode ☃ kept", "unicode ☃ kept"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, EscapeContent(tc.in), "EscapeContent(%q)", tc.in)
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a'b\"c", "a&apos;b&quot;c"},
		{"a&b<c>d", "a&amp;b&lt;c&gt;d"},
		{"mix <'\">& end", "mix &lt;&apos;&quot;&gt;&amp; end"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, EscapeAttr(tc.in), "EscapeAttr(%q)", tc.in)
	}
}

// Clean input comes back without a copy.
func TestEscapeNoCopyWhenClean(t *testing.T) {
	in := []byte("nothing to do here")
	out := EscapeContentBytes(in)
	require.Equal(t, in, out)
	assert.Same(t, &in[0], &out[0])

	out = EscapeAttrBytes(in)
	assert.Same(t, &in[0], &out[0])
}

func TestEscapeBytesDoesNotAliasDirtyInput(t *testing.T) {
	in := []byte("a&b")
	out := EscapeContentBytes(in)
	require.Equal(t, "a&amp;b", string(out))
	in[0] = 'z'
	assert.Equal(t, "a&amp;b", string(out))
}

func TestEscapeLongInput(t *testing.T) {
	in := strings.Repeat("x", 10000) + "&" + strings.Repeat("y", 10000)
	want := strings.Repeat("x", 10000) + "&amp;" + strings.Repeat("y", 10000)
	assert.Equal(t, want, EscapeContent(in))
}

func BenchmarkEscapeContentClean(b *testing.B) {
	in := strings.Repeat("no markup at all ", 64)
	b.SetBytes(int64(len(in)))
	b.ReportAllocs()
	for b.Loop() {
		EscapeContent(in)
	}
}

func BenchmarkEscapeContentDirty(b *testing.B) {
	in := strings.Repeat("a < b && c > d ", 64)
	b.SetBytes(int64(len(in)))
	b.ReportAllocs()
	for b.Loop() {
		EscapeContent(in)
	}
}
