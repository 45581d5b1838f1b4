package media

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"paragraph and bold", "<p><b>Stranger Things</b> is a drama.</p>", "Stranger Things is a drama."},
		{"line breaks", "First line<br>Second line<br />Third", "First line\nSecond line\nThird"},
		{"italic", "A <i>very</i> good show", "A very good show"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"plain", "  nothing to strip  ", "nothing to strip"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "Show.S01E01.1080p.WEB", FirstLine("Show.S01E01.1080p.WEB\n👤 42 💾 1.2 GB"))
	assert.Equal(t, "single", FirstLine(" single "))
}
