package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeSize(t *testing.T) {
	assert.Equal(t, "PNG, 12.0 KB", TypeSize("image/png", 12*1024))
	assert.Equal(t, "SVG, 0.5 KB", TypeSize("image/svg+xml", 512))
	assert.Equal(t, "PLAIN, 1.0 KB", TypeSize("text/plain; charset=utf-8", 1024))
	assert.Equal(t, "FILE, 2.0 KB", TypeSize("", 2048))
	assert.Equal(t, "FILE, 0.0 KB", TypeSize("octet", 0))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 50))
	assert.Equal(t, "a b", Ellipsize("a\n  b", 50))

	long := strings.Repeat("é", 60)
	got := Ellipsize(long, 50)
	assert.Equal(t, strings.Repeat("é", 50)+Ellipsis, got)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "10.0 MB", FormatSize(10*1024*1024))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "hello", TruncateText("hello", 10))
	assert.Equal(t, "hello w...", TruncateText("hello world!", 10))
	assert.Equal(t, "he", TruncateText("hello", 2))
}
