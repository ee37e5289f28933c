package commands

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "exactly-10", truncateString("exactly-10", 10))
	assert.Equal(t, "this is...", truncateString("this is a long title", 10))
}

func TestTruncateString_Multibyte(t *testing.T) {
	got := truncateString("ゴルフスイングの基本を徹底解説する記事", 10)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ゴルフスイング...", got)
}
