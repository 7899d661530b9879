package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	got := Summarize("<p>Geantă din <strong>piele</strong> naturală, cusută manual.</p>", 160)
	assert.Equal(t, "Geantă din piele naturală, cusută manual.", got)
}

func TestSummarize_WordBoundary(t *testing.T) {
	got := Summarize("<p>Rucsac impermeabil pentru drumetii montane de vara</p>", 30)
	assert.Equal(t, "Rucsac impermeabil pentru…", got)
	assert.LessOrEqual(t, len(got), 30+len("…"))
}

func TestSummarize_RuneBoundary(t *testing.T) {
	// A long unbroken multi-byte token gives the word-boundary fallback no
	// space to cut at, so the cut must still land between runes.
	got := Summarize("<p>"+strings.Repeat("ă", 100)+"</p>", 7)
	assert.True(t, utf8.ValidString(got), "got %q", got)
	assert.Equal(t, strings.Repeat("ă", 3)+"…", got)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, "", Summarize("", 160))
	assert.Equal(t, "scurt", Summarize("scurt", 160))
}
