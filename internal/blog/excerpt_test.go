package blog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	html := `<h1>Lake View</h1>
<script>track()</script>
<p>Three   bedroom flats
in <b>Gulshan</b>.</p>
<img src=" /uploads/cover.jpg "><img src="/second.jpg">`

	s, err := Summarize(html, 0)
	require.NoError(t, err)
	assert.Equal(t, "Lake View Three bedroom flats in Gulshan.", s.Excerpt)
	assert.Equal(t, "/uploads/cover.jpg", s.FirstImage)
	assert.Equal(t, 1, s.ReadingMinutes)
}

func TestSummarize_TruncatesOnWordBoundary(t *testing.T) {
	s, err := Summarize("<p>alpha beta gamma delta</p>", 13)
	require.NoError(t, err)
	assert.Equal(t, "alpha beta…", s.Excerpt)
}

func TestSummarize_CountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("বাড়ি ", 100)
	s, err := Summarize("<p>"+long+"</p>", 50)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(s.Excerpt))
	assert.LessOrEqual(t, utf8.RuneCountInString(s.Excerpt), 51)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize("", 10)
	require.NoError(t, err)
	assert.Empty(t, s.Excerpt)
	assert.Empty(t, s.FirstImage)
	assert.Zero(t, s.ReadingMinutes)
}
