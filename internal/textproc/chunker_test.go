package textproc

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	in := "a\tb  c\r\nd \n e\n\n\n\nf"
	require.Equal(t, "a b c\nd\ne\n\nf", Normalize(in))
}

func TestChunkEmptyInput(t *testing.T) {
	require.Nil(t, Chunk("", 1000))
	require.Nil(t, Chunk("   \n\t  ", 1000))
}

func TestChunkSingleWhenFits(t *testing.T) {
	text := "A short note about quarterly planning and budget review."
	chunks := Chunk(text, 1000)
	require.Equal(t, []string{text}, chunks)
}

func TestChunkSentenceAlignment(t *testing.T) {
	var sentences []string
	for i := 0; i < 10; i++ {
		sentences = append(sentences, fmt.Sprintf("This is sentence number %02d with enough padding to matter.", i))
	}
	text := strings.Join(sentences, " ")
	chunks := Chunk(text, 150)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 150)
		require.GreaterOrEqual(t, len(chunk), MinChunkLength)
	}
	// No sentence is split and nothing is lost or reordered.
	require.Equal(t, text, strings.Join(chunks, " "))
}

func TestChunkDropsShortFragments(t *testing.T) {
	long := "This opening sentence is deliberately made to be sixty characters."
	text := long + " Hi."
	chunks := Chunk(text, len(long))
	require.Equal(t, []string{long}, chunks)
}

func TestChunkDeterministic(t *testing.T) {
	text := strings.Repeat("Repeatable sentences make for repeatable chunk boundaries every time. ", 30)
	first := Chunk(text, 200)
	second := Chunk(text, 200)
	require.Equal(t, first, second)
}
