package textproc

import (
	"regexp"
	"strings"
)

// MinChunkLength is the shortest chunk worth embedding. Fragments below this
// carry almost no semantic signal and would pollute rankings.
const MinChunkLength = 50

var (
	horizontalWS = regexp.MustCompile(`[ \t]+`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
	spacedNL     = regexp.MustCompile(` ?\n ?`)
)

// Normalize collapses whitespace runs and blank-line runs and trims the
// result. Chunk always operates on normalized text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = horizontalWS.ReplaceAllString(text, " ")
	text = spacedNL.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Chunk splits text into sentence-aligned pieces of at most maxChunkSize
// characters. Text that already fits comes back as a single chunk.
// Sentences are accumulated greedily; a sentence that would overflow the
// running buffer starts the next chunk. Pieces shorter than MinChunkLength
// are dropped. The output is fully deterministic for a given input.
func Chunk(text string, maxChunkSize int) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	if maxChunkSize <= 0 || len(normalized) <= maxChunkSize {
		return []string{normalized}
	}

	var chunks []string
	var buf strings.Builder
	flush := func() {
		piece := strings.TrimSpace(buf.String())
		if len(piece) >= MinChunkLength {
			chunks = append(chunks, piece)
		}
		buf.Reset()
	}
	for _, sentence := range splitSentences(normalized) {
		if buf.Len() > 0 && buf.Len()+1+len(sentence) > maxChunkSize {
			flush()
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)
	}
	flush()
	return chunks
}

// splitSentences cuts on sentence terminators (., !, ?), keeping the
// terminator with its sentence. A trailing fragment without a terminator is
// returned as its own sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		for i+1 < len(runes) && isTerminator(runes[i+1]) {
			i++
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}
	return sentences
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}
