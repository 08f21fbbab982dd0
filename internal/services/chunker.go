package services

import (
	"strings"
	"unicode/utf8"
)

// TextChunker splits text into bounded, overlapping segments. Splitting is a
// pure function: the same input always yields the same sequence.
type TextChunker interface {
	Split(text string) []string
}

type recursiveChunker struct {
	chunkSize  int
	overlap    int
	separators []string
}

// NewTextChunker builds a chunker that prefers natural boundaries, trying
// paragraph breaks first and degrading to line breaks, sentence ends, spaces,
// and finally hard character windows.
func NewTextChunker(chunkSize, overlap int) TextChunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}

	return &recursiveChunker{
		chunkSize:  chunkSize,
		overlap:    overlap,
		separators: []string{"\n\n", "\n", ". ", " ", ""},
	}
}

// Split implements TextChunker.
func (c *recursiveChunker) Split(text string) []string {
	if text == "" {
		return nil
	}
	return c.merge(c.splitRecursive(text, c.separators))
}

// splitRecursive breaks text into pieces no longer than chunkSize, keeping
// each separator attached to the piece it ends so that concatenating the
// pieces reproduces the input.
func (c *recursiveChunker) splitRecursive(text string, separators []string) []string {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) <= c.chunkSize {
		return []string{text}
	}

	for i, sep := range separators {
		if sep == "" {
			break
		}
		if !strings.Contains(text, sep) {
			continue
		}

		var pieces []string
		for _, part := range strings.SplitAfter(text, sep) {
			if part == "" {
				continue
			}
			if utf8.RuneCountInString(part) <= c.chunkSize {
				pieces = append(pieces, part)
			} else {
				pieces = append(pieces, c.splitRecursive(part, separators[i+1:])...)
			}
		}
		return pieces
	}

	return c.hardSplit(text)
}

// hardSplit is the last resort for runs with no separator at all: fixed-size
// rune windows advancing by chunkSize-overlap.
func (c *recursiveChunker) hardSplit(text string) []string {
	runes := []rune(text)
	step := c.chunkSize - c.overlap
	if step <= 0 {
		step = c.chunkSize
	}

	var pieces []string
	for i := 0; i < len(runes); i += step {
		end := i + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return pieces
}

// merge packs pieces into chunks of at most chunkSize runes, seeding each new
// chunk with the trailing overlap of the previous one.
func (c *recursiveChunker) merge(pieces []string) []string {
	var chunks []string
	var current []rune

	for _, piece := range pieces {
		p := []rune(piece)

		if len(current) > 0 && len(current)+len(p) > c.chunkSize {
			chunks = append(chunks, string(current))

			seed := []rune(getLastNChars(string(current), c.overlap))
			if len(seed)+len(p) > c.chunkSize {
				keep := c.chunkSize - len(p)
				if keep < 0 {
					keep = 0
				}
				seed = seed[len(seed)-keep:]
			}
			current = append([]rune(nil), seed...)
		}

		current = append(current, p...)
	}

	if len(current) > 0 {
		chunks = append(chunks, string(current))
	}

	return chunks
}

func getLastNChars(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
