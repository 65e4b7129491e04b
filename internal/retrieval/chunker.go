package retrieval

import (
	"strings"
	"unicode/utf8"
)

const (
	ChunkSize    = 1000
	ChunkOverlap = 100
)

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// TextSplitter splits text recursively on paragraph, line, word and finally
// character boundaries, then greedily merges the pieces into overlapping
// segments of at most size runes.
type TextSplitter struct {
	size       int
	overlap    int
	separators []string
}

func NewTextSplitter(size, overlap int) *TextSplitter {
	if size <= 0 {
		size = ChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	return &TextSplitter{
		size:       size,
		overlap:    overlap,
		separators: defaultSeparators,
	}
}

// SplitText splits with the package defaults.
func SplitText(text string) []string {
	return NewTextSplitter(ChunkSize, ChunkOverlap).Split(text)
}

func (s *TextSplitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.separators)
}

func (s *TextSplitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var final, good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// merge joins pieces (which already carry their separators) into segments,
// carrying up to overlap runes of trailing pieces into the next segment.
func (s *TextSplitter) merge(pieces []string) []string {
	var docs, current []string
	total := 0

	for _, p := range pieces {
		l := runeLen(p)
		if total+l > s.size && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.overlap || (total+l > s.size && total > 0) {
				total -= runeLen(current[0])
				current = current[1:]
			}
		}
		current = append(current, p)
		total += l
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

// splitKeepingSeparator splits text on sep, attaching each separator to the
// start of the piece that follows it. An empty sep splits into runes.
func splitKeepingSeparator(text, sep string) []string {
	if sep == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	if parts[0] != "" {
		out = append(out, parts[0])
	}
	for _, p := range parts[1:] {
		out = append(out, sep+p)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
