// Package textseg splits free-form assessment context into sentence units
// and short sliding windows for retrieval.
package textseg

import "strings"

// UnitKind distinguishes single sentences from multi-sentence windows.
type UnitKind string

const (
	KindSentence UnitKind = "sentence"
	KindWindow   UnitKind = "window"
)

// Unit is one retrievable span of the context.
type Unit struct {
	Text  string
	Kind  UnitKind
	Index int
}

// windowSize is the number of consecutive sentences merged into one window
// unit, so signals split across a sentence boundary stay retrievable.
const windowSize = 2

func isTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Split breaks text into sentences. A sentence ends at a newline, or after
// terminal punctuation followed by whitespace. Blank segments are dropped
// and every sentence is whitespace-trimmed.
func Split(text string) []string {
	cleaned := strings.ReplaceAll(text, "\r", " ")
	runes := []rune(cleaned)

	var sentences []string
	flush := func(start, end int) int {
		segment := strings.TrimSpace(string(runes[start:end]))
		if segment != "" {
			sentences = append(sentences, segment)
		}
		return end
	}

	start := 0
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\n' {
			start = flush(start, i) + 1
			continue
		}
		if isTerminal(runes[i]) && i+1 < len(runes) && isSpace(runes[i+1]) {
			start = flush(start, i+1)
		}
	}
	flush(start, len(runes))
	return sentences
}

// Segment splits text into at most maxSentences sentences and returns the
// sentence units followed by their sliding windows. Window indices refer to
// the first sentence of the window.
func Segment(text string, maxSentences int) []Unit {
	sentences := Split(text)
	if maxSentences > 0 && len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	units := make([]Unit, 0, len(sentences)*2)
	for idx, sentence := range sentences {
		units = append(units, Unit{Text: sentence, Kind: KindSentence, Index: idx})
	}
	for idx := 0; idx+windowSize <= len(sentences); idx++ {
		chunk := strings.Join(sentences[idx:idx+windowSize], " ")
		units = append(units, Unit{Text: chunk, Kind: KindWindow, Index: idx})
	}
	return units
}

// Sentences extracts just the capped sentence list, for callers that do not
// need window units.
func Sentences(text string, maxSentences int) []string {
	sentences := Split(text)
	if maxSentences > 0 && len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}
	return sentences
}
