package cue

import (
	"regexp"
	"strings"
)

// MinSentenceLength filters out fragments too short to seed an image.
const MinSentenceLength = 5

var sentenceSplit = regexp.MustCompile(`[。！？!?.]+`)

// SplitSentences splits transcript text into sentences on CJK and Latin
// terminal punctuation, dropping blanks and fragments below the minimum
// length.
func SplitSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) >= MinSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// Build turns a transcript into at most maxCues cue strings. With keywords
// enabled each sentence is cut down to its leading words; otherwise the
// full sentence is the cue. An empty transcript yields no cues, which is a
// valid run with empty overlays.
func Build(transcript string, maxCues int, keywords bool) []string {
	sentences := SplitSentences(transcript)
	if maxCues > 0 && len(sentences) > maxCues {
		sentences = sentences[:maxCues]
	}

	if !keywords {
		return sentences
	}

	cues := make([]string, len(sentences))
	for i, s := range sentences {
		cues[i] = leadingWords(s, 6)
	}
	return cues
}

func leadingWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		// Текст без пробелов (например, китайский): берем первые руны.
		r := []rune(s)
		if len(r) > 12 {
			r = r[:12]
		}
		return string(r)
	}
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}
