package content

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Summarizer condenses cleaned article text by extracting the highest
// scoring sentences. Scoring is word-frequency based; selected
// sentences are returned in document order, so the output is
// deterministic for a given input.
type Summarizer struct {
	maxSentences int
	folder       cases.Caser
}

const defaultMaxSentences = 3

// minSentenceWords filters out fragments such as bylines and captions
// that survive readability extraction.
const minSentenceWords = 4

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "his": {}, "i": {}, "in": {}, "is": {}, "it": {},
	"its": {}, "of": {}, "on": {}, "or": {}, "she": {}, "that": {},
	"the": {}, "their": {}, "they": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "which": {}, "will": {}, "with": {}, "you": {},
}

func NewSummarizer() *Summarizer {
	return &Summarizer{
		maxSentences: defaultMaxSentences,
		folder:       cases.Fold(),
	}
}

// Run returns an extractive summary of text. Empty or unusable text
// yields an empty string.
func (s *Summarizer) Run(text string) string {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return ""
	}
	if len(sentences) <= s.maxSentences {
		return strings.Join(sentences, " ")
	}

	frequencies := make(map[string]int)
	for _, sentence := range sentences {
		for _, word := range s.tokenize(sentence) {
			frequencies[word]++
		}
	}

	type scored struct {
		index int
		score float64
	}

	ranked := make([]scored, 0, len(sentences))
	for i, sentence := range sentences {
		words := s.tokenize(sentence)
		if len(words) < minSentenceWords {
			continue
		}
		total := 0
		for _, word := range words {
			total += frequencies[word]
		}
		ranked = append(ranked, scored{index: i, score: float64(total) / float64(len(words))})
	}
	if len(ranked) == 0 {
		return ""
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].score > ranked[b].score
	})

	top := ranked
	if len(top) > s.maxSentences {
		top = top[:s.maxSentences]
	}

	// Restore document order for readability.
	sort.Slice(top, func(a, b int) bool {
		return top[a].index < top[b].index
	})

	selected := make([]string, 0, len(top))
	for _, entry := range top {
		selected = append(selected, sentences[entry.index])
	}

	return strings.Join(selected, " ")
}

func (s *Summarizer) tokenize(sentence string) []string {
	fields := strings.FieldsFunc(sentence, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	words := make([]string, 0, len(fields))
	for _, field := range fields {
		word := s.folder.String(field)
		if _, ok := stopwords[word]; ok {
			continue
		}
		words = append(words, word)
	}
	return words
}

func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		current.Reset()
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
	}

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Sentence boundary only when followed by whitespace or
			// end of text, so decimals like "1.5" stay intact.
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}
