package content

import (
	"strings"
	"testing"
)

const articleText = `The new storage engine reduces write amplification significantly. ` +
	`Write amplification has been the main bottleneck for the storage engine under heavy load. ` +
	`Benchmarks show the storage engine sustains twice the previous write throughput. ` +
	`The team also redesigned the compaction scheduler. ` +
	`Compaction now runs incrementally instead of in large stop-the-world batches. ` +
	`Users on spinning disks should see the largest improvement. ` +
	`A migration guide will be published next week.`

func TestSummarizer_EmptyInput(t *testing.T) {
	summarizer := NewSummarizer()

	if got := summarizer.Run(""); got != "" {
		t.Errorf("Expected empty summary for empty input, got %q", got)
	}
	if got := summarizer.Run("   \n\t "); got != "" {
		t.Errorf("Expected empty summary for whitespace input, got %q", got)
	}
}

func TestSummarizer_ShortTextPassesThrough(t *testing.T) {
	summarizer := NewSummarizer()

	text := "First sentence. Second sentence."
	got := summarizer.Run(text)

	if !strings.Contains(got, "First sentence.") || !strings.Contains(got, "Second sentence.") {
		t.Errorf("Expected short text returned whole, got %q", got)
	}
}

func TestSummarizer_SelectsAtMostThreeSentences(t *testing.T) {
	summarizer := NewSummarizer()

	got := summarizer.Run(articleText)
	if got == "" {
		t.Fatal("Expected non-empty summary")
	}

	count := strings.Count(got, ".")
	if count > 3 {
		t.Errorf("Expected at most 3 sentences, got %d in %q", count, got)
	}
}

func TestSummarizer_Deterministic(t *testing.T) {
	summarizer := NewSummarizer()

	first := summarizer.Run(articleText)
	second := summarizer.Run(articleText)

	if first != second {
		t.Errorf("Expected deterministic output, got %q then %q", first, second)
	}
}

func TestSummarizer_PreservesDocumentOrder(t *testing.T) {
	summarizer := NewSummarizer()

	got := summarizer.Run(articleText)

	// Whatever sentences are selected, their relative order must match
	// the source document.
	lastIdx := -1
	for _, sentence := range splitSentences(got) {
		idx := strings.Index(articleText, sentence)
		if idx == -1 {
			t.Fatalf("Summary sentence not found in source: %q", sentence)
		}
		if idx < lastIdx {
			t.Errorf("Summary sentences out of document order: %q", got)
		}
		lastIdx = idx
	}
}

func TestSplitSentences_DecimalsStayIntact(t *testing.T) {
	sentences := splitSentences("Version 1.5 shipped today. Adoption grew by 2.5 percent.")

	if len(sentences) != 2 {
		t.Fatalf("Expected 2 sentences, got %d: %v", len(sentences), sentences)
	}
	if sentences[0] != "Version 1.5 shipped today." {
		t.Errorf("Unexpected first sentence: %q", sentences[0])
	}
}
