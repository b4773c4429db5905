package services

import (
	"strings"
	"testing"
)

func TestChunkTextKeepsShortTextWhole(t *testing.T) {
	t.Parallel()

	chunks := NewTextChunker().ChunkText("Summary\n\nSkills: Go, SQL", 100, 10)
	if len(chunks) != 1 {
		t.Fatalf("expected one chunk, got %d: %q", len(chunks), chunks)
	}
	if chunks[0] != "Summary\n\nSkills: Go, SQL" {
		t.Fatalf("unexpected chunk: %q", chunks[0])
	}
}

func TestChunkTextSplitsWithOverlap(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 40) + "\n\n" + strings.Repeat("c", 40)
	chunks := NewTextChunker().ChunkText(text, 50, 5)

	if len(chunks) != 3 {
		t.Fatalf("expected three chunks, got %d: %q", len(chunks), chunks)
	}
	if !strings.HasPrefix(chunks[1], "aaaaa\n\n") {
		t.Fatalf("expected overlap from previous chunk, got %q", chunks[1])
	}
}

func TestChunkTextSplitsLongParagraphBySentence(t *testing.T) {
	t.Parallel()

	para := "Led a team of five. Shipped the billing system! Reduced latency by half? Mentored interns."
	chunks := NewTextChunker().ChunkText(para, 40, 0)

	if len(chunks) < 2 {
		t.Fatalf("expected the paragraph to be split, got %q", chunks)
	}
	for _, c := range chunks {
		if len(c) > 40 {
			t.Fatalf("chunk exceeds max size: %q", c)
		}
	}
}

func TestChunkTextEmpty(t *testing.T) {
	t.Parallel()

	if chunks := NewTextChunker().ChunkText("  \n\n  ", 100, 0); len(chunks) != 0 {
		t.Fatalf("expected no chunks, got %q", chunks)
	}
}
