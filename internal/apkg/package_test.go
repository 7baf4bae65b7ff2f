package apkg

import (
	"errors"
	"testing"

	"github.com/ankismith/ankismith/internal/domain"
	"github.com/ankismith/ankismith/internal/parser"
)

func mustParse(t *testing.T, modelType domain.ModelType, content string) domain.ParsedCard {
	t.Helper()
	card, err := parser.Parse(domain.CardSpec{ModelType: modelType, Content: content})
	if err != nil {
		t.Fatalf("Parse(%q) returned an unexpected error: %v", content, err)
	}
	return card
}

func TestBuildEmptyDeck(t *testing.T) {
	pkg, err := Build("Topic", nil)
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}
	if len(pkg.Deck.Notes) != 0 {
		t.Errorf("Expected 0 notes, got %d", len(pkg.Deck.Notes))
	}
	if pkg.CardCount() != 0 {
		t.Errorf("Expected 0 cards, got %d", pkg.CardCount())
	}
	if pkg.Deck.Name != "Topic" {
		t.Errorf("Expected deck name 'Topic', got %q", pkg.Deck.Name)
	}
}

func TestBuildRejectsEmptyDeckName(t *testing.T) {
	_, err := Build("   ", nil)
	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected a FormatError for an empty deck name, got %v", err)
	}
}

func TestBuildDeduplicatesIdenticalCards(t *testing.T) {
	card := mustParse(t, domain.ModelQA, "Q||A")
	same := mustParse(t, domain.ModelQA, "  q  ||  a ")

	pkg, err := Build("Topic", []domain.ParsedCard{card, same, card})
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}
	if len(pkg.Deck.Notes) != 1 {
		t.Fatalf("Expected duplicates to collapse to 1 note, got %d", len(pkg.Deck.Notes))
	}
}

func TestBuildCollision(t *testing.T) {
	a := mustParse(t, domain.ModelQA, "Q1||A1")
	b := mustParse(t, domain.ModelQA, "Q2||A2")
	// Force the identifier reduction to collide while the digests stay
	// distinct: the note id only reads the first 8 digest bytes.
	copy(b.Digest[:8], a.Digest[:8])

	_, err := Build("Topic", []domain.ParsedCard{a, b})
	var collisionErr *domain.CollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("Expected a CollisionError, got %v", err)
	}
	if collisionErr.DigestA == collisionErr.DigestB {
		t.Error("Expected the colliding digests to differ")
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	cards := []domain.ParsedCard{
		mustParse(t, domain.ModelQA, "Q1||A1"),
		mustParse(t, domain.ModelCloze, "{{c1::x}} and {{c2::y}}"),
		mustParse(t, domain.ModelMCQ, "Pick||A\nB||A"),
	}

	first, err := Build("Topic", cards)
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}
	second, err := Build("Topic", cards)
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}

	if first.Deck.ID != second.Deck.ID {
		t.Errorf("Expected stable deck id, got %d and %d", first.Deck.ID, second.Deck.ID)
	}
	for i := range first.Deck.Notes {
		if first.Deck.Notes[i].ID != second.Deck.Notes[i].ID {
			t.Errorf("Expected stable note id at position %d", i)
		}
		if first.Deck.Notes[i].GUID != second.Deck.Notes[i].GUID {
			t.Errorf("Expected stable note guid at position %d", i)
		}
	}
}

func TestBuildIsOrderIndependent(t *testing.T) {
	a := mustParse(t, domain.ModelQA, "Q1||A1")
	b := mustParse(t, domain.ModelQA, "Q2||A2")
	c := mustParse(t, domain.ModelCloze, "{{c1::z}}")

	forward, err := Build("Topic", []domain.ParsedCard{a, b, c})
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}
	backward, err := Build("Topic", []domain.ParsedCard{c, b, a})
	if err != nil {
		t.Fatalf("Build() returned an unexpected error: %v", err)
	}

	if len(forward.Deck.Notes) != len(backward.Deck.Notes) {
		t.Fatalf("Expected same note count, got %d and %d",
			len(forward.Deck.Notes), len(backward.Deck.Notes))
	}
	for i := range forward.Deck.Notes {
		if forward.Deck.Notes[i].ID != backward.Deck.Notes[i].ID {
			t.Errorf("Expected identical note ids at position %d regardless of input order", i)
		}
	}
}

func TestBuildRejectsReservedSeparator(t *testing.T) {
	card := mustParse(t, domain.ModelQA, "Q\x1fQ||A")
	_, err := Build("Topic", []domain.ParsedCard{card})
	var formatErr *domain.FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("Expected a FormatError for a field holding the reserved separator, got %v", err)
	}
}

func TestCardCount(t *testing.T) {
	testCases := []struct {
		name     string
		card     domain.ParsedCard
		expected int
	}{
		{"qa renders one card", mustParse(t, domain.ModelQA, "Q||A"), 1},
		{"mcq renders one card", mustParse(t, domain.ModelMCQ, "Pick||A\nB||B"), 1},
		{"cloze renders one card per index", mustParse(t, domain.ModelCloze, "{{c1::x}}{{c2::y}}"), 2},
		{"repeated cloze index renders once", mustParse(t, domain.ModelCloze, "{{c1::x}} {{c1::y}}"), 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pkg, err := Build("Topic", []domain.ParsedCard{tc.card})
			if err != nil {
				t.Fatalf("Build() returned an unexpected error: %v", err)
			}
			if pkg.CardCount() != tc.expected {
				t.Errorf("Expected %d cards, got %d", tc.expected, pkg.CardCount())
			}
		})
	}
}

func TestFilename(t *testing.T) {
	testCases := []struct {
		deckName string
		expected string
	}{
		{"MySQL", "MySQL.apkg"},
		{"a/b c", "a_b_c.apkg"},
		{`net\work: basics?`, "net_work__basics_.apkg"},
		{"  trimmed  ", "trimmed.apkg"},
	}

	for _, tc := range testCases {
		if got := Filename(tc.deckName); got != tc.expected {
			t.Errorf("Filename(%q) = %q, expected %q", tc.deckName, got, tc.expected)
		}
	}
}
