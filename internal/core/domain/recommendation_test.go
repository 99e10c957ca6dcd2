package domain

import "testing"

func TestTitleIndex_Resolve(t *testing.T) {
	idx := BuildTitleIndex([]string{
		"The Matrix",
		"The Matrix Reloaded",
		"Alien",
		"Aliens",
		"Inception",
	})

	tests := []struct {
		name    string
		query   string
		wantRow int
		wantOK  bool
	}{
		{"exact", "Alien", 2, true},
		{"exact with whitespace", "  Inception  ", 4, true},
		{"case insensitive", "the matrix", 0, true},
		{"query is substring of title", "Reloaded", 1, true},
		{"closest length wins", "matrix", 0, true},
		{"title is substring of query", "Inception (2010)", 4, true},
		{"no match", "Casablanca", 0, false},
		{"empty", "   ", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := idx.Resolve(tt.query)
			if ok != tt.wantOK {
				t.Fatalf("expected ok=%t, got %t", tt.wantOK, ok)
			}
			if ok && row != tt.wantRow {
				t.Errorf("expected row %d, got %d", tt.wantRow, row)
			}
		})
	}
}

func TestTitleIndex_PartialTieGoesToLowestRow(t *testing.T) {
	idx := BuildTitleIndex([]string{"Star Trek", "Star Wars"})

	row, ok := idx.Resolve("star")
	if !ok {
		t.Fatal("expected a match")
	}
	if row != 0 {
		t.Errorf("expected lowest row 0, got %d", row)
	}
}

func TestBuildTitleIndex_DuplicatesFirstWins(t *testing.T) {
	idx := BuildTitleIndex([]string{"Solaris", "Heat", "Solaris"})

	if idx.Duplicates != 1 {
		t.Errorf("expected 1 duplicate, got %d", idx.Duplicates)
	}
	row, ok := idx.Resolve("Solaris")
	if !ok || row != 0 {
		t.Errorf("expected first occurrence row 0, got %d (ok=%t)", row, ok)
	}
	if idx.Len() != 3 {
		t.Errorf("expected all rows indexed, got %d", idx.Len())
	}
}

func TestTitleIndex_Nil(t *testing.T) {
	var idx *TitleIndex
	if _, ok := idx.Resolve("anything"); ok {
		t.Error("expected nil index to resolve nothing")
	}
}

func TestSnapshot_Valid(t *testing.T) {
	snap := &Snapshot{
		Similarity: NewSimilarityMatrix(2),
		Index:      BuildTitleIndex([]string{"A", "B"}),
		Movies:     &ProcessedCorpus{Movies: make([]ProcessedMovie, 2)},
	}
	if !snap.Valid() {
		t.Error("expected consistent snapshot to be valid")
	}

	snap.Movies = &ProcessedCorpus{Movies: make([]ProcessedMovie, 3)}
	if snap.Valid() {
		t.Error("expected row count mismatch to be invalid")
	}

	var nilSnap *Snapshot
	if nilSnap.Valid() {
		t.Error("expected nil snapshot to be invalid")
	}
}

func TestEnhancedRecommendation_Enhanced(t *testing.T) {
	r := EnhancedRecommendation{}
	if r.Enhanced() {
		t.Error("expected unenhanced without details")
	}
	r.Details = &MovieDetails{Title: "Alien"}
	if !r.Enhanced() {
		t.Error("expected enhanced with details")
	}
}
