package search_test

import (
	"strings"
	"testing"

	"pocketaria/internal/library"
	"pocketaria/internal/search"
)

func TestFold(t *testing.T) {
	cases := map[string]string{
		"  Dvořák  ":        "dvorak",
		"Léo   DELIBES":     "leo delibes",
		"":                  "",
		"Casta Diva\t(Act)": "casta diva (act)",
	}
	for input, want := range cases {
		if got := search.Fold(input); got != want {
			t.Fatalf("Fold(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := search.Tokenize("Voi che sapete, K.492 茉莉花")
	want := []string{"voi", "che", "sapete", "k", "492", "茉", "莉", "花"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestExtractFields(t *testing.T) {
	project := library.NewProject("茉莉花")
	project.Metadata.Composer = "Traditional"
	project.Metadata.Tags = []string{"folk", "chinese"}
	project.Lyrics = &library.Lyrics{
		ID:      library.NewID(),
		Format:  library.LyricsHTML,
		Content: "<p>好一朵<b>美丽</b>的茉莉花</p><p>second<br>line</p>",
	}

	doc := search.Extract(project)
	if doc.Fields[search.FieldRomanized] != "mo li hua" {
		t.Fatalf("unexpected romanized title %q", doc.Fields[search.FieldRomanized])
	}
	if doc.Fields[search.FieldTags] != "folk chinese" {
		t.Fatalf("unexpected tags field %q", doc.Fields[search.FieldTags])
	}
	lyrics := doc.Fields[search.FieldLyrics]
	if strings.Contains(lyrics, "<") || !strings.Contains(lyrics, "美丽") || !strings.Contains(lyrics, "second\nline") {
		t.Fatalf("unexpected lyrics text %q", lyrics)
	}
	if _, ok := doc.Fields[search.FieldDescription]; ok {
		t.Fatal("empty description should not be extracted")
	}
}

func TestIndexSearchRanksTitleAboveDescription(t *testing.T) {
	aria := library.NewProject("Casta Diva")
	aria.Metadata.Composer = "Bellini"
	mention := library.NewProject("Ah non credea")
	mention.Metadata.Description = "Often paired with casta diva in recitals"
	other := library.NewProject("Der Hölle Rache")
	other.Metadata.Composer = "Mozart"

	ix := search.NewIndex(aria, mention, other)
	results := ix.Search("casta", 0)
	if len(results) != 2 {
		t.Fatalf("expected 2 hits, got %+v", results)
	}
	if results[0].ID != aria.ID || results[1].ID != mention.ID {
		t.Fatalf("unexpected ranking %+v", results)
	}
}

func TestIndexPrefixFuzzyAndRomanized(t *testing.T) {
	queen := library.NewProject("Der Hölle Rache")
	queen.Metadata.Composer = "Mozart"
	jasmine := library.NewProject("茉莉花")

	ix := search.NewIndex(queen, jasmine)
	cases := map[string]string{
		"moz":     queen.ID,
		"holle":   queen.ID,
		"mozzart": queen.ID,
		"mzrt":    queen.ID,
		"rch":     queen.ID,
		"moli":    "",
		"mo li":   jasmine.ID,
		"茉莉":      jasmine.ID,
	}
	for query, want := range cases {
		results := ix.Search(query, 1)
		if want == "" {
			if len(results) != 0 {
				t.Fatalf("query %q: expected no hits, got %+v", query, results)
			}
			continue
		}
		if len(results) != 1 || results[0].ID != want {
			t.Fatalf("query %q: expected %s, got %+v", query, want, results)
		}
	}
}

func TestIndexAddReplacesAndRemove(t *testing.T) {
	project := library.NewProject("Lascia ch'io pianga")
	ix := search.NewIndex(project)

	updated := project.Clone()
	updated.Metadata.Title = "Ombra mai fu"
	ix.Add(updated)
	if ix.Len() != 1 {
		t.Fatalf("expected 1 document, got %d", ix.Len())
	}
	if hits := ix.Search("lascia", 0); len(hits) != 0 {
		t.Fatalf("stale title still indexed: %+v", hits)
	}
	if hits := ix.Search("ombra", 0); len(hits) != 1 {
		t.Fatalf("expected updated title hit, got %+v", hits)
	}

	ix.Remove(project.ID)
	ix.Remove("missing")
	if ix.Len() != 0 || len(ix.Search("ombra", 0)) != 0 {
		t.Fatal("expected empty index after remove")
	}
	if ix.Search("   ", 0) != nil {
		t.Fatal("blank query should return nil")
	}
}
