package knowledge_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"podgoro/services/knowledge"
)

func writeCorpus(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func TestNewStoreFromFileSplitsPageContent(t *testing.T) {
	lines := []string{
		`{"url":"https://www.kmetijapodgoro.si/sobe","title":"Sobe in cenik","paragraph":"Cena nočitve z zajtrkom znaša 50 evrov na osebo na noč."}`,
		`{"url":"https://www.kmetijapodgoro.si/kmetija","title":"O kmetiji","content":"Naša domačija leži na sončni legi nad dolino in goste sprejema že več kot trideset let.\n\nDomov\n\nOdprto: sobota in nedelja\n\nVečino sestavin pridelamo doma,\nod zelenjave do mesa in mlečnih izdelkov."}`,
		"to ni json",
		"",
	}
	store, err := knowledge.NewStoreFromFile(writeCorpus(t, lines))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	docs := store.Docs()
	want := []string{
		"Cena nočitve z zajtrkom znaša 50 evrov na osebo na noč.",
		"Naša domačija leži na sončni legi nad dolino in goste sprejema že več kot trideset let.",
		"Odprto: sobota in nedelja",
		"Večino sestavin pridelamo doma, od zelenjave do mesa in mlečnih izdelkov.",
	}
	if len(docs) != len(want) {
		t.Fatalf("expected %d documents, got %d: %+v", len(want), len(docs), docs)
	}
	for i, doc := range docs {
		if doc.Content != want[i] {
			t.Errorf("doc %d: got %q, want %q", i, doc.Content, want[i])
		}
		if doc.Seq != i {
			t.Errorf("doc %d: seq %d out of order", i, doc.Seq)
		}
	}
	// The navigation stub "Domov" is too short to retrieve anything and must
	// not survive the split.
	for _, doc := range docs {
		if doc.Content == "Domov" {
			t.Error("boilerplate chunk leaked into the corpus")
		}
	}
	if docs[2].Title != "O kmetiji" {
		t.Errorf("split chunks keep their page title, got %q", docs[2].Title)
	}
}
