// Package knowledge loads the scraped site corpus and answers lexical
// retrieval queries over it.
package knowledge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"podgoro/models"
	"podgoro/utils"

	"go.uber.org/zap"
)

// Store holds the immutable retrieval corpus. Documents are loaded once at
// startup; there is no mutation path, so reads need no locking.
type Store struct {
	docs []models.KnowledgeDoc
}

// Corpus lines come in two shapes: pre-chunked lines carrying one paragraph,
// and whole-page scrapes carrying the full text under "content".
type corpusLine struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	Paragraph string `json:"paragraph"`
	Content   string `json:"content"`
}

// minParagraphRunes is the cutoff below which a chunk is treated as
// navigation or boilerplate unless it carries a term worth keeping.
const minParagraphRunes = 40

// Short chunks survive the length cutoff when they mention something a guest
// would ask about.
var importantTerms = []string{
	"cena", "cenik", "€", "eur",
	"telefon", "naslov", "e-pošta", "email",
	"odprt", "zaprt", "rezervac", "prihod",
	"zajtrk", "kosil", "večerj", "nočitev", "soba", "miza",
}

// NewStoreFromFile reads a line-delimited JSON corpus. A line with a
// "paragraph" field contributes one document; a line with "content"
// contributes one document per paragraph that passes the boilerplate filter.
// Blank and malformed lines are skipped.
func NewStoreFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("knowledge: open corpus %s: %w", path, err)
	}
	defer f.Close()

	logger := utils.GetLogger()
	var docs []models.KnowledgeDoc

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var rec corpusLine
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			logger.Warn("knowledge: skipping malformed corpus line",
				zap.Int("line", lineNo), zap.Error(err))
			continue
		}
		for _, paragraph := range recordParagraphs(rec) {
			docs = append(docs, models.KnowledgeDoc{
				URL:     rec.URL,
				Title:   rec.Title,
				Content: paragraph,
				Seq:     len(docs),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("knowledge: read corpus %s: %w", path, err)
	}

	logger.Info("knowledge: corpus loaded", zap.String("path", path), zap.Int("docs", len(docs)))
	return &Store{docs: docs}, nil
}

// recordParagraphs extracts the retrievable chunks of one corpus line.
// Pre-chunked paragraphs pass through as-is; whole-page content is split on
// blank lines and filtered.
func recordParagraphs(rec corpusLine) []string {
	if p := strings.TrimSpace(rec.Paragraph); p != "" {
		return []string{p}
	}
	return splitParagraphs(rec.Content)
}

// splitParagraphs breaks page text into paragraphs on blank lines,
// collapsing internal whitespace. Short chunks are dropped unless they
// mention an important term.
func splitParagraphs(content string) []string {
	var out []string
	for _, block := range strings.Split(content, "\n\n") {
		p := strings.Join(strings.Fields(block), " ")
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) < minParagraphRunes && !hasImportantTerm(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasImportantTerm(p string) bool {
	lower := strings.ToLower(p)
	for _, term := range importantTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// NewStore builds a store from an in-memory document list. Seq is assigned
// from position.
func NewStore(docs []models.KnowledgeDoc) *Store {
	out := make([]models.KnowledgeDoc, len(docs))
	copy(out, docs)
	for i := range out {
		out[i].Seq = i
	}
	return &Store{docs: out}
}

// Docs returns the corpus in insertion order.
func (s *Store) Docs() []models.KnowledgeDoc {
	return s.docs
}

// Len reports the number of documents in the corpus.
func (s *Store) Len() int {
	return len(s.docs)
}
