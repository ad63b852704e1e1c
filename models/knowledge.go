package models

// KnowledgeDoc is one immutable retrievable unit: a paragraph split out of a
// scraped page, with the page title and source URL kept for scoring and audit.
type KnowledgeDoc struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Seq     int    `json:"-"` // insertion order, used as the stable tie-break
}

// RetrievalResult pairs a document with its relevance score for a query.
type RetrievalResult struct {
	Doc   KnowledgeDoc `json:"doc"`
	Score float64      `json:"score"`
}
