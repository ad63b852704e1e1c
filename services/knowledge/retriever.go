package knowledge

import (
	"regexp"
	"sort"
	"strings"

	"podgoro/models"
)

// tokenRe matches word tokens including Slovenian diacritics.
var tokenRe = regexp.MustCompile(`[A-Za-zČŠŽčšžĐđĆć0-9]+`)

// stopwords are high-frequency Slovenian words that carry no retrieval signal.
// Tokens shorter than three runes are dropped before this set is consulted.
var stopwords = map[string]struct{}{
	"ali": {}, "kot": {}, "tudi": {}, "ter": {}, "kje": {}, "kaj": {},
	"kako": {}, "kdaj": {}, "kdo": {}, "lahko": {}, "imate": {}, "ima": {},
	"imam": {}, "vas": {}, "vam": {}, "sem": {}, "smo": {}, "ste": {},
	"bodo": {}, "biti": {}, "naj": {}, "pri": {}, "nas": {}, "vaš": {},
	"vaša": {}, "vaše": {}, "zelo": {}, "prosim": {}, "hvala": {},
	"bilo": {}, "kjer": {}, "the": {}, "and": {}, "for": {},
}

// Tokenize normalizes text into the token set used for overlap scoring:
// lowercase word tokens of at least three runes, stopwords removed.
func Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if len([]rune(t)) < 3 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokenize(text) {
		set[t] = struct{}{}
	}
	return set
}

// Retriever scores corpus documents against a query by token overlap.
// Title matches count at half the weight of body matches and the sum is
// normalized by the query token count, so scores are comparable across
// queries of different lengths.
type Retriever struct {
	store *Store
}

// NewRetriever builds a retriever over the given store.
func NewRetriever(store *Store) *Retriever {
	return &Retriever{store: store}
}

const (
	titleWeight = 0.5
	// minOverlap is the minimum number of shared tokens for a document to be
	// considered related to the query at all.
	minOverlap = 2
	// Ratio thresholds for the confidence gate. Long queries dilute the
	// normalized score, so they use a lower ratio but require the absolute
	// overlap as well; short queries may pass on either signal.
	longQueryTokens = 6
	longQueryRatio  = 0.25
	shortQueryRatio = 0.5
)

// Retrieve returns up to k documents relevant to the query, best first.
// Documents that do not pass the confidence gate are withheld entirely: an
// empty result means the corpus has nothing trustworthy to say, and callers
// must decline rather than invent an answer.
func (r *Retriever) Retrieve(query string, k int) []models.RetrievalResult {
	if k <= 0 {
		return nil
	}
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return nil
	}

	var results []models.RetrievalResult
	for _, doc := range r.store.Docs() {
		overlap, score := r.scoreDoc(queryTokens, doc)
		if !passesGate(len(queryTokens), overlap, score) {
			continue
		}
		results = append(results, models.RetrievalResult{Doc: doc, Score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Doc.Seq < results[j].Doc.Seq
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// scoreDoc returns the body-token overlap count and the normalized score.
func (r *Retriever) scoreDoc(queryTokens map[string]struct{}, doc models.KnowledgeDoc) (int, float64) {
	bodyTokens := tokenSet(doc.Content)
	titleTokens := tokenSet(doc.Title)

	overlap := 0
	titleOverlap := 0
	for t := range queryTokens {
		if _, ok := bodyTokens[t]; ok {
			overlap++
		}
		if _, ok := titleTokens[t]; ok {
			titleOverlap++
		}
	}

	score := (float64(overlap) + titleWeight*float64(titleOverlap)) / float64(len(queryTokens))
	return overlap, score
}

func passesGate(queryLen, overlap int, score float64) bool {
	if overlap == 0 && score == 0 {
		return false
	}
	if queryLen >= longQueryTokens {
		return overlap >= minOverlap && score >= longQueryRatio
	}
	return overlap >= minOverlap || score >= shortQueryRatio
}
