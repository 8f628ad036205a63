package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"pocketaria/internal/library"
)

// FuzzyRatio bounds fuzzy term matches to this fraction of the query term's
// length in edits.
const FuzzyRatio = 0.2

const (
	exactWeight       = 1.0
	prefixWeight      = 0.75
	fuzzyWeight       = 0.5
	subsequenceWeight = 0.25

	// minSubsequence is the shortest query term tried as a subsequence.
	minSubsequence = 3
)

// Result is one ranked search hit.
type Result struct {
	ID    string
	Score float64
}

// Index is an in-memory inverted view over extracted song fields. It is safe
// for concurrent use.
type Index struct {
	mu      sync.RWMutex
	docs    map[string]map[Field][]string
	docFreq map[string]int
}

// NewIndex returns a populated index.
func NewIndex(projects ...*library.Project) *Index {
	ix := &Index{
		docs:    make(map[string]map[Field][]string),
		docFreq: make(map[string]int),
	}
	for _, project := range projects {
		ix.Add(project)
	}
	return ix
}

// Add indexes a song, replacing any earlier version with the same id.
func (ix *Index) Add(project *library.Project) {
	if project == nil || project.ID == "" {
		return
	}
	doc := Extract(project)
	fields := make(map[Field][]string, len(doc.Fields))
	for field, text := range doc.Fields {
		if terms := Tokenize(text); len(terms) > 0 {
			fields[field] = terms
		}
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(project.ID)
	ix.docs[project.ID] = fields
	for term := range uniqueTerms(fields) {
		ix.docFreq[term]++
	}
}

// Remove drops a song from the index. Unknown ids are ignored.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(id)
}

// Reset replaces the whole index content.
func (ix *Index) Reset(projects []*library.Project) {
	ix.mu.Lock()
	ix.docs = make(map[string]map[Field][]string)
	ix.docFreq = make(map[string]int)
	ix.mu.Unlock()
	for _, project := range projects {
		ix.Add(project)
	}
}

// Len reports the number of indexed songs.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.docs)
}

// Search ranks songs against the query terms. A song matches when any term
// matches any field exactly, by prefix, within the fuzzy edit bound, or as
// an ordered subsequence of a field term.
// Results are ordered by descending score; limit <= 0 returns all hits.
func (ix *Index) Search(query string, limit int) []Result {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	total := float64(len(ix.docs))
	var results []Result
	for id, fields := range ix.docs {
		var score float64
		for _, term := range terms {
			for field, tokens := range fields {
				best := 0.0
				for _, token := range tokens {
					weight := matchWeight(term, token)
					if weight == 0 {
						continue
					}
					weight *= idf(total, ix.docFreq[token])
					if weight > best {
						best = weight
					}
				}
				score += best * boost(field)
			}
		}
		if score > 0 {
			results = append(results, Result{ID: id, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (ix *Index) removeLocked(id string) {
	fields, ok := ix.docs[id]
	if !ok {
		return
	}
	for term := range uniqueTerms(fields) {
		if ix.docFreq[term]--; ix.docFreq[term] <= 0 {
			delete(ix.docFreq, term)
		}
	}
	delete(ix.docs, id)
}

func uniqueTerms(fields map[Field][]string) map[string]struct{} {
	seen := make(map[string]struct{})
	for _, tokens := range fields {
		for _, token := range tokens {
			seen[token] = struct{}{}
		}
	}
	return seen
}

func boost(field Field) float64 {
	if value, ok := Boosts[field]; ok {
		return value
	}
	return 1
}

// idf follows the smoothed inverse document frequency, offset so a term
// present in every document still contributes.
func idf(total float64, docFreq int) float64 {
	return math.Log((total+1)/(1+float64(docFreq))) + 1
}

func matchWeight(query, token string) float64 {
	switch {
	case query == token:
		return exactWeight
	case strings.HasPrefix(token, query):
		return prefixWeight
	}
	queryLen := utf8.RuneCountInString(query)
	maxEdits := int(float64(queryLen) * FuzzyRatio)
	if diff := utf8.RuneCountInString(token) - queryLen; maxEdits > 0 && diff <= maxEdits && -diff <= maxEdits {
		if fuzzy.LevenshteinDistance(query, token) <= maxEdits {
			return fuzzyWeight
		}
	}
	// Abbreviations such as "mzrt" for "mozart".
	if queryLen >= minSubsequence && fuzzy.Match(query, token) {
		return subsequenceWeight
	}
	return 0
}
