package service

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/beauteq/salonbot/internal/domain"
)

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Knowledge answers free-text questions about the salon with keyword-scored
// snippets that get attached to the system prompt.
type Knowledge struct {
	store Store
}

func NewKnowledge(store Store) *Knowledge {
	return &Knowledge{store: store}
}

// Search scores every entry by keyword overlap with the query and returns
// the topK best hits. No hits is a normal outcome.
func (k *Knowledge) Search(ctx context.Context, query string, topK int) ([]domain.KnowledgeSnippet, error) {
	entries, err := k.store.ListKnowledge(ctx)
	if err != nil {
		return nil, err
	}

	queryWords := wordSet(query)

	var hits []domain.KnowledgeSnippet
	for _, e := range entries {
		score := 0
		for word := range wordSet(e.Keywords) {
			if queryWords[word] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, domain.KnowledgeSnippet{
				Category: e.Category,
				Content:  e.Content,
				Score:    score,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func wordSet(text string) map[string]bool {
	words := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
	}
	return words
}
