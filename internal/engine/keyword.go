package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// categoryLexicons maps each PARA category to the vocabulary that signals it.
// Matching is whole-word and case-insensitive.
var categoryLexicons = map[string][]string{
	CategoryProjects:  {"project", "roadmap", "milestone", "sprint", "deadline", "launch", "task", "todo"},
	CategoryAreas:     {"routine", "habit", "ongoing", "maintenance", "health", "finance", "finances", "responsibility"},
	CategoryResources: {"reference", "tutorial", "article", "documentation", "guide", "snippet", "bookmark", "recipe"},
	CategoryArchives:  {"archive", "archived", "completed", "deprecated", "obsolete", "old", "finished"},
}

// KeywordClassifier scores text by lexical overlap with fixed per-category
// lexicons. Its confidence reflects match strength: each distinct lexicon hit
// adds 0.15 on top of a 0.30 floor, capped at 0.90 so a keyword verdict can
// never outrank a confident rule or AI verdict on its own. Matched words are
// reported as tags.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Classify implements Classifier. It never returns an error; text without
// lexicon hits produces the documented Unclassified result.
func (c *KeywordClassifier) Classify(ctx context.Context, text string, _ map[string]any) (ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return Unclassified(MethodKeyword, "empty text"), nil
	}

	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	present := make(map[string]struct{}, len(words))
	for _, w := range words {
		present[w] = struct{}{}
	}

	best := ""
	bestHits := []string{}
	for _, category := range categoryOrder {
		hits := lexiconHits(categoryLexicons[category], present)
		if len(hits) > len(bestHits) {
			best = category
			bestHits = hits
		}
	}

	if best == "" {
		return Unclassified(MethodKeyword, "no category keywords found"), nil
	}

	confidence := Clamp(0.30 + 0.15*float64(len(bestHits)))
	if confidence > 0.90 {
		confidence = 0.90
	}

	return ClassificationResult{
		Category:   best,
		Confidence: confidence,
		Method:     MethodKeyword,
		Reasoning:  fmt.Sprintf("matched %d %s keywords: %s", len(bestHits), best, strings.Join(bestHits, ", ")),
		Tags:       bestHits,
	}, nil
}

// categoryOrder fixes iteration order so equal hit counts resolve
// deterministically.
var categoryOrder = []string{
	CategoryProjects,
	CategoryAreas,
	CategoryResources,
	CategoryArchives,
}

func lexiconHits(lexicon []string, present map[string]struct{}) []string {
	hits := []string{}
	for _, kw := range lexicon {
		if _, ok := present[kw]; ok {
			hits = append(hits, kw)
		}
	}
	sort.Strings(hits)
	return hits
}
