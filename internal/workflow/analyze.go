package workflow

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/quadrant-labs/quadrant/internal/prompts"
	"github.com/quadrant-labs/quadrant/pkg/formatting"
)

const (
	maxKeywords = 8

	// Below this many words the LLM adds nothing over plain frequency
	// analysis, so analyze skips the network call entirely.
	llmKeywordMinWords = 20

	analyzeMaxTokens = 128
)

type analyzeResponse struct {
	Keywords []string `json:"keywords"`
}

// AnalyzeNode returns a state node that extracts search keywords from the
// note text. It asks the LLM first; on failure, unparseable output, or short
// text it falls back to frequency-based extraction. Keyword extraction never
// fails the run.
func AnalyzeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		rs, err := extractRunState(s)
		if err != nil {
			return s, fmt.Errorf("analyze: %w", err)
		}

		rs.Keywords = extractKeywords(ctx, rt, rs.FileContent)

		rt.Logger.InfoContext(
			ctx, "analyze node complete",
			"file", rs.FileName,
			"keywords", len(rs.Keywords),
		)

		s = s.Set(KeyRunState, *rs)
		return s, nil
	})
}

func extractKeywords(ctx context.Context, rt *Runtime, content string) []string {
	words := tokenPattern.FindAllString(strings.ToLower(content), -1)
	if rt.Completer == nil || len(words) < llmKeywordMinWords {
		return frequencyKeywords(words)
	}

	prompt, err := ComposePrompt(prompts.StageAnalyze)
	if err != nil {
		rt.Logger.Warn("analyze prompt unavailable, using frequency fallback", "error", err)
		return frequencyKeywords(words)
	}

	raw, err := rt.Completer.Complete(ctx, prompt, content, analyzeMaxTokens)
	if err != nil {
		rt.Logger.Warn("keyword completion failed, using frequency fallback", "error", err)
		return frequencyKeywords(words)
	}

	parsed, err := formatting.Parse[analyzeResponse](raw)
	if err != nil || len(parsed.Keywords) == 0 {
		rt.Logger.Warn("keyword response unparseable, using frequency fallback")
		return frequencyKeywords(words)
	}

	if len(parsed.Keywords) > maxKeywords {
		parsed.Keywords = parsed.Keywords[:maxKeywords]
	}
	return parsed.Keywords
}

var tokenPattern = regexp.MustCompile(`\b\w+\b`)

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "have": {}, "are": {}, "was": {}, "were": {}, "will": {},
	"not": {}, "but": {}, "all": {}, "can": {}, "has": {}, "its": {},
	"into": {}, "then": {}, "than": {}, "when": {}, "what": {}, "your": {},
}

// frequencyKeywords ranks words longer than three characters by frequency,
// excluding stopwords, and returns up to maxKeywords of them. Ties resolve
// alphabetically so extraction is deterministic.
func frequencyKeywords(words []string) []string {
	counts := map[string]int{}
	for _, w := range words {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		counts[w]++
	}

	ranked := make([]string, 0, len(counts))
	for w := range counts {
		ranked = append(ranked, w)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if counts[ranked[i]] != counts[ranked[j]] {
			return counts[ranked[i]] > counts[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})

	if len(ranked) > maxKeywords {
		ranked = ranked[:maxKeywords]
	}
	return ranked
}
