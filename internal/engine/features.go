package engine

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// UnknownDays is the sentinel for absent or invalid day counters,
// representing "unknown/never".
const UnknownDays = 999

// UsageStats carries optional usage signals supplied by the environment.
// A nil UsageStats degrades every temporal metric to its documented default.
type UsageStats struct {
	AccessCount     int `json:"access_count"`
	EditCount       int `json:"edit_count"`
	DaysSinceAccess int `json:"days_since_access"`
	DaysSinceEdit   int `json:"days_since_edit"`
}

// FileFeatures is the signal bundle derived from one extraction call. It has
// no persistent identity; two calls with identical inputs yield identical
// bundles.
type FileFeatures struct {
	TextLength    int     `json:"text_length"`
	WordCount     int     `json:"word_count"`
	UniqueWords   int     `json:"unique_words"`
	AvgWordLength float64 `json:"avg_word_length"`

	HasDeadline  bool `json:"has_deadline"`
	HasChecklist bool `json:"has_checklist"`
	HasCodeBlock bool `json:"has_code_block"`

	DaysSinceAccess int     `json:"days_since_access"`
	DaysSinceEdit   int     `json:"days_since_edit"`
	AccessFrequency float64 `json:"access_frequency"`
	EditFrequency   float64 `json:"edit_frequency"`

	ReferenceCount int `json:"reference_count"`
	TagCount       int `json:"tag_count"`

	SentimentScore    float64  `json:"sentiment_score"`
	UrgencyIndicators []string `json:"urgency_indicators"`
}

var (
	wordPattern      = regexp.MustCompile(`\b\w+\b`)
	checklistPattern = regexp.MustCompile(`(?im)^\s*[-*]\s*\[\s*[xX]?\s*\]`)
	isoDatePattern   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	deadlinePattern  = regexp.MustCompile(`(?i)\b(deadline|due date)\b`)
	wikiLinkPattern  = regexp.MustCompile(`\[\[[^\]]+\]\]`)
	mdLinkPattern    = regexp.MustCompile(`\[[^\]]*\]\([^)]+\)`)
	tagPattern       = regexp.MustCompile(`(^|\s)#\w+`)
)

var positiveLexicon = []string{
	"good", "great", "excellent", "done", "success", "win", "progress",
	"improved", "happy", "clear", "resolved", "easy",
}

var negativeLexicon = []string{
	"bad", "fail", "failed", "blocked", "problem", "issue", "bug",
	"broken", "stuck", "hard", "risk", "worried",
}

var urgencyKeywords = []string{
	"urgent", "asap", "immediately", "critical", "today", "overdue", "now",
}

// FeatureExtractor derives lexical, structural, temporal, relational, and
// sentiment signals from note content. It is stateless and safe for
// concurrent use.
type FeatureExtractor struct {
	logger *slog.Logger
}

// NewFeatureExtractor creates a feature extractor.
func NewFeatureExtractor(logger *slog.Logger) *FeatureExtractor {
	return &FeatureExtractor{logger: logger.With("system", "features")}
}

// Extract computes a FileFeatures bundle from content, metadata, and optional
// usage statistics. Extraction must never abort classification: any panic is
// recovered at this level and a fully-defaulted bundle is returned instead.
func (x *FeatureExtractor) Extract(content string, metadata map[string]any, usage *UsageStats) (features FileFeatures) {
	defer func() {
		if r := recover(); r != nil {
			x.logger.Warn("feature extraction recovered", "panic", r)
			features = defaultFeatures()
		}
	}()

	features = defaultFeatures()
	lower := strings.ToLower(content)

	words := wordPattern.FindAllString(lower, -1)
	features.TextLength = len(content)
	features.WordCount = len(words)
	if len(words) > 0 {
		unique := make(map[string]struct{}, len(words))
		total := 0
		for _, w := range words {
			unique[w] = struct{}{}
			total += len(w)
		}
		features.UniqueWords = len(unique)
		features.AvgWordLength = float64(total) / float64(len(words))
	}

	features.HasChecklist = checklistPattern.MatchString(content)
	features.HasCodeBlock = strings.Contains(content, "```")
	features.HasDeadline = truthy(metadata["deadline"]) ||
		isoDatePattern.MatchString(content) ||
		deadlinePattern.MatchString(content)

	features.DaysSinceAccess, features.AccessFrequency = frequency(usage, true)
	features.DaysSinceEdit, features.EditFrequency = frequency(usage, false)

	features.ReferenceCount = len(wikiLinkPattern.FindAllString(content, -1)) +
		len(mdLinkPattern.FindAllString(content, -1))
	features.TagCount = len(tagPattern.FindAllString(content, -1))

	features.SentimentScore = sentiment(words)
	features.UrgencyIndicators = urgency(lower)

	return features
}

func defaultFeatures() FileFeatures {
	return FileFeatures{
		DaysSinceAccess:   UnknownDays,
		DaysSinceEdit:     UnknownDays,
		UrgencyIndicators: []string{},
	}
}

// frequency computes max(0, count) / (days + 1). Negative or absent day
// counters degrade to the UnknownDays sentinel before the division, so the
// +1 offset also guards against division by zero.
func frequency(usage *UsageStats, access bool) (int, float64) {
	days := UnknownDays
	count := 0
	if usage != nil {
		if access {
			days, count = usage.DaysSinceAccess, usage.AccessCount
		} else {
			days, count = usage.DaysSinceEdit, usage.EditCount
		}
	}
	if days < 0 {
		days = UnknownDays
	}
	if count < 0 {
		count = 0
	}
	return days, float64(count) / float64(days+1)
}

func sentiment(words []string) float64 {
	positive, negative := 0, 0
	for _, w := range words {
		if slices.Contains(positiveLexicon, w) {
			positive++
		}
		if slices.Contains(negativeLexicon, w) {
			negative++
		}
	}
	if positive+negative == 0 {
		return 0.0
	}
	return float64(positive-negative) / float64(positive+negative)
}

func urgency(lower string) []string {
	found := []string{}
	for _, kw := range urgencyKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
