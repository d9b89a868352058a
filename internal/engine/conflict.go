package engine

import (
	"fmt"
	"math"
	"sync"
)

// DefaultGapThreshold is the confidence gap at or above which two results
// are arbitrated automatically.
const DefaultGapThreshold = 0.2

const historyLimit = 1000

// Resolution methods recorded on resolver output.
const (
	ResolutionAutoByConfidence  = "auto_by_confidence"
	ResolutionPendingUserReview = "pending_user_review"
)

// Resolution is the outcome of arbitrating two classifier results.
// FinalCategory is always set: under conflict it carries resultA's category
// as a provisional placeholder pending human review.
type Resolution struct {
	FinalCategory    string  `json:"final_category"`
	Confidence       float64 `json:"confidence"`
	ConfidenceGap    float64 `json:"confidence_gap"`
	ConflictDetected bool    `json:"conflict_detected"`
	RequiresReview   bool    `json:"requires_review"`
	ResolutionMethod string  `json:"resolution_method"`
	Reason           string  `json:"reason"`
}

// ResolverStatistics summarizes resolver history.
type ResolverStatistics struct {
	Total        int     `json:"total"`
	Conflicts    int     `json:"conflicts"`
	ConflictRate float64 `json:"conflict_rate"`
}

// ConflictResolver arbitrates between two independently produced
// classification results. Resolution itself is pure and deterministic; the
// resolver additionally keeps a bounded in-memory history (FIFO eviction at
// 1000 entries) for statistics, guarded by a mutex so one resolver instance
// may be shared across concurrent requests.
type ConflictResolver struct {
	gapThreshold float64

	mu      sync.Mutex
	history []Resolution
}

// NewConflictResolver creates a resolver. A non-positive gap threshold
// installs the default of 0.2.
func NewConflictResolver(gapThreshold float64) *ConflictResolver {
	if gapThreshold <= 0 {
		gapThreshold = DefaultGapThreshold
	}
	return &ConflictResolver{gapThreshold: gapThreshold}
}

// Resolve arbitrates a and b on their confidence gap alone. A gap at or
// above the threshold lets the higher-confidence result win (ties prefer a);
// a narrower gap is a conflict requiring human review even when both
// classifiers name the same category, with a's category held provisionally
// and confidence set to the max of the two inputs. Category agreement is
// recorded in the reason for reviewers but never changes the conflict flags.
func (r *ConflictResolver) Resolve(a, b ClassificationResult) Resolution {
	gap := math.Abs(a.Confidence - b.Confidence)

	var res Resolution
	if gap >= r.gapThreshold {
		winner := a
		if b.Confidence > a.Confidence {
			winner = b
		}
		res = Resolution{
			FinalCategory:    winner.Category,
			Confidence:       Clamp(winner.Confidence),
			ConfidenceGap:    gap,
			ResolutionMethod: ResolutionAutoByConfidence,
			Reason: fmt.Sprintf(
				"confidence gap %.2f >= %.2f, selected %s result",
				gap, r.gapThreshold, winner.Method,
			),
		}
	} else {
		reason := fmt.Sprintf(
			"confidence gap %.2f < %.2f between %s and %s, review required",
			gap, r.gapThreshold, a.Method, b.Method,
		)
		if a.Category == b.Category {
			reason = fmt.Sprintf(
				"%s and %s agree on %s but confidence gap %.2f < %.2f, review required",
				a.Method, b.Method, a.Category, gap, r.gapThreshold,
			)
		}
		res = Resolution{
			FinalCategory:    a.Category,
			Confidence:       Clamp(math.Max(a.Confidence, b.Confidence)),
			ConfidenceGap:    gap,
			ConflictDetected: true,
			RequiresReview:   true,
			ResolutionMethod: ResolutionPendingUserReview,
			Reason:           reason,
		}
	}

	r.record(res)
	return res
}

// Statistics returns totals and conflict rate over the retained history.
func (r *ConflictResolver) Statistics() ResolverStatistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := ResolverStatistics{Total: len(r.history)}
	for _, res := range r.history {
		if res.ConflictDetected {
			stats.Conflicts++
		}
	}
	if stats.Total > 0 {
		stats.ConflictRate = float64(stats.Conflicts) / float64(stats.Total)
	}
	return stats
}

func (r *ConflictResolver) record(res Resolution) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = append(r.history, res)
	if len(r.history) > historyLimit {
		r.history = r.history[len(r.history)-historyLimit:]
	}
}
