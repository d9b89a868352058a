package engine

import (
	"math"
	"testing"
)

func TestCalculate(t *testing.T) {
	c := NewConfidenceCalculator(nil, testLogger())

	tests := []struct {
		name   string
		scores map[string]float64
		score  float64
		action string
	}{
		{
			name:   "full agreement at maximum",
			scores: map[string]float64{MethodAI: 1.0, MethodRule: 1.0},
			score:  1.0,
			action: ActionAutoApply,
		},
		{
			name:   "no scores",
			scores: map[string]float64{},
			score:  0.0,
			action: ActionManualReview,
		},
		{
			name:   "single mid score",
			scores: map[string]float64{MethodAI: 0.7},
			score:  0.7,
			action: ActionSuggest,
		},
		{
			name:   "single low score",
			scores: map[string]float64{MethodKeyword: 0.3},
			score:  0.3,
			action: ActionManualReview,
		},
		{
			name: "disagreement penalty",
			// base = (0.95*0.40 + 0.60*0.20) / 0.60 = 0.8333; spread 0.35 > 0.30
			scores: map[string]float64{MethodAI: 0.95, MethodKeyword: 0.60},
			score:  (0.95*0.40+0.60*0.20)/0.60 - 0.20,
			action: ActionSuggest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Calculate(tt.scores, nil)

			if math.Abs(got.Score-tt.score) > 1e-9 {
				t.Errorf("score = %v, want %v", got.Score, tt.score)
			}
			if got.Action != tt.action {
				t.Errorf("action = %s, want %s", got.Action, tt.action)
			}
			if len(got.Reasons) == 0 {
				t.Error("expected reasons")
			}
		})
	}
}

func TestCalculateIgnoresUnknownSources(t *testing.T) {
	c := NewConfidenceCalculator(nil, testLogger())

	got := c.Calculate(map[string]float64{"mystery": 0.9}, nil)
	if got.Score != 0.0 || got.Action != ActionManualReview {
		t.Errorf("unknown-only sources: score=%v action=%s, want 0.0 manual_review",
			got.Score, got.Action)
	}
}

func TestCalculateFeatureAdjustments(t *testing.T) {
	c := NewConfidenceCalculator(nil, testLogger())
	base := map[string]float64{MethodAI: 0.7}

	tests := []struct {
		name     string
		features FileFeatures
		delta    float64
	}{
		{
			name: "high access frequency boost",
			features: FileFeatures{
				AccessFrequency: 0.6, DaysSinceEdit: UnknownDays, TextLength: 500,
			},
			delta: 0.10,
		},
		{
			name: "recent edit boost",
			features: FileFeatures{
				DaysSinceEdit: 3, TextLength: 500,
			},
			delta: 0.05,
		},
		{
			name: "low information penalty",
			features: FileFeatures{
				DaysSinceEdit: UnknownDays, TextLength: 10,
			},
			delta: -0.10,
		},
		{
			name: "zero length still penalized",
			features: FileFeatures{
				DaysSinceEdit: UnknownDays, TextLength: 0,
			},
			delta: -0.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Calculate(base, &tt.features)
			want := 0.7 + tt.delta
			if math.Abs(got.Score-want) > 1e-9 {
				t.Errorf("score = %v, want %v", got.Score, want)
			}
		})
	}
}

// The adjustment list is the audit record: base plus the sum of recorded
// amounts, clamped, must reproduce the final score exactly.
func TestAdjustmentsReconstructScore(t *testing.T) {
	c := NewConfidenceCalculator(nil, testLogger())

	cases := []struct {
		scores   map[string]float64
		features *FileFeatures
	}{
		{map[string]float64{MethodAI: 0.9, MethodRule: 0.88}, nil},
		{map[string]float64{MethodAI: 0.95, MethodKeyword: 0.55}, nil},
		{
			map[string]float64{MethodAI: 0.7},
			&FileFeatures{AccessFrequency: 0.8, DaysSinceEdit: 2, TextLength: 20},
		},
		{
			map[string]float64{MethodRule: 0.85, MethodKeyword: 0.80, MethodAI: 0.82},
			&FileFeatures{DaysSinceEdit: UnknownDays, TextLength: 400},
		},
	}

	for _, tc := range cases {
		got := c.Calculate(tc.scores, tc.features)

		sum := got.Details.BaseScore
		for _, adj := range got.Details.Adjustments {
			sum += adj.Amount
		}

		if math.Abs(Clamp(sum)-got.Score) > 1e-9 {
			t.Errorf("audit mismatch: base %v + adjustments != score %v (sum %v)",
				got.Details.BaseScore, got.Score, sum)
		}
	}
}

func TestAgreementBoostClamped(t *testing.T) {
	c := NewConfidenceCalculator(nil, testLogger())

	got := c.Calculate(map[string]float64{MethodAI: 0.98, MethodRule: 0.96}, nil)
	if got.Score != 1.0 {
		t.Errorf("score = %v, want clamped 1.0", got.Score)
	}
	if got.Action != ActionAutoApply {
		t.Errorf("action = %s, want auto_apply", got.Action)
	}
}

func TestCustomWeightWarning(t *testing.T) {
	// Weight sums outside [0.99, 1.01] warn but still work.
	c := NewConfidenceCalculator(map[string]float64{MethodAI: 0.5}, testLogger())

	got := c.Calculate(map[string]float64{MethodAI: 0.8}, nil)
	if math.Abs(got.Score-0.8) > 1e-9 {
		t.Errorf("score = %v, want renormalized 0.8", got.Score)
	}
}
