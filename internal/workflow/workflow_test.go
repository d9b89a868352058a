package workflow

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/quadrant-labs/quadrant/internal/engine"
	"github.com/quadrant-labs/quadrant/internal/prompts"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) engine.Config {
	t.Helper()

	cfg := engine.Config{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("config finalize failed: %v", err)
	}
	return cfg
}

func testRuntime(t *testing.T, completer engine.Completer) *Runtime {
	t.Helper()

	prompt, err := ComposePrompt(prompts.StageClassify)
	if err != nil {
		t.Fatalf("compose classify prompt failed: %v", err)
	}

	cfg := testConfig(t)
	pipeline, err := engine.NewPipeline(&cfg, completer, prompt, testLogger())
	if err != nil {
		t.Fatalf("pipeline construction failed: %v", err)
	}

	return &Runtime{
		Pipeline:  pipeline,
		Completer: completer,
		Config:    cfg,
		Logger:    testLogger(),
	}
}

func stateWith(rs RunState) state.State {
	return state.New(nil).Set(KeyRunState, rs)
}

// recordingCompleter captures the system prompt of every call.
type recordingCompleter struct {
	systemPrompts []string
	response      string
}

func (c *recordingCompleter) Complete(_ context.Context, systemPrompt, _ string, _ int) (string, error) {
	c.systemPrompts = append(c.systemPrompts, systemPrompt)
	return c.response, nil
}

func TestRetryCondition(t *testing.T) {
	cfg := testConfig(t)

	tests := []struct {
		name   string
		result *engine.ClassifyResult
		retry  int
		want   bool
	}{
		{
			name:   "low confidence with budget",
			result: &engine.ClassifyResult{Confidence: 0.4},
			retry:  0,
			want:   true,
		},
		{
			name:   "low confidence at budget",
			result: &engine.ClassifyResult{Confidence: 0.4},
			retry:  cfg.MaxRetries,
			want:   false,
		},
		{
			name:   "confidence at threshold",
			result: &engine.ClassifyResult{Confidence: cfg.RetryThreshold},
			retry:  0,
			want:   false,
		},
		{
			name:   "high confidence",
			result: &engine.ClassifyResult{Confidence: 0.9},
			retry:  0,
			want:   false,
		},
		{
			name:   "missing verdict never retries",
			result: nil,
			retry:  0,
			want:   false,
		},
	}

	cond := retryCondition(cfg)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWith(RunState{Result: tt.result, RetryCount: tt.retry})
			if got := cond(s); got != tt.want {
				t.Errorf("retry = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReflectNodeAccounting(t *testing.T) {
	rt := testRuntime(t, nil)
	node := reflectFn(rt)

	s := stateWith(RunState{
		FileName: "a.md",
		Result: &engine.ClassifyResult{
			Category:   engine.CategoryAreas,
			Confidence: 0.4,
			Reasoning:  "weak signal",
		},
	})

	out, err := node(context.Background(), s)
	if err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	rs, err := extractRunState(out)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if rs.RetryCount != 1 {
		t.Errorf("retry count = %d, want 1", rs.RetryCount)
	}
	if !strings.Contains(rs.ReflectHint, engine.CategoryAreas) {
		t.Errorf("reflect hint %q missing prior category", rs.ReflectHint)
	}
	if !strings.Contains(rs.ReflectHint, "re-assessing") {
		t.Errorf("reflect hint %q missing reassessment guidance", rs.ReflectHint)
	}
}

func TestClassifyNodeUsesStagePrompt(t *testing.T) {
	completer := &recordingCompleter{
		response: `{"category": "Resources", "confidence": 0.77, "reasoning": "reference"}`,
	}
	rt := testRuntime(t, completer)
	node := classifyFn(rt)

	// No rule vocabulary present, so the pipeline reaches the AI classifier.
	s := stateWith(RunState{
		FileContent: "thoughts on sourdough hydration ratios",
		FileName:    "bread.md",
	})

	if _, err := node(context.Background(), s); err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if len(completer.systemPrompts) != 1 {
		t.Fatalf("completer calls = %d, want 1", len(completer.systemPrompts))
	}
	if !strings.Contains(completer.systemPrompts[0], "deciding where a note belongs") {
		t.Errorf("system prompt %q missing classify stage instructions",
			completer.systemPrompts[0])
	}
}

func TestClassifyNodeProducesVerdict(t *testing.T) {
	rt := testRuntime(t, nil)
	node := classifyFn(rt)

	s := stateWith(RunState{
		FileContent: "This is a new project roadmap.",
		FileName:    "plan.md",
		Keywords:    []string{"project", "roadmap"},
	})

	out, err := node(context.Background(), s)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	rs, err := extractRunState(out)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if rs.Result == nil {
		t.Fatal("expected verdict in run state")
	}
	if rs.Result.Category != engine.CategoryProjects {
		t.Errorf("category = %s, want Projects", rs.Result.Category)
	}
	if rs.ConfidenceScore != rs.Result.Confidence {
		t.Errorf("confidence score %v != verdict confidence %v",
			rs.ConfidenceScore, rs.Result.Confidence)
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	rt := testRuntime(t, nil)

	got, err := Execute(
		context.Background(), rt,
		"This is a new project roadmap with a sprint milestone deadline.",
		"plan.md",
		nil,
	)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if got.Verdict == nil {
		t.Fatal("expected verdict")
	}
	if got.FileName != "plan.md" {
		t.Errorf("file name = %s, want plan.md", got.FileName)
	}
	if got.Verdict.Category != engine.CategoryProjects {
		t.Errorf("category = %s, want Projects", got.Verdict.Category)
	}
	if got.CompletedAt.IsZero() {
		t.Error("expected completion timestamp")
	}
}

func TestExecuteRetriesExhaustWithoutError(t *testing.T) {
	rt := testRuntime(t, nil)

	// Weak evidence keeps confidence below the retry threshold on every
	// pass; the workflow must still return the final verdict.
	got, err := Execute(
		context.Background(), rt,
		"a tutorial on bread baking",
		"bread.md",
		nil,
	)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if got.RetryCount != rt.Config.MaxRetries {
		t.Errorf("retry count = %d, want exhausted budget %d",
			got.RetryCount, rt.Config.MaxRetries)
	}
	if got.Verdict.Action != engine.ActionManualReview {
		t.Errorf("action = %s, want manual_review", got.Verdict.Action)
	}
}

func TestComposePrompt(t *testing.T) {
	for _, stage := range []prompts.Stage{
		prompts.StageAnalyze,
		prompts.StageClassify,
		prompts.StageReflect,
	} {
		got, err := ComposePrompt(stage)
		if err != nil {
			t.Fatalf("stage %s: %v", stage, err)
		}
		if !strings.Contains(got, "JSON") {
			t.Errorf("stage %s prompt missing response spec", stage)
		}
	}

	if _, err := ComposePrompt(prompts.Stage("bogus")); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestFrequencyKeywords(t *testing.T) {
	words := strings.Fields(
		"kubernetes kubernetes kubernetes deployment deployment the and for cat",
	)

	got := frequencyKeywords(words)

	if len(got) != 2 {
		t.Fatalf("keywords = %v, want 2 entries", got)
	}
	if got[0] != "kubernetes" || got[1] != "deployment" {
		t.Errorf("keywords = %v, want frequency order", got)
	}
}

func TestFrequencyKeywordsTieAlphabetical(t *testing.T) {
	got := frequencyKeywords([]string{"zebra", "apple", "zebra", "apple"})

	if len(got) != 2 || got[0] != "apple" || got[1] != "zebra" {
		t.Errorf("keywords = %v, want alphabetical tie break", got)
	}
}

func TestFrequencyKeywordsBounded(t *testing.T) {
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo",
		"foxtrot", "golf", "hotel", "india", "juliet",
	}

	if got := frequencyKeywords(words); len(got) != maxKeywords {
		t.Errorf("len = %d, want %d", len(got), maxKeywords)
	}
}
