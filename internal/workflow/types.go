package workflow

import (
	"time"

	"github.com/quadrant-labs/quadrant/internal/engine"
)

// State bag keys.
const (
	KeyRunState = "run_state"
)

// RunState is the record threaded through one workflow run. Each node
// consumes the current value from the state bag and sets an updated copy;
// the record is discarded when the graph reaches its exit point. One run
// owns its RunState exclusively, so concurrent classification requests
// never share state.
type RunState struct {
	FileContent      string                 `json:"file_content"`
	FileName         string                 `json:"file_name"`
	Keywords         []string               `json:"extracted_keywords"`
	RetrievedContext string                 `json:"retrieved_context,omitempty"`
	ReflectHint      string                 `json:"reflect_hint,omitempty"`
	RetryCount       int                    `json:"retry_count"`
	Usage            *engine.UsageStats     `json:"usage,omitempty"`
	Result           *engine.ClassifyResult `json:"classification_result,omitempty"`
	ConfidenceScore  float64                `json:"confidence_score"`
	Reasoning        string                 `json:"reasoning,omitempty"`
}

// Result is the completed outcome of a workflow run.
type Result struct {
	FileName    string                 `json:"file_name"`
	Keywords    []string               `json:"keywords"`
	RetryCount  int                    `json:"retry_count"`
	Verdict     *engine.ClassifyResult `json:"verdict"`
	CompletedAt time.Time              `json:"completed_at"`
}
