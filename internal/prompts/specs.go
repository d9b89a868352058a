package prompts

const analyzeSpec = `Respond with a JSON object matching this exact structure:

{
  "keywords": ["<keyword1>", "<keyword2>"]
}

Field constraints:
- keywords: three to eight lowercase terms, most distinctive first

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Keywords must appear in or be directly implied by the note text`

const classifySpec = `Respond with a JSON object matching this exact structure:

{
  "category": "<Projects|Areas|Resources|Archives>",
  "confidence": 0.0,
  "reasoning": "<explanation>",
  "tags": ["<tag1>", "<tag2>"]
}

Field constraints:
- category: exactly one of the four PARA categories
- confidence: number between 0.0 and 1.0
- reasoning: brief explanation citing evidence from the note
- tags: up to five lowercase topic tags

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Classify based only on the note text and provided context`

const reflectSpec = classifySpec

var specs = map[Stage]string{
	StageAnalyze:  analyzeSpec,
	StageClassify: classifySpec,
	StageReflect:  reflectSpec,
}

// Spec returns the response specification for a workflow stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
