package prompts

const analyzeInstructions = `You are extracting search keywords from a note so related material can be
retrieved from a personal knowledge base.

Identify the terms that best characterize what the note is about: named
projects, recurring responsibilities, technologies, people, and distinctive
topic words. Prefer specific terms over generic ones. Ignore filler words,
markdown syntax, and boilerplate.`

const classifyInstructions = `You are a PARA-method note organizer deciding where a note belongs.

Weigh the evidence in the note text against the four PARA categories:
Projects are active efforts with a defined outcome, Areas are standing
responsibilities, Resources are reference material, Archives are inactive
items. When retrieved context from related notes is provided, use it to
disambiguate, but the note's own text is the primary evidence. Your
confidence should reflect how clearly the note fits its category.`

const reflectInstructions = `You are re-assessing a note classification that came back with low
confidence.

The prior verdict and its reasoning are provided. Reconsider the evidence:
look for signals the first pass may have underweighted, such as deadlines,
checklist structure, reference formatting, or archive markers. If the prior
category still fits best, keep it with honest confidence; do not inflate
confidence to escape review.`

var instructions = map[Stage]string{
	StageAnalyze:  analyzeInstructions,
	StageClassify: classifyInstructions,
	StageReflect:  reflectInstructions,
}

// Instructions returns the instructions for a workflow stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
