// Package prompts holds the static instructions and response specifications
// for each workflow stage. Instructions describe the task; specs pin the
// JSON response contract the formatting parser expects.
package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents a workflow stage with its own prompt material.
type Stage string

// Valid workflow stages.
const (
	StageAnalyze  Stage = "analyze"
	StageClassify Stage = "classify"
	StageReflect  Stage = "reflect"
)

var stages = []Stage{
	StageAnalyze,
	StageClassify,
	StageReflect,
}

// Stages returns the list of valid workflow stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known workflow stage.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
