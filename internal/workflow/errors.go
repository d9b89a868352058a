package workflow

import "errors"

// Workflow node errors.
var (
	ErrClassifyFailed = errors.New("classify stage failed")
	ErrFinalizeFailed = errors.New("finalize stage failed")
)
