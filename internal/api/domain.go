package api

import (
	"fmt"

	"github.com/quadrant-labs/quadrant/internal/notes"
	"github.com/quadrant-labs/quadrant/internal/verdicts"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Notes    notes.System
	Verdicts verdicts.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	noteSystem := notes.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	verdictSystem, err := verdicts.New(
		runtime.Database.Connection(),
		runtime.Agent,
		runtime.Engine,
		runtime.Logger,
		runtime.Pagination,
		noteSystem,
	)
	if err != nil {
		return nil, fmt.Errorf("verdicts system: %w", err)
	}

	return &Domain{
		Notes:    noteSystem,
		Verdicts: verdictSystem,
	}, nil
}
