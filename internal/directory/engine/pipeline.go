// internal/directory/engine/pipeline.go
package engine

import "lusotown-workers/internal/common/logger"

// Result is the output of one full pipeline run.
type Result struct {
	Entities    []Entity
	Skipped     int
	SortApplied SortKey
}

// Run executes the full pipeline: filter, then sort, then the optional
// limit. An empty result is a valid terminal state, not an error.
func Run(entities []Entity, c Criteria, log logger.Logger) Result {
	filtered := Filter(entities, c, log)
	ordered, applied := Sort(filtered.Entities, c)

	return Result{
		Entities:    ordered,
		Skipped:     filtered.Skipped,
		SortApplied: applied,
	}
}
