// Package scheduler selects the subset of a batch that is safe to execute
// concurrently in one round, given the batch's conflict graph.
package scheduler

import (
	"fmt"

	"github.com/Taraxa-project/taraxa-parallel/conflict_detector"
)

type Author = conflict_detector.Author

// ConcurrentSchedule partitions a batch: Concurrent is a maximal independent
// set of the conflict graph, Sequential the excluded remainder (to be
// retried by the driver in a later round). Both are in ascending id order.
type ConcurrentSchedule = struct {
	Concurrent []Author `json:"concurrent"`
	Sequential []Author `json:"sequential"`
}

// ComputeMIS runs the greedy maximal-independent-set construction: vertices
// are processed in ascending id order and admitted iff no already-admitted
// neighbor exists; a decision is never revisited. The result is maximal, not
// necessarily maximum — determinism and linear-in-edges cost are preferred
// over cardinality. Ties therefore always resolve toward the lower id.
func ComputeMIS(graph *conflict_detector.ConflictGraph) *ConcurrentSchedule {
	admitted := make(map[Author]bool)
	schedule := &ConcurrentSchedule{Concurrent: []Author{}, Sequential: []Author{}}
	for _, vertex := range graph.Vertices() {
		independent := true
		for _, value := range graph.Neighbors(vertex).Values() {
			if admitted[value.(Author)] {
				independent = false
				break
			}
		}
		if independent {
			admitted[vertex] = true
			schedule.Concurrent = append(schedule.Concurrent, vertex)
		} else {
			schedule.Sequential = append(schedule.Sequential, vertex)
		}
	}
	return schedule
}

// Verify checks a schedule against the graph it was computed from: the
// schedule partitions the vertex set, Concurrent is independent, and it is
// maximal (every excluded vertex has an admitted neighbor).
func Verify(schedule *ConcurrentSchedule, graph *conflict_detector.ConflictGraph) error {
	admitted := make(map[Author]bool, len(schedule.Concurrent))
	for _, author := range schedule.Concurrent {
		admitted[author] = true
	}
	if total := len(schedule.Concurrent) + len(schedule.Sequential); total != graph.VertexCount() {
		return fmt.Errorf("schedule covers %d vertices, graph has %d", total, graph.VertexCount())
	}
	for _, author := range schedule.Concurrent {
		if !graph.HasVertex(author) {
			return fmt.Errorf("schedule names unknown vertex %d", author)
		}
	}
	for _, author := range schedule.Sequential {
		if !graph.HasVertex(author) {
			return fmt.Errorf("schedule names unknown vertex %d", author)
		}
		if admitted[author] {
			return fmt.Errorf("vertex %d is on both sides of the schedule", author)
		}
	}
	for _, author := range schedule.Concurrent {
		for _, value := range graph.Neighbors(author).Values() {
			if admitted[value.(Author)] {
				return fmt.Errorf("concurrent set is not independent: %d and %d are adjacent", author, value.(Author))
			}
		}
	}
	for _, author := range schedule.Sequential {
		maximal := false
		for _, value := range graph.Neighbors(author).Values() {
			if admitted[value.(Author)] {
				maximal = true
				break
			}
		}
		if !maximal {
			return fmt.Errorf("not maximal: excluded vertex %d has no admitted neighbor", author)
		}
	}
	return nil
}
