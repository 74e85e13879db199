// Package plangraph implements ordering and dependency operations over the
// steps of an assignment plan. All functions take plan values and return new
// values; the caller decides what to persist.
package plangraph

import (
	"github.com/alexanderramin/studyblocks/internal/domain"
)

// DetectCycle returns the first prerequisite cycle found as an ordered list of
// step ids, with the starting id repeated at the end, or nil if the plan is
// acyclic. Traversal starts from steps in sequence order so the result is
// deterministic. Prerequisite ids that name no step are ignored.
func DetectCycle(plan domain.AssignmentPlan) []string {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // fully processed
	)

	ordered := plan.Ordered()
	known := make(map[string]bool, len(ordered))
	for _, s := range ordered {
		known[s.ID] = true
	}
	adj := make(map[string][]string, len(ordered))
	for _, s := range ordered {
		for _, p := range s.Prerequisites {
			if known[p] {
				adj[s.ID] = append(adj[s.ID], p)
			}
		}
	}

	// Iterative DFS: each frame remembers how many edges it has tried, so deep
	// chains of thousands of steps do not grow the goroutine stack.
	type frame struct {
		id   string
		next int
	}
	color := make(map[string]int, len(ordered))
	onPath := make(map[string]int, len(ordered)) // id -> index in stack
	var stack []frame

	for _, s := range ordered {
		if color[s.ID] != white {
			continue
		}
		color[s.ID] = gray
		onPath[s.ID] = 0
		stack = append(stack[:0], frame{id: s.ID})

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := adj[top.id]
			if top.next == len(edges) {
				color[top.id] = black
				delete(onPath, top.id)
				stack = stack[:len(stack)-1]
				continue
			}
			next := edges[top.next]
			top.next++
			switch color[next] {
			case gray:
				cycle := make([]string, 0, len(stack)-onPath[next]+1)
				for _, f := range stack[onPath[next]:] {
					cycle = append(cycle, f.id)
				}
				return append(cycle, next)
			case white:
				color[next] = gray
				onPath[next] = len(stack)
				stack = append(stack, frame{id: next})
			}
		}
	}
	return nil
}

// Reindex assigns sequence indexes 0..n-1 following the current order.
func Reindex(plan domain.AssignmentPlan) domain.AssignmentPlan {
	out := plan.Clone()
	out.Steps = out.Ordered()
	for i := range out.Steps {
		out.Steps[i].SequenceIndex = i
	}
	return out
}

// SetupLinearChain drops every prerequisite edge and rebuilds the plan so
// step i depends only on step i-1 in sequence order.
func SetupLinearChain(plan domain.AssignmentPlan) domain.AssignmentPlan {
	out := Reindex(plan)
	for i := range out.Steps {
		out.Steps[i].Prerequisites = nil
		if i > 0 {
			out.Steps[i].Prerequisites = []string{out.Steps[i-1].ID}
		}
	}
	return out
}

// ClearAllDependencies removes every prerequisite edge.
func ClearAllDependencies(plan domain.AssignmentPlan) domain.AssignmentPlan {
	out := plan.Clone()
	for i := range out.Steps {
		out.Steps[i].Prerequisites = nil
	}
	return out
}

// ToggleSequenceEnforcement flips enforcement; turning it on rebuilds the
// linear chain so the plan satisfies the single-chain invariant immediately.
func ToggleSequenceEnforcement(plan domain.AssignmentPlan) domain.AssignmentPlan {
	out := plan.Clone()
	out.SequenceEnforcementEnabled = !out.SequenceEnforcementEnabled
	if out.SequenceEnforcementEnabled {
		out = SetupLinearChain(out)
	}
	return out
}

// IsLinearChain reports whether each step has exactly one predecessor except
// the first and exactly one successor except the last, in sequence order.
func IsLinearChain(plan domain.AssignmentPlan) bool {
	ordered := plan.Ordered()
	for i, s := range ordered {
		if i == 0 {
			if len(s.Prerequisites) != 0 {
				return false
			}
			continue
		}
		if len(s.Prerequisites) != 1 || s.Prerequisites[0] != ordered[i-1].ID {
			return false
		}
	}
	return true
}
