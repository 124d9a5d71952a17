package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/provgraph/internal/schema"
)

// HierarchyWarning reports a cycle or dangling edge in the compiled
// subclass/subproperty graph.
//
// Cycles are warnings, not errors: the registry's closure computation
// terminates on them, but every member ends up an ancestor of every other.
type HierarchyWarning struct {
	Path    []string `json:"path,omitempty"`
	Message string   `json:"message"`
	Level   string   `json:"level"`
}

// AnalyzeHierarchy checks the parent edges of records for cycles and for
// parents absent from the table. Warnings are ordered by record position.
func AnalyzeHierarchy(records []schema.Record) []HierarchyWarning {
	graph, order := buildParentGraph(records)

	var warnings []HierarchyWarning
	for _, r := range records {
		for _, p := range r.Parents {
			if _, ok := graph[p]; !ok {
				warnings = append(warnings, HierarchyWarning{
					Path:    []string{r.URI, p},
					Message: fmt.Sprintf("%s names undeclared parent %s", r.Name, p),
					Level:   "info",
				})
			}
		}
	}

	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			warnings = append(warnings, sccToWarning(scc, graph))
		}
	}
	return warnings
}

// parentGraph maps a record URI to its parent URIs.
type parentGraph map[string][]string

func buildParentGraph(records []schema.Record) (parentGraph, []string) {
	graph := make(parentGraph, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := graph[r.URI]; !ok {
			order = append(order, r.URI)
		}
		graph[r.URI] = append(graph[r.URI], r.Parents...)
	}
	return graph, order
}

func hasSelfLoop(node string, graph parentGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components, visiting roots in order so
// the result is deterministic.
func tarjanSCC(graph parentGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, declared := graph[w]; !declared {
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

func sccToWarning(scc []string, graph parentGraph) HierarchyWarning {
	if len(scc) == 1 {
		return HierarchyWarning{
			Path:    []string{scc[0], scc[0]},
			Message: fmt.Sprintf("%s is its own parent", scc[0]),
			Level:   "warning",
		}
	}
	path := cyclePath(scc, graph)
	return HierarchyWarning{
		Path:    path,
		Message: fmt.Sprintf("parent cycle: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}

// cyclePath follows edges inside scc from its first member back to itself.
func cyclePath(scc []string, graph parentGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}
	start := scc[len(scc)-1]
	current := start
	path := []string{current}
	visited := map[string]bool{}
	for {
		visited[current] = true
		var next string
		for _, n := range graph[current] {
			if members[n] && (!visited[n] || n == start) {
				next = n
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
