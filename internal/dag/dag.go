// Package dag provides the directed reference graph over registry
// nodes. It supports full cycle enumeration, orphan detection, and
// level-ordered traversal for display.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph keyed by node name. An edge parent→child
// means the child references (depends on) the parent.
type Graph struct {
	nodes    map[string]bool
	children map[string][]string // parent -> dependents
	parents  map[string][]string // child -> dependencies
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if !g.nodes[id] {
		g.nodes[id] = true
		g.children[id] = []string{}
		g.parents[id] = []string{}
	}
}

// AddEdge adds a directed edge from parent to child
// (child depends on parent). Both nodes must exist.
func (g *Graph) AddEdge(parentID, childID string) error {
	if !g.nodes[parentID] {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if !g.nodes[childID] {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	if !contains(g.children[parentID], childID) {
		g.children[parentID] = append(g.children[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool { return g.nodes[id] }

// Parents returns the dependencies of a node.
func (g *Graph) Parents(id string) []string { return g.parents[id] }

// Children returns the dependents of a node.
func (g *Graph) Children(id string) []string { return g.children[id] }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, c := range g.children {
		count += len(c)
	}
	return count
}

// NodeIDs returns all node names in sorted order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Cycles returns every cycle in the graph as its full ordered path,
// e.g. [a b c] for a→b→c→a. Each cycle is normalized to start at its
// lexicographically smallest member and the result is sorted, so
// output is deterministic up to rotation.
func (g *Graph) Cycles() [][]string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string
	seen := make(map[string]bool) // normalized cycle keys
	var cycles [][]string

	var dfs func(id string)
	dfs = func(id string) {
		visited[id] = true
		onStack[id] = true
		stack = append(stack, id)

		for _, child := range sorted(g.children[id]) {
			if !visited[child] {
				dfs(child)
			} else if onStack[child] {
				// Reconstruct the cycle from the traversal stack.
				start := len(stack) - 1
				for start >= 0 && stack[start] != child {
					start--
				}
				cycle := normalizeCycle(stack[start:])
				key := fmt.Sprint(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}

		onStack[id] = false
		stack = stack[:len(stack)-1]
	}

	for _, id := range g.NodeIDs() {
		if !visited[id] {
			dfs(id)
		}
	}

	sort.Slice(cycles, func(i, j int) bool {
		return fmt.Sprint(cycles[i]) < fmt.Sprint(cycles[j])
	})
	return cycles
}

// normalizeCycle rotates a cycle path so it starts at the
// lexicographically smallest member.
func normalizeCycle(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	min := 0
	for i, id := range path {
		if id < path[min] {
			min = i
		}
	}
	out := make([]string, 0, len(path))
	out = append(out, path[min:]...)
	out = append(out, path[:min]...)
	return out
}

// Orphans returns nodes with zero inbound and zero outbound edges,
// in sorted order.
func (g *Graph) Orphans() []string {
	var orphans []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 && len(g.children[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	return orphans
}

// Roots returns nodes with no parents.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns nodes with no children.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// TopologicalSort returns node names with dependencies before
// dependents. Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if cycles := g.Cycles(); len(cycles) > 0 {
		return nil, fmt.Errorf("cycle detected: %v", cycles[0])
	}

	visited := make(map[string]bool)
	var result []string

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parent := range sorted(g.parents[id]) {
			visit(parent)
		}
		result = append(result, id)
	}

	for _, id := range g.NodeIDs() {
		visit(id)
	}
	return result, nil
}

// Levels returns nodes grouped by dependency depth: level 0 has no
// dependencies, level N depends only on lower levels.
func (g *Graph) Levels() ([][]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}
	if cycles := g.Cycles(); len(cycles) > 0 {
		return nil, fmt.Errorf("cycle detected: %v", cycles[0])
	}

	assigned := make(map[string]int)
	var level func(id string) int
	level = func(id string) int {
		if l, ok := assigned[id]; ok {
			return l
		}
		max := -1
		for _, parent := range g.parents[id] {
			if pl := level(parent); pl > max {
				max = pl
			}
		}
		assigned[id] = max + 1
		return max + 1
	}

	maxLevel := 0
	for id := range g.nodes {
		if l := level(id); l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]string, maxLevel+1)
	for id, l := range assigned {
		levels[l] = append(levels[l], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

func sorted(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
