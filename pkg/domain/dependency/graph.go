// Package dependency models "depends on" links between tasks as a directed
// graph and rejects links that would close a cycle.
package dependency

import (
	"fmt"
	"sort"

	"github.com/felixgeelhaar/nihulit/pkg/domain/planning"
)

// Graph maps each task to the tasks it depends on. An edge from -> to means
// "from waits for to".
type Graph struct {
	nodes map[string]struct{}
	edges map[string][]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// FromTasks builds the graph of DependsOnTaskID links.
func FromTasks(tasks []planning.Task) *Graph {
	g := NewGraph()
	for _, t := range tasks {
		g.AddNode(t.ID)
	}
	for _, t := range tasks {
		if t.DependsOnTaskID != "" {
			g.addEdge(t.ID, t.DependsOnTaskID)
		}
	}
	return g
}

// AddNode registers a task without edges.
func (g *Graph) AddNode(id string) {
	g.nodes[id] = struct{}{}
}

// AddEdge records that from depends on to. The edge is rejected if it is a
// self edge or if it would create a cycle.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return ErrSelfDependency
	}
	if path := g.pathBetween(to, from); path != nil {
		return &CycleError{Path: append([]string{from}, path...)}
	}
	g.addEdge(from, to)
	return nil
}

func (g *Graph) addEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.edges[from] {
		if existing == to {
			return
		}
	}
	g.edges[from] = append(g.edges[from], to)
}

// RemoveEdges drops every prerequisite of id.
func (g *Graph) RemoveEdges(id string) {
	delete(g.edges, id)
}

// WouldCreateCycle reports whether adding from -> to closes a cycle.
func (g *Graph) WouldCreateCycle(from, to string) bool {
	return from == to || g.pathBetween(to, from) != nil
}

// Prerequisites returns the tasks id depends on.
func (g *Graph) Prerequisites(id string) []string {
	return append([]string(nil), g.edges[id]...)
}

// Dependents returns the tasks that depend on id, sorted.
func (g *Graph) Dependents(id string) []string {
	var out []string
	for from, tos := range g.edges {
		for _, to := range tos {
			if to == id {
				out = append(out, from)
			}
		}
	}
	sort.Strings(out)
	return out
}

// pathBetween returns the node path from start to goal following edges, or
// nil when goal is unreachable.
func (g *Graph) pathBetween(start, goal string) []string {
	visited := make(map[string]bool)
	var walk func(node string) []string
	walk = func(node string) []string {
		if node == goal {
			return []string{node}
		}
		if visited[node] {
			return nil
		}
		visited[node] = true
		for _, next := range g.edges[node] {
			if rest := walk(next); rest != nil {
				return append([]string{node}, rest...)
			}
		}
		return nil
	}
	return walk(start)
}

func (g *Graph) sortedNodes() []string {
	nodes := make([]string, 0, len(g.nodes))
	for n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	return nodes
}

// HasCycle checks if the dependency graph has any cycles. Graphs loaded from
// data written before edge validation existed may contain one.
func (g *Graph) HasCycle() bool {
	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var dfs func(node string) bool
	dfs = func(node string) bool {
		visited[node] = true
		inStack[node] = true

		for _, target := range g.edges[node] {
			if !visited[target] {
				if dfs(target) {
					return true
				}
			} else if inStack[target] {
				return true
			}
		}

		inStack[node] = false
		return false
	}

	for _, node := range g.sortedNodes() {
		if !visited[node] {
			if dfs(node) {
				return true
			}
		}
	}

	return false
}

// TopologicalSort returns tasks in dependency order (prerequisites first).
func (g *Graph) TopologicalSort() ([]string, error) {
	if g.HasCycle() {
		return nil, ErrCyclicDependency
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.nodes))

	var visit func(node string)
	visit = func(node string) {
		if visited[node] {
			return
		}
		visited[node] = true
		for _, dep := range g.edges[node] {
			visit(dep)
		}
		result = append(result, node)
	}

	for _, node := range g.sortedNodes() {
		visit(node)
	}
	return result, nil
}

// ValidateDependency checks that taskID may depend on dependsOnID given the
// current task set. An empty dependsOnID clears the link and is always valid.
func ValidateDependency(tasks []planning.Task, taskID, dependsOnID string) error {
	if dependsOnID == "" {
		return nil
	}
	if taskID == dependsOnID {
		return ErrSelfDependency
	}

	var task, prereq *planning.Task
	for i := range tasks {
		switch tasks[i].ID {
		case taskID:
			task = &tasks[i]
		case dependsOnID:
			prereq = &tasks[i]
		}
	}
	if task == nil {
		return fmt.Errorf("%w: %s", planning.ErrTaskNotFound, taskID)
	}
	if prereq == nil {
		return fmt.Errorf("%w: %s", ErrDependencyNotFound, dependsOnID)
	}
	if task.ProjectID != prereq.ProjectID {
		return fmt.Errorf("%w: %s is in project %s, %s in %s",
			ErrCrossProject, taskID, task.ProjectID, dependsOnID, prereq.ProjectID)
	}

	g := FromTasks(tasks)
	g.RemoveEdges(taskID)
	return g.AddEdge(taskID, dependsOnID)
}
