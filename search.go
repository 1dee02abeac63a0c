package main

import (
	"container/heap"
)

// searchNode represents a discovered cell during a single grid search
type searchNode struct {
	At        Coordinate
	Traversal int        // Steps from the start to this cell
	Cost      int        // Heuristic estimate from this cell to the goal
	Previous  Coordinate // Predecessor on the best known route
	HasPrev   bool
	Order     int // Insertion order, earlier wins ties
	Index     int // Index in the heap, -1 once popped
	Closed    bool
}

// TotalCost is the priority of the node in the open set.
func (n *searchNode) TotalCost() int {
	return n.Traversal + n.Cost
}

// openQueue implements heap.Interface for the grid search
type openQueue []*searchNode

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	if q[i].TotalCost() != q[j].TotalCost() {
		return q[i].TotalCost() < q[j].TotalCost()
	}
	return q[i].Order < q[j].Order
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].Index = i
	q[j].Index = j
}

func (q *openQueue) Push(x interface{}) {
	n := len(*q)
	node := x.(*searchNode)
	node.Index = n
	*q = append(*q, node)
}

func (q *openQueue) Pop() interface{} {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*q = old[0 : n-1]
	return node
}

// searchGrid finds a path from start to goal over the walkable cells of grid.
// It returns the cells from start to goal inclusive, or an empty slice when
// the goal cannot be reached.
func searchGrid(grid *Grid, start, goal Coordinate) []Coordinate {
	nodes, goalNode := expandGrid(grid, start, goal)
	if goalNode == nil {
		return []Coordinate{}
	}
	return reconstructPath(nodes, goalNode)
}

// expandGrid runs the search and returns every discovered node together with
// the goal node, which is nil when the goal was not reached
func expandGrid(grid *Grid, start, goal Coordinate) (map[Coordinate]*searchNode, *searchNode) {
	nodes := make(map[Coordinate]*searchNode)
	openSet := &openQueue{}
	heap.Init(openSet)

	order := 0
	startNode := &searchNode{
		At:     start,
		Cost:   Distance(start, goal),
		Order:  order,
		Closed: true,
	}
	order++
	nodes[start] = startNode
	heap.Push(openSet, startNode)

	for openSet.Len() > 0 {
		current := heap.Pop(openSet).(*searchNode)
		current.Closed = true

		if current.At == goal {
			return nodes, current
		}

		for _, next := range grid.Neighbors(current.At) {
			traversal := current.Traversal + 1

			neighbor, exists := nodes[next]
			if exists && neighbor.Closed {
				continue
			}

			if !exists {
				neighbor = &searchNode{
					At:        next,
					Traversal: traversal,
					Cost:      Distance(next, goal),
					Previous:  current.At,
					HasPrev:   true,
					Order:     order,
				}
				order++
				nodes[next] = neighbor
				heap.Push(openSet, neighbor)
			} else if traversal+neighbor.Cost < neighbor.TotalCost() {
				neighbor.Traversal = traversal
				neighbor.Previous = current.At
				neighbor.HasPrev = true
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nodes, nil
}

// reconstructPath walks predecessors back from the goal node
func reconstructPath(nodes map[Coordinate]*searchNode, goal *searchNode) []Coordinate {
	path := []Coordinate{goal.At}
	for node := goal; node.HasPrev; node = nodes[node.Previous] {
		path = append(path, node.Previous)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
