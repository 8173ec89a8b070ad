// SPDX-License-Identifier: MIT

package markov

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/bellman/matrix"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Support graph of a transition matrix: an edge s → t exists when P[s][t] > 0.
// Building it scans dense rows, so each call costs O(n²).

// ReachResult is the outcome of Reach.
type ReachResult struct {
	// Order lists reached states in breadth-first order, start first.
	Order []int
	// Depth[t] is the fewest transitions from start to t, −1 if unreachable.
	Depth []int
	// Parent[t] is t's predecessor on one shortest path, −1 for start and
	// for unreachable states.
	Parent []int
}

// Reached reports whether t was reached.
func (r *ReachResult) Reached(t int) bool { return r.Depth[t] >= 0 }

// queueItem pairs a state with its depth.
type queueItem struct {
	s     int
	depth int
}

// Reach runs breadth-first search over the support graph of p from start.
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (non-square),
// matrix.ErrOutOfRange.
func Reach(p *matrix.Dense, start int) (*ReachResult, error) {
	n, err := squareSize("Reach", p)
	if err != nil {
		return nil, err
	}
	if start < 0 || start >= n {
		return nil, fmt.Errorf("Reach: start %d of %d: %w", start, n, matrix.ErrOutOfRange)
	}

	res := &ReachResult{
		Order:  make([]int, 0, n),
		Depth:  make([]int, n),
		Parent: make([]int, n),
	}
	for i := range res.Depth {
		res.Depth[i], res.Parent[i] = -1, -1
	}

	queue := make([]queueItem, 0, n)
	enqueue := func(s, d, parent int) {
		res.Depth[s], res.Parent[s] = d, parent
		queue = append(queue, queueItem{s: s, depth: d})
	}
	enqueue(start, 0, -1)
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		res.Order = append(res.Order, item.s)
		for t, w := range p.RawRow(item.s) {
			if w > 0 && res.Depth[t] < 0 {
				enqueue(t, item.depth+1, item.s)
			}
		}
	}

	return res, nil
}

// Class is a communicating class: a maximal set of states that reach each
// other. A closed class has no transitions leaving it; the closed classes of
// a finite chain are exactly its recurrent classes.
type Class struct {
	States []int // ascending
	Closed bool
}

// Classes partitions the states of p into communicating classes, ordered by
// their smallest state. p has a unique stationary distribution exactly when
// one class is closed.
//
// Errors: matrix.ErrNilMatrix, matrix.ErrDimensionMismatch (non-square).
func Classes(p *matrix.Dense) ([]Class, error) {
	n, err := squareSize("Classes", p)
	if err != nil {
		return nil, err
	}

	g := simple.NewDirectedGraph()
	for s := 0; s < n; s++ {
		g.AddNode(simple.Node(s))
	}
	for s := 0; s < n; s++ {
		for t, w := range p.RawRow(s) {
			// Self-loops never change class membership or closedness.
			if w > 0 && t != s {
				g.SetEdge(simple.Edge{F: simple.Node(s), T: simple.Node(t)})
			}
		}
	}

	comp := make([]int, n)
	sccs := topo.TarjanSCC(g)
	classes := make([]Class, len(sccs))
	for id, scc := range sccs {
		members := make([]int, len(scc))
		for k, node := range scc {
			members[k] = int(node.ID())
			comp[members[k]] = id
		}
		slices.Sort(members)
		classes[id] = Class{States: members, Closed: true}
	}
	for s := 0; s < n; s++ {
		for t, w := range p.RawRow(s) {
			if w > 0 && comp[t] != comp[s] {
				classes[comp[s]].Closed = false
				break
			}
		}
	}
	slices.SortFunc(classes, func(a, b Class) int { return a.States[0] - b.States[0] })

	return classes, nil
}

// Recurrent returns the closed classes among classes.
func Recurrent(classes []Class) []Class {
	var out []Class
	for _, c := range classes {
		if c.Closed {
			out = append(out, c)
		}
	}
	return out
}

func squareSize(op string, p *matrix.Dense) (int, error) {
	if p == nil {
		return 0, fmt.Errorf("%s: %w", op, matrix.ErrNilMatrix)
	}
	if p.Rows() != p.Cols() {
		return 0, fmt.Errorf("%s: %dx%d: %w", op, p.Rows(), p.Cols(), matrix.ErrDimensionMismatch)
	}
	return p.Rows(), nil
}
