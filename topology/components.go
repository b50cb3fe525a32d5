package topology

import (
	"context"
	"maps"
	"slices"
)

// Component is a set of elements and nets connected through ports.
type Component struct {
	Elements []string `json:"elements"`
	Nets     []string `json:"nets"`
}

// vertex is a node of the bipartite element/net graph.
type vertex struct {
	name  string
	isNet bool
}

// walker holds the mutable state of one breadth-first component sweep.
type walker struct {
	ctx     context.Context
	adj     map[vertex][]vertex
	visited map[vertex]bool
	queue   []vertex
}

// Components splits the circuit into connected components, largest first
// (ties by first element name). Unconnected nets form components of their
// own. The circuit should be valid; ports naming undeclared nets are
// ignored.
func (c *Circuit) Components(ctx context.Context) ([]Component, error) {
	w := &walker{
		ctx:     ctx,
		adj:     c.adjacency(),
		visited: make(map[vertex]bool),
	}

	// Seed in a fixed order: elements as listed, then nets by name.
	seeds := make([]vertex, 0, len(c.Elements)+len(c.Nets))
	for _, e := range c.Elements {
		seeds = append(seeds, vertex{name: e.Name})
	}
	for _, n := range sortedKeys(c.Nets) {
		seeds = append(seeds, vertex{name: n, isNet: true})
	}

	var out []Component
	for _, s := range seeds {
		if w.visited[s] {
			continue
		}
		comp, err := w.sweep(s)
		if err != nil {
			return nil, err
		}
		out = append(out, comp)
	}

	slices.SortStableFunc(out, func(a, b Component) int {
		return (len(b.Elements) + len(b.Nets)) - (len(a.Elements) + len(a.Nets))
	})

	return out, nil
}

// sweep collects everything reachable from start.
func (w *walker) sweep(start vertex) (Component, error) {
	var comp Component
	w.visited[start] = true
	w.queue = append(w.queue[:0], start)

	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return Component{}, w.ctx.Err()
		default:
		}

		v := w.queue[0]
		w.queue = w.queue[1:]
		if v.isNet {
			comp.Nets = append(comp.Nets, v.name)
		} else {
			comp.Elements = append(comp.Elements, v.name)
		}
		for _, nbr := range w.adj[v] {
			if !w.visited[nbr] {
				w.visited[nbr] = true
				w.queue = append(w.queue, nbr)
			}
		}
	}
	slices.Sort(comp.Elements)
	slices.Sort(comp.Nets)

	return comp, nil
}

// adjacency links every element to the nets on its ports, both ways.
func (c *Circuit) adjacency() map[vertex][]vertex {
	adj := make(map[vertex][]vertex, len(c.Elements)+len(c.Nets))
	for _, e := range c.Elements {
		ev := vertex{name: e.Name}
		for _, n := range e.Nets {
			if _, ok := c.Nets[n]; !ok {
				continue
			}
			nv := vertex{name: n, isNet: true}
			adj[ev] = append(adj[ev], nv)
			adj[nv] = append(adj[nv], ev)
		}
	}
	return adj
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
