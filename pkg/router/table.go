package router

import "strings"

// absent marks an empty node or route reference in the arena.
const absent int32 = -1

// node is one depth level of the route table. Nodes live in the table's
// arena and reference each other by index, which keeps the table compact
// and makes copy-on-write rebuilds a single slice allocation.
type node struct {
	// static maps literal segment text to a child node index.
	static map[string]int32

	// param is the single parameter child for this position. The
	// validator guarantees one name per position, so the name lives on
	// the parent.
	param     int32
	paramName string

	// A wildcard always terminates a pattern, so it is stored on the
	// node rather than as a child: the route it completes, its capture
	// name ("" for the anonymous form), and whether it also covers the
	// empty remainder.
	wildRoute    int32
	wildName     string
	wildOptional bool

	// route is the route terminating exactly at this depth, if any.
	route int32
}

// newNode returns an empty node.
func newNode() node {
	return node{param: absent, wildRoute: absent, route: absent}
}

// table is the immutable arena-backed route table. Index 0 is the root,
// which also carries the root route "/" as its terminal.
type table struct {
	nodes  []node
	routes []*CompiledRoute
}

// newTable builds the table for a validated route set. Validation has
// already rejected duplicates, misplaced wildcards and ambiguous
// overlaps, so structural collisions during insertion are unreachable.
func newTable(routes []*CompiledRoute) *table {
	t := &table{
		nodes:  make([]node, 1, 2*len(routes)+1),
		routes: routes,
	}
	t.nodes[0] = newNode()
	for i, r := range routes {
		t.insert(int32(i), r)
	}
	return t
}

// alloc appends a fresh node and returns its index.
func (t *table) alloc() int32 {
	t.nodes = append(t.nodes, newNode())
	return int32(len(t.nodes) - 1)
}

// insert threads one route through the arena, creating nodes as needed.
func (t *table) insert(routeIdx int32, r *CompiledRoute) {
	cur := int32(0)
	for _, seg := range r.Segments {
		switch seg.Kind {
		case SegmentStatic:
			cur = t.staticChild(cur, seg.Text)
		case SegmentParam:
			cur = t.paramChild(cur, seg.Name, r)
		case SegmentWildcard:
			if t.nodes[cur].wildRoute != absent {
				panic("router: wildcard collision inserting " + r.Declaration.Pattern + " after validation")
			}
			t.nodes[cur].wildRoute = routeIdx
			t.nodes[cur].wildName = seg.Name
			t.nodes[cur].wildOptional = seg.Optional
			return
		}
	}
	if t.nodes[cur].route != absent {
		panic("router: terminal collision inserting " + r.Declaration.Pattern + " after validation")
	}
	t.nodes[cur].route = routeIdx
}

// staticChild returns the child for a literal segment, creating it on
// first use. Indexing t.nodes is re-evaluated after alloc because append
// may move the arena.
func (t *table) staticChild(parent int32, text string) int32 {
	if idx, ok := t.nodes[parent].static[text]; ok {
		return idx
	}
	idx := t.alloc()
	if t.nodes[parent].static == nil {
		t.nodes[parent].static = make(map[string]int32)
	}
	t.nodes[parent].static[text] = idx
	return idx
}

// paramChild returns the parameter child, creating it on first use.
func (t *table) paramChild(parent int32, name string, r *CompiledRoute) int32 {
	if t.nodes[parent].param != absent {
		if t.nodes[parent].paramName != name {
			panic("router: parameter name collision inserting " + r.Declaration.Pattern + " after validation")
		}
		return t.nodes[parent].param
	}
	idx := t.alloc()
	t.nodes[parent].param = idx
	t.nodes[parent].paramName = name
	return idx
}

// match walks the table one decoded segment per depth. Static children
// win over the parameter child, which wins over the wildcard terminal;
// declaration order never affects the outcome. Returns the winning route
// index with params filled in, or absent.
func (t *table) match(cur int32, segments []string, params map[string]string) (int32, bool) {
	n := &t.nodes[cur]

	// Base case: path consumed at this node.
	if len(segments) == 0 {
		if n.route != absent {
			return n.route, true
		}
		// An optional wildcard also covers the empty remainder; it
		// records no capture in that case.
		if n.wildRoute != absent && n.wildOptional {
			return n.wildRoute, true
		}
		return absent, false
	}

	segment := segments[0]
	remaining := segments[1:]

	// Try exact match first.
	if child, ok := n.static[segment]; ok {
		if route, ok := t.match(child, remaining, params); ok {
			return route, true
		}
	}

	// Try parameter match. The previous binding is restored on
	// backtrack so an outer parameter of the same name survives.
	if n.param != absent {
		prev, bound := params[n.paramName]
		params[n.paramName] = segment
		if route, ok := t.match(n.param, remaining, params); ok {
			return route, true
		}
		if bound {
			params[n.paramName] = prev
		} else {
			delete(params, n.paramName)
		}
	}

	// Wildcard consumes everything that is left. One segment is enough
	// for both the required and the optional form.
	if n.wildRoute != absent {
		key := n.wildName
		if key == "" {
			key = WildcardKey
		}
		params[key] = strings.Join(segments, "/")
		return n.wildRoute, true
	}

	return absent, false
}
