// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

type optRef struct {
	leaf bool
	none bool
	idx  int
}

// Optimise removes leaves without brushes or faces and collapses nodes that
// are left with a single child. Nodes and leaves are renumbered, the root
// stays node 0. A tree that collapses into a single leaf loses all nodes.
func Optimise(m *BSP) {
	if len(m.Nodes) == 0 {
		return
	}
	var (
		nodes  []Node
		leaves []Leaf
		links  [][2]optRef
	)
	var walk func(num int) optRef
	walk = func(num int) optRef {
		if num == NoChild {
			return optRef{none: true}
		}
		if num < 0 {
			l := m.Leaves[^num]
			if l.NumBrushes == 0 && l.NumFaces == 0 {
				return optRef{none: true}
			}
			l.Cluster = len(leaves)
			leaves = append(leaves, l)
			return optRef{leaf: true, idx: len(leaves) - 1}
		}
		n := m.Nodes[num]
		front := walk(n.Front)
		back := walk(n.Back)
		switch {
		case front.none && back.none:
			return optRef{none: true}
		case front.none:
			return back
		case back.none:
			return front
		}
		nodes = append(nodes, Node{Plane: n.Plane})
		links = append(links, [2]optRef{front, back})
		return optRef{idx: len(nodes) - 1}
	}
	root := walk(0)

	switch {
	case root.none:
		m.Nodes = nil
		m.Leaves = nil
		return
	case root.leaf:
		m.Nodes = nil
		m.Leaves = leaves[root.idx : root.idx+1]
		m.Leaves[0].Cluster = 0
		return
	}

	// Children were appended before their parents, so reversing the order
	// puts the root first.
	last := len(nodes) - 1
	code := func(r optRef) int {
		switch {
		case r.none:
			return NoChild
		case r.leaf:
			return ^r.idx
		}
		return last - r.idx
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Front = code(links[i][0])
		n.Back = code(links[i][1])
		out[last-i] = n
	}
	m.Nodes = out
	m.Leaves = leaves
}
