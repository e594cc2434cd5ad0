package syntax

// Walk visits n and its descendants in document order. When fn returns
// false the children of that node are skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	switch n.Kind {
	case KindEnvironment:
		for _, p := range n.Params {
			Walk(p, fn)
		}
		Walk(n.Body, fn)
	case KindCommand:
		for _, p := range n.Params {
			Walk(p, fn)
		}
	case KindDocument, KindContent, KindMathEnvironment, KindParameter:
		for _, c := range n.Children {
			Walk(c, fn)
		}
	case KindNormalText:
	default:
		panic("syntax: unknown node kind " + n.Kind.String())
	}
}

// FindAll returns every descendant of root (root included) of kind k, in
// document order.
func FindAll(root *Node, k Kind) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n.Kind == k {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Commands returns all commands below root whose name is in names. A nil
// set matches every command.
func Commands(root *Node, names map[string]bool) []*Node {
	var out []*Node
	Walk(root, func(n *Node) bool {
		if n.Kind == KindCommand && (names == nil || names[n.Name]) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Ancestor returns the nearest proper ancestor of n satisfying pred.
func Ancestor(n *Node, pred func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if pred(p) {
			return p
		}
	}
	return nil
}

// link assigns parents and pre-order IDs after parsing.
func link(doc *Document) {
	doc.nodes = doc.nodes[:0]
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		if n == nil {
			return
		}
		n.Parent = parent
		n.ID = NodeID(len(doc.nodes))
		doc.nodes = append(doc.nodes, n)
		for _, p := range n.Params {
			visit(p, n)
		}
		visit(n.Body, n)
		for _, c := range n.Children {
			visit(c, n)
		}
	}
	visit(doc.Root, nil)
}
