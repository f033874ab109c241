package dom

// NodeList is a collection of nodes: live (a view over a parent's current
// children) or static (a snapshot taken at construction).
type NodeList struct {
	parent      *Node
	staticNodes []*Node
	isLive      bool
}

// newNodeList creates a live NodeList over the children of parent.
func newNodeList(parent *Node) *NodeList {
	return &NodeList{parent: parent, isLive: true}
}

// NewStaticNodeList creates a static NodeList from a slice of nodes. The
// result does not change when the tree mutates afterwards.
func NewStaticNodeList(nodes []*Node) *NodeList {
	staticCopy := make([]*Node, len(nodes))
	copy(staticCopy, nodes)
	return &NodeList{staticNodes: staticCopy}
}

// Length returns the number of nodes in the collection.
func (nl *NodeList) Length() int {
	if nl.isLive {
		count := 0
		for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
			count++
		}
		return count
	}
	return len(nl.staticNodes)
}

// Item returns the node at the given index, or nil if out of bounds.
func (nl *NodeList) Item(index int) *Node {
	if index < 0 {
		return nil
	}
	if nl.isLive {
		i := 0
		for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
			if i == index {
				return child
			}
			i++
		}
		return nil
	}
	if index >= len(nl.staticNodes) {
		return nil
	}
	return nl.staticNodes[index]
}

// ToSlice returns the nodes as a slice.
func (nl *NodeList) ToSlice() []*Node {
	if !nl.isLive {
		return append([]*Node(nil), nl.staticNodes...)
	}
	var nodes []*Node
	for child := nl.parent.firstChild; child != nil; child = child.nextSibling {
		nodes = append(nodes, child)
	}
	return nodes
}
