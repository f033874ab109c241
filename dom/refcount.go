package dom

import "sync/atomic"

// liveNodes counts nodes that have been created and not yet destroyed.
// It is atomic only so leak assertions work under the race detector; the
// tree itself is single-threaded.
var liveNodes atomic.Int64

// LiveNodes returns the number of nodes currently alive across all
// documents. Intended for leak checks in tests and diagnostics.
func LiveNodes() int64 {
	return liveNodes.Load()
}

// Retain adds a caller-held reference to the node.
func (n *Node) Retain() *Node {
	n.retain()
	return n
}

// Release drops a caller-held reference. When the last reference is gone
// the node is destroyed and each owned child is released in turn; teardown
// of a subtree is a cascade of releases, not a bulk free.
//
// It is a fatal usage error to release a node to zero while it is still
// linked under a parent; the parent's reference should have prevented
// that.
func (n *Node) Release() {
	n.release()
}

// RefCount returns the current reference count. Diagnostic only.
func (n *Node) RefCount() int {
	return int(n.refs)
}

func (n *Node) retain() {
	if n.dead {
		panic("dom: retain of destroyed node")
	}
	n.refs++
}

func (n *Node) release() {
	if n.dead {
		panic("dom: release of destroyed node")
	}
	if n.refs <= 0 {
		panic("dom: release of node with zero reference count")
	}
	n.refs--
	if n.refs == 0 {
		n.destroy()
	}
}

func (n *Node) destroy() {
	if n.parentNode != nil {
		panic("dom: node destroyed while still linked into a tree")
	}
	n.dead = true

	// Cascade: unlink each child, then drop the reference this node held
	// on it. Children with no other holders are destroyed recursively.
	for child := n.firstChild; child != nil; {
		next := child.nextSibling
		n.unlink(child)
		child.release()
		child = next
	}

	n.elementData = nil
	n.charData = nil
	n.docData = nil
	n.doctypeData = nil
	n.childNodes = nil
	liveNodes.Add(-1)
}
