package dom

import "unsafe"

// DocumentPosition bitmask values returned by CompareDocumentPosition,
// using the constants from the DOM specification.
const (
	DocumentPositionDisconnected           uint16 = 0x01
	DocumentPositionPreceding              uint16 = 0x02
	DocumentPositionFollowing              uint16 = 0x04
	DocumentPositionContains               uint16 = 0x08
	DocumentPositionContainedBy            uint16 = 0x10
	DocumentPositionImplementationSpecific uint16 = 0x20
)

// ancestorPath returns the chain from the root down to n, root first.
func ancestorPath(n *Node) []*Node {
	depth := 0
	for cur := n; cur != nil; cur = cur.parentNode {
		depth++
	}
	path := make([]*Node, depth)
	for cur := n; cur != nil; cur = cur.parentNode {
		depth--
		path[depth] = cur
	}
	return path
}

// compareOrder returns a negative value if a precedes b in document
// (pre-order) position, positive if a follows b, and zero if a == b.
// An ancestor precedes its descendants. Both nodes must share a root.
func compareOrder(a, b *Node) int {
	if a == b {
		return 0
	}
	pa := ancestorPath(a)
	pb := ancestorPath(b)

	i := 0
	for i < len(pa) && i < len(pb) && pa[i] == pb[i] {
		i++
	}
	if i == len(pa) {
		return -1 // a is an ancestor of b
	}
	if i == len(pb) {
		return 1 // b is an ancestor of a
	}
	// pa[i] and pb[i] are distinct siblings under the shared ancestor.
	for s := pa[i]; s != nil; s = s.nextSibling {
		if s == pb[i] {
			return -1
		}
	}
	return 1
}

// CompareDocumentPosition returns a bitmask describing the position of
// other relative to this node, per the DOM specification. Nodes in
// different trees report Disconnected with an implementation-specific but
// consistent ordering: exactly one of the two views reports Preceding.
func (n *Node) CompareDocumentPosition(other *Node) uint16 {
	if n == other || other == nil {
		return 0
	}
	rootN := n.GetRootNode()
	rootOther := other.GetRootNode()
	if rootN != rootOther {
		// Disconnected trees are ordered by root identity so the answer
		// is antisymmetric and stable for the life of both trees.
		result := DocumentPositionDisconnected | DocumentPositionImplementationSpecific
		if uintptr(unsafe.Pointer(rootOther)) < uintptr(unsafe.Pointer(rootN)) {
			return result | DocumentPositionPreceding
		}
		return result | DocumentPositionFollowing
	}
	if n.Contains(other) {
		return DocumentPositionContainedBy | DocumentPositionFollowing
	}
	if other.Contains(n) {
		return DocumentPositionContains | DocumentPositionPreceding
	}
	if compareOrder(other, n) < 0 {
		return DocumentPositionPreceding
	}
	return DocumentPositionFollowing
}
