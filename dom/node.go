package dom

import (
	"strings"
)

// Node is the universal tree element. Document, Element, Text, Comment and
// DocumentFragment are all represented by a Node with kind-specific data.
//
// Ownership follows the parent-owns-children model: a parent holds one
// reference on each child, and the creator of a node holds one reference
// from creation. Sibling and parent pointers are non-owning back links.
type Node struct {
	nodeType NodeType
	nodeName string
	refs     int32
	dead     bool

	ownerDoc   *Document
	parentNode *Node

	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	childNodes *NodeList

	// Kind-specific data; at most one is non-nil.
	elementData *elementData
	charData    *string
	docData     *documentData
	doctypeData *doctypeData
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName string
	attrs     []Attr
	id        string
	classes   []string
	bloom     classBloom
}

// documentData holds data specific to Document nodes.
type documentData struct {
	index     *docIndex
	version   uint64
	callbacks []MutationCallback
}

// doctypeData holds data specific to DocumentType nodes.
type doctypeData struct {
	name string
}

// newNode creates a detached node with a reference count of one, held by
// the creator.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	n := &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		refs:     1,
		ownerDoc: ownerDoc,
	}
	n.childNodes = newNodeList(n)
	liveNodes.Add(1)
	return n
}

// NodeType returns the kind of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node: the uppercased tag name for
// elements, "#text", "#comment", "#document" or "#document-fragment"
// otherwise.
func (n *Node) NodeName() string {
	return n.nodeName
}

// NodeValue returns the text content for text and comment nodes and the
// empty string for all other kinds.
func (n *Node) NodeValue() string {
	if n.charData != nil {
		return *n.charData
	}
	return ""
}

// OwnerDocument returns the Document that owns this node, or nil for a
// Document node itself.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node, or nil if detached.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// ParentElement returns the parent Element, or nil if the parent is not an
// element.
func (n *Node) ParentElement() *Element {
	if n.parentNode != nil && n.parentNode.nodeType == ElementNode {
		return (*Element)(n.parentNode)
	}
	return nil
}

// ChildNodes returns a live NodeList over the node's children.
func (n *Node) ChildNodes() *NodeList {
	return n.childNodes
}

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child node, or nil.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// PreviousSibling returns the previous sibling node, or nil.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// NextSibling returns the next sibling node, or nil.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// HasChildNodes returns true if this node has any child nodes.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// GetRootNode returns the root of the tree containing this node.
func (n *Node) GetRootNode() *Node {
	root := n
	for root.parentNode != nil {
		root = root.parentNode
	}
	return root
}

// IsConnected returns true if the node's root is a document.
func (n *Node) IsConnected() bool {
	return n.GetRootNode().nodeType == DocumentNode
}

// ConnectedDocument returns the document this node is connected to, or
// nil if the node is detached or part of a free-floating subtree. Unlike
// OwnerDocument this reflects actual reachability, not creation origin.
func (n *Node) ConnectedDocument() *Document {
	return n.connectedDocument()
}

// connectedDocument returns the document this node is connected to, or nil
// if the node is detached or part of a free-floating subtree.
func (n *Node) connectedDocument() *Document {
	root := n.GetRootNode()
	if root.nodeType == DocumentNode {
		return (*Document)(root)
	}
	return nil
}

// Contains returns true if other is this node or a descendant of it.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parentNode {
		if cur == n {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its
// descendants; for text and comment nodes it is the node's own data.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case DocumentNode, DocumentTypeNode:
		return ""
	case TextNode, CommentNode:
		return n.NodeValue()
	default:
		var sb strings.Builder
		n.collectTextContent(&sb)
		return sb.String()
	}
}

func (n *Node) collectTextContent(sb *strings.Builder) {
	for child := n.firstChild; child != nil; child = child.nextSibling {
		switch child.nodeType {
		case TextNode:
			sb.WriteString(child.NodeValue())
		case ElementNode, DocumentFragmentNode:
			child.collectTextContent(sb)
		}
	}
}

// AppendChild adds a node to the end of this node's children.
// For the error-returning version, use AppendChildWithError.
func (n *Node) AppendChild(child *Node) *Node {
	result, _ := n.AppendChildWithError(child)
	return result
}

// AppendChildWithError adds a node to the end of this node's children.
// On a structural violation it returns an error and performs no mutation.
func (n *Node) AppendChildWithError(child *Node) (*Node, error) {
	return n.InsertBeforeWithError(child, nil)
}

// InsertBefore inserts a node before a reference child; a nil reference
// appends. For the error-returning version, use InsertBeforeWithError.
func (n *Node) InsertBefore(newChild, refChild *Node) *Node {
	result, _ := n.InsertBeforeWithError(newChild, refChild)
	return result
}

// InsertBeforeWithError inserts a node before a reference child; a nil
// reference appends. Validation runs before any link, index or reference
// count change: a failed call leaves the tree untouched.
func (n *Node) InsertBeforeWithError(newChild, refChild *Node) (*Node, error) {
	if err := n.validatePreInsertion(newChild, refChild); err != nil {
		return nil, err
	}
	return n.insert(newChild, refChild), nil
}

// validatePreInsertion implements the pre-insertion validation steps from
// the DOM spec, in order: parent kind, cycle, reference child, child kind,
// then document-specific constraints.
func (n *Node) validatePreInsertion(node, child *Node) error {
	return n.validatePreInsertionOrReplace(node, child, false)
}

func (n *Node) validatePreReplace(node, child *Node) error {
	return n.validatePreInsertionOrReplace(node, child, true)
}

func (n *Node) validatePreInsertionOrReplace(node, child *Node, isReplace bool) error {
	if !n.canHaveChildren() {
		return ErrHierarchyRequest("the operation would yield an incorrect node tree")
	}
	if n.isInclusiveAncestor(node) {
		return ErrHierarchyRequest("the new child contains the parent")
	}
	if child != nil && child.parentNode != n {
		return ErrNotFound("the reference node is not a child of this node")
	}
	if !isInsertableKind(node) {
		return ErrHierarchyRequest("the operation would yield an incorrect node tree")
	}
	if node.nodeType == TextNode && n.nodeType == DocumentNode {
		return ErrHierarchyRequest("cannot insert a text node as a direct child of a document")
	}
	if node.nodeType == DocumentTypeNode && n.nodeType != DocumentNode {
		return ErrHierarchyRequest("a doctype can only be a child of a document")
	}
	if n.nodeType == DocumentNode {
		return n.validateDocumentInsertionOrReplace(node, child, isReplace)
	}
	return nil
}

func (n *Node) canHaveChildren() bool {
	switch n.nodeType {
	case DocumentNode, DocumentFragmentNode, ElementNode:
		return true
	default:
		return false
	}
}

// isInclusiveAncestor returns true if node is this node or an ancestor of
// it. Inserting such a node would create a cycle.
func (n *Node) isInclusiveAncestor(node *Node) bool {
	if node == nil {
		return false
	}
	for cur := n; cur != nil; cur = cur.parentNode {
		if cur == node {
			return true
		}
	}
	return false
}

func isInsertableKind(node *Node) bool {
	if node == nil {
		return false
	}
	switch node.nodeType {
	case ElementNode, TextNode, CommentNode, DocumentTypeNode, DocumentFragmentNode:
		return true
	default:
		// Documents cannot be children of anything.
		return false
	}
}

// validateDocumentInsertionOrReplace enforces the single-root-element and
// single-doctype constraints for insertion under a document. When
// isReplace is true the replaced child is excluded from the counts.
func (n *Node) validateDocumentInsertionOrReplace(node, child *Node, isReplace bool) error {
	var exclude *Node
	if isReplace {
		exclude = child
	}

	switch node.nodeType {
	case DocumentFragmentNode:
		elementCount := 0
		for c := node.firstChild; c != nil; c = c.nextSibling {
			switch c.nodeType {
			case ElementNode:
				elementCount++
			case TextNode:
				return ErrHierarchyRequest("cannot insert a text node as a direct child of a document")
			}
		}
		if elementCount > 1 {
			return ErrHierarchyRequest("a document can have only one element child")
		}
		if elementCount == 1 {
			if n.hasElementChildExcluding(exclude) {
				return ErrHierarchyRequest("the document already has a document element")
			}
			if child != nil && !(isReplace && child.nodeType == ElementNode) {
				if child.nodeType == DocumentTypeNode || n.doctypeFollows(child) {
					return ErrHierarchyRequest("cannot insert an element before the doctype")
				}
			}
		}

	case ElementNode:
		if n.hasElementChildExcluding(exclude) {
			return ErrHierarchyRequest("the document already has a document element")
		}
		if child != nil && !(isReplace && child.nodeType == ElementNode) {
			if child.nodeType == DocumentTypeNode || n.doctypeFollows(child) {
				return ErrHierarchyRequest("cannot insert an element before the doctype")
			}
		}

	case DocumentTypeNode:
		if n.hasDoctypeExcluding(exclude) {
			return ErrHierarchyRequest("the document already has a doctype")
		}
		if n.hasElementChildExcluding(exclude) {
			if child == nil || n.elementPrecedesExcluding(child, exclude) {
				return ErrHierarchyRequest("cannot insert a doctype after the document element")
			}
		}
	}

	return nil
}

func (n *Node) hasElementChildExcluding(exclude *Node) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c != exclude && c.nodeType == ElementNode {
			return true
		}
	}
	return false
}

func (n *Node) hasDoctypeExcluding(exclude *Node) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if c != exclude && c.nodeType == DocumentTypeNode {
			return true
		}
	}
	return false
}

func (n *Node) doctypeFollows(child *Node) bool {
	for c := child.nextSibling; c != nil; c = c.nextSibling {
		if c.nodeType == DocumentTypeNode {
			return true
		}
	}
	return false
}

func (n *Node) elementPrecedesExcluding(child, exclude *Node) bool {
	for c := n.firstChild; c != nil && c != child; c = c.nextSibling {
		if c != exclude && c.nodeType == ElementNode {
			return true
		}
	}
	return false
}

// insert performs a validated insertion. The linked child is retained on
// behalf of the new parent; if it had another parent it is detached from
// it (releasing that parent's reference) within the same call, so the node
// is never observable under two parents.
func (n *Node) insert(newChild, refChild *Node) *Node {
	if newChild == nil {
		return nil
	}

	// A fragment is a carrier: its children move, the fragment stays.
	if newChild.nodeType == DocumentFragmentNode {
		var children []*Node
		for child := newChild.firstChild; child != nil; child = child.nextSibling {
			children = append(children, child)
		}
		prevSib := n.siblingBefore(refChild)
		for _, child := range children {
			child.retain()
			child.detachQuiet()
			n.attach(child, refChild)
		}
		if len(children) > 0 {
			n.bumpVersion()
			notifyChildListMutation(n, children, nil, prevSib, refChild)
		}
		return newChild
	}

	if newChild == refChild {
		return newChild
	}

	newChild.retain()
	if newChild.parentNode != nil {
		newChild.detachNotify()
	}

	// The bracketing siblings are read after the detach: on a move within
	// the same parent the node no longer sits in the child list, so it can
	// never be reported as its own neighbor.
	prevSib := n.siblingBefore(refChild)
	n.attach(newChild, refChild)

	n.bumpVersion()
	notifyChildListMutation(n, []*Node{newChild}, nil, prevSib, refChild)

	return newChild
}

// siblingBefore returns the node that will precede an insertion at
// refChild (nil refChild means append).
func (n *Node) siblingBefore(refChild *Node) *Node {
	if refChild != nil {
		return refChild.prevSibling
	}
	return n.lastChild
}

// attach links child under n before refChild, adopts it into n's document
// and, if n is connected, registers the whole subtree with the document
// indices in document order.
func (n *Node) attach(child, refChild *Node) {
	child.parentNode = n

	if n.nodeType == DocumentNode {
		adopt(child, (*Document)(n))
	} else if n.ownerDoc != nil && child.ownerDoc != n.ownerDoc {
		adopt(child, n.ownerDoc)
	}

	if refChild == nil {
		child.prevSibling = n.lastChild
		child.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = child
		} else {
			n.firstChild = child
		}
		n.lastChild = child
	} else {
		child.prevSibling = refChild.prevSibling
		child.nextSibling = refChild
		if refChild.prevSibling != nil {
			refChild.prevSibling.nextSibling = child
		} else {
			n.firstChild = child
		}
		refChild.prevSibling = child
	}

	if doc := n.connectedDocument(); doc != nil {
		doc.index().connectSubtree(child)
	}
}

// adopt recursively sets the owning document for a subtree.
func adopt(node *Node, doc *Document) {
	node.ownerDoc = doc
	for child := node.firstChild; child != nil; child = child.nextSibling {
		adopt(child, doc)
	}
}

// unlink splices child out of n's child list and clears its back links.
// Index deregistration must happen before the splice.
func (n *Node) unlink(child *Node) {
	if child.prevSibling != nil {
		child.prevSibling.nextSibling = child.nextSibling
	} else {
		n.firstChild = child.nextSibling
	}
	if child.nextSibling != nil {
		child.nextSibling.prevSibling = child.prevSibling
	} else {
		n.lastChild = child.prevSibling
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil
}

// detachNotify detaches this node from its current parent, delivering a
// child-list mutation record and releasing the old parent's reference.
// The caller must hold its own reference across the call.
func (n *Node) detachNotify() {
	parent := n.parentNode
	if parent == nil {
		return
	}
	prevSib := n.prevSibling
	nextSib := n.nextSibling
	if doc := n.connectedDocument(); doc != nil {
		doc.index().disconnectSubtree(n)
	}
	parent.unlink(n)
	parent.bumpVersion()
	notifyChildListMutation(parent, nil, []*Node{n}, prevSib, nextSib)
	n.release()
}

// detachQuiet is detachNotify without the mutation record, used where a
// single batched record covers the whole operation.
func (n *Node) detachQuiet() {
	parent := n.parentNode
	if parent == nil {
		return
	}
	if doc := n.connectedDocument(); doc != nil {
		doc.index().disconnectSubtree(n)
	}
	parent.unlink(n)
	n.release()
}

// RemoveChild removes a child node from this node.
// For the error-returning version, use RemoveChildWithError.
func (n *Node) RemoveChild(child *Node) *Node {
	result, _ := n.RemoveChildWithError(child)
	return result
}

// RemoveChildWithError removes a child node from this node. It returns
// NotFoundError if the node is not currently a child of this node.
//
// Removal releases the parent's reference: the returned node is only
// valid if the caller still holds a reference of its own.
func (n *Node) RemoveChildWithError(child *Node) (*Node, error) {
	if child == nil {
		return nil, ErrNotFound("the node to be removed is nil")
	}
	if child.parentNode != n {
		return nil, ErrNotFound("the node to be removed is not a child of this node")
	}

	prevSib := child.prevSibling
	nextSib := child.nextSibling

	if doc := child.connectedDocument(); doc != nil {
		doc.index().disconnectSubtree(child)
	}
	n.unlink(child)
	n.bumpVersion()
	notifyChildListMutation(n, nil, []*Node{child}, prevSib, nextSib)
	child.release()

	return child, nil
}

// ReplaceChild replaces a child node with a new node.
// For the error-returning version, use ReplaceChildWithError.
func (n *Node) ReplaceChild(newChild, oldChild *Node) *Node {
	result, _ := n.ReplaceChildWithError(newChild, oldChild)
	return result
}

// ReplaceChildWithError replaces oldChild with newChild and returns
// oldChild. Validation excludes oldChild from the document constraints, so
// replacing the document element with another element is legal.
func (n *Node) ReplaceChildWithError(newChild, oldChild *Node) (*Node, error) {
	if oldChild == nil {
		return nil, ErrNotFound("the node to be replaced is nil")
	}
	if err := n.validatePreReplace(newChild, oldChild); err != nil {
		return nil, err
	}
	if newChild == oldChild {
		return oldChild, nil
	}

	refChild := oldChild.nextSibling
	if refChild == newChild {
		refChild = newChild.nextSibling
	}

	if newChild.nodeType == DocumentFragmentNode {
		prevSib := oldChild.prevSibling
		nextSib := oldChild.nextSibling
		var children []*Node
		for child := newChild.firstChild; child != nil; child = child.nextSibling {
			children = append(children, child)
		}
		if doc := oldChild.connectedDocument(); doc != nil {
			doc.index().disconnectSubtree(oldChild)
		}
		n.unlink(oldChild)
		for _, child := range children {
			child.retain()
			child.detachQuiet()
			n.attach(child, refChild)
		}
		n.bumpVersion()
		notifyChildListMutation(n, children, []*Node{oldChild}, prevSib, nextSib)
		oldChild.release()
		return oldChild, nil
	}

	newChild.retain()
	newChild.detachQuiet()

	// Brackets are read after the detach so a newChild moving from beside
	// oldChild is not reported as a neighbor of the mutation site.
	prevSib := oldChild.prevSibling
	nextSib := oldChild.nextSibling

	if doc := oldChild.connectedDocument(); doc != nil {
		doc.index().disconnectSubtree(oldChild)
	}
	n.unlink(oldChild)
	n.attach(newChild, refChild)

	n.bumpVersion()
	notifyChildListMutation(n, []*Node{newChild}, []*Node{oldChild}, prevSib, nextSib)
	oldChild.release()

	return oldChild, nil
}

// bumpVersion increments the owning document's mutation counter.
func (n *Node) bumpVersion() {
	if n.ownerDoc != nil {
		n.ownerDoc.asNode().docData.version++
	} else if n.nodeType == DocumentNode {
		n.docData.version++
	}
}

// CloneNode creates a copy of this node, detached and owned by the caller.
// If deep is true, all descendants are cloned as well.
func (n *Node) CloneNode(deep bool) *Node {
	clone := n.shallowClone()
	if deep {
		for child := n.firstChild; child != nil; child = child.nextSibling {
			childClone := child.CloneNode(true)
			clone.AppendChild(childClone)
			// The clone's tree now owns the child; drop the creator ref.
			childClone.release()
		}
	}
	return clone
}

func (n *Node) shallowClone() *Node {
	clone := newNode(n.nodeType, n.nodeName, n.ownerDoc)

	switch n.nodeType {
	case ElementNode:
		ed := n.elementData
		clone.elementData = &elementData{
			localName: ed.localName,
			attrs:     append([]Attr(nil), ed.attrs...),
			id:        ed.id,
			classes:   append([]string(nil), ed.classes...),
			bloom:     ed.bloom,
		}
	case TextNode, CommentNode:
		if n.charData != nil {
			data := *n.charData
			clone.charData = &data
		}
	case DocumentTypeNode:
		clone.doctypeData = &doctypeData{name: n.doctypeData.name}
	case DocumentNode:
		clone.docData = &documentData{}
		clone.ownerDoc = (*Document)(clone)
		clone.docData.index = newDocIndex((*Document)(clone))
	}

	return clone
}

// Normalize merges adjacent text nodes and removes empty text nodes in the
// subtree rooted at this node.
func (n *Node) Normalize() {
	var doomed []*Node

	for child := n.firstChild; child != nil; {
		next := child.nextSibling

		if child.nodeType == TextNode {
			if child.NodeValue() == "" {
				doomed = append(doomed, child)
			} else {
				for next != nil && next.nodeType == TextNode {
					child.setCharacterData(child.NodeValue() + next.NodeValue())
					doomed = append(doomed, next)
					next = next.nextSibling
				}
			}
		} else if child.nodeType == ElementNode {
			child.Normalize()
		}

		child = next
	}

	for _, node := range doomed {
		n.RemoveChild(node)
	}
}

// setCharacterData updates the data of a text or comment node.
func (n *Node) setCharacterData(value string) {
	var oldValue string
	if n.charData != nil {
		oldValue = *n.charData
	}
	n.charData = &value
	n.bumpVersion()
	notifyCharacterDataMutation(n, oldValue)
}
