package dom

import "strings"

// Document is the tree root and index owner. Nodes created through a
// document are detached and owned by the creator until attached.
type Document Node

// NewDocument creates a new empty Document. The caller owns the returned
// reference; releasing it tears down the whole tree.
func NewDocument() *Document {
	node := newNode(DocumentNode, "#document", nil)
	doc := (*Document)(node)
	node.ownerDoc = doc
	node.docData = &documentData{index: newDocIndex(doc)}
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

func (d *Document) asNode() *Node {
	return (*Node)(d)
}

func (d *Document) index() *docIndex {
	return d.asNode().docData.index
}

// Version returns the document's mutation counter. It increases on every
// structural or attribute mutation and can be used to invalidate any
// externally cached derived state.
func (d *Document) Version() uint64 {
	return d.asNode().docData.version
}

// DocumentElement returns the document's single element child, or nil.
func (d *Document) DocumentElement() *Element {
	for child := d.asNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == ElementNode {
			return (*Element)(child)
		}
	}
	return nil
}

// Doctype returns the DocumentType child, or nil.
func (d *Document) Doctype() *Node {
	for child := d.asNode().firstChild; child != nil; child = child.nextSibling {
		if child.nodeType == DocumentTypeNode {
			return child
		}
	}
	return nil
}

// CreateElement creates a detached element with the given tag name. Tag
// names are stored lowercased; NodeName reports the uppercased form.
func (d *Document) CreateElement(tagName string) *Element {
	local := strings.ToLower(tagName)
	node := newNode(ElementNode, strings.ToUpper(tagName), d)
	node.elementData = &elementData{localName: local}
	return (*Element)(node)
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	node := newNode(TextNode, "#text", d)
	node.charData = &data
	return node
}

// CreateComment creates a detached comment node.
func (d *Document) CreateComment(data string) *Node {
	node := newNode(CommentNode, "#comment", d)
	node.charData = &data
	return node
}

// CreateDocumentFragment creates an empty document fragment. Inserting a
// fragment moves its children; the fragment itself is never linked.
func (d *Document) CreateDocumentFragment() *Node {
	return newNode(DocumentFragmentNode, "#document-fragment", d)
}

// CreateDocumentType creates a detached doctype node.
func (d *Document) CreateDocumentType(name string) *Node {
	node := newNode(DocumentTypeNode, name, d)
	node.doctypeData = &doctypeData{name: name}
	return node
}

// GetElementById returns the connected element bearing the given id, or
// nil. When duplicate ids coexist among connected elements, the first in
// document order wins. Point lookup via the id index; an empty id never
// matches.
func (d *Document) GetElementById(id string) *Element {
	if id == "" {
		return nil
	}
	return d.index().lookupID(id)
}

// GetElementsByTagName returns a live collection of the connected
// elements with the given tag name, in document order. The collection is
// backed by the persistent tag-index entry: requesting a tag before any
// matching element exists still yields a collection that grows as
// elements are attached later.
func (d *Document) GetElementsByTagName(tagName string) *HTMLCollection {
	tag := strings.ToLower(tagName)
	if tag == "*" {
		return newFilterCollection(d.asNode(), func(*Element) bool { return true })
	}
	return newTagCollection(d.index().tagEntryFor(tag))
}

// GetElementsByClassName returns a live collection of the connected
// elements carrying all the given space-separated class names. The view
// re-walks the tree on access, pruning candidates with each element's
// class bloom summary before exact comparison.
func (d *Document) GetElementsByClassName(classNames string) *HTMLCollection {
	classes := strings.Fields(classNames)
	return newFilterCollection(d.asNode(), func(el *Element) bool {
		for _, class := range classes {
			if !el.HasClass(class) {
				return false
			}
		}
		return len(classes) > 0
	})
}
